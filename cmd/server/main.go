package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/juicelab/juicebox-server/internal/api"
	cfgpkg "github.com/juicelab/juicebox-server/internal/config"
	"github.com/juicelab/juicebox-server/internal/exchange"
	"github.com/juicelab/juicebox-server/internal/health"
	"github.com/juicelab/juicebox-server/internal/httpserver"
	"github.com/juicelab/juicebox-server/internal/logging"
	"github.com/juicelab/juicebox-server/internal/metrics"
	"github.com/juicelab/juicebox-server/internal/protocol/juice"
	"github.com/juicelab/juicebox-server/internal/schedule"
	"github.com/juicelab/juicebox-server/internal/session"
	"github.com/juicelab/juicebox-server/internal/storage/csvlog"
	"github.com/juicelab/juicebox-server/internal/storage/gormrepo"
	"github.com/juicelab/juicebox-server/internal/udpserver"
)

func main() {
	// 1) 加载配置
	cfg, err := cfgpkg.Load("")
	if err != nil {
		panic(err)
	}

	// 2) 初始化日志
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	log := zap.L()

	// 3) 充电时段：必须在绑定端口前解析，非法格式直接退出
	window := schedule.Default()
	if cfg.Charging.Schedule != "" {
		window, err = schedule.Parse(cfg.Charging.Schedule)
		if err != nil {
			log.Fatal("invalid charging schedule",
				zap.String("schedule", cfg.Charging.Schedule), zap.Error(err))
		}
	}

	// 4) 指标注册与处理器
	reg := metrics.NewRegistry()
	appm := metrics.NewAppMetrics(reg)
	metricsHandler := metrics.Handler(reg)

	// 5) 协议字段表与解析器
	table := juice.DefaultTable()
	if cfg.Protocol.FieldTablePath != "" {
		table, err = juice.LoadTable(cfg.Protocol.FieldTablePath)
		if err != nil {
			log.Fatal("load field table", zap.String("path", cfg.Protocol.FieldTablePath), zap.Error(err))
		}
	}
	parser := juice.NewParser(table, log)

	// 6) 健康检查聚合器：检查器随可选依赖初始化逐个注册
	agg := health.NewAggregator()

	// 7) 设备在线状态
	var sess session.Manager
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatal("redis ping", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		cancel()
		defer func() { _ = rdb.Close() }()
		sess = session.NewRedisManager(rdb, cfg.Session.Timeout)
		agg.AddChecker(health.NewRedisChecker(rdb))
		log.Info("session store: redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		sess = session.New(cfg.Session.Timeout)
		log.Info("session store: memory")
	}

	// 8) 遥测落盘（均可选）
	opts := exchange.Options{Sess: sess}
	if cfg.Telemetry.CSVPath != "" {
		sink, err := csvlog.New(cfg.Telemetry.CSVPath)
		if err != nil {
			log.Fatal("open telemetry csv", zap.String("path", cfg.Telemetry.CSVPath), zap.Error(err))
		}
		opts.Sink = sink
		log.Info("telemetry csv enabled", zap.String("path", cfg.Telemetry.CSVPath))
	}
	if cfg.Database.Enabled {
		repo, err := gormrepo.Open(cfg.Database)
		if err != nil {
			log.Fatal("open database", zap.Error(err))
		}
		defer func() { _ = repo.Close() }()
		opts.Repo = repo
		agg.AddChecker(health.NewDatabaseChecker(repo))
		log.Info("telemetry archive enabled")
	}

	// 9) HTTP 管理面
	readyFn := func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return agg.Ready(ctx)
	}
	httpSrv := httpserver.New(cfg.HTTP, cfg.Metrics.Path, metricsHandler, readyFn)
	httpSrv.Register(func(r *gin.Engine) {
		api.RegisterReadOnlyRoutes(r, sess, log)
		health.RegisterHTTPRoutes(r, agg)
	})

	// 10) UDP 网关 + 交换状态机
	udpSrv := udpserver.New(cfg.UDP)
	agg.AddChecker(health.NewUDPChecker(udpSrv))
	machine := exchange.New(parser, window, cfg.Charging.Current, udpSrv, log, appm, opts)
	udpSrv.SetHandler(machine.Handle)
	udpSrv.SetMetricsCallbacks(
		func(n int) {
			appm.UDPDatagrams.Inc()
			appm.UDPBytesReceived.Add(float64(n))
		},
		func() { appm.UDPDropped.Inc() },
	)

	// 并行启动
	go func() {
		if err := httpSrv.Start(); err != nil {
			log.Error("http server error", zap.Error(err))
		}
	}()
	if err := udpSrv.Start(); err != nil {
		log.Fatal("udp server start error", zap.Error(err))
	}
	log.Info("udp listening", zap.String("addr", cfg.UDP.Addr),
		zap.Int("targetCurrent", cfg.Charging.Current),
		zap.String("schedule", cfg.Charging.Schedule))

	// 信号处理，优雅关闭
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = udpSrv.Shutdown(ctx)
	_ = httpSrv.Shutdown(ctx)
}
