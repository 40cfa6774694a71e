package gormrepo

import (
	"context"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	cfgpkg "github.com/juicelab/juicebox-server/internal/config"
	"github.com/juicelab/juicebox-server/internal/protocol/juice"
	"github.com/juicelab/juicebox-server/internal/storage/models"
)

// Repository 基于 GORM 的遥测归档。可选组件：服务不连库也完全可用，
// CSV 落盘与它互不依赖。
type Repository struct {
	db *gorm.DB
}

// Open 建立 PostgreSQL 连接并建表
func Open(cfg cfgpkg.DatabaseConfig) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.AutoMigrate(&models.Device{}, &models.Telemetry{}); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

// Close 关闭底层连接池
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping 健康检查
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// EnsureDevice 若设备不存在则建档，存在则刷新 last_seen_at 与固件版本
func (r *Repository) EnsureDevice(ctx context.Context, deviceID string, firmwareVer *string, at time.Time) (int64, error) {
	record := &models.Device{DeviceID: deviceID, FirmwareVer: firmwareVer, LastSeenAt: &at}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_seen_at", "updated_at"}),
		}).
		Create(record).Error
	if err != nil {
		return 0, err
	}
	if record.ID != 0 {
		return record.ID, nil
	}
	// 冲突分支下主键可能未回填，再查一次
	var dev models.Device
	if err := r.db.WithContext(ctx).Where("device_id = ?", deviceID).First(&dev).Error; err != nil {
		return 0, err
	}
	return dev.ID, nil
}

// RecordTelemetry 把一条被接受的数据报文落库
func (r *Repository) RecordTelemetry(ctx context.Context, m *juice.DeviceMessage, at time.Time) error {
	devID, err := r.EnsureDevice(ctx, m.DeviceID, m.Version, at)
	if err != nil {
		return err
	}

	row := &models.Telemetry{
		DeviceID:    devID,
		Status:      m.Status,
		Current:     m.Current,
		Voltage:     m.Voltage,
		Temperature: m.Temperature,
		Frequency:   m.Frequency,
		ReportedAt:  at,
	}
	if m.Lifetime != nil {
		v := int64(*m.Lifetime)
		row.Lifetime = &v
	}
	if m.CurrentAvailable != nil {
		v := int32(*m.CurrentAvailable)
		row.CurrentAvailable = &v
	}
	return r.db.WithContext(ctx).Create(row).Error
}
