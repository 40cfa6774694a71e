package models

import (
	"time"
)

// 注意：不使用 gorm.Model，显式声明每个字段，避免隐式 DeletedAt

// Device 映射 devices 表
type Device struct {
	// 主键
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// 报文携带的设备标识（纯数字串，原样存储）
	DeviceID string `gorm:"column:device_id;type:text;not null;uniqueIndex"`
	// 固件版本，可空（并非每条报文都带 v 字段）
	FirmwareVer *string `gorm:"column:firmware_ver;type:text"`
	// 最近一次上报
	LastSeenAt *time.Time `gorm:"column:last_seen_at"`
	// 审计字段
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Device) TableName() string { return "devices" }

// Telemetry 映射 telemetry 表（每条被接受的数据报文一行）
type Telemetry struct {
	ID       int64 `gorm:"column:id;primaryKey;autoIncrement"`
	DeviceID int64 `gorm:"column:device_id;not null;index:idx_telemetry_device_time,priority:1"`
	// 设备侧枚举字符串（unplugged/plugged-in/charging/...）
	Status *string `gorm:"column:status;type:text"`
	// 字段表缩放后的读数
	Current     float64  `gorm:"column:current;not null;default:0"`
	Voltage     *float64 `gorm:"column:voltage"`
	Temperature *float64 `gorm:"column:temperature"`
	Frequency   *float64 `gorm:"column:frequency"`
	Lifetime    *int64   `gorm:"column:lifetime"`
	// 设备上报的可用电流（C 字段）
	CurrentAvailable *int32 `gorm:"column:current_available"`
	// 上报时刻
	ReportedAt time.Time `gorm:"column:reported_at;not null;index:idx_telemetry_device_time,priority:2"`
}

func (Telemetry) TableName() string { return "telemetry" }
