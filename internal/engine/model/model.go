package model

import "time"

// BaseModel 各 t_ 表嵌入的公共字段
type BaseModel struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
