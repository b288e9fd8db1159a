package models

import "time"

// BaseModel is gorm.Model without the soft-delete column. Subject erasure
// must remove rows for real, so no table in this schema keeps a DeletedAt.
type BaseModel struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
