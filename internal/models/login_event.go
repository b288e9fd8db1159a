package models

import (
	"time"

	"gorm.io/datatypes"
)

type LoginEvent struct {
	BaseModel

	UserID    uint      `gorm:"not null;index"`
	Timestamp time.Time `gorm:"not null"`
	IP        string
	Metadata  datatypes.JSON `gorm:"type:jsonb"` // user agent, client hints, etc.

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
