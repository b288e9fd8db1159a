package models

import "time"

// ProjectMembership exists only while its project does. It is owned by the
// project, not by the member: erasing the project owner removes the row
// even when the member is a different, untouched subject.
type ProjectMembership struct {
	ProjectID uint   `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint   `gorm:"primaryKey;autoIncrement:false"`
	Role      string `gorm:"not null"`
	CreatedAt time.Time

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
}
