package models

type ProfileNote struct {
	BaseModel

	UserID uint   `gorm:"not null;index"`
	Note   string `gorm:"not null"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
