package models

type Project struct {
	BaseModel

	OwnerID uint   `gorm:"not null;index"`
	Title   string `gorm:"not null"`

	// Relationships
	Owner              User                `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
	ProjectMemberships []ProjectMembership `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
	Tasks              []Task              `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
}
