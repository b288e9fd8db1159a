package models

// Task has no owner column of its own. Its owning subject is always the
// owner of its project, never an assignee.
type Task struct {
	BaseModel

	ProjectID uint   `gorm:"not null;index"`
	Title     string `gorm:"not null"`
	Done      bool   `gorm:"not null;default:false"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
}
