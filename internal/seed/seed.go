package seed

import (
	"errors"
	"fmt"
	"time"

	"github.com/datashield-dev/datashield/internal/models"
	"github.com/datashield-dev/datashield/internal/policy"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Fixed ids for the demo walkthrough: subject 42 owns project 123, user 99
// is a member of it with data of their own, user 1 is the admin.
const (
	DemoOwnerID   uint = 42
	DemoMemberID  uint = 99
	DemoAdminID   uint = 1
	DemoProjectID uint = 123
)

// PopulateDemoData seeds the walkthrough dataset. Idempotent: rows that
// already exist are left alone, counts are topped up rather than appended
// to, so it is safe to run on every boot.
func PopulateDemoData(conn *gorm.DB) error {
	if err := ensureUser(conn, DemoOwnerID, fmt.Sprintf("owner%d@example.com", DemoOwnerID), fmt.Sprintf("Owner %d", DemoOwnerID), policy.RoleUser); err != nil {
		return err
	}

	if err := ensureUser(conn, DemoMemberID, "member@example.com", "Member User", policy.RoleUser); err != nil {
		return err
	}

	if err := ensureUser(conn, DemoAdminID, "admin@example.com", "Admin User", policy.RoleAdmin); err != nil {
		return err
	}

	projectID, err := ensureProject(conn, DemoOwnerID)

	if err != nil {
		return err
	}

	if err := ensureMembership(conn, projectID, DemoMemberID); err != nil {
		return err
	}

	if err := topUpTasks(conn, projectID, 10); err != nil {
		return err
	}

	if err := topUpNotes(conn, DemoOwnerID, 3); err != nil {
		return err
	}

	if err := topUpLoginEvents(conn, DemoOwnerID, 5); err != nil {
		return err
	}

	// User 99 gets rows of their own, so erasing 42 has a witness that
	// other subjects' data survives.
	if err := topUpNotes(conn, DemoMemberID, 1); err != nil {
		return err
	}

	return topUpLoginEvents(conn, DemoMemberID, 1)
}

func ensureUser(conn *gorm.DB, id uint, email, name, role string) error {
	var existing models.User

	err := conn.Where("id = ?", id).First(&existing).Error

	if err == nil {
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check user %d: %w", id, err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)

	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	user := models.User{
		BaseModel:    models.BaseModel{ID: id},
		Email:        email,
		Name:         name,
		PasswordHash: string(passwordHash),
		Role:         role,
	}

	if err := conn.Create(&user).Error; err != nil {
		return fmt.Errorf("create user %d: %w", id, err)
	}

	return nil
}

func ensureProject(conn *gorm.DB, ownerID uint) (uint, error) {
	var existing models.Project

	err := conn.Where("owner_id = ?", ownerID).First(&existing).Error

	if err == nil {
		return existing.ID, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("check project of user %d: %w", ownerID, err)
	}

	project := models.Project{
		BaseModel: models.BaseModel{ID: DemoProjectID},
		OwnerID:   ownerID,
		Title:     "Demo Project",
	}

	if err := conn.Create(&project).Error; err != nil {
		return 0, fmt.Errorf("create demo project: %w", err)
	}

	return project.ID, nil
}

func ensureMembership(conn *gorm.DB, projectID, userID uint) error {
	var count int64

	if err := conn.Model(&models.ProjectMembership{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check membership: %w", err)
	}

	if count > 0 {
		return nil
	}

	membership := models.ProjectMembership{
		ProjectID: projectID,
		UserID:    userID,
		Role:      "editor",
	}

	if err := conn.Create(&membership).Error; err != nil {
		return fmt.Errorf("create membership: %w", err)
	}

	return nil
}

func topUpTasks(conn *gorm.DB, projectID uint, want int64) error {
	var have int64

	if err := conn.Model(&models.Task{}).Where("project_id = ?", projectID).Count(&have).Error; err != nil {
		return fmt.Errorf("count tasks: %w", err)
	}

	for i := have; i < want; i++ {
		task := models.Task{
			ProjectID: projectID,
			Title:     fmt.Sprintf("Sample Task #%d", i+1),
		}

		if err := conn.Create(&task).Error; err != nil {
			return fmt.Errorf("create task: %w", err)
		}
	}

	return nil
}

func topUpNotes(conn *gorm.DB, userID uint, want int64) error {
	var have int64

	if err := conn.Model(&models.ProfileNote{}).Where("user_id = ?", userID).Count(&have).Error; err != nil {
		return fmt.Errorf("count notes: %w", err)
	}

	for i := have; i < want; i++ {
		note := models.ProfileNote{
			UserID: userID,
			Note:   fmt.Sprintf("Note #%d for user %d", i+1, userID),
		}

		if err := conn.Create(&note).Error; err != nil {
			return fmt.Errorf("create note: %w", err)
		}
	}

	return nil
}

func topUpLoginEvents(conn *gorm.DB, userID uint, want int64) error {
	var have int64

	if err := conn.Model(&models.LoginEvent{}).Where("user_id = ?", userID).Count(&have).Error; err != nil {
		return fmt.Errorf("count login events: %w", err)
	}

	for i := have; i < want; i++ {
		event := models.LoginEvent{
			UserID:    userID,
			Timestamp: time.Now().UTC(),
			IP:        fmt.Sprintf("192.0.2.%d", i%255),
			Metadata:  datatypes.JSON([]byte(`{"user_agent":"seed"}`)),
		}

		if err := conn.Create(&event).Error; err != nil {
			return fmt.Errorf("create login event: %w", err)
		}
	}

	return nil
}
