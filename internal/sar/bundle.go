package sar

import (
	"fmt"

	"github.com/datashield-dev/datashield/internal/models"
	"gorm.io/gorm"
)

// Bundle is every row owned, directly or through a project, by one subject.
// This is the raw traversal result; redaction is layered on top of it per
// the caller's context.
type Bundle struct {
	Users        []models.User              `json:"users"`
	Projects     []models.Project           `json:"projects"`
	Tasks        []models.Task              `json:"tasks"`
	Memberships  []models.ProjectMembership `json:"project_membership"`
	ProfileNotes []models.ProfileNote       `json:"profile_notes"`
	LoginEvents  []models.LoginEvent        `json:"login_events"`
}

// FetchBundle walks the ownership graph for one subject: the user row, the
// projects they own, the tasks and memberships of those projects, and the
// rows keyed directly by user_id. Rows belonging to any other subject are
// never selected, including memberships held by other users in the
// subject's projects (those belong to the project, so they are included).
func FetchBundle(conn *gorm.DB, subjectID uint) (Bundle, error) {
	var bundle Bundle

	if err := conn.Where("id = ?", subjectID).Find(&bundle.Users).Error; err != nil {
		return Bundle{}, fmt.Errorf("fetch user %d: %w", subjectID, err)
	}

	if err := conn.Where("owner_id = ?", subjectID).Find(&bundle.Projects).Error; err != nil {
		return Bundle{}, fmt.Errorf("fetch projects of user %d: %w", subjectID, err)
	}

	projectIDs := make([]uint, 0, len(bundle.Projects))

	for _, project := range bundle.Projects {
		projectIDs = append(projectIDs, project.ID)
	}

	// Never issue the IN query with an empty id list.
	if len(projectIDs) > 0 {
		if err := conn.Where("project_id IN ?", projectIDs).Find(&bundle.Tasks).Error; err != nil {
			return Bundle{}, fmt.Errorf("fetch tasks of user %d: %w", subjectID, err)
		}

		if err := conn.Where("project_id IN ?", projectIDs).Find(&bundle.Memberships).Error; err != nil {
			return Bundle{}, fmt.Errorf("fetch memberships of user %d: %w", subjectID, err)
		}
	}

	if err := conn.Where("user_id = ?", subjectID).Find(&bundle.ProfileNotes).Error; err != nil {
		return Bundle{}, fmt.Errorf("fetch profile notes of user %d: %w", subjectID, err)
	}

	if err := conn.Where("user_id = ?", subjectID).Find(&bundle.LoginEvents).Error; err != nil {
		return Bundle{}, fmt.Errorf("fetch login events of user %d: %w", subjectID, err)
	}

	return bundle, nil
}
