package sar

import (
	"errors"
	"fmt"

	"github.com/datashield-dev/datashield/internal/models"
	"github.com/datashield-dev/datashield/internal/policy"
	"gorm.io/gorm"
)

// ErrForbidden is returned by DeleteSubject when the requester may not
// erase the target subject. No rows are touched in that case.
var ErrForbidden = errors.New("sar: forbidden")

// CanDelete is the coarse gate on the erasure operation: a subject may
// erase themselves, admins and DPOs may erase anyone. This is deliberately
// independent of the per-category rule evaluation.
func CanDelete(ctx policy.Context, subjectID uint) bool {
	return ctx.UserID == subjectID || ctx.Role == policy.RoleAdmin || ctx.Role == policy.RoleDPO
}

// DeleteSubject erases every row owned directly or transitively by the
// subject, and nothing else, as a single transaction. Children go before
// their parents and the user row goes last, so referential integrity holds
// on every intermediate state even without ON DELETE behavior in the
// schema. Erasing a subject that owns nothing removes only the user row;
// erasing an already-absent subject succeeds as a no-op.
func DeleteSubject(conn *gorm.DB, subjectID uint, ctx policy.Context) error {
	if !CanDelete(ctx, subjectID) {
		return fmt.Errorf("user %d (role=%s) may not erase subject %d: %w",
			ctx.UserID, ctx.Role, subjectID, ErrForbidden)
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", subjectID).Delete(&models.ProfileNote{}).Error; err != nil {
			return fmt.Errorf("delete profile notes of user %d: %w", subjectID, err)
		}

		if err := tx.Where("user_id = ?", subjectID).Delete(&models.LoginEvent{}).Error; err != nil {
			return fmt.Errorf("delete login events of user %d: %w", subjectID, err)
		}

		var projectIDs []uint

		if err := tx.Model(&models.Project{}).Where("owner_id = ?", subjectID).Pluck("id", &projectIDs).Error; err != nil {
			return fmt.Errorf("list projects of user %d: %w", subjectID, err)
		}

		if len(projectIDs) > 0 {
			// Membership rows belong to the project, so rows where another
			// user is the member are removed here as well.
			if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.ProjectMembership{}).Error; err != nil {
				return fmt.Errorf("delete memberships of user %d: %w", subjectID, err)
			}

			if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.Task{}).Error; err != nil {
				return fmt.Errorf("delete tasks of user %d: %w", subjectID, err)
			}

			if err := tx.Where("id IN ?", projectIDs).Delete(&models.Project{}).Error; err != nil {
				return fmt.Errorf("delete projects of user %d: %w", subjectID, err)
			}
		}

		if err := tx.Where("id = ?", subjectID).Delete(&models.User{}).Error; err != nil {
			return fmt.Errorf("delete user %d: %w", subjectID, err)
		}

		return nil
	})
}
