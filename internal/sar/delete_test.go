package sar

import (
	"testing"

	"github.com/datashield-dev/datashield/internal/models"
	"github.com/datashield-dev/datashield/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteSubjectForbidden(t *testing.T) {
	conn := seededDB(t)

	stranger := policy.Context{UserID: 7, Role: policy.RoleUser, Purpose: policy.PurposeSARAccess}

	err := DeleteSubject(conn, 42, stranger)
	assert.ErrorIs(t, err, ErrForbidden)

	// No mutation happened.
	assert.EqualValues(t, 1, countRows(t, conn, &models.User{}, "id = ?", 42))
	assert.EqualValues(t, 10, countRows(t, conn, &models.Task{}, "project_id = ?", 123))
	assert.EqualValues(t, 3, countRows(t, conn, &models.ProfileNote{}, "user_id = ?", 42))
	assert.EqualValues(t, 5, countRows(t, conn, &models.LoginEvent{}, "user_id = ?", 42))
}

func TestDeleteSubjectCascade(t *testing.T) {
	conn := seededDB(t)

	self := policy.Context{UserID: 42, Role: policy.RoleUser, Purpose: policy.PurposeSARAccess}
	require.NoError(t, DeleteSubject(conn, 42, self))

	assert.EqualValues(t, 0, countRows(t, conn, &models.User{}, "id = ?", 42))
	assert.EqualValues(t, 0, countRows(t, conn, &models.Project{}, "owner_id = ?", 42))
	assert.EqualValues(t, 0, countRows(t, conn, &models.Task{}, "project_id = ?", 123))
	assert.EqualValues(t, 0, countRows(t, conn, &models.ProfileNote{}, "user_id = ?", 42))
	assert.EqualValues(t, 0, countRows(t, conn, &models.LoginEvent{}, "user_id = ?", 42))

	// The membership row where 99 was a member of 42's project is gone: it
	// belonged to the project, not to the member.
	assert.EqualValues(t, 0, countRows(t, conn, &models.ProjectMembership{}, "user_id = ?", 99))
}

func TestDeleteSubjectLeavesOtherSubjectsUntouched(t *testing.T) {
	conn := seededDB(t)

	self := policy.Context{UserID: 42, Role: policy.RoleUser, Purpose: policy.PurposeSARAccess}
	require.NoError(t, DeleteSubject(conn, 42, self))

	assert.EqualValues(t, 1, countRows(t, conn, &models.User{}, "id = ?", 99))
	assert.EqualValues(t, 1, countRows(t, conn, &models.ProfileNote{}, "user_id = ?", 99))
	assert.EqualValues(t, 1, countRows(t, conn, &models.LoginEvent{}, "user_id = ?", 99))
	assert.EqualValues(t, 1, countRows(t, conn, &models.User{}, "id = ?", 1))
}

func TestDeleteSubjectByAdminAndDPO(t *testing.T) {
	conn := seededDB(t)

	admin := policy.Context{UserID: 1, Role: policy.RoleAdmin, Purpose: policy.PurposeSARAccess}
	require.NoError(t, DeleteSubject(conn, 42, admin))

	dpo := policy.Context{UserID: 1, Role: policy.RoleDPO, Purpose: policy.PurposeSARAccess}
	require.NoError(t, DeleteSubject(conn, 99, dpo))

	assert.EqualValues(t, 0, countRows(t, conn, &models.User{}, "id IN ?", []uint{42, 99}))
}

func TestDeleteSubjectIdempotent(t *testing.T) {
	conn := seededDB(t)

	self := policy.Context{UserID: 42, Role: policy.RoleUser, Purpose: policy.PurposeSARAccess}
	require.NoError(t, DeleteSubject(conn, 42, self))

	// The second pass finds no user row and no owned projects; it must
	// succeed as a no-op, not error on the empty id set.
	require.NoError(t, DeleteSubject(conn, 42, self))
}

func TestDeleteSubjectWithoutOwnedData(t *testing.T) {
	conn := seededDB(t)

	self := policy.Context{UserID: 99, Role: policy.RoleUser, Purpose: policy.PurposeSARAccess}
	require.NoError(t, DeleteSubject(conn, 99, self))

	assert.EqualValues(t, 0, countRows(t, conn, &models.User{}, "id = ?", 99))

	// 42's project and tasks are untouched. The membership row naming 99
	// also stays: it belongs to 42's project, and 99 does not own it.
	assert.EqualValues(t, 1, countRows(t, conn, &models.Project{}, "owner_id = ?", 42))
	assert.EqualValues(t, 10, countRows(t, conn, &models.Task{}, "project_id = ?", 123))
	assert.EqualValues(t, 1, countRows(t, conn, &models.ProjectMembership{}, "user_id = ?", 99))
}

func TestDeleteSubjectRollsBackOnFailure(t *testing.T) {
	conn := seededDB(t)

	// Sabotage the cascade midway: notes and events are deleted before
	// tasks, so a missing tasks table forces a rollback after those
	// statements ran.
	require.NoError(t, conn.Migrator().DropTable(&models.Task{}))

	self := policy.Context{UserID: 42, Role: policy.RoleUser, Purpose: policy.PurposeSARAccess}
	err := DeleteSubject(conn, 42, self)
	require.Error(t, err)

	assert.EqualValues(t, 3, countRows(t, conn, &models.ProfileNote{}, "user_id = ?", 42))
	assert.EqualValues(t, 5, countRows(t, conn, &models.LoginEvent{}, "user_id = ?", 42))
	assert.EqualValues(t, 1, countRows(t, conn, &models.User{}, "id = ?", 42))
}

func TestCanDelete(t *testing.T) {
	assert.True(t, CanDelete(policy.Context{UserID: 42, Role: policy.RoleUser}, 42))
	assert.True(t, CanDelete(policy.Context{UserID: 1, Role: policy.RoleAdmin}, 42))
	assert.True(t, CanDelete(policy.Context{UserID: 2, Role: policy.RoleDPO}, 42))
	assert.False(t, CanDelete(policy.Context{UserID: 7, Role: policy.RoleUser}, 42))
}
