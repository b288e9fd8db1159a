package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserPolicySelf(t *testing.T) {
	rules := []Rule{{Purpose: PurposeSARAccess, Allow: []string{KindSelf}}}
	p := UserPolicy{UserID: 42, Rules: rules}

	assert.True(t, p.Check(Context{UserID: 42, Role: RoleUser, Purpose: PurposeSARAccess}))
	assert.False(t, p.Check(Context{UserID: 99, Role: RoleUser, Purpose: PurposeSARAccess}))
}

func TestUserPolicyOwnerAliasesSelf(t *testing.T) {
	rules := []Rule{{Purpose: PurposeSARAccess, Allow: []string{KindOwner}}}
	p := UserPolicy{UserID: 42, Rules: rules}

	assert.True(t, p.Check(Context{UserID: 42, Role: RoleUser, Purpose: PurposeSARAccess}))
}

func TestProjectPolicyOwner(t *testing.T) {
	rules := []Rule{{Purpose: PurposeSARAccess, Allow: []string{KindOwner, KindAdmin, KindDPO}}}
	p := ProjectPolicy{OwnerID: 42, Rules: rules}

	assert.True(t, p.Check(Context{UserID: 42, Role: RoleUser, Purpose: PurposeSARAccess}))
	assert.True(t, p.Check(Context{UserID: 1, Role: RoleAdmin, Purpose: PurposeSARAccess}))
	assert.True(t, p.Check(Context{UserID: 2, Role: RoleDPO, Purpose: PurposeSARAccess}))
	assert.False(t, p.Check(Context{UserID: 7, Role: RoleUser, Purpose: PurposeSARAccess}))
}

func TestTaskPolicyOwnedThroughProject(t *testing.T) {
	rules := []Rule{{Purpose: PurposeTaskView, Allow: []string{KindProjectOwner}}}
	p := TaskPolicy{ProjectID: 123, ProjectOwnerID: 42, Rules: rules}

	// The project owner sees the task; an assignee or member id does not
	// make the task "self"-owned.
	assert.True(t, p.Check(Context{UserID: 42, Role: RoleUser, Purpose: PurposeTaskView}))
	assert.False(t, p.Check(Context{UserID: 99, Role: RoleUser, Purpose: PurposeTaskView}))
}

func TestFirstMatchingPurposeDecides(t *testing.T) {
	// The second rule would allow the subject, but the first rule with the
	// same purpose decides and denies. Later rules are never reached.
	rules := []Rule{
		{Purpose: PurposeTaskView, Allow: []string{KindAdmin}},
		{Purpose: PurposeTaskView, Allow: []string{KindProjectOwner}},
	}
	p := TaskPolicy{ProjectID: 123, ProjectOwnerID: 42, Rules: rules}

	assert.False(t, p.Check(Context{UserID: 42, Role: RoleUser, Purpose: PurposeTaskView}))
	assert.True(t, p.Check(Context{UserID: 42, Role: RoleAdmin, Purpose: PurposeTaskView}))
}

func TestNonMatchingPurposeSkipped(t *testing.T) {
	rules := []Rule{
		{Purpose: PurposeTaskEdit, Allow: []string{KindAdmin}},
		{Purpose: PurposeTaskView, Allow: []string{KindProjectOwner}},
	}
	p := TaskPolicy{ProjectID: 123, ProjectOwnerID: 42, Rules: rules}

	// The edit rule does not match a view request; the view rule does.
	assert.True(t, p.Check(Context{UserID: 42, Role: RoleUser, Purpose: PurposeTaskView}))
}

func TestNoMatchingPurposeDenies(t *testing.T) {
	rules := []Rule{{Purpose: PurposeTaskEdit, Allow: []string{KindAdmin}}}
	p := TaskPolicy{ProjectID: 123, ProjectOwnerID: 42, Rules: rules}

	assert.False(t, p.Check(Context{UserID: 42, Role: RoleAdmin, Purpose: PurposeTaskView}))
}

func TestEmptyRulesDeny(t *testing.T) {
	ctx := Context{UserID: 1, Role: RoleAdmin, Purpose: PurposeSARAccess}

	assert.False(t, UserPolicy{UserID: 1}.Check(ctx))
	assert.False(t, ProjectPolicy{OwnerID: 1}.Check(ctx))
	assert.False(t, TaskPolicy{ProjectOwnerID: 1}.Check(ctx))
}

func TestUnrecognizedKindNeverSatisfied(t *testing.T) {
	rules := []Rule{{Purpose: PurposeTaskView, Allow: []string{"auditor"}}}
	p := TaskPolicy{ProjectID: 123, ProjectOwnerID: 42, Rules: rules}

	assert.False(t, p.Check(Context{UserID: 42, Role: RoleAdmin, Purpose: PurposeTaskView}))
}

func TestProjectMemberRequiresExplicitFact(t *testing.T) {
	rules := []Rule{{Purpose: PurposeTaskView, Allow: []string{KindProjectMember}}}

	withoutFact := TaskPolicy{ProjectID: 123, ProjectOwnerID: 42, Rules: rules}
	assert.False(t, withoutFact.Check(Context{UserID: 99, Role: RoleUser, Purpose: PurposeTaskView}))

	withFact := TaskPolicy{ProjectID: 123, ProjectOwnerID: 42, Member: true, Rules: rules}
	assert.True(t, withFact.Check(Context{UserID: 99, Role: RoleUser, Purpose: PurposeTaskView}))
}
