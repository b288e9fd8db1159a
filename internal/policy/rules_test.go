package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yml")

	content := `
data_categories:
  task:
    access_policies:
      - purpose: task_view
        allow: [project_owner, admin]
      - purpose: sar_access
        allow: [project_owner, dpo]
`

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	rules := NewRuleSet(cfg).RulesFor(CategoryTask)
	require.Len(t, rules, 2)
	assert.Equal(t, PurposeTaskView, rules[0].Purpose)
	assert.Equal(t, []string{KindProjectOwner, KindAdmin}, rules[0].Allow)
	assert.Equal(t, PurposeSARAccess, rules[1].Purpose)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))

	assert.Error(t, err)
}

func TestRulesForMissingCategoryIsNil(t *testing.T) {
	rs := NewRuleSet(Config{})

	assert.Nil(t, rs.RulesFor("unknown_category"))

	// A nil rule list denies everyone, including admins.
	p := UserPolicy{UserID: 1, Rules: rs.RulesFor("unknown_category")}
	assert.False(t, p.Check(Context{UserID: 1, Role: RoleAdmin, Purpose: PurposeSARAccess}))
}

func TestDefaultRuleSetCoversAllCategories(t *testing.T) {
	rs := DefaultRuleSet()

	for _, category := range []string{
		CategoryUserProfile,
		CategoryProject,
		CategoryTask,
		CategoryProfileNote,
		CategoryLoginEvent,
	} {
		assert.NotEmpty(t, rs.RulesFor(category), "category %s has no rules", category)
	}
}
