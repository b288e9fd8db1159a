package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Data categories used by the stock configuration.
const (
	CategoryUserProfile = "user_profile"
	CategoryProject     = "project"
	CategoryTask        = "task"
	CategoryProfileNote = "profile_note"
	CategoryLoginEvent  = "login_event"
)

// Rule allows a set of principal kinds for a single purpose. Rules for a
// category are ordered: the first rule whose purpose matches a request
// decides, even when it decides deny.
type Rule struct {
	Purpose string   `yaml:"purpose"`
	Allow   []string `yaml:"allow"`
}

type categoryConfig struct {
	AccessPolicies []Rule `yaml:"access_policies"`
}

// Config is the on-disk shape of a policy file:
//
//	data_categories:
//	  task:
//	    access_policies:
//	      - purpose: task_view
//	        allow: [project_owner, admin, dpo]
type Config struct {
	DataCategories map[string]categoryConfig `yaml:"data_categories"`
}

func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)

	if err != nil {
		return Config{}, fmt.Errorf("read policy config: %w", err)
	}

	var cfg Config

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse policy config: %w", err)
	}

	return cfg, nil
}

// RuleSet is an immutable view over a Config. It is built once at startup
// and passed to consumers explicitly; this package keeps no global state.
type RuleSet struct {
	categories map[string][]Rule
}

func NewRuleSet(cfg Config) *RuleSet {
	categories := make(map[string][]Rule, len(cfg.DataCategories))

	for name, cat := range cfg.DataCategories {
		rules := make([]Rule, len(cat.AccessPolicies))
		copy(rules, cat.AccessPolicies)
		categories[name] = rules
	}

	return &RuleSet{categories: categories}
}

// RulesFor returns the ordered rules for a category. A category absent from
// the configuration yields nil, which every evaluator resolves to deny.
func (rs *RuleSet) RulesFor(category string) []Rule {
	return rs.categories[category]
}

// DefaultRuleSet mirrors the stock policy.yml shipped with the repo. Used
// by the demo bootstrap when no policy file is configured.
func DefaultRuleSet() *RuleSet {
	return NewRuleSet(Config{
		DataCategories: map[string]categoryConfig{
			CategoryUserProfile: {AccessPolicies: []Rule{
				{Purpose: PurposeSARAccess, Allow: []string{KindSelf, KindAdmin, KindDPO}},
			}},
			CategoryProject: {AccessPolicies: []Rule{
				{Purpose: PurposeSARAccess, Allow: []string{KindOwner, KindAdmin, KindDPO}},
			}},
			CategoryTask: {AccessPolicies: []Rule{
				{Purpose: PurposeTaskView, Allow: []string{KindProjectOwner, KindAdmin, KindDPO}},
				{Purpose: PurposeTaskEdit, Allow: []string{KindProjectOwner, KindAdmin}},
				{Purpose: PurposeSARAccess, Allow: []string{KindProjectOwner, KindAdmin, KindDPO}},
			}},
			CategoryProfileNote: {AccessPolicies: []Rule{
				{Purpose: PurposeSARAccess, Allow: []string{KindSelf, KindAdmin, KindDPO}},
			}},
			CategoryLoginEvent: {AccessPolicies: []Rule{
				{Purpose: PurposeSARAccess, Allow: []string{KindSelf, KindAdmin, KindDPO}},
			}},
		},
	})
}
