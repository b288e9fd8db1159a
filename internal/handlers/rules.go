package handlers

import "github.com/datashield-dev/datashield/internal/policy"

// ruleSet is injected at bootstrap. The default keeps dev setups working
// without a policy file on disk.
var ruleSet = policy.DefaultRuleSet()

func SetRuleSet(rs *policy.RuleSet) {
	if rs != nil {
		ruleSet = rs
	}
}
