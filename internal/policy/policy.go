package policy

// Principal kinds recognized by the evaluators. Any other kind appearing in
// a rule is never satisfied; a rule naming only unknown kinds denies.
const (
	KindSelf          = "self"
	KindOwner         = "owner"
	KindProjectOwner  = "project_owner"
	KindAdmin         = "admin"
	KindDPO           = "dpo"
	KindProjectMember = "project_member"
)

// Policy decides whether a Context may see one specific entity instance.
// Implementations carry the instance's ownership facts and the ordered rule
// list of its data category.
type Policy interface {
	Check(ctx Context) bool
}

// UserPolicy guards rows of the user_profile category (and the other
// directly user-owned categories, notes and login events). "self" and
// "owner" both mean the context is the row's subject.
type UserPolicy struct {
	UserID uint
	Rules  []Rule
}

func (p UserPolicy) Check(ctx Context) bool {
	return decide(p.Rules, ctx, func(kind string) bool {
		return (kind == KindSelf || kind == KindOwner) && ctx.UserID == p.UserID
	})
}

// ProjectPolicy guards project rows. "owner" and "project_owner" both mean
// the context is the project's owner.
type ProjectPolicy struct {
	OwnerID uint
	Rules   []Rule
}

func (p ProjectPolicy) Check(ctx Context) bool {
	return decide(p.Rules, ctx, func(kind string) bool {
		return (kind == KindOwner || kind == KindProjectOwner) && ctx.UserID == p.OwnerID
	})
}

// TaskPolicy guards task fields. Tasks are owned through their project:
// "project_owner"/"owner" compare against the project's owner, never an
// assignee. Member is a membership fact the caller must have looked up
// explicitly; without it, "project_member" rules never match. That lookup
// gap is a documented evaluator limitation, not a silent allow.
type TaskPolicy struct {
	ProjectID      uint
	ProjectOwnerID uint
	Member         bool
	Rules          []Rule
}

func (p TaskPolicy) Check(ctx Context) bool {
	return decide(p.Rules, ctx, func(kind string) bool {
		switch kind {
		case KindOwner, KindProjectOwner:
			return ctx.UserID == p.ProjectOwnerID
		case KindProjectMember:
			return p.Member
		}
		return false
	})
}

// decide scans the rules in order for the first one whose purpose matches
// the context's purpose; that rule's outcome is final. Role kinds are
// evaluated here, ownership kinds by the per-category callback. No matching
// purpose, or no rules at all, resolves to deny.
func decide(rules []Rule, ctx Context, owns func(kind string) bool) bool {
	for _, rule := range rules {
		if rule.Purpose != ctx.Purpose {
			continue
		}

		for _, kind := range rule.Allow {
			switch kind {
			case KindAdmin:
				if ctx.Role == RoleAdmin {
					return true
				}
			case KindDPO:
				if ctx.Role == RoleDPO {
					return true
				}
			default:
				if owns(kind) {
					return true
				}
			}
		}

		return false
	}

	return false
}
