package policy

// Roles recognized by the evaluators and the erasure gate.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleDPO   = "dpo"
)

// Purposes used by the stock configuration. Rule files may introduce more;
// an unknown purpose simply never matches a rule and denies.
const (
	PurposeTaskView  = "task_view"
	PurposeTaskEdit  = "task_edit"
	PurposeSARAccess = "sar_access"
)

// Context describes who is asking and why. It is built once per request,
// never mutated, and owns no data of its own.
type Context struct {
	UserID  uint
	Role    string
	Purpose string
}
