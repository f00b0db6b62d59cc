// Package authz centralizes role checks. Handlers and middleware never
// inspect roles directly — they ask for a Decision and act on it, so the
// whole permission surface is auditable in one file.
package authz

import "stocktrack/internal/model"

// DashboardPath is where soft-denied requests are sent. Denied mutators
// land on the non-privileged dashboard view instead of receiving a 403.
const DashboardPath = "/v1/dashboard"

// Decision is the result of an authorization check. When Allowed is
// false, RedirectTo names the view the caller should be sent to.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

func IsManager(role string) bool  { return role == model.RoleManager }
func IsEmployee(role string) bool { return role == model.RoleEmployee }

// ManagerOnly gates every mutating catalog operation (add, edit, remove,
// bulk import, undo). Employees are soft-denied to the dashboard.
func ManagerOnly(role string) Decision {
	if IsManager(role) {
		return Decision{Allowed: true}
	}
	return Decision{RedirectTo: DashboardPath}
}
