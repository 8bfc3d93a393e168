// Package access decides whether a signed-in profile may enter a route
// group. It does no I/O; callers load the profile and act on the Decision.
package access

import "github.com/farisarabic/faris-backend/internal/model"

// Reason explains a refusal.
type Reason string

const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonInactive        Reason = "inactive"
	ReasonWrongRole       Reason = "wrong_role"
)

// Client routes a refused user is sent to.
const (
	LoginPath        = "/login"
	StudentHomePath  = "/dashboard"
	AdminHomePath    = "/admin"
	PendingLoginPath = "/login?status=pending"
)

// Decision is either Authorized or a Redirect. Redirect is nil when authorized.
type Decision struct {
	Redirect *Redirect
}

// Redirect names why access was refused and where the user should go.
type Redirect struct {
	Reason Reason
	Target string
}

// Authorized reports whether the decision lets the request through.
func (d Decision) Authorized() bool { return d.Redirect == nil }

func allow() Decision { return Decision{} }

func deny(reason Reason, target string) Decision {
	return Decision{Redirect: &Redirect{Reason: reason, Target: target}}
}

// HomePath is the landing route for a role.
func HomePath(role model.Role) string {
	if role == model.RoleAdmin {
		return AdminHomePath
	}
	return StudentHomePath
}

// AnyRole lets every active profile through.
const AnyRole model.Role = ""

// Check evaluates profile against the role a route group requires. A nil
// profile means nobody is signed in. Pending students are refused
// everywhere; admins are never pending.
func Check(profile *model.User, required model.Role) Decision {
	if profile == nil {
		return deny(ReasonUnauthenticated, LoginPath)
	}
	if profile.Role != model.RoleAdmin && profile.Status != model.UserStatusActive {
		return deny(ReasonInactive, PendingLoginPath)
	}
	if required != AnyRole && profile.Role != required {
		return deny(ReasonWrongRole, HomePath(profile.Role))
	}
	return allow()
}
