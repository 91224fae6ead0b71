// Package guard decides whether the current session may enter a destination
// view. It only reports a verdict; navigation is the caller's job.
package guard

import "github.com/facultyms/appraise/session"

const (
	// LoginPath is where unauthenticated navigations are bounced.
	LoginPath = "/login"
	// DashboardPath is where authenticated-but-unauthorized navigations land.
	DashboardPath = "/dashboard"
)

// Verdict is the outcome of a navigation check. Either Admit is true or
// RedirectTo names the path to bounce to.
type Verdict struct {
	Admit      bool
	RedirectTo string
}

var admitted = Verdict{Admit: true}

// CanEnter checks rec against the destination's role requirements. A nil or
// empty required set admits any session. Unauthorized-but-authenticated
// users are bounced to the landing view, never blocked with an error.
func CanEnter(rec *session.Record, required []session.Role) Verdict {
	if rec == nil {
		return Verdict{RedirectTo: LoginPath}
	}
	if len(required) == 0 {
		return admitted
	}
	role := rec.ResolveRole()
	for _, want := range required {
		if role == want {
			return admitted
		}
	}
	return Verdict{RedirectTo: DashboardPath}
}
