package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/facultyms/appraise/session"
)

func TestCanEnter(t *testing.T) {
	faculty := &session.Record{ID: "EMP001", Role: "faculty"}

	t.Run("no session redirects to login", func(t *testing.T) {
		v := CanEnter(nil, nil)
		assert.False(t, v.Admit)
		assert.Equal(t, LoginPath, v.RedirectTo)

		v = CanEnter(nil, []session.Role{session.RoleAdmin})
		assert.Equal(t, LoginPath, v.RedirectTo)
	})

	t.Run("no role requirement admits any session", func(t *testing.T) {
		v := CanEnter(faculty, nil)
		assert.True(t, v.Admit)
		assert.Empty(t, v.RedirectTo)
	})

	t.Run("role mismatch bounces to dashboard", func(t *testing.T) {
		v := CanEnter(faculty, []session.Role{session.RoleHOD})
		assert.False(t, v.Admit)
		assert.Equal(t, DashboardPath, v.RedirectTo)
	})

	t.Run("role match admits", func(t *testing.T) {
		v := CanEnter(faculty, []session.Role{session.RoleHOD, session.RoleFaculty})
		assert.True(t, v.Admit)
	})

	t.Run("designation fallback is honored", func(t *testing.T) {
		dean := &session.Record{ID: "EMP002", Designation: "Dean"}
		v := CanEnter(dean, []session.Role{session.RoleDean})
		assert.True(t, v.Admit)
	})

	t.Run("session without any role source", func(t *testing.T) {
		bare := &session.Record{ID: "EMP003"}
		assert.True(t, CanEnter(bare, nil).Admit)
		assert.Equal(t, DashboardPath, CanEnter(bare, []session.Role{session.RoleFaculty}).RedirectTo)
	})
}
