package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facultyms/appraise/session"
)

func TestManagerInitialState(t *testing.T) {
	t.Run("empty slot", func(t *testing.T) {
		m := NewManager(session.NewMemoryStore())
		assert.False(t, m.Authenticated())
		assert.Nil(t, m.UserData())
		assert.Equal(t, session.Role(""), m.UserRole())
	})

	t.Run("pre-existing slot", func(t *testing.T) {
		store := session.NewMemoryStore()
		require.NoError(t, store.Save(&session.Record{ID: "EMP001", Role: "faculty"}))

		m := NewManager(store)
		assert.True(t, m.Authenticated())
		assert.Equal(t, session.RoleFaculty, m.UserRole())
	})
}

func TestLoginLogout(t *testing.T) {
	store := session.NewMemoryStore()
	m := NewManager(store)

	require.NoError(t, m.Login(&session.Record{ID: "EMP001", Designation: "Faculty", Token: "h.c.s"}))
	assert.True(t, m.Authenticated())
	require.NotNil(t, m.UserData())
	assert.Equal(t, "EMP001", m.UserData().ID)
	assert.Equal(t, session.RoleFaculty, m.UserRole())

	// Login writes through: the store itself holds the record.
	require.NotNil(t, store.Load())

	require.NoError(t, m.Logout())
	assert.False(t, m.Authenticated())
	assert.Nil(t, m.UserData())
	assert.Equal(t, session.Role(""), m.UserRole())
	assert.Nil(t, store.Load())
}

func TestLoginReplacesPriorSession(t *testing.T) {
	m := NewManager(session.NewMemoryStore())
	require.NoError(t, m.Login(&session.Record{ID: "EMP001", Email: "a@example.edu", Role: "faculty"}))
	require.NoError(t, m.Login(&session.Record{ID: "EMP002", Role: "hod"}))

	got := m.UserData()
	require.NotNil(t, got)
	assert.Equal(t, "EMP002", got.ID)
	assert.Empty(t, got.Email)
}

func TestUserDataRecomputedFromStore(t *testing.T) {
	// A slot corrupted behind the manager's back reads the same as it would
	// after a reload: nil data, even while the flag still says authenticated.
	path := filepath.Join(t.TempDir(), "session.json")
	store := session.NewFileStore(path)
	m := NewManager(store)
	require.NoError(t, m.Login(&session.Record{ID: "EMP001", Role: "faculty"}))

	require.NoError(t, os.WriteFile(path, []byte("{corrupt"), 0o600))
	assert.True(t, m.Authenticated())
	assert.Nil(t, m.UserData())
	assert.Equal(t, session.Role(""), m.UserRole())
}

func TestRefresh(t *testing.T) {
	store := session.NewMemoryStore()
	m := NewManager(store)
	require.NoError(t, m.Login(&session.Record{ID: "EMP001"}))

	// The gateway clears the slot on credential rejection.
	require.NoError(t, store.Clear())
	assert.True(t, m.Authenticated())

	m.Refresh()
	assert.False(t, m.Authenticated())
}

func TestSubscribe(t *testing.T) {
	m := NewManager(session.NewMemoryStore())

	var states []State
	unsub := m.Subscribe(func(st State) { states = append(states, st) })

	require.NoError(t, m.Login(&session.Record{ID: "EMP001", Role: "dean"}))
	require.NoError(t, m.Logout())

	require.Len(t, states, 2)
	assert.True(t, states[0].Authenticated)
	assert.Equal(t, session.RoleDean, states[0].Role)
	assert.False(t, states[1].Authenticated)
	assert.Nil(t, states[1].User)

	unsub()
	require.NoError(t, m.Login(&session.Record{ID: "EMP002"}))
	assert.Len(t, states, 2)
}

func TestFromContext(t *testing.T) {
	t.Run("inside scope", func(t *testing.T) {
		m := NewManager(session.NewMemoryStore())
		ctx := NewContext(context.Background(), m)
		assert.Same(t, m, FromContext(ctx))
	})

	t.Run("outside scope panics", func(t *testing.T) {
		assert.PanicsWithValue(t,
			"auth: FromContext called outside an active session scope",
			func() { FromContext(context.Background()) })
	})
}
