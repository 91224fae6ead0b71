package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facultyms/appraise/session"
)

type fakeNav struct {
	loc   string
	moves []string
}

func (n *fakeNav) Location() string { return n.loc }
func (n *fakeNav) NavigateTo(path string) { n.moves = append(n.moves, path) }

type fakeNotifier struct {
	msgs []string
}

func (n *fakeNotifier) Notify(msg string) { n.msgs = append(n.msgs, msg) }

func testToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "EMP001",
		"exp": time.Now().Add(ttl).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func storeWithToken(t *testing.T, tok string) session.Store {
	t.Helper()
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(&session.Record{ID: "EMP001", Department: "CSE", Token: tok}))
	return store
}

func newTestClient(baseURL string, store session.Store, opts ...Option) *Client {
	c := New(baseURL, store, opts...)
	c.backoff = 5 * time.Millisecond
	return c
}

func TestAuthHeaderInjection(t *testing.T) {
	t.Run("valid token is attached", func(t *testing.T) {
		var got string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		tok := testToken(t, time.Hour)
		c := newTestClient(srv.URL, storeWithToken(t, tok))
		require.NoError(t, c.do(context.Background(), http.MethodGet, "/x", nil, nil))
		assert.Equal(t, "Bearer "+tok, got)
	})

	t.Run("no session sends bare request", func(t *testing.T) {
		var got string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		c := newTestClient(srv.URL, session.NewMemoryStore())
		require.NoError(t, c.do(context.Background(), http.MethodGet, "/x", nil, nil))
		assert.Empty(t, got)
	})

	t.Run("session without token sends bare request", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		store := session.NewMemoryStore()
		require.NoError(t, store.Save(&session.Record{ID: "EMP001"}))
		c := newTestClient(srv.URL, store)
		require.NoError(t, c.do(context.Background(), http.MethodGet, "/x", nil, nil))
	})
}

func TestExpiredTokenShortCircuit(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	store := storeWithToken(t, testToken(t, -time.Hour))
	notifier := &fakeNotifier{}
	c := newTestClient(srv.URL, store, WithNotifier(notifier))

	err := c.do(context.Background(), http.MethodGet, "/x", nil, nil)
	gerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindExpiredToken, gerr.Kind)

	// Never reached the transport, and the slot is empty afterwards.
	assert.Zero(t, atomic.LoadInt32(&hits))
	assert.Nil(t, store.Load())
	assert.Equal(t, []string{msgExpired}, notifier.msgs)
}

func TestMalformedTokenShortCircuit(t *testing.T) {
	store := storeWithToken(t, "not-a-token")
	c := newTestClient("http://unreachable.invalid", store)

	err := c.do(context.Background(), http.MethodGet, "/x", nil, nil)
	gerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindMalformedToken, gerr.Kind)
	assert.Nil(t, store.Load())
}

func TestUnauthorizedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"token rejected"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	t.Run("clears slot and redirects to login", func(t *testing.T) {
		store := storeWithToken(t, testToken(t, time.Hour))
		nav := &fakeNav{loc: "/dashboard"}
		notifier := &fakeNotifier{}
		c := newTestClient(srv.URL, store, WithNavigator(nav), WithNotifier(notifier))

		err := c.do(context.Background(), http.MethodGet, "/x", nil, nil)
		gerr, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, KindUnauthorized, gerr.Kind)
		assert.Equal(t, http.StatusUnauthorized, gerr.Status)
		assert.Equal(t, "token rejected", gerr.Message)

		assert.Nil(t, store.Load())
		assert.Equal(t, []string{"/login"}, nav.moves)
		// Unauthorized redirects are silent.
		assert.Empty(t, notifier.msgs)
	})

	t.Run("no redirect when already at login", func(t *testing.T) {
		store := storeWithToken(t, testToken(t, time.Hour))
		nav := &fakeNav{loc: "/login"}
		c := newTestClient(srv.URL, store, WithNavigator(nav))

		err := c.do(context.Background(), http.MethodGet, "/x", nil, nil)
		require.Error(t, err)
		assert.Empty(t, nav.moves)
		assert.Nil(t, store.Load())
	})
}

func TestServerErrorMessageRewrite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"stack trace here"}`, http.StatusBadGateway)
	}))
	defer srv.Close()

	notifier := &fakeNotifier{}
	c := newTestClient(srv.URL, session.NewMemoryStore(), WithNotifier(notifier))

	err := c.do(context.Background(), http.MethodGet, "/x", nil, nil)
	gerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindServer, gerr.Kind)
	assert.Equal(t, msgServer, gerr.Message)
	// Status and body survive for programmatic handling.
	assert.Equal(t, http.StatusBadGateway, gerr.Status)
	assert.Contains(t, string(gerr.Body), "stack trace here")
	assert.Equal(t, []string{msgServer}, notifier.msgs)
}

func TestTransientRetry(t *testing.T) {
	t.Run("408 retried exactly once then succeeds", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&hits, 1) == 1 {
				http.Error(w, `{"error":"timeout"}`, http.StatusRequestTimeout)
				return
			}
			w.Write([]byte(`{"message":"ok"}`))
		}))
		defer srv.Close()

		c := newTestClient(srv.URL, session.NewMemoryStore())
		var out MessageResponse
		require.NoError(t, c.do(context.Background(), http.MethodGet, "/x", nil, &out))
		assert.Equal(t, "ok", out.Message)
		assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
	})

	t.Run("second 408 is not retried again", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			http.Error(w, `{"error":"timeout"}`, http.StatusRequestTimeout)
		}))
		defer srv.Close()

		c := newTestClient(srv.URL, session.NewMemoryStore())
		err := c.do(context.Background(), http.MethodGet, "/x", nil, nil)
		gerr, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, KindTransient, gerr.Kind)
		assert.True(t, gerr.Retried)
		assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
	})

	t.Run("503 retried once then classified as server failure", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := newTestClient(srv.URL, session.NewMemoryStore())
		err := c.do(context.Background(), http.MethodGet, "/x", nil, nil)
		gerr, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, KindServer, gerr.Kind)
		assert.True(t, gerr.Retried)
		assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
	})

	t.Run("retry reuses the request identity", func(t *testing.T) {
		var ids []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ids = append(ids, r.Header.Get("X-Request-ID"))
			if len(ids) == 1 {
				http.Error(w, "", http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		c := newTestClient(srv.URL, session.NewMemoryStore())
		require.NoError(t, c.do(context.Background(), http.MethodGet, "/x", nil, nil))
		require.Len(t, ids, 2)
		assert.NotEmpty(t, ids[0])
		assert.Equal(t, ids[0], ids[1])
	})

	t.Run("cancelled context aborts the backoff wait", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := New(srv.URL, session.NewMemoryStore())
		c.backoff = time.Minute
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		start := time.Now()
		err := c.do(ctx, http.MethodGet, "/x", nil, nil)
		require.Error(t, err)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	notifier := &fakeNotifier{}
	c := newTestClient(srv.URL, session.NewMemoryStore(), WithNotifier(notifier))

	err := c.do(context.Background(), http.MethodGet, "/x", nil, nil)
	gerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, gerr.Kind)
	assert.Zero(t, gerr.Status)
	assert.Equal(t, msgNetwork, gerr.Message)
	assert.Equal(t, []string{msgNetwork}, notifier.msgs)
}

func TestValidationPassThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"email already taken"}`, http.StatusConflict)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, session.NewMemoryStore())
	err := c.do(context.Background(), http.MethodPost, "/x", nil, nil)
	gerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidation, gerr.Kind)
	assert.Equal(t, "email already taken", gerr.Message)
	assert.Equal(t, http.StatusConflict, gerr.Status)
}

func TestLocalInputValidation(t *testing.T) {
	c := newTestClient("http://unreachable.invalid", session.NewMemoryStore())

	_, err := c.Login(context.Background(), Credentials{ID: "EMP001"})
	require.Error(t, err)
	_, ok := AsError(err)
	assert.False(t, ok, "local validation failures are not gateway errors")

	_, err = c.ResetPassword(context.Background(), PasswordReset{ID: "EMP001", NewPassword: "short", Token: "t"})
	require.Error(t, err)
}
