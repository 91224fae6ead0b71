// Package apitest runs a fake appraisal API for gateway and CLI tests. It
// implements just enough of the documented contract to exercise the client;
// it is test tooling, not a backend.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

// ErrorResponse is the API's error payload shape.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server is an httptest server speaking the appraisal API contract against
// in-memory fixtures.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	users     map[string]map[string]any // user ID -> login response record
	passwords map[string]string
	formParts map[string]map[string]any // dept/user/part -> data
	requests  []string                  // "METHOD path" in arrival order

	failStatus int
	failCount  int
}

// New starts a fake API. Close it when done.
func New() *Server {
	s := &Server{
		users:     make(map[string]map[string]any),
		passwords: make(map[string]string),
		formParts: make(map[string]map[string]any),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.failInjection)

	r.Post("/login", s.handleLogin)
	r.Post("/send-otp", s.handleMessage("OTP sent"))
	r.Post("/verify-otp", s.handleVerifyOTP)
	r.Post("/reset-user-password", s.handleMessage("Password updated"))
	r.Post("/forgot-password", s.handleMessage("Reset mail sent"))

	r.Route("/{department}/{userID}", func(r chi.Router) {
		r.Get("/get-status", s.handleStatus)
		r.Post("/submit-form", s.handleSubmit)
		r.Get("/generate-doc", s.handleDoc)
		r.Get("/{part}", s.handleGetPart)
		r.Post("/{part}", s.handleSavePart)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// AddUser registers a login fixture. The issued token expires an hour out.
func (s *Server) AddUser(id, password string, attrs map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := map[string]any{"_id": id}
	for k, v := range attrs {
		rec[k] = v
	}
	s.users[id] = rec
	s.passwords[id] = password
}

// SetPart seeds stored form data.
func (s *Server) SetPart(department, userID, part string, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formParts[department+"/"+userID+"/"+part] = data
}

// Part returns the stored form data for a part, or nil.
func (s *Server) Part(department, userID, part string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formParts[department+"/"+userID+"/"+part]
}

// FailNext makes the next n requests answer with status before the routes
// see them.
func (s *Server) FailNext(status, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
	s.failCount = n
}

// Requests returns the "METHOD path" log in arrival order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) failInjection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		if s.failCount > 0 {
			s.failCount--
			status := s.failStatus
			s.mu.Unlock()
			writeError(w, status, http.StatusText(status))
			return
		}
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		ID       string `json:"_id"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	s.mu.Lock()
	rec, ok := s.users[creds.ID]
	pass := s.passwords[creds.ID]
	s.mu.Unlock()
	if !ok || pass != creds.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	out := make(map[string]any, len(rec)+1)
	for k, v := range rec {
		out[k] = v
	}
	out["token"] = signToken(creds.ID, time.Hour)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"token":   signToken("reset", 10*time.Minute),
		"message": "OTP verified",
	})
}

func (s *Server) handleMessage(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": msg})
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	dept := chi.URLParam(r, "department")
	user := chi.URLParam(r, "userID")

	s.mu.Lock()
	parts := make(map[string]bool)
	for _, p := range []string{"A", "B", "C", "D", "E"} {
		_, ok := s.formParts[dept+"/"+user+"/"+p]
		parts[p] = ok
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"status": "pending", "parts": parts})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Form submitted"})
}

func (s *Server) handleDoc(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Write([]byte("%PDF-1.4 fake appraisal document"))
}

func (s *Server) handleGetPart(w http.ResponseWriter, r *http.Request) {
	dept := chi.URLParam(r, "department")
	user := chi.URLParam(r, "userID")
	part := chi.URLParam(r, "part")

	s.mu.Lock()
	data := s.formParts[dept+"/"+user+"/"+part]
	s.mu.Unlock()
	if data == nil {
		data = map[string]any{}
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleSavePart(w http.ResponseWriter, r *http.Request) {
	dept := chi.URLParam(r, "department")
	user := chi.URLParam(r, "userID")
	part := chi.URLParam(r, "part")

	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	s.mu.Lock()
	s.formParts[dept+"/"+user+"/"+part] = data
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Part saved"})
}

// signToken issues a throwaway HS256 token; the client never verifies the
// signature, only the expiry claim.
func signToken(subject string, ttl time.Duration) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(ttl).Unix(),
	})
	signed, err := tok.SignedString([]byte("apitest-key"))
	if err != nil {
		panic(err)
	}
	return signed
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
