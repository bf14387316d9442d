package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	loginOK   bool
	loginErr  error
	logoutErr error
	user      string
	signedIn  bool
}

func (f *fakeAuthService) Login(ctx context.Context, username, password string) (bool, error) {
	return f.loginOK, f.loginErr
}

func (f *fakeAuthService) Logout(ctx context.Context) error { return f.logoutErr }

func (f *fakeAuthService) CurrentUser() (string, bool) { return f.user, f.signedIn }

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeAuthService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `not a json`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "wrong credentials",
			body:           `{"username":"alice","password":"nope"}`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusUnauthorized,
			expectedSubstr: "Invalid username or password",
		},
		{
			name:           "storage error",
			body:           `{"username":"alice","password":"secret"}`,
			service:        &fakeAuthService{loginErr: errors.New("disk full")},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "internal error",
		},
		{
			name:           "success",
			body:           `{"username":"alice","password":"secret"}`,
			service:        &fakeAuthService{loginOK: true},
			expectedCode:   http.StatusOK,
			expectedSubstr: `{"user":"alice"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/login", bytes.NewBufferString(tt.body))
			h := &AuthHandler{AuthService: tt.service, Log: zap.NewNop()}
			h.Login(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}

			buf := new(bytes.Buffer)
			if _, err := buf.ReadFrom(res.Body); err != nil {
				t.Fatalf("failed to read body: %v", err)
			}
			if !bytes.Contains(buf.Bytes(), []byte(tt.expectedSubstr)) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, buf.String())
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	tests := []struct {
		name         string
		service      *fakeAuthService
		expectedCode int
	}{
		{"success", &fakeAuthService{}, http.StatusNoContent},
		{"storage error", &fakeAuthService{logoutErr: errors.New("disk full")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h := &AuthHandler{AuthService: tt.service, Log: zap.NewNop()}
			h.Logout(rec, httptest.NewRequest("POST", "/api/logout", nil))

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	tests := []struct {
		name         string
		service      *fakeAuthService
		expectedCode int
		expectedUser string
	}{
		{"signed out", &fakeAuthService{}, http.StatusUnauthorized, ""},
		{"signed in", &fakeAuthService{user: "bob", signedIn: true}, http.StatusOK, "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h := &AuthHandler{AuthService: tt.service, Log: zap.NewNop()}
			h.Me(rec, httptest.NewRequest("GET", "/api/me", nil))

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if tt.expectedUser != "" {
				var payload UserResponse
				if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
					t.Fatalf("failed to decode JSON: %v", err)
				}
				if payload.User != tt.expectedUser {
					t.Errorf("expected user %q, got %q", tt.expectedUser, payload.User)
				}
			}
		})
	}
}
