package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firebase.google.com/go/v4/auth"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/dbadmin/internal/response"
	"github.com/GregMSThompson/dbadmin/pkg/logger"
)

type stubVerifier struct {
	token *auth.Token
	err   error
	got   string
}

func (s *stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	s.got = idToken
	return s.token, s.err
}

func TestFirebaseAuth(t *testing.T) {
	cases := []struct {
		name       string
		header     string
		verifier   *stubVerifier
		wantStatus int
		wantUID    string
	}{
		{"missing header", "", &stubVerifier{}, http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", &stubVerifier{}, http.StatusUnauthorized, ""},
		{"bad token", "Bearer abc", &stubVerifier{err: errors.New("expired")}, http.StatusUnauthorized, ""},
		{"valid", "Bearer abc", &stubVerifier{token: &auth.Token{UID: "user-1"}}, http.StatusOK, "user-1"},
	}

	for _, tc := range cases {
		var gotUID string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUID, _ = r.Context().Value(UIDKey).(string)
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rr := httptest.NewRecorder()
		NewMiddleware(tc.verifier, response.New(logger.Discard())).FirebaseAuth(next).ServeHTTP(rr, req)

		if rr.Code != tc.wantStatus {
			t.Fatalf("%s: status = %d, want %d", tc.name, rr.Code, tc.wantStatus)
		}
		if tc.wantStatus == http.StatusUnauthorized {
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Fatalf("%s: content type = %q", tc.name, ct)
			}
			var body map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Fatalf("%s: body %q is not a JSON error", tc.name, rr.Body.String())
			}
		}
		if gotUID != tc.wantUID {
			t.Fatalf("%s: uid = %q, want %q", tc.name, gotUID, tc.wantUID)
		}
	}
}

func TestLoggerMiddlewareStoresLogger(t *testing.T) {
	base := logger.Discard()
	var got bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = logger.FromContext(r.Context()) != base
	})

	h := chimiddleware.RequestID(NewLoggerMiddleware(base).LoggerMiddleware(next))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/views", nil))

	if !got {
		t.Fatalf("expected a request scoped logger in the context")
	}
}

func TestLoggerMiddlewareLogsCompletion(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	h := chimiddleware.RequestID(NewLoggerMiddleware(base).LoggerMiddleware(next))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/tables/loan/9", nil))

	out := buf.String()
	for _, want := range []string{`"msg":"request completed"`, `"status":404`, `"method":"DELETE"`, `"path":"/api/tables/loan/9"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log %q missing %s", out, want)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/tables", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	CORS(nil)(next).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q", got)
	}
	if rr.Code == http.StatusTeapot {
		t.Fatalf("preflight should not reach the handler")
	}
}
