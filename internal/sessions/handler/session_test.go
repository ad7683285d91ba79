package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	apperrors "studyhall/pkg/errors"
	"studyhall/pkg/logger"
	"studyhall/pkg/model"
)

type mockSessionService struct {
	gotClient model.ClientInfo
	gotUser   string
}

func (m *mockSessionService) Issue(ctx context.Context, req *model.IssueTokenRequest, client model.ClientInfo) (*model.IssuedToken, error) {
	m.gotClient = client
	return &model.IssuedToken{TokenID: "t1", RefreshToken: "raw", UserID: req.UserID, ExpiresAt: time.Now()}, nil
}

func (m *mockSessionService) Validate(ctx context.Context, rawToken string) (*model.TokenInfo, error) {
	if rawToken != "good" {
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}
	return &model.TokenInfo{TokenID: "t1", UserID: "student-1"}, nil
}

func (m *mockSessionService) Refresh(ctx context.Context, rawToken string) (*model.AccessToken, error) {
	if rawToken != "good" {
		return nil, apperrors.Unauthorized("Refresh token has expired")
	}
	return &model.AccessToken{AccessToken: "jwt", TokenType: "Bearer", UserID: "student-1"}, nil
}

func (m *mockSessionService) Revoke(ctx context.Context, rawToken string) error {
	return nil
}

func (m *mockSessionService) RevokeAll(ctx context.Context, userID string) (int64, error) {
	m.gotUser = userID
	return 2, nil
}

func newRouter(svc *mockSessionService) *httprouter.Router {
	h := NewSessionHandler(svc, logger.Discard())
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func TestSessionRoutes(t *testing.T) {
	svc := &mockSessionService{}
	router := newRouter(svc)

	tests := []struct {
		name, method, target, body string
		want                       int
	}{
		{"issue", http.MethodPost, "/api/v1/sessions", `{"user_id":"student-1"}`, http.StatusCreated},
		{"issue unknown field", http.MethodPost, "/api/v1/sessions", `{"user":"student-1"}`, http.StatusBadRequest},
		{"validate ok", http.MethodPost, "/api/v1/sessions/validate", `{"refresh_token":"good"}`, http.StatusOK},
		{"validate revoked", http.MethodPost, "/api/v1/sessions/validate", `{"refresh_token":"bad"}`, http.StatusUnauthorized},
		{"refresh ok", http.MethodPost, "/api/v1/sessions/refresh", `{"refresh_token":"good"}`, http.StatusOK},
		{"refresh expired", http.MethodPost, "/api/v1/sessions/refresh", `{"refresh_token":"old"}`, http.StatusUnauthorized},
		{"revoke", http.MethodPost, "/api/v1/sessions/revoke", `{"refresh_token":"good"}`, http.StatusNoContent},
		{"revoke all", http.MethodDelete, "/api/v1/sessions/user/student-9", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	if svc.gotUser != "student-9" {
		t.Errorf("RevokeAll user = %q", svc.gotUser)
	}
}

func TestIssue_RecordsClientInfo(t *testing.T) {
	svc := &mockSessionService{}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(`{"user_id":"student-1"}`))
	req.Header.Set("User-Agent", "dashboard/2.0")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if svc.gotClient.UserAgent != "dashboard/2.0" || svc.gotClient.IPAddress != "203.0.113.9" {
		t.Errorf("client = %+v", svc.gotClient)
	}

	var body struct {
		Data model.IssuedToken `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Data.RefreshToken != "raw" {
		t.Errorf("refresh token = %q", body.Data.RefreshToken)
	}
}

func TestClientInfo_RemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	if got := clientInfo(req).IPAddress; got != "192.0.2.1" {
		t.Errorf("IPAddress = %q", got)
	}
}
