package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/garnizeh/gymtrack/api"
	"github.com/garnizeh/gymtrack/pkg/models"
	"github.com/garnizeh/gymtrack/pkg/repository/mock"
)

func TestValidateQR(t *testing.T) {
	expired := time.Now().Add(-24 * time.Hour).UnixMilli()
	valid := time.Now().Add(30 * 24 * time.Hour).UnixMilli()

	tests := []struct {
		name      string
		query     string
		prepare   func(m *mock.Mocks)
		wantCode  int
		wantCheck func(t *testing.T, resp map[string]any)
	}{
		{
			name:     "MissingCode",
			query:    "",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "UnknownCode",
			query:    "?qr_code=nope",
			wantCode: http.StatusOK,
			wantCheck: func(t *testing.T, resp map[string]any) {
				// existence is not leaked beyond the boolean
				if resp["userExists"] != false {
					t.Fatalf("expected userExists=false, got %v", resp)
				}
				if _, ok := resp["user"]; ok {
					t.Fatalf("no user payload expected: %v", resp)
				}
			},
		},
		{
			name:  "ValidMember",
			query: "?qr_code=qr-5",
			prepare: func(m *mock.Mocks) {
				m.UserRepo.Stored = &models.User{ID: 5, Username: "eve", QRCode: "qr-5", MembershipExpiry: &valid}
			},
			wantCode: http.StatusOK,
			wantCheck: func(t *testing.T, resp map[string]any) {
				if resp["userExists"] != true || resp["alreadyEntered"] != false {
					t.Fatalf("unexpected response: %v", resp)
				}
				if _, ok := resp["membershipExpired"]; ok {
					t.Fatalf("membership should not read expired: %v", resp)
				}
			},
		},
		{
			name:  "AlreadyEntered",
			query: "?qr_code=qr-5",
			prepare: func(m *mock.Mocks) {
				m.UserRepo.Stored = &models.User{ID: 5, Username: "eve", QRCode: "qr-5", MembershipExpiry: &valid}
				m.EntryRepo.Entered = true
			},
			wantCode: http.StatusOK,
			wantCheck: func(t *testing.T, resp map[string]any) {
				if resp["alreadyEntered"] != true {
					t.Fatalf("expected alreadyEntered=true: %v", resp)
				}
			},
		},
		{
			name:  "ExpiredMembership",
			query: "?qr_code=qr-5",
			prepare: func(m *mock.Mocks) {
				m.UserRepo.Stored = &models.User{ID: 5, Username: "eve", QRCode: "qr-5", MembershipExpiry: &expired}
			},
			wantCode: http.StatusOK,
			wantCheck: func(t *testing.T, resp map[string]any) {
				if resp["membershipExpired"] != true {
					t.Fatalf("expected membershipExpired=true: %v", resp)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			if tt.prepare != nil {
				tt.prepare(mocks)
			}
			h := api.NewEntriesHandler(mocks.UserRepo, mocks.EntryRepo, mocks.Recorder)

			req := httptest.NewRequest(http.MethodGet, "/v1/entries/validate"+tt.query, nil)
			w := httptest.NewRecorder()
			h.ValidateQR(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d got %d body=%s", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantCheck != nil {
				var resp map[string]any
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				tt.wantCheck(t, resp)
			}
		})
	}
}

func TestLogEntry(t *testing.T) {
	tests := []struct {
		name      string
		body      any
		prepare   func(m *mock.Mocks)
		wantCode  int
		wantAudit int
	}{
		{
			name:     "MissingIdentity",
			body:     map[string]any{},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "UnknownUser",
			body:     map[string]any{"qr_code": "nope"},
			wantCode: http.StatusNotFound,
		},
		{
			name: "Success_ByQR",
			body: map[string]any{"qr_code": "qr-5"},
			prepare: func(m *mock.Mocks) {
				m.UserRepo.Stored = &models.User{ID: 5, Username: "eve", QRCode: "qr-5"}
			},
			wantCode:  http.StatusCreated,
			wantAudit: 1,
		},
		{
			name: "Success_ByID",
			body: map[string]any{"user_id": 5},
			prepare: func(m *mock.Mocks) {
				m.UserRepo.Stored = &models.User{ID: 5, Username: "eve", QRCode: "qr-5"}
			},
			wantCode:  http.StatusCreated,
			wantAudit: 1,
		},
		{
			name: "SecondEntrySameDay",
			body: map[string]any{"qr_code": "qr-5"},
			prepare: func(m *mock.Mocks) {
				m.UserRepo.Stored = &models.User{ID: 5, Username: "eve", QRCode: "qr-5"}
				m.EntryRepo.Entered = true
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			if tt.prepare != nil {
				tt.prepare(mocks)
			}
			h := api.NewEntriesHandler(mocks.UserRepo, mocks.EntryRepo, mocks.Recorder)

			req := authedRequest(http.MethodPost, "/v1/entries", tt.body, 2, models.RoleStaff)
			w := httptest.NewRecorder()
			h.LogEntry(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d got %d body=%s", tt.wantCode, w.Code, w.Body.String())
			}
			if len(mocks.Recorder.Entries) != tt.wantAudit {
				t.Fatalf("expected %d audit entries, got %d", tt.wantAudit, len(mocks.Recorder.Entries))
			}
			if tt.wantCode == http.StatusConflict {
				var resp map[string]any
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if resp["alreadyEntered"] != true {
					t.Fatalf("expected alreadyEntered flag: %v", resp)
				}
			}
		})
	}
}
