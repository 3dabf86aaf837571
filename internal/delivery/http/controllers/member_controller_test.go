package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"memberadmission/internal/delivery/http/helpers"
	"memberadmission/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// decodeEnvelope decodes the response envelope and, when dest is non-nil, its data field.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil && envelope.Data != nil {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, dest))
	}
	return envelope
}

func TestMemberController_CreateMember(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantCode       string
		wantBodySubstr string
		checkCall      func(t *testing.T, fake *fakeRegistry)
	}{
		{
			name:       "success",
			body:       `{"email":" ada@example.com ","first_name":"Ada","last_name":"Lovelace","member_type":"educator"}`,
			wantStatus: http.StatusCreated,
			checkCall: func(t *testing.T, fake *fakeRegistry) {
				assert.Equal(t, "ada@example.com", fake.lastCreateEmail)
				assert.Equal(t, "Ada", fake.lastCreateFirst)
				assert.Equal(t, "Lovelace", fake.lastCreateLast)
				assert.Equal(t, domain.MemberTypeEducator, fake.lastCreateType)
			},
		},
		{
			name:       "unknown member type is passed through",
			body:       `{"email":"a@b.io","first_name":"A","last_name":"B","member_type":"astronaut"}`,
			wantStatus: http.StatusCreated,
			checkCall: func(t *testing.T, fake *fakeRegistry) {
				assert.Equal(t, domain.MemberType("astronaut"), fake.lastCreateType)
			},
		},
		{
			name:           "invalid json",
			body:           `{invalid`,
			wantStatus:     http.StatusBadRequest,
			wantCode:       helpers.ErrCodeBadRequest,
			wantBodySubstr: "invalid",
		},
		{
			name:           "missing fields",
			body:           `{}`,
			wantStatus:     http.StatusBadRequest,
			wantCode:       helpers.ErrCodeBadRequest,
			wantBodySubstr: "email is required",
		},
		{
			name:           "bad email rejected by registry",
			body:           `{"email":"a@b.c","first_name":"A","last_name":"B","member_type":"student"}`,
			fakeErr:        fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput),
			wantStatus:     http.StatusBadRequest,
			wantCode:       helpers.ErrCodeBadRequest,
			wantBodySubstr: "invalid email format",
		},
		{
			name:           "unknown field rejected",
			body:           `{"email":"a@b.io","first_name":"A","last_name":"B","member_type":"student","qr_code":"x"}`,
			wantStatus:     http.StatusBadRequest,
			wantCode:       helpers.ErrCodeBadRequest,
			wantBodySubstr: "unknown field",
		},
		{
			name:           "token unavailable",
			body:           `{"email":"a@b.io","first_name":"A","last_name":"B","member_type":"student"}`,
			fakeErr:        fmt.Errorf("issue token: %w", domain.ErrTokenUnavailable),
			wantStatus:     http.StatusServiceUnavailable,
			wantCode:       helpers.ErrCodeServiceUnavailable,
			wantBodySubstr: "identity token unavailable",
		},
		{
			name:           "service error",
			body:           `{"email":"a@b.io","first_name":"A","last_name":"B","member_type":"student"}`,
			fakeErr:        errors.New("boom"),
			wantStatus:     http.StatusInternalServerError,
			wantCode:       helpers.ErrCodeInternalError,
			wantBodySubstr: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRegistry{createErr: tt.fakeErr}
			ctrl := NewMemberController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/members", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.CreateMember(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var member domain.Member
			envelope := decodeEnvelope(t, rr, &member)
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				assert.Equal(t, "m-created", member.ID)
				assert.Equal(t, "qr-token", member.QRCode)
				assert.False(t, member.HandleChanged)
				assert.Nil(t, member.Handle)
			} else {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
			}
			if tt.checkCall != nil {
				tt.checkCall(t, fake)
			}
		})
	}
}

func TestMemberController_SetHandle(t *testing.T) {
	tests := []struct {
		name       string
		memberID   string
		body       string
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{name: "success", memberID: "m-1", body: `{"handle":"ada"}`, wantStatus: http.StatusOK},
		{name: "missing memberID", memberID: "", body: `{"handle":"ada"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "empty handle", memberID: "m-1", body: `{"handle":"  "}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "member not found", memberID: "m-1", body: `{"handle":"ada"}`, fakeErr: fmt.Errorf("member m-1: %w", domain.ErrNotFound), wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
		{name: "already set", memberID: "m-1", body: `{"handle":"ada"}`, fakeErr: domain.ErrHandleAlreadySet, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeConflict},
		{name: "taken", memberID: "m-1", body: `{"handle":"ada"}`, fakeErr: domain.ErrHandleTaken, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeConflict},
		{name: "invalid format", memberID: "m-1", body: `{"handle":"no spaces"}`, fakeErr: fmt.Errorf("handle: %w", domain.ErrInvalidInput), wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRegistry{
				setHandleErr: tt.fakeErr,
				members: map[string]*domain.Member{
					"m-1": domain.NewMember("m-1", "a@b.io", "A", "B", domain.MemberTypeStudent, "qr", fixedTime),
				},
			}
			ctrl := NewMemberController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPut, "/members/"+tt.memberID+"/handle", bytes.NewBufferString(tt.body))
			req.SetPathValue("memberID", tt.memberID)
			rr := httptest.NewRecorder()

			ctrl.SetHandle(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var member domain.Member
			envelope := decodeEnvelope(t, rr, &member)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				require.NotNil(t, member.Handle)
				assert.Equal(t, "ada", *member.Handle)
				assert.True(t, member.HandleChanged)
				assert.Equal(t, "m-1", fake.lastSetHandleID)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}

func TestMemberController_GetMember(t *testing.T) {
	member := domain.NewMember("m-1", "a@b.io", "A", "B", domain.MemberTypeStudent, "qr", fixedTime)
	fake := &fakeRegistry{members: map[string]*domain.Member{"m-1": member}}
	ctrl := NewMemberController(testLogger, fake)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/members/m-1", nil)
		req.SetPathValue("memberID", "m-1")
		rr := httptest.NewRecorder()
		ctrl.GetMember(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got domain.Member
		decodeEnvelope(t, rr, &got)
		assert.Equal(t, "m-1", got.ID)
		assert.Equal(t, domain.MemberTypeStudent, got.MemberType)
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/members/m-2", nil)
		req.SetPathValue("memberID", "m-2")
		rr := httptest.NewRecorder()
		ctrl.GetMember(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
		envelope := decodeEnvelope(t, rr, nil)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeNotFound, envelope.Error.Code)
	})
}

func TestMemberController_GetMemberByHandle(t *testing.T) {
	member := domain.NewMember("m-1", "a@b.io", "A", "B", domain.MemberTypeStudent, "qr", fixedTime)
	require.NoError(t, member.AssignHandle("ada"))
	fake := &fakeRegistry{byHandle: map[string]*domain.Member{"ada": member}}
	ctrl := NewMemberController(testLogger, fake)

	tests := []struct {
		handle     string
		wantStatus int
	}{
		{"ada", http.StatusOK},
		{"Ada", http.StatusNotFound},
		{"", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run("handle="+tt.handle, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/handles/"+tt.handle, nil)
			req.SetPathValue("handle", tt.handle)
			rr := httptest.NewRecorder()
			ctrl.GetMemberByHandle(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestMemberController_ListMembers(t *testing.T) {
	t.Run("empty list encodes as array", func(t *testing.T) {
		ctrl := NewMemberController(testLogger, &fakeRegistry{})
		rr := httptest.NewRecorder()
		ctrl.ListMembers(rr, httptest.NewRequest(http.MethodGet, "/members", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"data":[]`)
	})

	t.Run("service error", func(t *testing.T) {
		ctrl := NewMemberController(testLogger, &fakeRegistry{getErr: errors.New("boom")})
		rr := httptest.NewRecorder()
		ctrl.ListMembers(rr, httptest.NewRequest(http.MethodGet, "/members", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
