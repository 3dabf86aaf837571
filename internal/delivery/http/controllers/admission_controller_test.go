package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"memberadmission/internal/delivery/http/helpers"
	"memberadmission/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmissionController_Register(t *testing.T) {
	reg := domain.NewEventRegistration("m-1", "ev-1", fixedTime, false)

	tests := []struct {
		name       string
		eventID    string
		body       string
		created    bool
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{name: "new registration", eventID: "ev-1", body: `{"member_id":"m-1"}`, created: true, wantStatus: http.StatusCreated},
		{name: "already registered", eventID: "ev-1", body: `{"member_id":"m-1"}`, created: false, wantStatus: http.StatusOK},
		{name: "missing member_id", eventID: "ev-1", body: `{}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "missing eventID", eventID: "", body: `{"member_id":"m-1"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "event not found", eventID: "ev-1", body: `{"member_id":"m-1"}`, fakeErr: fmt.Errorf("event ev-1: %w", domain.ErrNotFound), wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
		{name: "event full", eventID: "ev-1", body: `{"member_id":"m-1"}`, fakeErr: fmt.Errorf("event ev-1 is full: %w", domain.ErrCapacityExceeded), wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeConflict},
		{name: "service error", eventID: "ev-1", body: `{"member_id":"m-1"}`, fakeErr: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: helpers.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeLedger{registration: reg, created: tt.created, err: tt.fakeErr}
			ctrl := NewAdmissionController(testLogger, fake, &fakeRegistry{})
			req := httptest.NewRequest(http.MethodPost, "/events/"+tt.eventID+"/registrations", bytes.NewBufferString(tt.body))
			req.SetPathValue("eventID", tt.eventID)
			rr := httptest.NewRecorder()

			ctrl.Register(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr, nil)
			if tt.wantCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
			assert.Equal(t, "m-1", fake.lastMemberID)
			assert.Equal(t, "ev-1", fake.lastEventID)
		})
	}
}

func TestAdmissionController_RegisterPassesPaymentFlag(t *testing.T) {
	fake := &fakeLedger{registration: domain.NewEventRegistration("m-1", "ev-1", fixedTime, true), created: true}
	ctrl := NewAdmissionController(testLogger, fake, &fakeRegistry{})
	req := httptest.NewRequest(http.MethodPost, "/events/ev-1/registrations", bytes.NewBufferString(`{"member_id":" m-1 ","payment_verified":true}`))
	req.SetPathValue("eventID", "ev-1")
	rr := httptest.NewRecorder()

	ctrl.Register(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "m-1", fake.lastMemberID)
	assert.True(t, fake.lastOpts.PaymentVerified)
}

func TestAdmissionController_Transitions(t *testing.T) {
	reg := domain.NewEventRegistration("m-1", "ev-1", fixedTime, true)

	type handlerFunc func(c *AdmissionController, w http.ResponseWriter, r *http.Request)
	checkIn := func(c *AdmissionController, w http.ResponseWriter, r *http.Request) { c.CheckIn(w, r) }
	checkOut := func(c *AdmissionController, w http.ResponseWriter, r *http.Request) { c.CheckOut(w, r) }
	payment := func(c *AdmissionController, w http.ResponseWriter, r *http.Request) { c.VerifyPayment(w, r) }

	tests := []struct {
		name       string
		handler    handlerFunc
		wantAction string
		fakeErr    error
		memberID   string
		wantStatus int
		wantCode   string
	}{
		{name: "check-in ok", handler: checkIn, wantAction: "check-in", memberID: "m-1", wantStatus: http.StatusOK},
		{name: "check-in payment required", handler: checkIn, wantAction: "check-in", memberID: "m-1", fakeErr: domain.ErrPaymentRequired, wantStatus: http.StatusPaymentRequired, wantCode: helpers.ErrCodePaymentRequired},
		{name: "check-in disabled", handler: checkIn, wantAction: "check-in", memberID: "m-1", fakeErr: domain.ErrCheckInDisabled, wantStatus: http.StatusForbidden, wantCode: helpers.ErrCodeForbidden},
		{name: "check-in twice", handler: checkIn, wantAction: "check-in", memberID: "m-1", fakeErr: domain.ErrInvalidTransition, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeConflict},
		{name: "check-in unknown registration", handler: checkIn, wantAction: "check-in", memberID: "m-1", fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
		{name: "check-out ok", handler: checkOut, wantAction: "check-out", memberID: "m-1", wantStatus: http.StatusOK},
		{name: "check-out before check-in", handler: checkOut, wantAction: "check-out", memberID: "m-1", fakeErr: domain.ErrInvalidTransition, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeConflict},
		{name: "verify payment ok", handler: payment, wantAction: "payment", memberID: "m-1", wantStatus: http.StatusOK},
		{name: "missing memberID", handler: payment, memberID: "", wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeLedger{registration: reg, err: tt.fakeErr}
			ctrl := NewAdmissionController(testLogger, fake, &fakeRegistry{})
			req := httptest.NewRequest(http.MethodPost, "/events/ev-1/registrations/"+tt.memberID+"/x", nil)
			req.SetPathValue("eventID", "ev-1")
			req.SetPathValue("memberID", tt.memberID)
			rr := httptest.NewRecorder()

			tt.handler(ctrl, rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantAction, fake.lastAction)
			envelope := decodeEnvelope(t, rr, nil)
			if tt.wantCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			assert.Equal(t, "m-1", fake.lastMemberID)
			assert.Equal(t, "ev-1", fake.lastEventID)
		})
	}
}

func TestAdmissionController_ListRegistrations(t *testing.T) {
	regs := []*domain.EventRegistration{
		domain.NewEventRegistration("m-1", "ev-1", fixedTime, false),
		domain.NewEventRegistration("m-2", "ev-1", fixedTime, true),
	}
	fake := &fakeLedger{list: regs, total: 5}
	ctrl := NewAdmissionController(testLogger, fake, &fakeRegistry{})
	req := httptest.NewRequest(http.MethodGet, "/events/ev-1/registrations?page=2&page_size=2", nil)
	req.SetPathValue("eventID", "ev-1")
	rr := httptest.NewRecorder()

	ctrl.ListRegistrations(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got ListRegistrationsResponse
	decodeEnvelope(t, rr, &got)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "m-2", got.Items[1].MemberID)
	assert.Equal(t, helpers.PaginationMeta{Page: 2, PageSize: 2, Total: 5, TotalPages: 3}, got.Pagination)
	assert.Equal(t, domain.PaginationParams{Page: 2, PageSize: 2}, fake.lastPage)
}

func TestAdmissionController_ListMemberRegistrations(t *testing.T) {
	fake := &fakeLedger{}
	ctrl := NewAdmissionController(testLogger, fake, &fakeRegistry{})
	req := httptest.NewRequest(http.MethodGet, "/members/m-1/registrations", nil)
	req.SetPathValue("memberID", "m-1")
	rr := httptest.NewRecorder()

	ctrl.ListMemberRegistrations(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"data":[]`)
	assert.Equal(t, "m-1", fake.lastMemberID)
}

func TestAdmissionController_Scan(t *testing.T) {
	member := domain.NewMember("m-1", "a@b.io", "A", "B", domain.MemberTypeStudent, "tok-1", fixedTime)
	reg := domain.NewEventRegistration("m-1", "ev-1", fixedTime, true)

	tests := []struct {
		name       string
		body       string
		resolveErr error
		ledgerErr  error
		wantStatus int
		wantCode   string
		wantLedger bool
	}{
		{name: "success", body: `{"token":"tok-1"}`, wantStatus: http.StatusOK, wantLedger: true},
		{name: "empty token", body: `{"token":""}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "forged token", body: `{"token":"forged"}`, resolveErr: fmt.Errorf("verify: %w", domain.ErrInvalidToken), wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "unknown member", body: `{"token":"tok-2"}`, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
		{name: "payment required", body: `{"token":"tok-1"}`, ledgerErr: domain.ErrPaymentRequired, wantStatus: http.StatusPaymentRequired, wantCode: helpers.ErrCodePaymentRequired, wantLedger: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := &fakeRegistry{resolveErr: tt.resolveErr, byToken: map[string]*domain.Member{"tok-1": member}}
			ledger := &fakeLedger{registration: reg, err: tt.ledgerErr}
			ctrl := NewAdmissionController(testLogger, ledger, registry)
			req := httptest.NewRequest(http.MethodPost, "/events/ev-1/scan", bytes.NewBufferString(tt.body))
			req.SetPathValue("eventID", "ev-1")
			rr := httptest.NewRecorder()

			ctrl.Scan(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantLedger {
				assert.Equal(t, "check-in", ledger.lastAction)
				assert.Equal(t, "m-1", ledger.lastMemberID)
			} else {
				assert.Empty(t, ledger.lastAction)
			}
			var got ScanResponse
			envelope := decodeEnvelope(t, rr, &got)
			if tt.wantCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			require.NotNil(t, got.Member)
			assert.Equal(t, "m-1", got.Member.ID)
			require.NotNil(t, got.Registration)
			assert.Equal(t, "ev-1", got.Registration.EventID)
		})
	}
}
