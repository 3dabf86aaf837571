package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"memberadmission/internal/delivery/http/helpers"
	"memberadmission/internal/domain"
)

type AdmissionController struct {
	Logger   *slog.Logger
	Ledger   domain.EventAdmissionLedger
	Registry domain.MemberRegistry
}

func NewAdmissionController(logger *slog.Logger, ledger domain.EventAdmissionLedger, registry domain.MemberRegistry) *AdmissionController {
	return &AdmissionController{
		Logger:   logger,
		Ledger:   ledger,
		Registry: registry,
	}
}

// RegisterRequest is the request body for POST /events/{eventID}/registrations.
type RegisterRequest struct {
	MemberID        string `json:"member_id"`
	PaymentVerified bool   `json:"payment_verified"`
}

// Validate implements helpers.Validator.
func (r *RegisterRequest) Validate() []string {
	r.MemberID = strings.TrimSpace(r.MemberID)
	if r.MemberID == "" {
		return []string{"member_id is required"}
	}
	return nil
}

// ScanRequest is the request body for POST /events/{eventID}/scan.
type ScanRequest struct {
	Token string `json:"token"`
}

// Validate implements helpers.Validator.
func (s *ScanRequest) Validate() []string {
	s.Token = strings.TrimSpace(s.Token)
	if s.Token == "" {
		return []string{"token is required"}
	}
	return nil
}

// RegistrationSuccessResponse is the success response envelope for endpoints returning one registration.
type RegistrationSuccessResponse struct {
	Data  *domain.EventRegistration `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// ListRegistrationsResponse is the data payload for GET /events/{eventID}/registrations.
type ListRegistrationsResponse struct {
	Items      []*domain.EventRegistration `json:"items"`
	Pagination helpers.PaginationMeta      `json:"pagination"`
}

// ListRegistrationsSuccessResponse is the success response envelope for GET /events/{eventID}/registrations (200).
type ListRegistrationsSuccessResponse struct {
	Data  *ListRegistrationsResponse `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// ListMemberRegistrationsSuccessResponse is the success response envelope for GET /members/{memberID}/registrations (200).
type ListMemberRegistrationsSuccessResponse struct {
	Data  []*domain.EventRegistration `json:"data"`
	Error *helpers.APIError           `json:"error"`
}

// ScanResponse is the data payload for POST /events/{eventID}/scan.
type ScanResponse struct {
	Member       *domain.Member            `json:"member"`
	Registration *domain.EventRegistration `json:"registration"`
}

// ScanSuccessResponse is the success response envelope for POST /events/{eventID}/scan (200).
type ScanSuccessResponse struct {
	Data  *ScanResponse     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Register godoc
// @Summary Register a member for an event
// @Description Takes a seat for the member. Idempotent: returns 201 when a new registration is created, 200 when already registered. Inactive or full events are rejected.
// @Tags admission
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.RegisterRequest true "Member to register"
// @Success 200 {object} controllers.RegistrationSuccessResponse "Already registered"
// @Success 201 {object} controllers.RegistrationSuccessResponse "New registration created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (capacity exceeded)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [post]
func (c *AdmissionController) Register(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, created, err := c.Ledger.Register(r.Context(), req.MemberID, eventID, domain.RegisterOptions{
		PaymentVerified: req.PaymentVerified,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if created {
		helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// ListRegistrations godoc
// @Summary List an event's registrations
// @Description Returns registrations in registration order, paginated.
// @Tags admission
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListRegistrationsSuccessResponse "data contains items and pagination"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [get]
func (c *AdmissionController) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	params := helpers.ParsePagination(r)
	items, total, err := c.Ledger.ListRegistrations(r.Context(), eventID, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if items == nil {
		items = []*domain.EventRegistration{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &ListRegistrationsResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// ListMemberRegistrations godoc
// @Summary List a member's registrations
// @Tags admission
// @Produce json
// @Param memberID path string true "Member ID (UUID)"
// @Success 200 {object} controllers.ListMemberRegistrationsSuccessResponse "data contains the registrations"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /members/{memberID}/registrations [get]
func (c *AdmissionController) ListMemberRegistrations(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("memberID")
	if memberID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing memberID")
		return
	}
	regs, err := c.Ledger.ListMemberRegistrations(r.Context(), memberID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if regs == nil {
		regs = []*domain.EventRegistration{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

type registrationAction func(ctx context.Context, memberID, eventID string) (*domain.EventRegistration, error)

// applyToRegistration reads eventID and memberID from the path, runs action and writes the result.
func (c *AdmissionController) applyToRegistration(w http.ResponseWriter, r *http.Request, action registrationAction) {
	eventID := r.PathValue("eventID")
	memberID := r.PathValue("memberID")
	if eventID == "" || memberID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID or memberID")
		return
	}
	reg, err := action(r.Context(), memberID, eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// VerifyPayment godoc
// @Summary Mark a registration as paid
// @Description Idempotent. Registrations already checked in are returned unchanged.
// @Tags admission
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param memberID path string true "Member ID (UUID)"
// @Success 200 {object} controllers.RegistrationSuccessResponse "data contains the registration"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations/{memberID}/payment [post]
func (c *AdmissionController) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	c.applyToRegistration(w, r, c.Ledger.VerifyPayment)
}

// CheckIn godoc
// @Summary Check a member in
// @Description Moves a registration from registered to checked_in.
// @Tags admission
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param memberID path string true "Member ID (UUID)"
// @Success 200 {object} controllers.RegistrationSuccessResponse "data contains the registration"
// @Failure 402 {object} helpers.APIResponse "error.code: payment_required"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (check-in disabled)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (invalid transition)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations/{memberID}/check-in [post]
func (c *AdmissionController) CheckIn(w http.ResponseWriter, r *http.Request) {
	c.applyToRegistration(w, r, c.Ledger.CheckIn)
}

// CheckOut godoc
// @Summary Check a member out
// @Description Moves a registration from checked_in to checked_out.
// @Tags admission
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param memberID path string true "Member ID (UUID)"
// @Success 200 {object} controllers.RegistrationSuccessResponse "data contains the registration"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (invalid transition)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations/{memberID}/check-out [post]
func (c *AdmissionController) CheckOut(w http.ResponseWriter, r *http.Request) {
	c.applyToRegistration(w, r, c.Ledger.CheckOut)
}

// Scan godoc
// @Summary Check a member in by identity token
// @Description Resolves the scanned token to its member and checks that member in to the event.
// @Tags admission
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.ScanRequest true "Scanned token"
// @Success 200 {object} controllers.ScanSuccessResponse "data contains the member and registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (malformed or forged token)"
// @Failure 402 {object} helpers.APIResponse "error.code: payment_required"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (check-in disabled)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (invalid transition)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/scan [post]
func (c *AdmissionController) Scan(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req ScanRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	member, err := c.Registry.ResolveToken(r.Context(), req.Token)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	reg, err := c.Ledger.CheckIn(r.Context(), member.ID, eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.Logger.InfoContext(r.Context(), "member checked in by scan", "event_id", eventID, "member_id", member.ID)
	helpers.WriteJSONSuccess(w, http.StatusOK, &ScanResponse{Member: member, Registration: reg})
}
