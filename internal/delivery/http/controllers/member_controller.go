package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"memberadmission/internal/delivery/http/helpers"
	"memberadmission/internal/domain"
)

// CreateMemberRequest is the request body for POST /members.
type CreateMemberRequest struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	MemberType string `json:"member_type"`
}

// Validate implements Validator. Email format is checked by the registry.
func (c CreateMemberRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(c.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(c.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if strings.TrimSpace(c.MemberType) == "" {
		errs = append(errs, "member_type is required")
	}
	return errs
}

// SetHandleRequest is the request body for PUT /members/{memberID}/handle.
type SetHandleRequest struct {
	Handle string `json:"handle"`
}

// Validate implements Validator. Format rules are enforced by the registry.
func (s SetHandleRequest) Validate() []string {
	if strings.TrimSpace(s.Handle) == "" {
		return []string{"handle is required"}
	}
	return nil
}

// MemberSuccessResponse is the success response envelope for endpoints returning one member.
type MemberSuccessResponse struct {
	Data  *domain.Member    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListMembersSuccessResponse is the success response envelope for GET /members (200).
type ListMembersSuccessResponse struct {
	Data  []*domain.Member  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type MemberController struct {
	Logger   *slog.Logger
	Registry domain.MemberRegistry
}

func NewMemberController(logger *slog.Logger, registry domain.MemberRegistry) *MemberController {
	return &MemberController{
		Logger:   logger,
		Registry: registry,
	}
}

// CreateMember godoc
// @Summary Create a member
// @Description Creates a member and issues its identity token (qr_code). The member is stored only if a token could be issued.
// @Tags members
// @Accept json
// @Produce json
// @Param member body CreateMemberRequest true "Member data"
// @Success 201 {object} controllers.MemberSuccessResponse "data contains the created member"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable (token issuance failed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /members [post]
func (c *MemberController) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	member, err := c.Registry.CreateMember(r.Context(),
		strings.TrimSpace(req.Email),
		strings.TrimSpace(req.FirstName),
		strings.TrimSpace(req.LastName),
		domain.MemberType(strings.TrimSpace(req.MemberType)),
	)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, member)
}

// ListMembers godoc
// @Summary List members
// @Description Returns all members ordered by creation time.
// @Tags members
// @Produce json
// @Success 200 {object} controllers.ListMembersSuccessResponse "data contains the members"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /members [get]
func (c *MemberController) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := c.Registry.ListMembers(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if members == nil {
		members = []*domain.Member{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, members)
}

// GetMember godoc
// @Summary Get a member by ID
// @Tags members
// @Produce json
// @Param memberID path string true "Member ID (UUID)"
// @Success 200 {object} controllers.MemberSuccessResponse "data contains the member"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /members/{memberID} [get]
func (c *MemberController) GetMember(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("memberID")
	if memberID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing memberID")
		return
	}
	member, err := c.Registry.GetMember(r.Context(), memberID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, member)
}

// GetMemberByHandle godoc
// @Summary Get a member by handle
// @Tags members
// @Produce json
// @Param handle path string true "Handle (exact match)"
// @Success 200 {object} controllers.MemberSuccessResponse "data contains the member"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /handles/{handle} [get]
func (c *MemberController) GetMemberByHandle(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")
	if handle == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing handle")
		return
	}
	member, err := c.Registry.GetMemberByHandle(r.Context(), handle)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, member)
}

// SetHandle godoc
// @Summary Set a member's handle
// @Description Sets the member's public handle. A handle can be set only once and must be unique across members.
// @Tags members
// @Accept json
// @Produce json
// @Param memberID path string true "Member ID (UUID)"
// @Param body body SetHandleRequest true "Handle to claim"
// @Success 200 {object} controllers.MemberSuccessResponse "data contains the updated member"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (handle already set or taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /members/{memberID}/handle [put]
func (c *MemberController) SetHandle(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("memberID")
	if memberID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing memberID")
		return
	}
	var req SetHandleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Registry.SetHandle(r.Context(), memberID, req.Handle); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	member, err := c.Registry.GetMember(r.Context(), memberID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, member)
}
