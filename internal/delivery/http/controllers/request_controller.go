package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"eventmanager/internal/delivery/http/helpers"
	"eventmanager/internal/domain"
)

// CreateRequestRequest is the request body for POST /users/me/requests.
type CreateRequestRequest struct {
	EventID string `json:"event_id"`
}

// Validate implements Validator.
func (c CreateRequestRequest) Validate() []string {
	if _, err := uuid.Parse(c.EventID); err != nil {
		return []string{"event_id must be a UUID"}
	}
	return nil
}

// StatusUpdateRequest is the request body for PATCH /users/me/events/{eventID}/requests.
type StatusUpdateRequest struct {
	RequestIDs []string `json:"request_ids"`
	Status     string   `json:"status" enums:"CONFIRMED,REJECTED"`
}

// Validate implements Validator.
func (s StatusUpdateRequest) Validate() []string {
	var errs []string
	if len(s.RequestIDs) == 0 {
		errs = append(errs, "request_ids is required")
	}
	for _, id := range s.RequestIDs {
		if _, err := uuid.Parse(id); err != nil {
			errs = append(errs, "request_ids must be UUIDs")
			break
		}
	}
	if s.Status == "" {
		errs = append(errs, "status is required")
	}
	return errs
}

// RequestSuccessResponse is the success response envelope for single-request endpoints.
type RequestSuccessResponse struct {
	Data  *domain.ParticipationRequest `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// RequestListSuccessResponse is the success response envelope for request lists.
type RequestListSuccessResponse struct {
	Data  []*domain.ParticipationRequest `json:"data"`
	Error *helpers.APIError              `json:"error"`
}

// StatusUpdateSuccessResponse is the success response envelope for a confirmation batch.
type StatusUpdateSuccessResponse struct {
	Data  *domain.StatusUpdateResult `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// RequestController serves participation request endpoints.
type RequestController struct {
	Logger  *slog.Logger
	Service domain.ParticipationService
}

func NewRequestController(logger *slog.Logger, svc domain.ParticipationService) *RequestController {
	return &RequestController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateRequest godoc
// @Summary Request participation in an event
// @Description Creates a PENDING request, or a CONFIRMED one when the event needs no moderation.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRequestRequest true "Target event"
// @Success 201 {object} controllers.RequestSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (unpublished, own event, full, duplicate)"
// @Router /users/me/requests [post]
func (c *RequestController) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req CreateRequestRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	pr, err := c.Service.Create(r.Context(), userID, helpers.CanonicalUUID(req.EventID))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, pr)
}

// ListMyRequests godoc
// @Summary List my participation requests
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.RequestListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/me/requests [get]
func (c *RequestController) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	requests, err := c.Service.ListByRequester(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, requests)
}

// CancelRequest godoc
// @Summary Cancel my participation request
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param requestID path string true "Request ID (UUID)"
// @Success 200 {object} controllers.RequestSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/me/requests/{requestID}/cancel [patch]
func (c *RequestController) CancelRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := helpers.PathUUID(w, r, "requestID")
	if !ok {
		return
	}
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	pr, err := c.Service.Cancel(r.Context(), userID, requestID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, pr)
}

// ListEventRequests godoc
// @Summary List requests for one of my events
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.RequestListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not the initiator)"
// @Router /users/me/events/{eventID}/requests [get]
func (c *RequestController) ListEventRequests(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	requests, err := c.Service.ListForEvent(r.Context(), userID, eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, requests)
}

// UpdateRequestStatuses godoc
// @Summary Confirm or reject requests for one of my events
// @Description Processes request_ids in order. With status CONFIRMED, requests are confirmed while seats remain and the rest are rejected. Every request must be PENDING or nothing changes. Events without moderation or without a limit return empty lists.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body StatusUpdateRequest true "Requests and target status"
// @Success 200 {object} controllers.StatusUpdateSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not initiator, limit reached, not pending)"
// @Router /users/me/events/{eventID}/requests [patch]
func (c *RequestController) UpdateRequestStatuses(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req StatusUpdateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	upd := domain.StatusUpdate{
		RequestIDs: helpers.CanonicalUUIDs(req.RequestIDs),
		Status:     domain.RequestStatus(strings.ToUpper(strings.TrimSpace(req.Status))),
	}
	result, err := c.Service.UpdateStatuses(r.Context(), userID, eventID, upd)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
