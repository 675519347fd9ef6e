package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"eventmanager/internal/delivery/http/helpers"
	"eventmanager/internal/domain"
)

func validMessage(msg string, errs []string) []string {
	if !lengthBetween(strings.TrimSpace(msg), domain.CommentMinLength, domain.CommentMaxLength) {
		return append(errs, "message must be 10..2000 characters")
	}
	return errs
}

// CreateCommentRequest is the request body for POST /users/me/comments.
type CreateCommentRequest struct {
	EventID string `json:"event_id"`
	Message string `json:"message"`
}

// Validate implements Validator.
func (c CreateCommentRequest) Validate() []string {
	var errs []string
	if _, err := uuid.Parse(c.EventID); err != nil {
		errs = append(errs, "event_id must be a UUID")
	}
	return validMessage(c.Message, errs)
}

// UpdateCommentRequest is the request body for PATCH /users/me/comments/{commentID}.
type UpdateCommentRequest struct {
	Message string `json:"message"`
}

// Validate implements Validator.
func (u UpdateCommentRequest) Validate() []string {
	return validMessage(u.Message, nil)
}

// CommentSuccessResponse is the success response envelope for single-comment endpoints.
type CommentSuccessResponse struct {
	Data  *domain.Comment   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CommentListSuccessResponse is the success response envelope for comment lists.
type CommentListSuccessResponse struct {
	Data  helpers.PaginatedData[*domain.Comment] `json:"data"`
	Error *helpers.APIError                      `json:"error"`
}

type CommentController struct {
	Logger  *slog.Logger
	Service domain.CommentService
}

func NewCommentController(logger *slog.Logger, svc domain.CommentService) *CommentController {
	return &CommentController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateComment godoc
// @Summary Comment on a published event
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCommentRequest true "Comment"
// @Success 201 {object} controllers.CommentSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event not published)"
// @Router /users/me/comments [post]
func (c *CommentController) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	comment, err := c.Service.Create(r.Context(), userID, helpers.CanonicalUUID(req.EventID), strings.TrimSpace(req.Message))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, comment)
}

// ListMyComments godoc
// @Summary List my comments
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param from query int false "Row offset, overrides page"
// @Param size query int false "Window size used with from" default(10)
// @Success 200 {object} controllers.CommentListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/me/comments [get]
func (c *CommentController) ListMyComments(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	params := helpers.ParsePagination(r)
	comments, total, err := c.Service.ListByAuthor(r.Context(), userID, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WritePage(w, comments, params.Page, params.PageSize, total)
}

// UpdateMyComment godoc
// @Summary Edit my comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentID path string true "Comment ID (UUID)"
// @Param body body UpdateCommentRequest true "New message"
// @Success 200 {object} controllers.CommentSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/me/comments/{commentID} [patch]
func (c *CommentController) UpdateMyComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := helpers.PathUUID(w, r, "commentID")
	if !ok {
		return
	}
	var req UpdateCommentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	comment, err := c.Service.Update(r.Context(), userID, commentID, strings.TrimSpace(req.Message))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comment)
}

// DeleteMyComment godoc
// @Summary Delete my comment
// @Tags comments
// @Security BearerAuth
// @Param commentID path string true "Comment ID (UUID)"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/me/comments/{commentID} [delete]
func (c *CommentController) DeleteMyComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := helpers.PathUUID(w, r, "commentID")
	if !ok {
		return
	}
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), userID, commentID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEventComments godoc
// @Summary List comments on an event
// @Tags public
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param from query int false "Row offset, overrides page"
// @Param size query int false "Window size used with from" default(10)
// @Success 200 {object} controllers.CommentListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/comments [get]
func (c *CommentController) ListEventComments(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	params := helpers.ParsePagination(r)
	comments, total, err := c.Service.ListByEvent(r.Context(), eventID, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WritePage(w, comments, params.Page, params.PageSize, total)
}

// AdminListComments godoc
// @Summary List comments in a time range (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param rangeStart query string false "Start, 2006-01-02 15:04:05"
// @Param rangeEnd query string false "End, 2006-01-02 15:04:05"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param from query int false "Row offset, overrides page"
// @Param size query int false "Window size used with from" default(10)
// @Success 200 {object} controllers.CommentListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /admin/comments [get]
func (c *CommentController) AdminListComments(w http.ResponseWriter, r *http.Request) {
	start, okStart := helpers.QueryTime(r, "rangeStart")
	end, okEnd := helpers.QueryTime(r, "rangeEnd")
	if !okStart || !okEnd {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid range")
		return
	}
	params := helpers.ParsePagination(r)
	comments, total, err := c.Service.ListByRange(r.Context(), start, end, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WritePage(w, comments, params.Page, params.PageSize, total)
}

// AdminDeleteComment godoc
// @Summary Delete any comment (admin)
// @Tags admin
// @Security BearerAuth
// @Param commentID path string true "Comment ID (UUID)"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/comments/{commentID} [delete]
func (c *CommentController) AdminDeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := helpers.PathUUID(w, r, "commentID")
	if !ok {
		return
	}
	if err := c.Service.DeleteByAdmin(r.Context(), commentID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
