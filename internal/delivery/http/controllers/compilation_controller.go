package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"eventmanager/internal/delivery/http/helpers"
	"eventmanager/internal/domain"
)

func validEventIDs(ids []string, errs []string) []string {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return append(errs, "events must be UUIDs")
		}
	}
	return errs
}

// CreateCompilationRequest is the request body for POST /admin/compilations.
type CreateCompilationRequest struct {
	Title  string   `json:"title"`
	Pinned bool     `json:"pinned"`
	Events []string `json:"events"`
}

// Validate implements Validator.
func (c CreateCompilationRequest) Validate() []string {
	var errs []string
	if !lengthBetween(strings.TrimSpace(c.Title), 1, domain.CompilationTitleMaxLength) {
		errs = append(errs, "title must be 1..50 characters")
	}
	return validEventIDs(c.Events, errs)
}

// UpdateCompilationRequest is the request body for PATCH /admin/compilations/{compID}.
// Omitted fields are left unchanged; an empty events list clears the compilation.
type UpdateCompilationRequest struct {
	Title  *string  `json:"title"`
	Pinned *bool    `json:"pinned"`
	Events []string `json:"events"`
}

// Validate implements Validator.
func (u UpdateCompilationRequest) Validate() []string {
	var errs []string
	if u.Title != nil && !lengthBetween(strings.TrimSpace(*u.Title), 1, domain.CompilationTitleMaxLength) {
		errs = append(errs, "title must be 1..50 characters")
	}
	return validEventIDs(u.Events, errs)
}

// CompilationSuccessResponse is the success response envelope for single-compilation endpoints.
type CompilationSuccessResponse struct {
	Data  *domain.Compilation `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// CompilationListSuccessResponse is the success response envelope for GET /compilations.
type CompilationListSuccessResponse struct {
	Data  helpers.PaginatedData[*domain.Compilation] `json:"data"`
	Error *helpers.APIError                          `json:"error"`
}

type CompilationController struct {
	Logger  *slog.Logger
	Service domain.CompilationService
}

func NewCompilationController(logger *slog.Logger, svc domain.CompilationService) *CompilationController {
	return &CompilationController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateCompilation godoc
// @Summary Create a compilation (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCompilationRequest true "Compilation"
// @Success 201 {object} controllers.CompilationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown event)"
// @Router /admin/compilations [post]
func (c *CompilationController) CreateCompilation(w http.ResponseWriter, r *http.Request) {
	var req CreateCompilationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	comp, err := c.Service.Create(r.Context(), domain.NewCompilationInput{
		Title:    strings.TrimSpace(req.Title),
		Pinned:   req.Pinned,
		EventIDs: helpers.CanonicalUUIDs(req.Events),
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, comp)
}

// UpdateCompilation godoc
// @Summary Update a compilation (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param compID path string true "Compilation ID (UUID)"
// @Param body body UpdateCompilationRequest true "Fields to change"
// @Success 200 {object} controllers.CompilationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/compilations/{compID} [patch]
func (c *CompilationController) UpdateCompilation(w http.ResponseWriter, r *http.Request) {
	compID, ok := helpers.PathUUID(w, r, "compID")
	if !ok {
		return
	}
	var req UpdateCompilationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	in := domain.UpdateCompilationInput{Pinned: req.Pinned, EventIDs: helpers.CanonicalUUIDs(req.Events)}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		in.Title = &title
	}
	comp, err := c.Service.Update(r.Context(), compID, in)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comp)
}

// DeleteCompilation godoc
// @Summary Delete a compilation (admin)
// @Tags admin
// @Security BearerAuth
// @Param compID path string true "Compilation ID (UUID)"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/compilations/{compID} [delete]
func (c *CompilationController) DeleteCompilation(w http.ResponseWriter, r *http.Request) {
	compID, ok := helpers.PathUUID(w, r, "compID")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), compID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCompilations godoc
// @Summary List compilations
// @Tags public
// @Produce json
// @Param pinned query bool false "Only pinned or unpinned compilations"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param from query int false "Row offset, overrides page"
// @Param size query int false "Window size used with from" default(10)
// @Success 200 {object} controllers.CompilationListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /compilations [get]
func (c *CompilationController) ListCompilations(w http.ResponseWriter, r *http.Request) {
	pinned, ok := helpers.QueryBool(r, "pinned")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid pinned")
		return
	}
	params := helpers.ParsePagination(r)
	comps, total, err := c.Service.List(r.Context(), pinned, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WritePage(w, comps, params.Page, params.PageSize, total)
}

// GetCompilation godoc
// @Summary Get a compilation
// @Tags public
// @Produce json
// @Param compID path string true "Compilation ID (UUID)"
// @Success 200 {object} controllers.CompilationSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /compilations/{compID} [get]
func (c *CompilationController) GetCompilation(w http.ResponseWriter, r *http.Request) {
	compID, ok := helpers.PathUUID(w, r, "compID")
	if !ok {
		return
	}
	comp, err := c.Service.GetByID(r.Context(), compID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, comp)
}
