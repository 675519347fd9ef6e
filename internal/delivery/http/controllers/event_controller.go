package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"eventmanager/internal/delivery/http/helpers"
	"eventmanager/internal/domain"
)

// Event text length bounds.
const (
	eventTitleMin       = 3
	eventTitleMax       = 120
	eventAnnotationMin  = 20
	eventAnnotationMax  = 2000
	eventDescriptionMin = 20
	eventDescriptionMax = 7000
)

// LocationRequest is a geographic point in a request body.
type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (l LocationRequest) validate() []string {
	var errs []string
	if l.Lat < -90 || l.Lat > 90 {
		errs = append(errs, "location.lat must be between -90 and 90")
	}
	if l.Lon < -180 || l.Lon > 180 {
		errs = append(errs, "location.lon must be between -180 and 180")
	}
	return errs
}

// CreateEventRequest is the request body for POST /users/me/events.
type CreateEventRequest struct {
	Title             string          `json:"title"`
	Annotation        string          `json:"annotation"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	EventDate         *DateTime       `json:"event_date" swaggertype:"string" example:"2030-01-02 18:00:00"`
	Location          LocationRequest `json:"location"`
	Paid              bool            `json:"paid"`
	ParticipantLimit  int             `json:"participant_limit"`
	RequestModeration *bool           `json:"request_moderation"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if !lengthBetween(strings.TrimSpace(c.Title), eventTitleMin, eventTitleMax) {
		errs = append(errs, "title must be 3..120 characters")
	}
	if !lengthBetween(strings.TrimSpace(c.Annotation), eventAnnotationMin, eventAnnotationMax) {
		errs = append(errs, "annotation must be 20..2000 characters")
	}
	if !lengthBetween(strings.TrimSpace(c.Description), eventDescriptionMin, eventDescriptionMax) {
		errs = append(errs, "description must be 20..7000 characters")
	}
	if _, err := uuid.Parse(c.Category); err != nil {
		errs = append(errs, "category must be a UUID")
	}
	if c.EventDate == nil {
		errs = append(errs, "event_date is required")
	}
	if c.ParticipantLimit < 0 {
		errs = append(errs, "participant_limit must not be negative")
	}
	return append(errs, c.Location.validate()...)
}

func (c CreateEventRequest) toInput() domain.NewEventInput {
	moderation := true
	if c.RequestModeration != nil {
		moderation = *c.RequestModeration
	}
	return domain.NewEventInput{
		Title:             c.Title,
		Annotation:        c.Annotation,
		Description:       c.Description,
		CategoryID:        helpers.CanonicalUUID(c.Category),
		EventDate:         c.EventDate.Time,
		Location:          domain.Location{Lat: c.Location.Lat, Lon: c.Location.Lon},
		Paid:              c.Paid,
		ParticipantLimit:  c.ParticipantLimit,
		RequestModeration: moderation,
	}
}

// UpdateEventRequest is the request body for PATCH /users/me/events/{eventID} and
// PATCH /admin/events/{eventID}. All fields are optional; blank text fields are ignored.
type UpdateEventRequest struct {
	Title             *string          `json:"title"`
	Annotation        *string          `json:"annotation"`
	Description       *string          `json:"description"`
	Category          *string          `json:"category"`
	EventDate         *DateTime        `json:"event_date" swaggertype:"string" example:"2030-01-02 18:00:00"`
	Location          *LocationRequest `json:"location"`
	Paid              *bool            `json:"paid"`
	ParticipantLimit  *int             `json:"participant_limit"`
	RequestModeration *bool            `json:"request_moderation"`
	StateAction       *string          `json:"state_action" enums:"SEND_TO_REVIEW,CANCEL_REVIEW,PUBLISH_EVENT,REJECT_EVENT"`
}

func blankOrBetween(s *string, lo, hi int) bool {
	if s == nil || strings.TrimSpace(*s) == "" {
		return true
	}
	return lengthBetween(strings.TrimSpace(*s), lo, hi)
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if !blankOrBetween(u.Title, eventTitleMin, eventTitleMax) {
		errs = append(errs, "title must be 3..120 characters")
	}
	if !blankOrBetween(u.Annotation, eventAnnotationMin, eventAnnotationMax) {
		errs = append(errs, "annotation must be 20..2000 characters")
	}
	if !blankOrBetween(u.Description, eventDescriptionMin, eventDescriptionMax) {
		errs = append(errs, "description must be 20..7000 characters")
	}
	if u.Category != nil {
		if _, err := uuid.Parse(*u.Category); err != nil {
			errs = append(errs, "category must be a UUID")
		}
	}
	if u.ParticipantLimit != nil && *u.ParticipantLimit < 0 {
		errs = append(errs, "participant_limit must not be negative")
	}
	if u.Location != nil {
		errs = append(errs, u.Location.validate()...)
	}
	return errs
}

func (u UpdateEventRequest) toInput() domain.UpdateEventInput {
	in := domain.UpdateEventInput{
		Title:             u.Title,
		Annotation:        u.Annotation,
		Description:       u.Description,
		Paid:              u.Paid,
		ParticipantLimit:  u.ParticipantLimit,
		RequestModeration: u.RequestModeration,
	}
	if u.Category != nil {
		id := helpers.CanonicalUUID(*u.Category)
		in.CategoryID = &id
	}
	if u.EventDate != nil {
		t := u.EventDate.Time
		in.EventDate = &t
	}
	if u.Location != nil {
		in.Location = &domain.Location{Lat: u.Location.Lat, Lon: u.Location.Lon}
	}
	if u.StateAction != nil {
		action := domain.StateAction(strings.ToUpper(strings.TrimSpace(*u.StateAction)))
		in.StateAction = &action
	}
	return in
}

// EventSuccessResponse is the success response envelope for single-event endpoints.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListSuccessResponse is the success response envelope for event lists.
type EventListSuccessResponse struct {
	Data  helpers.PaginatedData[*domain.Event] `json:"data"`
	Error *helpers.APIError                    `json:"error"`
}

// EventController serves the initiator, admin and public event endpoints.
type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event owned by the caller in PENDING state. request_moderation defaults to true; participant_limit 0 means unlimited.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (category)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	event, err := c.Service.Create(r.Context(), userID, req.toInput())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListMyEvents godoc
// @Summary List my events
// @Description Returns the caller's events, newest first.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param from query int false "Row offset, overrides page"
// @Param size query int false "Window size used with from" default(10)
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me/events [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListByInitiator(r.Context(), userID, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WritePage(w, events, params.Page, params.PageSize, total)
}

// GetMyEvent godoc
// @Summary Get one of my events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/me/events/{eventID} [get]
func (c *EventController) GetMyEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	event, err := c.Service.GetByInitiator(r.Context(), userID, eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateMyEvent godoc
// @Summary Update one of my events
// @Description Partial update by the initiator. Published events cannot be changed. state_action may be SEND_TO_REVIEW or CANCEL_REVIEW.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /users/me/events/{eventID} [patch]
func (c *EventController) UpdateMyEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	event, err := c.Service.UpdateByInitiator(r.Context(), userID, eventID, req.toInput())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// AdminSearchEvents godoc
// @Summary Search all events (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param users query []string false "Initiator IDs" collectionFormat(csv)
// @Param states query []string false "States" collectionFormat(csv)
// @Param categories query []string false "Category IDs" collectionFormat(csv)
// @Param rangeStart query string false "Start, 2006-01-02 15:04:05"
// @Param rangeEnd query string false "End, 2006-01-02 15:04:05"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param from query int false "Row offset, overrides page"
// @Param size query int false "Window size used with from" default(10)
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /admin/events [get]
func (c *EventController) AdminSearchEvents(w http.ResponseWriter, r *http.Request) {
	users, ok := helpers.QueryUUIDs(r, "users")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "users must be UUIDs")
		return
	}
	categories, ok := helpers.QueryUUIDs(r, "categories")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "categories must be UUIDs")
		return
	}
	start, okStart := helpers.QueryTime(r, "rangeStart")
	end, okEnd := helpers.QueryTime(r, "rangeEnd")
	if !okStart || !okEnd {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid range")
		return
	}
	f := domain.AdminEventFilter{
		InitiatorIDs: users,
		CategoryIDs:  categories,
		RangeStart:   start,
		RangeEnd:     end,
	}
	for _, s := range helpers.QueryList(r, "states") {
		f.States = append(f.States, domain.EventState(strings.ToUpper(s)))
	}
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.SearchAdmin(r.Context(), f, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WritePage(w, events, params.Page, params.PageSize, total)
}

// AdminUpdateEvent godoc
// @Summary Moderate and edit an event (admin)
// @Description state_action may be PUBLISH_EVENT (only from PENDING) or REJECT_EVENT (not for published events).
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /admin/events/{eventID} [patch]
func (c *EventController) AdminUpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateByAdmin(r.Context(), eventID, req.toInput())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// SearchEvents godoc
// @Summary Search published events
// @Description Without a range only future events are returned. onlyAvailable keeps events with free seats.
// @Tags public
// @Produce json
// @Param text query string false "Text in title, annotation or description (case-insensitive)"
// @Param categories query []string false "Category IDs" collectionFormat(csv)
// @Param paid query bool false "Paid filter"
// @Param rangeStart query string false "Start, 2006-01-02 15:04:05"
// @Param rangeEnd query string false "End, 2006-01-02 15:04:05"
// @Param onlyAvailable query bool false "Only events with free seats" default(false)
// @Param sort query string false "EVENT_DATE or ID" Enums(EVENT_DATE, ID)
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param from query int false "Row offset, overrides page"
// @Param size query int false "Window size used with from" default(10)
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /events [get]
func (c *EventController) SearchEvents(w http.ResponseWriter, r *http.Request) {
	categories, ok := helpers.QueryUUIDs(r, "categories")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "categories must be UUIDs")
		return
	}
	paid, ok := helpers.QueryBool(r, "paid")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "paid must be a boolean")
		return
	}
	onlyAvailable, ok := helpers.QueryBool(r, "onlyAvailable")
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "onlyAvailable must be a boolean")
		return
	}
	start, okStart := helpers.QueryTime(r, "rangeStart")
	end, okEnd := helpers.QueryTime(r, "rangeEnd")
	if !okStart || !okEnd {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid range")
		return
	}
	f := domain.PublicEventFilter{
		Text:        strings.TrimSpace(r.URL.Query().Get("text")),
		CategoryIDs: categories,
		Paid:        paid,
		RangeStart:  start,
		RangeEnd:    end,
		Sort:        domain.EventSort(strings.ToUpper(r.URL.Query().Get("sort"))),
	}
	if onlyAvailable != nil {
		f.OnlyAvailable = *onlyAvailable
	}
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.SearchPublic(r.Context(), f, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WritePage(w, events, params.Page, params.PageSize, total)
}

// GetEvent godoc
// @Summary Get a published event
// @Tags public
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetPublished(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
