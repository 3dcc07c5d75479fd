package events

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/app/api"
	"github.com/joefazee/sportsbook/internal/validator"
	"github.com/joefazee/sportsbook/models"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateEvent godoc
// @Summary Register a fixture
// @Tags events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "Fixture"
// @Success 201 {object} api.Response{data=Response}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	event, err := h.service.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			api.ValidationErrorResponse(c, verr)
			return
		}
		api.InternalErrorResponse(c, "Failed to create event")
		return
	}

	api.CreatedResponse(c, "Event created successfully", event)
}

// GetEvent godoc
// @Summary Get event by ID
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} api.Response{data=Response}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/events/{id} [get]
func (h *Handler) GetEvent(c *gin.Context) {
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	event, err := h.service.GetEvent(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			api.NotFoundResponse(c, "Event")
			return
		}
		api.InternalErrorResponse(c, "Failed to get event")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Event retrieved successfully", event)
}

// RecordResult godoc
// @Summary Enter a half-time or full-time result
// @Description A full-time score finishes the event and settles its wagers
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body ResultRequest true "Result"
// @Success 200 {object} api.Response{data=ResultResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Failure 422 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/events/{id}/result [put]
func (h *Handler) RecordResult(c *gin.Context) {
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	resp, err := h.service.RecordResult(c.Request.Context(), id, &req, adminSource(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Result recorded", resp)
}

// CancelEvent godoc
// @Summary Cancel an event and refund its wagers
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} api.Response{data=ResultResponse}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/events/{id}/cancel [post]
func (h *Handler) CancelEvent(c *gin.Context) {
	id, ok := eventIDParam(c)
	if !ok {
		return
	}

	resp, err := h.service.CancelEvent(c.Request.Context(), id, adminSource(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Event cancelled", resp)
}

func respondWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		api.NotFoundResponse(c, "Event")
	case errors.Is(err, models.ErrResultConflict), errors.Is(err, models.ErrEventAlreadyFinal):
		api.ConflictResponse(c, err.Error())
	case errors.Is(err, ErrInvalidResult), errors.Is(err, ErrEmptyResult),
		errors.Is(err, models.ErrInvalidScore), errors.Is(err, models.ErrTeamMismatch):
		api.BadRequestResponse(c, err.Error())
	case errors.Is(err, models.ErrScoreWithoutFinish), errors.Is(err, models.ErrMissingFullTime),
		errors.Is(err, models.ErrHalfTimeNotAllowed):
		api.UnprocessableResponse(c, err.Error())
	default:
		api.InternalErrorResponse(c, "Failed to record result")
	}
}

// adminSource reads the optional actor id set by api.AdminKey. A malformed id
// is dropped rather than rejected; the audit row then carries no actor.
func adminSource(c *gin.Context) Source {
	source := Source{Trigger: models.TriggerAdmin}
	if raw, ok := c.Get(api.ActorContextKey); ok {
		if s, ok := raw.(string); ok {
			if id, err := uuid.Parse(s); err == nil {
				source.ActorID = &id
			}
		}
	}
	return source
}

func eventIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid event ID format")
		return uuid.Nil, false
	}
	return id, true
}
