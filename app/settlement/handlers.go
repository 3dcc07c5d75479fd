package settlement

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/app/api"
	"github.com/joefazee/sportsbook/models"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// SettleEvent godoc
// @Summary Re-run settlement for a finished event
// @Description Idempotent: wagers already settled are reported as noop
// @Tags settlement
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} api.Response{data=Report}
// @Success 202 {object} api.Response{data=Report}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/events/{id}/settle [post]
func (h *Handler) SettleEvent(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	report, err := h.service.SettleEvent(c.Request.Context(), eventID, models.TriggerManual)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			api.NotFoundResponse(c, "Event")
			return
		}
		api.InternalErrorResponse(c, "Failed to settle event")
		return
	}

	respondWithReport(c, report)
}

// GetEventSettlements godoc
// @Summary List settlement records of an event
// @Tags settlement
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} api.Response{data=[]Response}
// @Router /api/v1/admin/events/{id}/settlements [get]
func (h *Handler) GetEventSettlements(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	settlements, err := h.service.GetEventSettlements(c.Request.Context(), eventID)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to list settlements")
		return
	}

	api.ListResponse(c, "Settlements retrieved successfully", settlements, len(settlements))
}

// GetReport godoc
// @Summary Last settlement report of an event
// @Tags settlement
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} api.Response{data=Report}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/events/{id}/settlement-report [get]
func (h *Handler) GetReport(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	report, err := h.service.GetReport(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			api.NotFoundResponse(c, "Settlement report")
			return
		}
		api.InternalErrorResponse(c, "Failed to get settlement report")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Settlement report retrieved successfully", report)
}

// SettleParlays godoc
// @Summary Sweep open parlays
// @Tags settlement
// @Produce json
// @Success 200 {object} api.Response{data=Report}
// @Router /api/v1/admin/parlays/settle [post]
func (h *Handler) SettleParlays(c *gin.Context) {
	report, err := h.service.SettleParlays(c.Request.Context(), models.TriggerManual)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to settle parlays")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Parlays settled", report)
}

func respondWithReport(c *gin.Context, report *Report) {
	if report.InProgress {
		api.SuccessResponse(c, http.StatusAccepted, "Settlement already in progress", report)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Event settled", report)
}

func eventIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid event ID format")
		return uuid.Nil, false
	}
	return id, true
}
