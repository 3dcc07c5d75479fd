package wallet

import (
	"errors"

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

// CreateWallet godoc
// @Summary Open a settlement wallet
// @Description Opens the wallet that payouts and refunds for a user are credited to
// @Tags wallets
// @Accept json
// @Produce json
// @Param request body CreateWalletRequest true "Wallet"
// @Success 201 {object} api.Response{data=Response}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/wallets [post]
func (h *Handler) CreateWallet(c *gin.Context) {
	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	wallet, err := h.service.CreateWallet(c.Request.Context(), &req)
	switch {
	case err == nil:
		api.CreatedResponse(c, "Wallet opened", wallet)
	case errors.Is(err, ErrWalletExists):
		api.ConflictResponse(c, err.Error())
	case errors.Is(err, models.ErrInvalidCurrencyCode),
		errors.Is(err, models.ErrNegativeBalance),
		errors.Is(err, models.ErrInvalidUserID):
		api.BadRequestResponse(c, err.Error())
	default:
		api.InternalErrorResponse(c, "Failed to open wallet")
	}
}

// GetUserWallets godoc
// @Summary Settlement balances of a user
// @Tags wallets
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} api.Response{data=[]Response}
// @Router /api/v1/admin/users/{user_id}/wallets [get]
func (h *Handler) GetUserWallets(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}

	wallets, err := h.service.GetUserWallets(c.Request.Context(), userID)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to load balances")
		return
	}

	api.ListResponse(c, "Balances retrieved", wallets, len(wallets))
}

// GetUserLedger godoc
// @Summary Settlement ledger of a user
// @Description Payout and refund rows credited by settlement, newest first, with totals over the whole filter
// @Tags wallets
// @Produce json
// @Param user_id path string true "User ID"
// @Param type query string false "payout or wager_refund"
// @Param event_id query string false "Only credits from this event"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} api.Response{data=LedgerResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/admin/users/{user_id}/ledger [get]
func (h *Handler) GetUserLedger(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}

	var query LedgerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	ledger, err := h.service.GetUserLedger(c.Request.Context(), userID, &query)
	if err != nil {
		api.InternalErrorResponse(c, "Failed to load ledger")
		return
	}

	api.ListResponse(c, "Ledger retrieved", ledger, len(ledger.Entries))
}

func userParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid user ID format")
		return uuid.Nil, false
	}
	return id, true
}
