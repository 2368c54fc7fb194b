package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "postboost-backend/internal/common/errors"
	"postboost-backend/internal/common/middleware"
	"postboost-backend/internal/common/money"
	"postboost-backend/internal/features/ledger/models"
	"postboost-backend/internal/features/ledger/service"
)

type LedgerHandler struct {
	service service.LedgerService
}

func NewLedgerHandler(service service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// RegisterRoutes mounts the wallet endpoints on the authed group and the
// settlement queue on the admin group.
func (h *LedgerHandler) RegisterRoutes(authed, admin *gin.RouterGroup) {
	wallet := authed.Group("/wallet")
	{
		wallet.GET("", h.balance)
		wallet.POST("/deposits", h.deposit)
		wallet.POST("/withdrawals", h.requestWithdrawal)
		wallet.GET("/transactions", h.listTransactions)
	}

	authed.POST("/posts/:id/sponsor", h.sponsor)

	withdrawals := admin.Group("/withdrawals")
	{
		withdrawals.GET("", h.listPending)
		withdrawals.POST("/:id/approve", h.approve)
		withdrawals.POST("/:id/reject", h.reject)
	}
}

type depositRequest struct {
	AmountCents money.Cents `json:"amount_cents" binding:"required"`
	Network     string      `json:"network" binding:"required" enums:"ton,tron"`
}

type withdrawalRequest struct {
	AmountCents money.Cents `json:"amount_cents" binding:"required"`
	Network     string      `json:"network" binding:"required" enums:"ton,tron"`
	Address     string      `json:"address" binding:"required"`
}

type sponsorRequest struct {
	AmountCents money.Cents `json:"amount_cents" binding:"required"`
}

type balanceResponse struct {
	BalanceCents money.Cents `json:"balance_cents"`
}

type movementResponse struct {
	Transaction  *models.Transaction `json:"transaction"`
	BalanceCents money.Cents         `json:"balance_cents"`
}

// @Summary Wallet balance
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Security TelegramInitData
// @Success 200 {object} balanceResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /wallet [get]
func (h *LedgerHandler) balance(c *gin.Context) {
	account, ok := middleware.GetAccount(c)
	if !ok {
		middleware.AbortWithAppError(c, apperrors.NewUnauthorizedError("credentials required"))
		return
	}

	balance, err := h.service.GetBalance(c.Request.Context(), account.ID)
	if err != nil {
		middleware.AbortWithAppError(c, mapLedgerError(err))
		return
	}
	c.JSON(http.StatusOK, balanceResponse{BalanceCents: balance})
}

// @Summary Record a deposit
// @Description Credits the wallet and appends a completed deposit to the ledger. Demo flow: the on-chain transfer itself is taken on faith.
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security TelegramInitData
// @Param input body depositRequest true "Amount in cents and network"
// @Success 201 {object} movementResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /wallet/deposits [post]
func (h *LedgerHandler) deposit(c *gin.Context) {
	account, ok := middleware.GetAccount(c)
	if !ok {
		middleware.AbortWithAppError(c, apperrors.NewUnauthorizedError("credentials required"))
		return
	}

	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithAppError(c, apperrors.New(apperrors.ErrCodeBadRequest, err.Error()))
		return
	}

	tx, balance, err := h.service.Deposit(c.Request.Context(), account.ID, req.AmountCents, req.Network)
	if err != nil {
		middleware.AbortWithAppError(c, mapLedgerError(err))
		return
	}
	c.JSON(http.StatusCreated, movementResponse{Transaction: tx, BalanceCents: balance})
}

// @Summary Request a withdrawal
// @Description Reserves the amount by debiting it immediately and queues a pending withdrawal for admin review
// @Tags wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security TelegramInitData
// @Param input body withdrawalRequest true "Amount, network and destination address"
// @Success 201 {object} movementResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /wallet/withdrawals [post]
func (h *LedgerHandler) requestWithdrawal(c *gin.Context) {
	account, ok := middleware.GetAccount(c)
	if !ok {
		middleware.AbortWithAppError(c, apperrors.NewUnauthorizedError("credentials required"))
		return
	}

	var req withdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithAppError(c, apperrors.New(apperrors.ErrCodeBadRequest, err.Error()))
		return
	}

	tx, balance, err := h.service.RequestWithdrawal(c.Request.Context(), account.ID, req.AmountCents, req.Network, req.Address)
	if err != nil {
		middleware.AbortWithAppError(c, mapLedgerError(err))
		return
	}
	c.JSON(http.StatusCreated, movementResponse{Transaction: tx, BalanceCents: balance})
}

// @Summary Transaction history
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Security TelegramInitData
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} models.Transaction
// @Router /wallet/transactions [get]
func (h *LedgerHandler) listTransactions(c *gin.Context) {
	account, ok := middleware.GetAccount(c)
	if !ok {
		middleware.AbortWithAppError(c, apperrors.NewUnauthorizedError("credentials required"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.service.ListTransactions(c.Request.Context(), account.ID, limit, offset)
	if err != nil {
		middleware.AbortWithAppError(c, mapLedgerError(err))
		return
	}
	c.JSON(http.StatusOK, txs)
}

// @Summary Sponsor a post
// @Description Debits the wallet and converts the spend into purchased views on the post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security TelegramInitData
// @Param id path string true "Post id"
// @Param input body sponsorRequest true "Ad spend in cents"
// @Success 201 {object} models.SponsorshipResult
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /posts/{id}/sponsor [post]
func (h *LedgerHandler) sponsor(c *gin.Context) {
	account, ok := middleware.GetAccount(c)
	if !ok {
		middleware.AbortWithAppError(c, apperrors.NewUnauthorizedError("credentials required"))
		return
	}

	var req sponsorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithAppError(c, apperrors.New(apperrors.ErrCodeBadRequest, err.Error()))
		return
	}

	result, err := h.service.Sponsor(c.Request.Context(), account.ID, c.Param("id"), req.AmountCents)
	if err != nil {
		middleware.AbortWithAppError(c, mapLedgerError(err))
		return
	}
	c.JSON(http.StatusCreated, result)
}

// @Summary Pending withdrawals
// @Description Lists withdrawals awaiting settlement, oldest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Transaction
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/withdrawals [get]
func (h *LedgerHandler) listPending(c *gin.Context) {
	txs, err := h.service.ListPendingWithdrawals(c.Request.Context())
	if err != nil {
		middleware.AbortWithAppError(c, mapLedgerError(err))
		return
	}
	c.JSON(http.StatusOK, txs)
}

// @Summary Approve a withdrawal
// @Description Marks the pending withdrawal completed. The reserved funds stay debited.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction id"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/withdrawals/{id}/approve [post]
func (h *LedgerHandler) approve(c *gin.Context) {
	h.settle(c, true)
}

// @Summary Reject a withdrawal
// @Description Marks the pending withdrawal rejected and refunds the reserved amount
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction id"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/withdrawals/{id}/reject [post]
func (h *LedgerHandler) reject(c *gin.Context) {
	h.settle(c, false)
}

func (h *LedgerHandler) settle(c *gin.Context, approve bool) {
	tx, err := h.service.SettleWithdrawal(c.Request.Context(), c.Param("id"), approve)
	if err != nil {
		middleware.AbortWithAppError(c, mapLedgerError(err))
		return
	}
	c.JSON(http.StatusOK, tx)
}

func mapLedgerError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, service.ErrInsufficientBalance):
		return apperrors.New(apperrors.ErrCodeInsufficientBalance, "Insufficient balance")
	case errors.Is(err, service.ErrBelowMinimum):
		return apperrors.New(apperrors.ErrCodeBelowMinimum, "Amount is below the minimum withdrawal")
	case errors.Is(err, service.ErrTransactionNotFound):
		return apperrors.New(apperrors.ErrCodeTransactionNotFound, "Transaction not found")
	case errors.Is(err, service.ErrAlreadySettled):
		return apperrors.New(apperrors.ErrCodeAlreadySettled, "Withdrawal has already been settled")
	case errors.Is(err, service.ErrNotWithdrawal):
		return apperrors.New(apperrors.ErrCodeBadRequest, "Transaction is not a withdrawal")
	case errors.Is(err, service.ErrAccountNotFound):
		return apperrors.New(apperrors.ErrCodeAccountNotFound, "Account not found")
	case errors.Is(err, service.ErrPostNotFound):
		return apperrors.New(apperrors.ErrCodePostNotFound, "Post not found")
	case errors.Is(err, money.ErrNonPositiveAmount):
		return apperrors.New(apperrors.ErrCodeValidation, "Amount must be positive")
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Ledger operation failed")
	}
}
