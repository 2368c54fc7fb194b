package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "postboost-backend/internal/common/errors"
	"postboost-backend/internal/common/middleware"
	"postboost-backend/internal/features/account/models"
	"postboost-backend/internal/features/account/service"
)

type AccountHandler struct {
	service service.AccountService
}

func NewAccountHandler(service service.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// RegisterRoutes mounts the public auth endpoints; authed is the route group
// protected by the auth middleware, admin additionally requires the admin role.
func (h *AccountHandler) RegisterRoutes(public, authed, admin *gin.RouterGroup) {
	auth := public.Group("/auth")
	{
		auth.POST("/signup", h.signUp)
		auth.POST("/signin", h.signIn)
	}

	authed.GET("/me", h.me)

	users := admin.Group("/users")
	{
		users.GET("", h.list)
		users.GET("/:id", h.getByID)
		users.PATCH("/:id", h.adminUpdate)
	}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// @Summary Register a new account
// @Description Creates an identity with the hosted auth subsystem plus a zero-balance profile
// @Tags auth
// @Accept json
// @Produce json
// @Param input body credentialsRequest true "Email and password"
// @Success 201 {object} models.Session
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (h *AccountHandler) signUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithAppError(c, apperrors.New(apperrors.ErrCodeBadRequest, err.Error()))
		return
	}

	session, err := h.service.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.AbortWithAppError(c, mapAccountError(err))
		return
	}
	c.JSON(http.StatusCreated, session)
}

// @Summary Sign in
// @Description Exchanges email and password for an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param input body credentialsRequest true "Email and password"
// @Success 200 {object} models.Session
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/signin [post]
func (h *AccountHandler) signIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithAppError(c, apperrors.New(apperrors.ErrCodeBadRequest, err.Error()))
		return
	}

	session, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.AbortWithAppError(c, apperrors.NewUnauthorizedError("invalid credentials"))
		return
	}
	c.JSON(http.StatusOK, session)
}

// @Summary Current account
// @Description Returns the authenticated caller's profile and balance
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Security TelegramInitData
// @Success 200 {object} models.Account
// @Failure 401 {object} models.ErrorResponse
// @Router /me [get]
func (h *AccountHandler) me(c *gin.Context) {
	account, ok := middleware.GetAccount(c)
	if !ok {
		middleware.AbortWithAppError(c, apperrors.NewUnauthorizedError("credentials required"))
		return
	}

	// Re-read so the balance reflects settlements since the token check.
	fresh, err := h.service.GetAccount(c.Request.Context(), account.ID)
	if err != nil {
		middleware.AbortWithAppError(c, mapAccountError(err))
		return
	}
	c.JSON(http.StatusOK, fresh)
}

// @Summary List accounts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} models.Account
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users [get]
func (h *AccountHandler) list(c *gin.Context) {
	limit, offset := pagination(c)
	accounts, err := h.service.ListAccounts(c.Request.Context(), limit, offset)
	if err != nil {
		middleware.AbortWithAppError(c, mapAccountError(err))
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// @Summary Get one account
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account id"
// @Success 200 {object} models.Account
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id} [get]
func (h *AccountHandler) getByID(c *gin.Context) {
	account, err := h.service.GetAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.AbortWithAppError(c, mapAccountError(err))
		return
	}
	c.JSON(http.StatusOK, account)
}

// @Summary Edit an account
// @Description Administrator edit of role, status, display name or avatar
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account id"
// @Param input body models.AccountPatch true "Fields to change"
// @Success 200 {object} models.Account
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id} [patch]
func (h *AccountHandler) adminUpdate(c *gin.Context) {
	var patch models.AccountPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		middleware.AbortWithAppError(c, apperrors.New(apperrors.ErrCodeBadRequest, err.Error()))
		return
	}

	account, err := h.service.AdminUpdate(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		middleware.AbortWithAppError(c, mapAccountError(err))
		return
	}
	c.JSON(http.StatusOK, account)
}

func mapAccountError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		return apperrors.New(apperrors.ErrCodeAccountNotFound, "Account not found")
	case errors.Is(err, service.ErrAuthDisabled):
		return apperrors.New(apperrors.ErrCodeBadRequest, "Password auth is not configured on this deployment")
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Account operation failed")
	}
}
