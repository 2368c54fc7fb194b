package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"postboost-backend/internal/common/errors"
	"postboost-backend/internal/features/account/models"
	"postboost-backend/internal/features/account/service"
)

const accountContextKey = "account"

// Auth resolves the caller to an account and stores it in the context.
// Two sign-in paths issue the same identity: a Bearer access token from the
// hosted auth subsystem, or Telegram Mini App init_data when a bot token is
// configured.
func Auth(accounts service.AccountService, botToken string, initDataTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, appErr := resolveCaller(c, accounts, botToken, initDataTTL)
		if appErr != nil {
			AbortWithAppError(c, appErr)
			return
		}

		if account.Status == models.StatusBanned && !account.IsAdmin() {
			AbortWithAppError(c, errors.New(errors.ErrCodeAccountBanned, "Your account has been banned"))
			return
		}

		c.Set(accountContextKey, account)
		c.Next()
	}
}

func resolveCaller(c *gin.Context, accounts service.AccountService, botToken string, initDataTTL time.Duration) (*models.Account, *errors.AppError) {
	ctx := c.Request.Context()

	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		token := strings.TrimPrefix(header, "Bearer ")
		account, err := accounts.ResolveToken(ctx, token)
		if err != nil {
			return nil, errors.NewUnauthorizedError("invalid access token")
		}
		return account, nil
	}

	if raw := c.GetHeader("init_data"); raw != "" && botToken != "" {
		if err := initdata.Validate(raw, botToken, initDataTTL); err != nil {
			return nil, errors.NewUnauthorizedError(fmt.Sprintf("invalid init data: %v", err))
		}
		parsed, err := initdata.Parse(raw)
		if err != nil {
			return nil, errors.NewUnauthorizedError("malformed init data")
		}

		displayName := parsed.User.Username
		if displayName == "" {
			displayName = strings.TrimSpace(parsed.User.FirstName + " " + parsed.User.LastName)
		}
		account, err := accounts.GetOrCreate(ctx, fmt.Sprintf("tg:%d", parsed.User.ID), displayName, parsed.User.PhotoURL)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to resolve telegram account")
		}
		return account, nil
	}

	return nil, errors.NewUnauthorizedError("credentials required")
}

// RequireAdmin rejects callers without the administrator role. It must run
// after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := GetAccount(c)
		if !ok {
			AbortWithAppError(c, errors.NewUnauthorizedError("credentials required"))
			return
		}
		if !account.IsAdmin() {
			AbortWithAppError(c, errors.NewForbiddenError("admin access required"))
			return
		}
		c.Next()
	}
}

// GetAccount returns the authenticated account stored by Auth.
func GetAccount(c *gin.Context) (*models.Account, bool) {
	value, exists := c.Get(accountContextKey)
	if !exists {
		return nil, false
	}
	account, ok := value.(*models.Account)
	return account, ok
}
