package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"postboost-backend/internal/common/cache"
	"postboost-backend/internal/features/account/models"
	"postboost-backend/internal/features/account/repository"
	"postboost-backend/internal/platform/supabase"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAuthDisabled    = errors.New("password auth is not configured")
)

const (
	profileCacheKey = "profile:%s"
	profileCacheTTL = 10 * time.Second
)

type AccountService interface {
	// SignUp registers a new identity with the auth subsystem and creates
	// the matching profile row with a zero balance.
	SignUp(ctx context.Context, email, password string) (*models.Session, error)
	// SignIn exchanges credentials for an access token.
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	// ResolveToken maps an access token to the account it belongs to,
	// creating the profile on first lookup.
	ResolveToken(ctx context.Context, accessToken string) (*models.Account, error)

	GetAccount(ctx context.Context, id string) (*models.Account, error)
	// GetOrCreate fetches the profile, creating it when this is the first
	// time the identity is seen (e.g. Telegram init-data sign-in).
	GetOrCreate(ctx context.Context, id, displayName, avatarURL string) (*models.Account, error)

	ListAccounts(ctx context.Context, limit, offset int) ([]*models.Account, error)
	// AdminUpdate applies an administrator edit to a profile.
	AdminUpdate(ctx context.Context, id string, patch models.AccountPatch) (*models.Account, error)
}

type accountService struct {
	repo  repository.AccountRepository
	auth  *supabase.AuthClient
	cache *cache.CacheService
}

// NewAccountService wires the account service. auth may be nil in the local
// build variant (Telegram init-data remains available); cache may be nil.
func NewAccountService(repo repository.AccountRepository, auth *supabase.AuthClient, cacheService *cache.CacheService) AccountService {
	return &accountService{repo: repo, auth: auth, cache: cacheService}
}

func (s *accountService) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	if s.auth == nil {
		return nil, ErrAuthDisabled
	}

	resp, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("signup failed: %w", err)
	}
	if resp.User == nil {
		return nil, fmt.Errorf("signup returned no user")
	}

	account, err := s.GetOrCreate(ctx, resp.User.ID, email, "")
	if err != nil {
		return nil, err
	}

	return &models.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		Account:      account,
	}, nil
}

func (s *accountService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	if s.auth == nil {
		return nil, ErrAuthDisabled
	}

	resp, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("signin failed: %w", err)
	}
	if resp.User == nil {
		return nil, fmt.Errorf("signin returned no user")
	}

	account, err := s.GetOrCreate(ctx, resp.User.ID, email, "")
	if err != nil {
		return nil, err
	}

	return &models.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		Account:      account,
	}, nil
}

func (s *accountService) ResolveToken(ctx context.Context, accessToken string) (*models.Account, error) {
	if s.auth == nil {
		return nil, ErrAuthDisabled
	}

	user, err := s.auth.GetUser(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("token lookup failed: %w", err)
	}

	return s.GetOrCreate(ctx, user.ID, user.Email, "")
}

func (s *accountService) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	if s.cache != nil {
		var cached models.Account
		if err := s.cache.Get(ctx, fmt.Sprintf(profileCacheKey, id), &cached); err == nil {
			return &cached, nil
		}
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	s.cacheProfile(ctx, account)
	return account, nil
}

func (s *accountService) GetOrCreate(ctx context.Context, id, displayName, avatarURL string) (*models.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err == nil {
		if displayName != "" && account.DisplayName != displayName {
			account.DisplayName = displayName
			account.UpdatedAt = time.Now().UTC()
			if err := s.repo.Update(ctx, account); err != nil {
				return nil, err
			}
			s.invalidateProfile(ctx, id)
		}
		return account, nil
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	account = &models.Account{
		ID:          id,
		Role:        models.RoleUser,
		Status:      models.StatusActive,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *accountService) AdminUpdate(ctx context.Context, id string, patch models.AccountPatch) (*models.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if patch.DisplayName != nil {
		account.DisplayName = *patch.DisplayName
	}
	if patch.AvatarURL != nil {
		account.AvatarURL = *patch.AvatarURL
	}
	if patch.Role != nil {
		if *patch.Role != models.RoleUser && *patch.Role != models.RoleAdmin {
			return nil, fmt.Errorf("invalid role %q", *patch.Role)
		}
		account.Role = *patch.Role
	}
	if patch.Status != nil {
		if *patch.Status != models.StatusActive && *patch.Status != models.StatusBanned {
			return nil, fmt.Errorf("invalid status %q", *patch.Status)
		}
		account.Status = *patch.Status
	}
	account.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	s.invalidateProfile(ctx, id)
	return account, nil
}

func (s *accountService) cacheProfile(ctx context.Context, account *models.Account) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, fmt.Sprintf(profileCacheKey, account.ID), account, profileCacheTTL)
}

func (s *accountService) invalidateProfile(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, fmt.Sprintf(profileCacheKey, id))
}
