package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"postboost-backend/internal/common/logger"
	"postboost-backend/internal/common/money"
	"postboost-backend/internal/common/validation"
	accountrepo "postboost-backend/internal/features/account/repository"
	"postboost-backend/internal/features/ledger/models"
	"postboost-backend/internal/features/ledger/repository"
	postrepo "postboost-backend/internal/features/post/repository"
	settingssvc "postboost-backend/internal/features/settings/service"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBelowMinimum        = errors.New("amount below minimum withdrawal")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadySettled      = errors.New("withdrawal already settled")
	ErrNotWithdrawal       = errors.New("transaction is not a withdrawal")
	ErrAccountNotFound     = errors.New("account not found")
	ErrPostNotFound        = errors.New("post not found")
)

// immediateSharePercent of purchased views surfaces at purchase time; the rest
// drains through the growth step.
const immediateSharePercent = 20

// LedgerService owns balance movement. Deposits credit, withdrawals reserve by
// debiting up front, sponsorships debit and convert spend into views.
type LedgerService interface {
	Deposit(ctx context.Context, accountID string, amount money.Cents, network string) (*models.Transaction, money.Cents, error)
	RequestWithdrawal(ctx context.Context, accountID string, amount money.Cents, network, address string) (*models.Transaction, money.Cents, error)
	SettleWithdrawal(ctx context.Context, txID string, approve bool) (*models.Transaction, error)
	Sponsor(ctx context.Context, accountID, postID string, amount money.Cents) (*models.SponsorshipResult, error)
	ListTransactions(ctx context.Context, accountID string, limit, offset int) ([]*models.Transaction, error)
	ListPendingWithdrawals(ctx context.Context) ([]*models.Transaction, error)
	GetBalance(ctx context.Context, accountID string) (money.Cents, error)
}

type ledgerService struct {
	txRepo      repository.TransactionRepository
	accountRepo accountrepo.AccountRepository
	postRepo    postrepo.PostRepository
	settings    settingssvc.SettingsService
}

// NewLedgerService wires the ledger over the transaction log, the profile
// balances, the posts store and the pricing settings.
func NewLedgerService(
	txRepo repository.TransactionRepository,
	accountRepo accountrepo.AccountRepository,
	postRepo postrepo.PostRepository,
	settings settingssvc.SettingsService,
) LedgerService {
	return &ledgerService{
		txRepo:      txRepo,
		accountRepo: accountRepo,
		postRepo:    postRepo,
		settings:    settings,
	}
}

func (s *ledgerService) Deposit(ctx context.Context, accountID string, amount money.Cents, network string) (*models.Transaction, money.Cents, error) {
	if err := amount.Validate(); err != nil {
		return nil, 0, err
	}
	if err := validation.ValidateNetwork(network); err != nil {
		return nil, 0, err
	}

	now := time.Now().UTC()
	tx := &models.Transaction{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Kind:        models.KindDeposit,
		AmountCents: amount,
		Status:      models.StatusCompleted,
		Network:     network,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, 0, err
	}

	balance, err := s.accountRepo.CreditBalance(ctx, accountID, amount)
	if err != nil {
		if errors.Is(err, accountrepo.ErrAccountNotFound) {
			return nil, 0, ErrAccountNotFound
		}
		return nil, 0, err
	}

	logger.Info().
		Str("account_id", accountID).
		Str("tx_id", tx.ID).
		Int64("amount_cents", int64(amount)).
		Msg("deposit credited")
	return tx, balance, nil
}

func (s *ledgerService) RequestWithdrawal(ctx context.Context, accountID string, amount money.Cents, network, address string) (*models.Transaction, money.Cents, error) {
	if err := amount.Validate(); err != nil {
		return nil, 0, err
	}
	if err := validation.ValidateNetwork(network); err != nil {
		return nil, 0, err
	}
	if err := validation.ValidateAddress(network, address); err != nil {
		return nil, 0, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, 0, err
	}
	if amount < settings.MinWithdrawalCents {
		return nil, 0, ErrBelowMinimum
	}

	// Debit first so the pending withdrawal can never overdraw: the funds
	// are reserved until an admin approves or rejects.
	balance, err := s.accountRepo.DebitBalance(ctx, accountID, amount)
	if err != nil {
		switch {
		case errors.Is(err, accountrepo.ErrInsufficientBalance):
			return nil, 0, ErrInsufficientBalance
		case errors.Is(err, accountrepo.ErrAccountNotFound):
			return nil, 0, ErrAccountNotFound
		}
		return nil, 0, err
	}

	now := time.Now().UTC()
	tx := &models.Transaction{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Kind:        models.KindWithdrawal,
		AmountCents: amount,
		Status:      models.StatusPending,
		Network:     network,
		Address:     address,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		// Put the reserved funds back rather than stranding them.
		if _, creditErr := s.accountRepo.CreditBalance(ctx, accountID, amount); creditErr != nil {
			logger.Error().Err(creditErr).
				Str("account_id", accountID).
				Int64("amount_cents", int64(amount)).
				Msg("failed to restore reserved withdrawal funds")
		}
		return nil, 0, err
	}

	logger.Info().
		Str("account_id", accountID).
		Str("tx_id", tx.ID).
		Int64("amount_cents", int64(amount)).
		Str("network", network).
		Msg("withdrawal requested")
	return tx, balance, nil
}

func (s *ledgerService) SettleWithdrawal(ctx context.Context, txID string, approve bool) (*models.Transaction, error) {
	tx, err := s.txRepo.GetByID(ctx, txID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if tx.Kind != models.KindWithdrawal {
		return nil, ErrNotWithdrawal
	}
	if tx.IsSettled() {
		return nil, ErrAlreadySettled
	}

	status := models.StatusCompleted
	if !approve {
		status = models.StatusRejected
	}
	if err := s.txRepo.UpdateStatus(ctx, txID, status); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	if !approve {
		// Rejection hands the reserved funds back.
		if _, err := s.accountRepo.CreditBalance(ctx, tx.AccountID, tx.AmountCents); err != nil {
			logger.Error().Err(err).
				Str("tx_id", txID).
				Str("account_id", tx.AccountID).
				Msg("failed to refund rejected withdrawal")
			return nil, err
		}
	}

	tx.Status = status
	tx.UpdatedAt = time.Now().UTC()
	logger.Info().
		Str("tx_id", txID).
		Str("status", status).
		Msg("withdrawal settled")
	return tx, nil
}

func (s *ledgerService) Sponsor(ctx context.Context, accountID, postID string, amount money.Cents) (*models.SponsorshipResult, error) {
	if err := amount.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, postrepo.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	balance, err := s.accountRepo.DebitBalance(ctx, accountID, amount)
	if err != nil {
		switch {
		case errors.Is(err, accountrepo.ErrInsufficientBalance):
			return nil, ErrInsufficientBalance
		case errors.Is(err, accountrepo.ErrAccountNotFound):
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	tx := &models.Transaction{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Kind:        models.KindAdSpend,
		AmountCents: amount,
		Status:      models.StatusCompleted,
		PostID:      postID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		if _, creditErr := s.accountRepo.CreditBalance(ctx, accountID, amount); creditErr != nil {
			logger.Error().Err(creditErr).
				Str("account_id", accountID).
				Str("post_id", postID).
				Msg("failed to refund sponsorship after log failure")
		}
		return nil, err
	}

	total := settings.ViewsFor(amount)
	immediate := total * immediateSharePercent / 100
	pending := total - immediate
	if err := s.postRepo.MarkSponsored(ctx, postID, immediate, pending); err != nil {
		logger.Error().Err(err).
			Str("post_id", postID).
			Str("tx_id", tx.ID).
			Msg("failed to apply sponsored views")
		return nil, err
	}

	logger.Info().
		Str("account_id", accountID).
		Str("post_id", postID).
		Int64("amount_cents", int64(amount)).
		Int64("views", total).
		Msg("post sponsored")
	return &models.SponsorshipResult{
		Transaction:    tx,
		NewBalance:     balance,
		PurchasedViews: total,
		ImmediateViews: immediate,
	}, nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, accountID string, limit, offset int) ([]*models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.txRepo.ListByAccount(ctx, accountID, limit, offset)
}

func (s *ledgerService) ListPendingWithdrawals(ctx context.Context) ([]*models.Transaction, error) {
	return s.txRepo.ListPendingWithdrawals(ctx)
}

func (s *ledgerService) GetBalance(ctx context.Context, accountID string) (money.Cents, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, accountrepo.ErrAccountNotFound) {
			return 0, ErrAccountNotFound
		}
		return 0, err
	}
	return account.BalanceCents, nil
}
