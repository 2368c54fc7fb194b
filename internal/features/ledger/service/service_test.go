package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboost-backend/internal/common/money"
	accountmodels "postboost-backend/internal/features/account/models"
	accountrepo "postboost-backend/internal/features/account/repository"
	accountmemory "postboost-backend/internal/features/account/repository/memory"
	ledgermodels "postboost-backend/internal/features/ledger/models"
	ledgermemory "postboost-backend/internal/features/ledger/repository/memory"
	postmodels "postboost-backend/internal/features/post/models"
	postrepo "postboost-backend/internal/features/post/repository"
	postmemory "postboost-backend/internal/features/post/repository/memory"
	settingsmodels "postboost-backend/internal/features/settings/models"
	settingsmemory "postboost-backend/internal/features/settings/repository/memory"
	settingsservice "postboost-backend/internal/features/settings/service"
)

const testAddress = "EQD4FPq-PRD4YtG87wgL7AErgQwHUMFQ-JxyYw8jzBPhqsm3"

type fixture struct {
	svc      LedgerService
	accounts accountrepo.AccountRepository
	posts    postrepo.PostRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	accounts := accountmemory.NewMemoryRepository()
	posts := postmemory.NewMemoryRepository()
	settings := settingsservice.NewSettingsService(
		settingsmemory.NewMemoryRepository(),
		nil,
		settingsmodels.Settings{
			ViewPriceCents:     100,
			ViewsPerBundle:     1000,
			MinWithdrawalCents: 1000,
		},
	)
	svc := NewLedgerService(ledgermemory.NewMemoryRepository(), accounts, posts, settings)
	return &fixture{svc: svc, accounts: accounts, posts: posts}
}

func (f *fixture) createAccount(t *testing.T, id string, balance money.Cents) {
	t.Helper()

	now := time.Now().UTC()
	err := f.accounts.Create(context.Background(), &accountmodels.Account{
		ID:        id,
		Role:      accountmodels.RoleUser,
		Status:    accountmodels.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	if balance > 0 {
		_, err = f.accounts.CreditBalance(context.Background(), id, balance)
		require.NoError(t, err)
	}
}

func (f *fixture) createPost(t *testing.T, id string) {
	t.Helper()

	err := f.posts.Create(context.Background(), &postmodels.Post{
		ID:        id,
		AuthorID:  "author",
		Body:      "hello",
		Kind:      postmodels.KindText,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, id string) money.Cents {
	t.Helper()

	balance, err := f.svc.GetBalance(context.Background(), id)
	require.NoError(t, err)
	return balance
}

func TestDeposit(t *testing.T) {
	f := newFixture(t)
	f.createAccount(t, "alice", 0)
	ctx := context.Background()

	tx, balance, err := f.svc.Deposit(ctx, "alice", 2500, "ton")
	require.NoError(t, err)
	assert.Equal(t, money.Cents(2500), balance)
	assert.Equal(t, ledgermodels.KindDeposit, tx.Kind)
	assert.Equal(t, ledgermodels.StatusCompleted, tx.Status)

	txs, err := f.svc.ListTransactions(ctx, "alice", 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, tx.ID, txs[0].ID)
}

func TestDepositValidation(t *testing.T) {
	f := newFixture(t)
	f.createAccount(t, "alice", 0)
	ctx := context.Background()

	_, _, err := f.svc.Deposit(ctx, "alice", 0, "ton")
	assert.Error(t, err)

	_, _, err = f.svc.Deposit(ctx, "alice", -100, "ton")
	assert.Error(t, err)

	_, _, err = f.svc.Deposit(ctx, "alice", 100, "dogecoin")
	assert.Error(t, err)

	assert.Equal(t, money.Cents(0), f.balance(t, "alice"))
}

func TestRequestWithdrawalReservesFunds(t *testing.T) {
	f := newFixture(t)
	f.createAccount(t, "alice", 10000)
	ctx := context.Background()

	tx, balance, err := f.svc.RequestWithdrawal(ctx, "alice", 5000, "ton", testAddress)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(5000), balance)
	assert.Equal(t, ledgermodels.StatusPending, tx.Status)
	assert.Equal(t, testAddress, tx.Address)

	pending, err := f.svc.ListPendingWithdrawals(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, tx.ID, pending[0].ID)
}

func TestRequestWithdrawalInsufficientBalance(t *testing.T) {
	f := newFixture(t)
	f.createAccount(t, "alice", 3000)
	ctx := context.Background()

	_, _, err := f.svc.RequestWithdrawal(ctx, "alice", 5000, "ton", testAddress)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// A failed request must not move money or queue anything.
	assert.Equal(t, money.Cents(3000), f.balance(t, "alice"))
	pending, err := f.svc.ListPendingWithdrawals(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRequestWithdrawalBelowMinimum(t *testing.T) {
	f := newFixture(t)
	f.createAccount(t, "alice", 10000)

	_, _, err := f.svc.RequestWithdrawal(context.Background(), "alice", 500, "ton", testAddress)
	assert.ErrorIs(t, err, ErrBelowMinimum)
	assert.Equal(t, money.Cents(10000), f.balance(t, "alice"))
}

func TestApproveWithdrawalKeepsFundsDebited(t *testing.T) {
	f := newFixture(t)
	f.createAccount(t, "alice", 10000)
	ctx := context.Background()

	tx, _, err := f.svc.RequestWithdrawal(ctx, "alice", 5000, "ton", testAddress)
	require.NoError(t, err)

	settled, err := f.svc.SettleWithdrawal(ctx, tx.ID, true)
	require.NoError(t, err)
	assert.Equal(t, ledgermodels.StatusCompleted, settled.Status)
	assert.Equal(t, money.Cents(5000), f.balance(t, "alice"))
}

func TestRejectWithdrawalRefunds(t *testing.T) {
	f := newFixture(t)
	f.createAccount(t, "alice", 10000)
	ctx := context.Background()

	// $100 in, $50 requested, rejected: the full $100 is back.
	tx, _, err := f.svc.RequestWithdrawal(ctx, "alice", 5000, "ton", testAddress)
	require.NoError(t, err)

	settled, err := f.svc.SettleWithdrawal(ctx, tx.ID, false)
	require.NoError(t, err)
	assert.Equal(t, ledgermodels.StatusRejected, settled.Status)
	assert.Equal(t, money.Cents(10000), f.balance(t, "alice"))
}

func TestSettleWithdrawalExactlyOnce(t *testing.T) {
	f := newFixture(t)
	f.createAccount(t, "alice", 10000)
	ctx := context.Background()

	tx, _, err := f.svc.RequestWithdrawal(ctx, "alice", 5000, "ton", testAddress)
	require.NoError(t, err)

	_, err = f.svc.SettleWithdrawal(ctx, tx.ID, false)
	require.NoError(t, err)

	// A second settlement of either kind must not move money again.
	_, err = f.svc.SettleWithdrawal(ctx, tx.ID, false)
	assert.ErrorIs(t, err, ErrAlreadySettled)
	_, err = f.svc.SettleWithdrawal(ctx, tx.ID, true)
	assert.ErrorIs(t, err, ErrAlreadySettled)
	assert.Equal(t, money.Cents(10000), f.balance(t, "alice"))
}

func TestSettleWithdrawalOnlyWithdrawals(t *testing.T) {
	f := newFixture(t)
	f.createAccount(t, "alice", 0)
	ctx := context.Background()

	tx, _, err := f.svc.Deposit(ctx, "alice", 1000, "ton")
	require.NoError(t, err)

	_, err = f.svc.SettleWithdrawal(ctx, tx.ID, true)
	assert.ErrorIs(t, err, ErrNotWithdrawal)

	_, err = f.svc.SettleWithdrawal(ctx, "missing", true)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestSponsor(t *testing.T) {
	f := newFixture(t)
	f.createAccount(t, "alice", 1000)
	f.createPost(t, "post-1")
	ctx := context.Background()

	// $1.00 buys 1000 views at the default price; 20% surfaces at once.
	result, err := f.svc.Sponsor(ctx, "alice", "post-1", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), result.PurchasedViews)
	assert.Equal(t, int64(200), result.ImmediateViews)
	assert.Equal(t, money.Cents(900), result.NewBalance)
	assert.Equal(t, ledgermodels.KindAdSpend, result.Transaction.Kind)
	assert.Equal(t, ledgermodels.StatusCompleted, result.Transaction.Status)
	assert.Equal(t, "post-1", result.Transaction.PostID)

	post, err := f.posts.GetByID(ctx, "post-1")
	require.NoError(t, err)
	assert.True(t, post.Sponsored)
	assert.Equal(t, int64(200), post.Views)
	assert.Equal(t, int64(800), post.PendingViews)
}

func TestSponsorInsufficientBalance(t *testing.T) {
	f := newFixture(t)
	f.createAccount(t, "alice", 50)
	f.createPost(t, "post-1")
	ctx := context.Background()

	_, err := f.svc.Sponsor(ctx, "alice", "post-1", 100)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// The failed purchase must leave the post untouched.
	post, err := f.posts.GetByID(ctx, "post-1")
	require.NoError(t, err)
	assert.False(t, post.Sponsored)
	assert.Equal(t, int64(0), post.Views)
	assert.Equal(t, int64(0), post.PendingViews)
	assert.Equal(t, money.Cents(50), f.balance(t, "alice"))
}

func TestSponsorMissingPost(t *testing.T) {
	f := newFixture(t)
	f.createAccount(t, "alice", 1000)

	_, err := f.svc.Sponsor(context.Background(), "alice", "missing", 100)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.Equal(t, money.Cents(1000), f.balance(t, "alice"))
}

func TestDepositWithdrawRejectScenario(t *testing.T) {
	f := newFixture(t)
	f.createAccount(t, "alice", 0)
	ctx := context.Background()

	_, balance, err := f.svc.Deposit(ctx, "alice", 10000, "ton")
	require.NoError(t, err)
	require.Equal(t, money.Cents(10000), balance)

	tx, balance, err := f.svc.RequestWithdrawal(ctx, "alice", 5000, "ton", testAddress)
	require.NoError(t, err)
	require.Equal(t, money.Cents(5000), balance)

	_, err = f.svc.SettleWithdrawal(ctx, tx.ID, false)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(10000), f.balance(t, "alice"))

	txs, err := f.svc.ListTransactions(ctx, "alice", 10, 0)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}
