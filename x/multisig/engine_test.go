package multisig

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest/assert"
	"github.com/iov-one/vault/x/cash"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var _ Ledger = (*cash.Ledger)(nil)

// fixture is a vault with three administrators, funded through the cash
// extension.
type fixture struct {
	db      vault.CacheableKVStore
	engine  *Engine
	control cash.Controller
	admins  []vault.Address
}

func newFixture(t testing.TB, db vault.CacheableKVStore, balance uint64) *fixture {
	t.Helper()

	admins := []vault.Address{newAddr(), newAddr(), newAddr()}
	set, err := NewAdministratorSet(admins...)
	require.NoError(t, err)
	require.NoError(t, SaveAdministrators(db, set))

	control := cash.NewController()
	if balance > 0 {
		require.NoError(t, control.IssueCoins(db, VaultAddress(), balance))
	}
	return &fixture{
		db:      db,
		engine:  NewEngine(cash.NewLedger(control, VaultAddress()), nil),
		control: control,
		admins:  admins,
	}
}

// proposal loads the proposal and ensures the vote accounting is intact.
func (f *fixture) proposal(t testing.TB, index uint32) *Proposal {
	t.Helper()
	p, err := f.engine.Inspect(f.db, index)
	require.NoError(t, err)
	require.Equal(t, uint32(len(p.Voters)), p.Approvals)
	require.NoError(t, p.Validate())
	return p
}

func (f *fixture) approveAll(t testing.TB, index uint32) {
	t.Helper()
	for i, a := range f.admins {
		reached, err := f.engine.Approve(context.Background(), f.db, index, a)
		require.NoError(t, err)
		require.Equal(t, i == len(f.admins)-1, reached)
	}
}

func (f *fixture) balance(t testing.TB, addr vault.Address) uint64 {
	t.Helper()
	amount, err := f.control.Balance(f.db, addr)
	require.NoError(t, err)
	return amount
}

func TestUnanimousApprovalScenario(t *testing.T) {
	f := newFixture(t, store.MemStore(), 150)
	ctx := context.Background()
	a, b, c := f.admins[0], f.admins[1], f.admins[2]
	recipient := newAddr()

	require.NoError(t, f.engine.CreateTransaction(ctx, f.db, 1, 100, recipient, newAddr()))
	p := f.proposal(t, 1)
	require.Equal(t, Open, p.State(3))
	require.Equal(t, uint32(0), p.Approvals)

	reached, err := f.engine.Approve(ctx, f.db, 1, a)
	require.NoError(t, err)
	require.False(t, reached)
	require.Equal(t, uint32(1), f.proposal(t, 1).Approvals)

	before := f.proposal(t, 1)
	_, err = f.engine.Approve(ctx, f.db, 1, a)
	assert.IsErr(t, ErrAlreadyVoted, err)
	if diff := cmp.Diff(before, f.proposal(t, 1)); diff != "" {
		t.Fatalf("repeated approval modified the proposal: %s", diff)
	}

	reached, err = f.engine.Approve(ctx, f.db, 1, b)
	require.NoError(t, err)
	require.False(t, reached)
	require.Equal(t, uint32(2), f.proposal(t, 1).Approvals)

	reached, err = f.engine.Approve(ctx, f.db, 1, c)
	require.NoError(t, err)
	require.True(t, reached)
	p = f.proposal(t, 1)
	require.Equal(t, uint32(3), p.Approvals)
	require.Equal(t, Approved, p.State(3))

	require.NoError(t, f.engine.Execute(ctx, f.db, 1))
	require.True(t, f.proposal(t, 1).Fulfilled)
	require.Equal(t, uint64(50), f.balance(t, VaultAddress()))
	require.Equal(t, uint64(100), f.balance(t, recipient))

	assert.IsErr(t, ErrAlreadyFulfilled, f.engine.Execute(ctx, f.db, 1))
	require.Equal(t, uint64(50), f.balance(t, VaultAddress()))
	require.Equal(t, uint64(100), f.balance(t, recipient))
}

func TestInsufficientFundsScenario(t *testing.T) {
	f := newFixture(t, store.MemStore(), 50)
	ctx := context.Background()
	recipient := newAddr()

	require.NoError(t, f.engine.CreateTransaction(ctx, f.db, 1, 100, recipient, newAddr()))
	f.approveAll(t, 1)

	before := f.proposal(t, 1)
	assert.IsErr(t, errors.ErrAmount, f.engine.Execute(ctx, f.db, 1))
	after := f.proposal(t, 1)
	require.False(t, after.Fulfilled)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("failed execution modified the proposal: %s", diff)
	}
	require.Equal(t, uint64(50), f.balance(t, VaultAddress()))

	// Deposit the missing funds and retry.
	require.NoError(t, f.control.IssueCoins(f.db, VaultAddress(), 50))
	require.NoError(t, f.engine.Execute(ctx, f.db, 1))
	require.True(t, f.proposal(t, 1).Fulfilled)

	assert.IsErr(t, ErrAlreadyFulfilled, f.engine.Execute(ctx, f.db, 1))
	require.Equal(t, uint64(0), f.balance(t, VaultAddress()))
	require.Equal(t, uint64(100), f.balance(t, recipient))
}

func TestApproveByNonAdministrator(t *testing.T) {
	f := newFixture(t, store.MemStore(), 100)
	ctx := context.Background()
	outsider := newAddr()

	require.NoError(t, f.engine.CreateTransaction(ctx, f.db, 1, 10, newAddr(), outsider))

	// Unauthorized regardless of the proposal state.
	checkRejected := func(index uint32) {
		t.Helper()
		before, _ := f.engine.Inspect(f.db, index)
		_, err := f.engine.Approve(ctx, f.db, index, outsider)
		assert.IsErr(t, errors.ErrUnauthorized, err)
		after, _ := f.engine.Inspect(f.db, index)
		if diff := cmp.Diff(before, after); diff != "" {
			t.Fatalf("rejected approval modified the proposal: %s", diff)
		}
	}

	checkRejected(1)
	checkRejected(999) // unknown proposal

	_, err := f.engine.Approve(ctx, f.db, 1, f.admins[0])
	require.NoError(t, err)
	checkRejected(1)

	_, err = f.engine.Approve(ctx, f.db, 1, f.admins[1])
	require.NoError(t, err)
	_, err = f.engine.Approve(ctx, f.db, 1, f.admins[2])
	require.NoError(t, err)
	checkRejected(1)

	require.NoError(t, f.engine.Execute(ctx, f.db, 1))
	checkRejected(1)
}

func TestCreateWithExistingKey(t *testing.T) {
	f := newFixture(t, store.MemStore(), 0)
	ctx := context.Background()
	proposer := newAddr()

	require.NoError(t, f.engine.CreateTransaction(ctx, f.db, 5, 10, newAddr(), proposer))
	_, err := f.engine.Approve(ctx, f.db, 5, f.admins[0])
	require.NoError(t, err)
	before := f.proposal(t, 5)

	reuses := map[string]struct {
		amount    uint64
		recipient vault.Address
	}{
		"valid payload":     {amount: 999, recipient: newAddr()},
		"zero amount":       {amount: 0, recipient: newAddr()},
		"missing recipient": {amount: 10, recipient: nil},
	}
	for name, tc := range reuses {
		err = f.engine.CreateTransaction(ctx, f.db, 5, tc.amount, tc.recipient, newAddr())
		assert.IsErr(t, errors.ErrDuplicate, err)
		if diff := cmp.Diff(before, f.proposal(t, 5)); diff != "" {
			t.Fatalf("%s: existing proposal was modified: %s", name, diff)
		}
	}

	proposals, err := f.engine.Proposals().ByProposer(f.db, proposer)
	require.NoError(t, err)
	require.Len(t, proposals, 1)
}

func TestCreateInvalidProposal(t *testing.T) {
	f := newFixture(t, store.MemStore(), 0)
	ctx := context.Background()

	err := f.engine.CreateTransaction(ctx, f.db, 1, 0, newAddr(), newAddr())
	assert.FieldError(t, err, "Amount", errors.ErrAmount)
	err = f.engine.CreateTransaction(ctx, f.db, 1, 10, nil, newAddr())
	assert.FieldError(t, err, "Recipient", errors.ErrEmpty)

	_, err = f.engine.Inspect(f.db, 1)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestExecutePreconditions(t *testing.T) {
	cases := map[string]struct {
		balance uint64
		amount  uint64
		votes   int
		// executed is the number of successful executions before the
		// tested call.
		executed int
		index    uint32
		wantErr  *errors.Error
	}{
		"approved and funded": {
			balance: 100,
			amount:  100,
			votes:   3,
			index:   1,
			wantErr: nil,
		},
		"unknown proposal": {
			balance: 100,
			amount:  100,
			votes:   3,
			index:   2,
			wantErr: errors.ErrNotFound,
		},
		"no approvals": {
			balance: 100,
			amount:  100,
			votes:   0,
			index:   1,
			wantErr: ErrNotApproved,
		},
		"approved by some administrators": {
			balance: 100,
			amount:  100,
			votes:   2,
			index:   1,
			wantErr: ErrNotApproved,
		},
		"already executed": {
			balance:  200,
			amount:   100,
			votes:    3,
			executed: 1,
			index:    1,
			wantErr:  ErrAlreadyFulfilled,
		},
		"insufficient funds": {
			balance: 99,
			amount:  100,
			votes:   3,
			index:   1,
			wantErr: errors.ErrAmount,
		},
		"not approved is reported before insufficient funds": {
			balance: 0,
			amount:  100,
			votes:   1,
			index:   1,
			wantErr: ErrNotApproved,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, store.MemStore(), tc.balance)
			ctx := context.Background()
			recipient := newAddr()

			require.NoError(t, f.engine.CreateTransaction(ctx, f.db, 1, tc.amount, recipient, newAddr()))
			for _, a := range f.admins[:tc.votes] {
				_, err := f.engine.Approve(ctx, f.db, 1, a)
				require.NoError(t, err)
			}
			for i := 0; i < tc.executed; i++ {
				require.NoError(t, f.engine.Execute(ctx, f.db, 1))
			}

			before := f.proposal(t, 1)
			vaultBefore := f.balance(t, VaultAddress())
			err := f.engine.Execute(ctx, f.db, tc.index)
			assert.IsErr(t, tc.wantErr, err)

			after := f.proposal(t, 1)
			if tc.wantErr != nil {
				if diff := cmp.Diff(before, after); diff != "" {
					t.Fatalf("rejected execution modified the proposal: %s", diff)
				}
				require.Equal(t, vaultBefore, f.balance(t, VaultAddress()))
				return
			}
			require.True(t, after.Fulfilled)
			require.Equal(t, tc.balance-tc.amount, f.balance(t, VaultAddress()))
			require.Equal(t, tc.amount, f.balance(t, recipient))
		})
	}
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Balance(db vault.ReadOnlyKVStore) (uint64, error) {
	args := m.Called(db)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockLedger) Transfer(db vault.KVStore, recipient vault.Address, amount uint64) error {
	return m.Called(db, recipient, amount).Error(0)
}

func TestTransferFailureRollsBack(t *testing.T) {
	f := newFixture(t, store.MemStore(), 0)
	ledger := &mockLedger{}
	f.engine = NewEngine(ledger, nil)
	ctx := context.Background()
	recipient := newAddr()

	require.NoError(t, f.engine.CreateTransaction(ctx, f.db, 3, 100, recipient, newAddr()))
	f.approveAll(t, 3)
	before := f.proposal(t, 3)

	ledger.On("Balance", mock.Anything).Return(uint64(1000), nil)
	ledger.On("Transfer", mock.Anything, recipient, uint64(100)).
		Return(errors.Wrap(errors.ErrDatabase, "ledger unavailable")).Once()
	ledger.On("Transfer", mock.Anything, recipient, uint64(100)).
		Return(nil).Once()

	err := f.engine.Execute(ctx, f.db, 3)
	assert.IsErr(t, ErrTransferFailed, err)
	after := f.proposal(t, 3)
	require.False(t, after.Fulfilled)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("failed transfer left the proposal modified: %s", diff)
	}

	// The proposal is still approved and can be executed again.
	require.NoError(t, f.engine.Execute(ctx, f.db, 3))
	require.True(t, f.proposal(t, 3).Fulfilled)
	assert.IsErr(t, ErrAlreadyFulfilled, f.engine.Execute(ctx, f.db, 3))

	ledger.AssertExpectations(t)
	ledger.AssertNumberOfCalls(t, "Transfer", 2)
}

func TestProposalIsFulfilledWhileTransferring(t *testing.T) {
	f := newFixture(t, store.MemStore(), 0)
	ledger := &mockLedger{}
	f.engine = NewEngine(ledger, nil)
	ctx := context.Background()
	recipient := newAddr()

	require.NoError(t, f.engine.CreateTransaction(ctx, f.db, 1, 10, recipient, newAddr()))
	f.approveAll(t, 1)

	ledger.On("Balance", mock.Anything).Return(uint64(10), nil)
	ledger.On("Transfer", mock.Anything, recipient, uint64(10)).
		Run(func(args mock.Arguments) {
			db := args.Get(0).(vault.KVStore)
			p, err := NewProposalRegistry().Get(db, 1)
			require.NoError(t, err)
			require.True(t, p.Fulfilled, "proposal must be marked before the transfer")
		}).
		Return(nil).Once()

	require.NoError(t, f.engine.Execute(ctx, f.db, 1))
	ledger.AssertExpectations(t)
}

func TestConcurrentExecutionTransfersOnce(t *testing.T) {
	f := newFixture(t, store.NewSyncedStore(store.MemStore()), 1000)
	ctx := context.Background()
	recipient := newAddr()

	require.NoError(t, f.engine.CreateTransaction(ctx, f.db, 1, 100, recipient, newAddr()))
	f.approveAll(t, 1)

	const workers = 20
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.engine.Execute(ctx, f.db, 1)
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded int
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.IsErr(t, ErrAlreadyFulfilled, err)
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, uint64(900), f.balance(t, VaultAddress()))
	require.Equal(t, uint64(100), f.balance(t, recipient))
	require.Equal(t, 0, f.engine.locks.size())
}

func TestConcurrentProposalsAreIndependent(t *testing.T) {
	f := newFixture(t, store.NewSyncedStore(store.MemStore()), 100)
	ctx := context.Background()
	proposer := newAddr()
	recipient := newAddr()

	const proposals = 10
	var wg sync.WaitGroup
	errs := make(chan error, proposals)
	for i := uint32(1); i <= proposals; i++ {
		wg.Add(1)
		go func(index uint32) {
			defer wg.Done()
			if err := f.engine.CreateTransaction(ctx, f.db, index, 10, recipient, proposer); err != nil {
				errs <- err
				return
			}
			for _, a := range f.admins {
				if _, err := f.engine.Approve(ctx, f.db, index, a); err != nil {
					errs <- err
					return
				}
			}
			errs <- f.engine.Execute(ctx, f.db, index)
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	for i := uint32(1); i <= proposals; i++ {
		p := f.proposal(t, i)
		require.True(t, p.Fulfilled)
		require.Equal(t, uint32(3), p.Approvals)
	}
	require.Equal(t, uint64(0), f.balance(t, VaultAddress()))
	require.Equal(t, uint64(100), f.balance(t, recipient))

	created, err := f.engine.Proposals().ByProposer(f.db, proposer)
	require.NoError(t, err)
	require.Len(t, created, proposals)
}

func TestApprovalsRemaining(t *testing.T) {
	f := newFixture(t, store.MemStore(), 0)
	ctx := context.Background()

	_, err := f.engine.ApprovalsRemaining(f.db, 1)
	assert.IsErr(t, errors.ErrNotFound, err)

	require.NoError(t, f.engine.CreateTransaction(ctx, f.db, 1, 10, newAddr(), newAddr()))
	for i, a := range f.admins {
		remaining, err := f.engine.ApprovalsRemaining(f.db, 1)
		require.NoError(t, err)
		require.Equal(t, uint32(len(f.admins)-i), remaining)

		_, err = f.engine.Approve(ctx, f.db, 1, a)
		require.NoError(t, err)
	}
	remaining, err := f.engine.ApprovalsRemaining(f.db, 1)
	require.NoError(t, err)
	require.Equal(t, uint32(0), remaining)
}

func TestListAdministrators(t *testing.T) {
	f := newFixture(t, store.MemStore(), 0)

	admins, err := f.engine.ListAdministrators(f.db)
	require.NoError(t, err)
	require.Equal(t, f.admins, admins)

	admins[0] = newAddr()
	again, err := f.engine.ListAdministrators(f.db)
	require.NoError(t, err)
	require.Equal(t, f.admins, again)
}

func TestUninitializedRoster(t *testing.T) {
	db := store.MemStore()
	control := cash.NewController()
	require.NoError(t, control.IssueCoins(db, VaultAddress(), 100))
	engine := NewEngine(cash.NewLedger(control, VaultAddress()), nil)
	ctx := context.Background()

	// Anyone can propose, but nothing can be approved or paid out by an
	// empty quorum.
	require.NoError(t, engine.CreateTransaction(ctx, db, 1, 10, newAddr(), newAddr()))
	_, err := engine.Approve(ctx, db, 1, newAddr())
	assert.IsErr(t, errors.ErrState, err)
	assert.IsErr(t, errors.ErrState, engine.Execute(ctx, db, 1))
	_, err = engine.ListAdministrators(db)
	assert.IsErr(t, errors.ErrState, err)

	balance, err := control.Balance(db, VaultAddress())
	require.NoError(t, err)
	require.Equal(t, uint64(100), balance)
}

func TestRosterCanBeSetOnce(t *testing.T) {
	f := newFixture(t, store.MemStore(), 0)

	set, err := NewAdministratorSet(newAddr())
	require.NoError(t, err)
	assert.IsErr(t, errors.ErrImmutable, SaveAdministrators(f.db, set))

	admins, err := f.engine.ListAdministrators(f.db)
	require.NoError(t, err)
	require.Equal(t, f.admins, admins)
}

func TestEngineMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	f := newFixture(t, store.MemStore(), 100)
	f.engine = NewEngine(cash.NewLedger(f.control, VaultAddress()), metrics)
	ctx := context.Background()

	require.NoError(t, f.engine.CreateTransaction(ctx, f.db, 1, 100, newAddr(), newAddr()))
	assert.IsErr(t, ErrNotApproved, f.engine.Execute(ctx, f.db, 1))
	f.approveAll(t, 1)
	require.NoError(t, f.engine.Execute(ctx, f.db, 1))

	require.Equal(t, float64(1), testutil.ToFloat64(metrics.created))
	require.Equal(t, float64(3), testutil.ToFloat64(metrics.votes))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.executions.WithLabelValues(resultSuccess)))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.executions.WithLabelValues(resultRejected)))

	// Counters can be registered only once.
	_, err = NewMetrics(reg)
	require.Error(t, err)
}
