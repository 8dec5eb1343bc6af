package override_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/cashflow-engine/ledger"
	"github.com/warp/cashflow-engine/override"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func amt(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func loanTx(id string, amount float64) ledger.Transaction {
	date, _ := ledger.ParseDateKey("2025-06-10")
	return ledger.Transaction{
		ID:        ledger.TransactionID(id),
		Date:      date,
		Amount:    amt(amount),
		Direction: ledger.DirectionExpense,
		Group:     ledger.GroupLoan,
		Status:    ledger.StatusCompleted,
	}
}

func newReconciler() *override.Reconciler {
	return override.NewReconciler(override.NewMemory())
}

// =============================================================================
// APPLY
// =============================================================================

func TestApply_CorrectsLoanAmount(t *testing.T) {
	// GIVEN: A loan recorded as 1770, corrected via override to 1500
	// THEN: Every Apply yields 1500 until the override is removed,
	//       even after the list is "reloaded from storage"

	ctx := context.Background()
	r := newReconciler()
	require.NoError(t, r.Set(ctx, "loan-1", amt(1500)))

	reloaded := func() []ledger.Transaction {
		return []ledger.Transaction{loanTx("loan-1", 1770)}
	}

	got := r.Apply(ctx, reloaded())
	assert.True(t, got[0].Amount.Equal(amt(1500)))

	got = r.Apply(ctx, reloaded())
	assert.True(t, got[0].Amount.Equal(amt(1500)), "reload must not resurrect the stored amount")

	require.NoError(t, r.Remove(ctx, "loan-1"))
	got = r.Apply(ctx, reloaded())
	assert.True(t, got[0].Amount.Equal(amt(1770)), "after removal the stored amount shows again")
}

func TestApply_Idempotent(t *testing.T) {
	ctx := context.Background()
	r := newReconciler()
	require.NoError(t, r.Set(ctx, "loan-1", amt(1500)))

	txs := []ledger.Transaction{loanTx("loan-1", 1770), loanTx("loan-2", 900)}

	once := r.Apply(ctx, txs)
	twice := r.Apply(ctx, once)

	assert.Equal(t, once, twice)
}

func TestApply_NoOverridesReturnsSameSlice(t *testing.T) {
	// Callers use slice identity to skip unnecessary re-renders.
	ctx := context.Background()
	r := newReconciler()

	txs := []ledger.Transaction{loanTx("loan-1", 1770)}
	got := r.Apply(ctx, txs)

	assert.True(t, &got[0] == &txs[0], "expected the same backing array")
}

func TestApply_MatchingAmountReturnsSameSlice(t *testing.T) {
	ctx := context.Background()
	r := newReconciler()
	require.NoError(t, r.Set(ctx, "loan-1", amt(1770)))

	txs := []ledger.Transaction{loanTx("loan-1", 1770)}
	got := r.Apply(ctx, txs)

	assert.True(t, &got[0] == &txs[0], "an override equal to the stored amount changes nothing")
}

func TestApply_InputSliceUntouched(t *testing.T) {
	ctx := context.Background()
	r := newReconciler()
	require.NoError(t, r.Set(ctx, "loan-1", amt(1500)))

	txs := []ledger.Transaction{loanTx("loan-1", 1770)}
	_ = r.Apply(ctx, txs)

	assert.True(t, txs[0].Amount.Equal(amt(1770)), "Apply must not mutate its input")
}

func TestApply_NonLoanGroupUntouched(t *testing.T) {
	// GIVEN: An override recorded while the transaction was a loan,
	//        then the transaction's group changed to operational
	// THEN: The override does not apply - the reconciler never guesses intent

	ctx := context.Background()
	r := newReconciler()
	require.NoError(t, r.Set(ctx, "tx-1", amt(1500)))

	changed := loanTx("tx-1", 1770)
	changed.Group = ledger.GroupOperational

	got := r.Apply(ctx, []ledger.Transaction{changed})
	assert.True(t, got[0].Amount.Equal(amt(1770)))
}

// =============================================================================
// SET / PRUNE
// =============================================================================

func TestSet_CoercesNegativeAmount(t *testing.T) {
	ctx := context.Background()
	store := override.NewMemory()
	r := override.NewReconciler(store)

	require.NoError(t, r.Set(ctx, "loan-1", amt(-1500)))

	amount, ok, err := store.Get(ctx, "loan-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, amount.Equal(amt(1500)), "override amounts are magnitudes")
}

func TestPrune_RemovesOnlyStaleEntries(t *testing.T) {
	// GIVEN: Overrides for a live and a deleted transaction
	// WHEN: Pruning against the current list
	// THEN: Only the entry whose transaction vanished is removed

	ctx := context.Background()
	store := override.NewMemory()
	r := override.NewReconciler(store)
	require.NoError(t, r.Set(ctx, "live", amt(1500)))
	require.NoError(t, r.Set(ctx, "deleted", amt(800)))

	require.NoError(t, r.Prune(ctx, []ledger.Transaction{loanTx("live", 1770)}))

	_, ok, err := store.Get(ctx, "live")
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = store.Get(ctx, "deleted")
	require.NoError(t, err)
	assert.False(t, ok)
}
