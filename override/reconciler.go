/*
Package override provides the loan override reconciler.

PURPOSE:
  A small keyed correction table (transaction id -> corrected amount) that
  survives independently of the main transaction list. It is reapplied every
  time the list is loaded or mutated, so a loan's displayed amount can be
  corrected without rewriting history.

LIFECYCLE OF AN OVERRIDE:
  {none} -> {set}     on manual correction (Set)
         -> {cleared} on explicit removal (Remove)
         -> {pruned}  lazily on the next load, when the referenced
                      transaction id no longer exists (Prune)

WHAT THE RECONCILER DOES NOT DO:
  It never guesses intent. An override recorded for a transaction whose
  group later changes away from loan stays in the table (Apply skips it,
  because Apply only touches loan-group transactions); clearing it is an
  explicit caller action.

CONCURRENCY:
  The store implementations are internally thread-safe, but the override
  table is a single-writer resource: callers must serialize through a
  common "apply, then persist" step, because a stale read could resurrect
  an override a concurrent operation just removed.

SEE ALSO:
  - memory.go: In-memory Store (testing/dev)
  - store/sqlite: Persistent Store with single-key updates
*/
package override

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/internal/logging"
	"github.com/warp/cashflow-engine/ledger"
)

// =============================================================================
// STORE - Persistence interface for the override table
// =============================================================================

// Store persists the id -> amount override table. Implementations must
// support partial updates (single-key set/delete) without rewriting the
// whole table.
type Store interface {
	// Get returns the override for a transaction id, if recorded.
	Get(ctx context.Context, id ledger.TransactionID) (decimal.Decimal, bool, error)

	// Set records or replaces the override for a transaction id.
	Set(ctx context.Context, id ledger.TransactionID, amount decimal.Decimal) error

	// Delete removes the override for a transaction id. Deleting an absent
	// key is not an error.
	Delete(ctx context.Context, id ledger.TransactionID) error

	// All returns the full override table.
	All(ctx context.Context) (map[ledger.TransactionID]decimal.Decimal, error)
}

// =============================================================================
// RECONCILER
// =============================================================================

// Reconciler applies the override table to transaction lists.
type Reconciler struct {
	store Store
}

func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// Apply returns a transaction list identical to the input except that any
// loan-group transaction with a recorded override has its amount replaced.
// When no override applies it returns the SAME slice, letting callers skip
// unnecessary re-renders.
//
// A store read failure degrades to "no overrides" rather than failing the
// caller: a render must not break on the correction table.
func (r *Reconciler) Apply(ctx context.Context, txs []ledger.Transaction) []ledger.Transaction {
	overrides, err := r.store.All(ctx)
	if err != nil {
		logging.L().WithError(err).Warn("override table unreadable, applying none")
		return txs
	}
	if len(overrides) == 0 {
		return txs
	}

	result := txs
	copied := false
	for i, tx := range txs {
		if tx.Group != ledger.GroupLoan {
			continue
		}
		amount, ok := overrides[tx.ID]
		if !ok || amount.Equal(tx.Amount) {
			continue
		}
		if !copied {
			result = make([]ledger.Transaction, len(txs))
			copy(result, txs)
			copied = true
		}
		result[i].Amount = amount
	}
	return result
}

// Set records a corrected amount for a loan transaction. Amounts are
// magnitudes; negatives are coerced defensively.
func (r *Reconciler) Set(ctx context.Context, id ledger.TransactionID, amount decimal.Decimal) error {
	return r.store.Set(ctx, id, amount.Abs())
}

// Remove explicitly clears an override.
func (r *Reconciler) Remove(ctx context.Context, id ledger.TransactionID) error {
	return r.store.Delete(ctx, id)
}

// Prune deletes override entries whose transaction id no longer exists in
// the given list. Called at transaction-load time; stale entries are
// expected steady-state behavior, so pruning is silent toward the caller.
func (r *Reconciler) Prune(ctx context.Context, txs []ledger.Transaction) error {
	overrides, err := r.store.All(ctx)
	if err != nil {
		return err
	}
	if len(overrides) == 0 {
		return nil
	}

	live := make(map[ledger.TransactionID]bool, len(txs))
	for _, tx := range txs {
		live[tx.ID] = true
	}

	for id := range overrides {
		if live[id] {
			continue
		}
		if err := r.store.Delete(ctx, id); err != nil {
			return err
		}
		logging.L().WithField("transaction_id", string(id)).Info("pruned stale loan override")
	}
	return nil
}
