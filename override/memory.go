package override

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	amounts map[ledger.TransactionID]decimal.Decimal
}

func NewMemory() *Memory {
	return &Memory{amounts: make(map[ledger.TransactionID]decimal.Decimal)}
}

func (m *Memory) Get(_ context.Context, id ledger.TransactionID) (decimal.Decimal, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	amount, ok := m.amounts[id]
	return amount, ok, nil
}

func (m *Memory) Set(_ context.Context, id ledger.TransactionID, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.amounts[id] = amount
	return nil
}

func (m *Memory) Delete(_ context.Context, id ledger.TransactionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.amounts, id)
	return nil
}

func (m *Memory) All(_ context.Context) (map[ledger.TransactionID]decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[ledger.TransactionID]decimal.Decimal, len(m.amounts))
	for id, amount := range m.amounts {
		result[id] = amount
	}
	return result, nil
}
