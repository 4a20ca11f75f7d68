package engine

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daftarhq/daftar/internal/ledger"
)

func TestAddContractDefaults(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")

	contract, err := e.AddContract(context.Background(), ContractInput{
		CustomerID: cust.ID,
		Type:       "maintenance",
		Value:      decimal.NewFromInt(12000),
		Duration:   12,
		StartDate:  "2025-06-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "CONT-2025-001", contract.ContractNumber)
	assert.Equal(t, "2026-06-01", contract.EndDate)
	assert.Equal(t, ledger.ContractActive, contract.Status)
	assert.NotContains(t, eventTitles(e), "Contract dates inconsistent")
}

func TestAddContractDivergentEndDateKeptAndWarned(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")

	contract, err := e.AddContract(context.Background(), ContractInput{
		CustomerID: cust.ID,
		Value:      decimal.NewFromInt(1000),
		Duration:   12,
		StartDate:  "2025-06-01",
		EndDate:    "2025-12-31", // not startDate + 12 months
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-12-31", contract.EndDate, "supplied end date is kept verbatim")
	assert.Contains(t, eventTitles(e), "Contract dates inconsistent")
}

func TestAddContractUnknownCustomer(t *testing.T) {
	e, _ := newTestEngine()

	_, err := e.AddContract(context.Background(), ContractInput{
		CustomerID: "cus-missing",
		Value:      decimal.NewFromInt(1000),
	})
	assert.True(t, IsNotFound(err))
}

func TestAddContractValidation(t *testing.T) {
	e, _ := newTestEngine()

	tests := []struct {
		name string
		in   ContractInput
	}{
		{"missing customer", ContractInput{Value: decimal.NewFromInt(10)}},
		{"negative value", ContractInput{CustomerID: "cus-1", Value: decimal.NewFromInt(-1)}},
		{"negative duration", ContractInput{CustomerID: "cus-1", Duration: -1}},
		{"bad startDate", ContractInput{CustomerID: "cus-1", StartDate: "June 1st"}},
		{"bad endDate", ContractInput{CustomerID: "cus-1", EndDate: "2025-13-40"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.AddContract(context.Background(), tt.in)
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}
}

func TestContractNumberNeverReused(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")

	in := ContractInput{
		CustomerID: cust.ID,
		Value:      decimal.NewFromInt(1000),
		Duration:   6,
		StartDate:  "2025-06-01",
	}
	first, err := e.AddContract(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "CONT-2025-001", first.ContractNumber)

	require.NoError(t, e.DeleteContract(context.Background(), first.ID))

	second, err := e.AddContract(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "CONT-2025-002", second.ContractNumber)
}

func TestUpdateContractKeepsNumber(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")

	contract, err := e.AddContract(context.Background(), ContractInput{
		CustomerID: cust.ID,
		Value:      decimal.NewFromInt(1000),
		Duration:   6,
		StartDate:  "2025-06-01",
	})
	require.NoError(t, err)

	updated, err := e.UpdateContract(context.Background(), contract.ID, ContractInput{
		CustomerID: cust.ID,
		Value:      decimal.NewFromInt(2000),
		Duration:   12,
		StartDate:  "2025-06-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "CONT-2025-001", updated.ContractNumber)
	assert.True(t, updated.Value.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, "2026-06-01", updated.EndDate)
}

func TestSweepContractExpiry(t *testing.T) {
	e, clock := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")

	mk := func(start string, months int) *ledger.Contract {
		c, err := e.AddContract(context.Background(), ContractInput{
			CustomerID: cust.ID,
			Value:      decimal.NewFromInt(100),
			Duration:   months,
			StartDate:  start,
		})
		require.NoError(t, err)
		return c
	}

	past := mk("2024-01-01", 6)     // ended 2024-07-01
	soon := mk("2024-12-10", 6)     // ends 2025-06-10, inside 30-day window
	future := mk("2025-01-01", 12)  // ends 2026-01-01
	expired := mk("2023-01-01", 12) // ended 2024-01-01

	clock.Set(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	nExpired, nExpiring, err := e.SweepContractExpiry(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, nExpired)
	assert.Equal(t, 1, nExpiring)
	assert.Equal(t, ledger.ContractExpired, past.Status)
	assert.Equal(t, ledger.ContractExpired, expired.Status)
	assert.Equal(t, ledger.ContractActive, soon.Status)
	assert.Equal(t, ledger.ContractActive, future.Status)
	assert.Contains(t, eventTitles(e), "Contract expired")
	assert.Contains(t, eventTitles(e), "Contract expiring soon")

	// A second sweep only re-warns about the near-expiry contract.
	clock.Set(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	nExpired, nExpiring, err = e.SweepContractExpiry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, nExpired)
	assert.Equal(t, 1, nExpiring)
}

func TestBulkDeleteContracts(t *testing.T) {
	e, _ := newTestEngine()
	cust := seedCustomer(t, e, "0511111111")

	for i := 0; i < 3; i++ {
		_, err := e.AddContract(context.Background(), ContractInput{
			CustomerID: cust.ID,
			Value:      decimal.NewFromInt(100),
			Duration:   6,
		})
		require.NoError(t, err)
	}

	n, err := e.BulkDeleteContracts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Empty(t, e.Store().Contracts())
}
