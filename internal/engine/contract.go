package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/daftarhq/daftar/internal/ledger"
)

// ContractInput is the typed DTO for creating or updating a contract.
//
// EndDate may be supplied explicitly. When it diverges from
// StartDate+Duration the engine keeps the supplied value and raises a
// data-quality warning; it never silently corrects or rejects it.
type ContractInput struct {
	CustomerID string
	Type       string
	Value      decimal.Decimal
	Duration   int    // months
	StartDate  string // YYYY-MM-DD, defaults to today
	EndDate    string // YYYY-MM-DD, defaults to StartDate + Duration months
	Status     string // defaults to Active
	Details    string
	Terms      string
}

func (in *ContractInput) validate() error {
	if in.CustomerID == "" {
		return errValidation("customerId is required")
	}
	if in.Value.IsNegative() {
		return errValidation("value must not be negative, got %s", in.Value)
	}
	if in.Duration < 0 {
		return errValidation("duration must not be negative, got %d", in.Duration)
	}
	if in.StartDate != "" && !ledger.ValidDate(in.StartDate) {
		return errValidation("startDate %q is not a valid YYYY-MM-DD date", in.StartDate)
	}
	if in.EndDate != "" && !ledger.ValidDate(in.EndDate) {
		return errValidation("endDate %q is not a valid YYYY-MM-DD date", in.EndDate)
	}
	return nil
}

func (in *ContractInput) withDefaults(now time.Time) ContractInput {
	out := *in
	if out.StartDate == "" {
		out.StartDate = now.Format(ledger.DateLayout)
	}
	if out.EndDate == "" {
		out.EndDate = ledger.AddMonths(out.StartDate, out.Duration)
	}
	if out.Status == "" {
		out.Status = ledger.ContractActive
	}
	return out
}

// endDateDivergence returns a warning message when the stored end date
// does not match startDate+duration, or "" when consistent.
func endDateDivergence(c *ledger.Contract) string {
	derived := ledger.AddMonths(c.StartDate, c.Duration)
	if derived == "" || derived == c.EndDate {
		return ""
	}
	return fmt.Sprintf("%s: endDate %s differs from startDate+%d months (%s)",
		c.ContractNumber, c.EndDate, c.Duration, derived)
}

// AddContract creates a contract linked to an existing customer and issues
// the next contract number for the year. Gated.
func (e *Engine) AddContract(ctx context.Context, in ContractInput) (*ledger.Contract, error) {
	if err := e.begin(ctx, "add contract", true); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if err := in.validate(); err != nil {
		return nil, e.fail("Contract rejected", err)
	}
	cust, ok := e.store.Customer(in.CustomerID)
	if !ok {
		return nil, e.fail("Contract rejected", errNotFound(ledger.KindCustomer, in.CustomerID))
	}

	now := e.now()
	in = in.withDefaults(now)
	year := yearOf(in.StartDate)
	contract := &ledger.Contract{
		ID:             e.newID(ledger.PrefixContract),
		ContractNumber: ledger.FormatContractNumber(year, e.store.NextContractSeq(year)),
		CustomerID:     in.CustomerID,
		Type:           in.Type,
		Value:          in.Value,
		Duration:       in.Duration,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Status:         in.Status,
		Details:        in.Details,
		Terms:          in.Terms,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	e.store.PutContract(contract)

	e.events.Append(ledger.EventActivity, "Contract added",
		fmt.Sprintf("%s with %s, value %s", contract.ContractNumber, cust.Name, contract.Value),
		&ledger.EntityRef{Kind: ledger.KindContract, ID: contract.ID})
	if msg := endDateDivergence(contract); msg != "" {
		e.events.Append(ledger.EventWarning, "Contract dates inconsistent", msg,
			&ledger.EntityRef{Kind: ledger.KindContract, ID: contract.ID})
	}
	e.alert(ctx, alertContracts, fmt.Sprintf("contract %s signed with %s", contract.ContractNumber, cust.Name))
	e.persist(ctx)
	return contract, nil
}

// UpdateContract rewrites a contract. The contract number is never
// reissued. Gated.
func (e *Engine) UpdateContract(ctx context.Context, id string, in ContractInput) (*ledger.Contract, error) {
	if err := e.begin(ctx, "update contract", true); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	contract, ok := e.store.Contract(id)
	if !ok {
		return nil, e.fail("Contract update rejected", errNotFound(ledger.KindContract, id))
	}
	if err := in.validate(); err != nil {
		return nil, e.fail("Contract update rejected", err)
	}
	if _, ok := e.store.Customer(in.CustomerID); !ok {
		return nil, e.fail("Contract update rejected", errNotFound(ledger.KindCustomer, in.CustomerID))
	}

	now := e.now()
	in = in.withDefaults(now)
	contract.CustomerID = in.CustomerID
	contract.Type = in.Type
	contract.Value = in.Value
	contract.Duration = in.Duration
	contract.StartDate = in.StartDate
	contract.EndDate = in.EndDate
	contract.Status = in.Status
	contract.Details = in.Details
	contract.Terms = in.Terms
	contract.UpdatedAt = now

	e.events.Append(ledger.EventActivity, "Contract updated", contract.ContractNumber,
		&ledger.EntityRef{Kind: ledger.KindContract, ID: contract.ID})
	if msg := endDateDivergence(contract); msg != "" {
		e.events.Append(ledger.EventWarning, "Contract dates inconsistent", msg,
			&ledger.EntityRef{Kind: ledger.KindContract, ID: contract.ID})
	}
	e.persist(ctx)
	return contract, nil
}

// DeleteContract removes a contract. No cross-entity side effects beyond
// the customer linkage, which holds no aggregates for contracts. Gated.
func (e *Engine) DeleteContract(ctx context.Context, id string) error {
	if err := e.begin(ctx, "delete contract", true); err != nil {
		return err
	}
	defer e.mu.Unlock()

	contract, ok := e.store.Contract(id)
	if !ok {
		return e.fail("Contract delete rejected", errNotFound(ledger.KindContract, id))
	}
	e.store.RemoveContract(id)
	e.events.Append(ledger.EventActivity, "Contract deleted", contract.ContractNumber,
		&ledger.EntityRef{Kind: ledger.KindContract, ID: contract.ID})
	e.persist(ctx)
	return nil
}

// SweepContractExpiry marks active contracts past their end date as
// expired and warns about those expiring within the configured alert
// window. Intended to run at startup; not gated.
func (e *Engine) SweepContractExpiry(ctx context.Context) (expired, expiring int, err error) {
	if err := e.begin(ctx, "contract expiry sweep", false); err != nil {
		return 0, 0, err
	}
	defer e.mu.Unlock()

	now := e.now()
	today := now.Format(ledger.DateLayout)
	window := now.AddDate(0, 0, e.store.Settings().ContractAlertDays).Format(ledger.DateLayout)

	for _, contract := range e.store.Contracts() {
		if contract.Status != ledger.ContractActive || contract.EndDate == "" {
			continue
		}
		switch {
		case contract.EndDate < today:
			contract.Status = ledger.ContractExpired
			contract.UpdatedAt = now
			expired++
			msg := fmt.Sprintf("%s expired on %s", contract.ContractNumber, contract.EndDate)
			e.events.Append(ledger.EventWarning, "Contract expired", msg,
				&ledger.EntityRef{Kind: ledger.KindContract, ID: contract.ID})
			e.alert(ctx, alertContracts, msg)
		case contract.EndDate <= window:
			expiring++
			msg := fmt.Sprintf("%s expires on %s", contract.ContractNumber, contract.EndDate)
			e.events.Append(ledger.EventWarning, "Contract expiring soon", msg,
				&ledger.EntityRef{Kind: ledger.KindContract, ID: contract.ID})
			e.alert(ctx, alertContracts, msg)
		}
	}
	if expired > 0 {
		e.persist(ctx)
	}
	return expired, expiring, nil
}
