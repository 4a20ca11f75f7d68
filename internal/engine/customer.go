package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/daftarhq/daftar/internal/ledger"
)

// CustomerInput is the typed DTO for creating or updating a customer.
type CustomerInput struct {
	Name             string
	Phone            string
	Email            string
	Company          string
	Type             ledger.CustomerType // defaults to individual
	RegistrationDate string              // YYYY-MM-DD, defaults to today
}

func (in *CustomerInput) validate() error {
	if in.Name == "" {
		return errValidation("name is required")
	}
	if in.Phone == "" {
		return errValidation("phone is required")
	}
	if !ledger.ValidPhone(in.Phone) {
		return errValidation("phone %q is not a valid mobile number (05xxxxxxxx)", in.Phone)
	}
	if in.Email != "" && !ledger.ValidEmail(in.Email) {
		return errValidation("email %q is not a valid address", in.Email)
	}
	if in.RegistrationDate != "" && !ledger.ValidDate(in.RegistrationDate) {
		return errValidation("registrationDate %q is not a valid YYYY-MM-DD date", in.RegistrationDate)
	}
	return nil
}

// AddCustomer creates a customer with a zero lifetime total. Phone numbers
// are unique across customers. Not gated.
func (e *Engine) AddCustomer(ctx context.Context, in CustomerInput) (*ledger.Customer, error) {
	if err := e.begin(ctx, "add customer", false); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if err := in.validate(); err != nil {
		return nil, e.fail("Customer rejected", err)
	}
	if other, ok := e.store.CustomerByPhone(in.Phone); ok {
		return nil, e.fail("Customer rejected",
			errConflict(ledger.KindCustomer, "phone %s already belongs to %s", in.Phone, other.Name))
	}

	now := e.now()
	if in.Type == "" {
		in.Type = ledger.CustomerIndividual
	}
	if in.RegistrationDate == "" {
		in.RegistrationDate = now.Format(ledger.DateLayout)
	}
	cust := &ledger.Customer{
		ID:               e.newID(ledger.PrefixCustomer),
		Name:             in.Name,
		Phone:            in.Phone,
		Email:            in.Email,
		Company:          in.Company,
		Type:             in.Type,
		TotalPurchases:   decimal.Zero,
		RegistrationDate: in.RegistrationDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	e.store.PutCustomer(cust)

	e.events.Append(ledger.EventActivity, "Customer added",
		fmt.Sprintf("%s (%s)", cust.Name, cust.Phone),
		&ledger.EntityRef{Kind: ledger.KindCustomer, ID: cust.ID})
	e.persist(ctx)
	return cust, nil
}

// UpdateCustomer rewrites a customer's descriptive fields. The lifetime
// total is engine-maintained and never taken from input. Not gated.
func (e *Engine) UpdateCustomer(ctx context.Context, id string, in CustomerInput) (*ledger.Customer, error) {
	if err := e.begin(ctx, "update customer", false); err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	cust, ok := e.store.Customer(id)
	if !ok {
		return nil, e.fail("Customer update rejected", errNotFound(ledger.KindCustomer, id))
	}
	if err := in.validate(); err != nil {
		return nil, e.fail("Customer update rejected", err)
	}
	if other, ok := e.store.CustomerByPhone(in.Phone); ok && other.ID != id {
		return nil, e.fail("Customer update rejected",
			errConflict(ledger.KindCustomer, "phone %s already belongs to %s", in.Phone, other.Name))
	}

	now := e.now()
	cust.Name = in.Name
	cust.Phone = in.Phone
	cust.Email = in.Email
	cust.Company = in.Company
	if in.Type != "" {
		cust.Type = in.Type
	}
	if in.RegistrationDate != "" {
		cust.RegistrationDate = in.RegistrationDate
	}
	cust.UpdatedAt = now

	e.events.Append(ledger.EventActivity, "Customer updated", cust.Name,
		&ledger.EntityRef{Kind: ledger.KindCustomer, ID: cust.ID})
	e.persist(ctx)
	return cust, nil
}

// DeleteCustomer removes a customer unless any live sale or contract still
// references them; there is no cascading delete. Gated.
func (e *Engine) DeleteCustomer(ctx context.Context, id string) error {
	if err := e.begin(ctx, "delete customer", true); err != nil {
		return err
	}
	defer e.mu.Unlock()

	cust, ok := e.store.Customer(id)
	if !ok {
		return e.fail("Customer delete rejected", errNotFound(ledger.KindCustomer, id))
	}
	for _, sale := range e.store.Sales() {
		if sale.CustomerID == id {
			return e.fail("Customer delete rejected",
				errConflict(ledger.KindCustomer, "sale %s still references %s", sale.InvoiceNumber, cust.Name))
		}
	}
	for _, contract := range e.store.Contracts() {
		if contract.CustomerID == id {
			return e.fail("Customer delete rejected",
				errConflict(ledger.KindCustomer, "contract %s still references %s", contract.ContractNumber, cust.Name))
		}
	}

	e.store.RemoveCustomer(id)
	e.events.Append(ledger.EventActivity, "Customer deleted", cust.Name,
		&ledger.EntityRef{Kind: ledger.KindCustomer, ID: cust.ID})
	e.persist(ctx)
	return nil
}
