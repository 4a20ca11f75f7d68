// Package engine implements the ledger consistency engine: every mutation
// of the four entity collections flows through here, and every mutation
// either commits all of its invariant-affecting side effects or none.
//
// Invariants maintained across operations:
//   - Product.Stock never goes negative; Product.Status is always derived
//     from (Stock, MinStock)
//   - Customer.TotalPurchases equals the exact sum of Total over all live
//     sales referencing the customer
//   - Sale.Total equals Quantity x Price exactly
//   - Deleting a customer or product with live references is refused;
//     there is no cascading delete
//   - Invoice and contract numbers are issued from ever-growing per-year
//     counters and are never reused
//
// Concurrency: all mutating operations serialize through a single-flight
// mutex that is held across the access-gate authorization wait, so a
// pending authorization can never interleave with another mutation.
//
// Failure handling: validation, not-found, conflict and authorization
// failures are typed, leave the store byte-identical to its pre-call state,
// and append a user-visible notification. Persistence and outbound alert
// failures are degraded mode: logged, surfaced as a warning, and the
// already-committed operation stands.
package engine
