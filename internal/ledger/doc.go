// Package ledger provides the domain types for the Daftar bookkeeping core.
//
// This package contains type definitions plus the small pure functions that
// belong to them (status derivation, document numbering, input syntax checks,
// snapshot encoding). All other internal packages import ledger; ledger
// imports nothing internal, keeping it the foundational layer with no
// circular dependencies.
//
// Key design constraints:
//   - Monetary values are decimal.Decimal, never floats; Sale.Total is always
//     the exact product Quantity x Price
//   - Product.Status is derived from (Stock, MinStock), never stored verbatim
//     from input
//   - JSON tags use camelCase to stay wire-compatible with snapshots written
//     by earlier schema versions
//   - Calendar dates (Sale.Date, Contract.StartDate/EndDate) are plain
//     YYYY-MM-DD strings as persisted; CreatedAt/UpdatedAt are RFC 3339
package ledger
