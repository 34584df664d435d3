// Package order provides the Order aggregate root and its lifecycle rules.
//
// The package includes:
//   - Order: the aggregate root owning identity, lines, totals and lifecycle timestamps
//   - Line: an order line item with a derived line total
//   - Status: the state machine Pending -> Processing -> Shipped -> Delivered
//
// Key business rules:
//   - An order has at least one line; its total is the exact sum of line totals
//   - Leaving Pending is reserved for bulk promotion; manual updates start at Processing
//   - Cancellation is a flag, not a status, and is only allowed while Pending
//   - A canceled order accepts no further status changes
//
// Every rule violation surfaces as an *errs.ConflictError carrying a stable reason
// string, so callers can translate it mechanically.
package order
