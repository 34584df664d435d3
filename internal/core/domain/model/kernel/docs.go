// Package kernel provides the value objects shared across the order domain.
//
// The package includes:
//   - UUID: a validated identifier for orders
//   - Money: an exact, non-negative amount with a fixed scale of two decimal places
//
// Both types are immutable and safe for concurrent use. Their zero values are
// invalid and are rejected by Validate, which catches values that bypassed
// the constructors (for example when rehydrated from persistence).
package kernel
