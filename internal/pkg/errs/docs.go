// Package errs provides standardized error types for the order service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package maps the service's error taxonomy onto concrete types:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed input
//     (the validation kind, see IsValidation)
//   - ObjectNotFoundError: a referenced object does not exist
//   - ConflictError: a state-machine rule was violated; Reason carries the rule text
//   - KeyGenerationFailedError: an idempotency key could not be derived
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works through wrapping
//
// Callers classify errors with errors.Is / errors.As and never by string matching;
// the presentation layer turns each kind into a stable code.
package errs
