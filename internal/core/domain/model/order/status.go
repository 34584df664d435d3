package order

import (
	"fmt"
	"strings"

	"orders/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Processing ──> Shipped ──> Delivered
//	  (bulk)      (manual)     (manual)    (terminal)
//
// Cancellation is tracked separately on the Order and does not change Status.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of every new order.
	Pending

	// Processing is reached only through bulk promotion from Pending.
	Processing

	// Shipped follows Processing.
	Shipped

	// Delivered is terminal.
	Delivered
)

// Conflict reasons returned by the state machine.
const (
	ReasonCanceled            = "Order has been canceled"
	ReasonManualFromPending   = "Cannot manually update status from PENDING"
	ReasonAlreadyDelivered    = "Order already delivered"
	ReasonProcessingToShipped = "Only allowed transition from PROCESSING is to SHIPPED"
	ReasonShippedToDelivered  = "Only allowed transition from SHIPPED is to DELIVERED"
	ReasonAlreadyCanceled     = "Order already canceled"
	ReasonCancelOnlyPending   = "Can only cancel orders in PENDING status"
	ReasonConcurrentUpdate    = "Order was modified concurrently"
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Pending:    "PENDING",
		Processing: "PROCESSING",
		Shipped:    "SHIPPED",
		Delivered:  "DELIVERED",
	}
}

// ParseStatus converts the persisted or wire representation into a Status.
// Matching is case-insensitive; UNKNOWN and any other value are rejected.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the defined states.
func (s Status) Validate() error {
	if s <= Unknown || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the upper-case name used in storage and on the wire.
// Invalid values render as "UNKNOWN".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no transition leaves this status.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// TransitionTo validates a manual transition and returns the target on success.
//
// Pending can only be left via Promote, so any manual target from Pending is a
// conflict. From Processing the only target is Shipped; from Shipped it is Delivered.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}

	switch s {
	case Pending:
		return Unknown, errs.NewConflictError(ReasonManualFromPending)
	case Delivered:
		return Unknown, errs.NewConflictError(ReasonAlreadyDelivered)
	case Processing:
		if target != Shipped {
			return Unknown, errs.NewConflictError(ReasonProcessingToShipped)
		}
	case Shipped:
		if target != Delivered {
			return Unknown, errs.NewConflictError(ReasonShippedToDelivered)
		}
	default:
		return Unknown, s.Validate()
	}

	return target, nil
}

// Promote is the bulk transition Pending -> Processing.
func (s Status) Promote() (Status, error) {
	if s != Pending {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to promote", s.String()),
		)
	}
	return Processing, nil
}
