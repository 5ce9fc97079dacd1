package returns

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumenblinds/shades-backend/internal/platform/apperr"
)

// Status represents the linear return lifecycle. There is no cancellation
// branch; a return only advances.
type Status string

const (
	StatusRequested Status = "Requested"
	StatusApproved  Status = "Approved"
	StatusRefunded  Status = "Refunded"
)

var statusRank = map[Status]int{
	StatusRequested: 0,
	StatusApproved:  1,
	StatusRefunded:  2,
}

// ParseStatus validates a wire status string.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := statusRank[st]; !ok {
		return "", apperr.New(apperr.KindValidation, "unknown return status %q", s)
	}
	return st, nil
}

// Defaults recorded when an update arrives for an orderId with no return on
// file: out-of-band recovery keeps the update instead of failing it.
const (
	UnknownCustomer    = "Unknown"
	ManualUpdateReason = "Manual Update"
)

// Return is a return/refund record linked to an order. The link is not
// enforced by storage; validation is this module's job. RefundAmount is
// advisory — money movement happens outside this system.
type Return struct {
	ID           uuid.UUID `json:"id"`
	OrderID      string    `json:"order_id"`
	Date         time.Time `json:"date"`
	Customer     string    `json:"customer"`
	Reason       string    `json:"reason,omitempty"`
	Status       Status    `json:"status"`
	RefundAmount float64   `json:"refund_amount,omitempty"`
}

// UpdateReturnRequest is the payload for creating or advancing a return.
type UpdateReturnRequest struct {
	OrderID      string  `json:"order_id"`
	Status       string  `json:"status"`
	Reason       string  `json:"reason,omitempty"`
	Customer     string  `json:"customer,omitempty"`
	RefundAmount float64 `json:"refund_amount,omitempty"`
}
