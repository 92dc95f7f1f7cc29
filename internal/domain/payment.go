package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentType string

const (
	PaymentEntryFee    PaymentType = "entry_fee"
	PaymentPrizePayout PaymentType = "prize_payout"
	PaymentWithdrawal  PaymentType = "withdrawal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment is one append-only ledger entry for a monetary event. Rows never
// change after reaching succeeded/failed, except for an explicit refund; the
// settlement workflow relies on that to block double credits.
type Payment struct {
	ID        uuid.UUID `json:"id"`
	ContestID *int64    `json:"contest_id,omitempty"`
	UserID    int64     `json:"user_id"`

	Amount float64       `json:"amount"`
	Type   PaymentType   `json:"type"`
	Status PaymentStatus `json:"status"`

	ExternalRef string `json:"external_ref,omitempty"`
	Method      string `json:"method,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSucceeded || s == PaymentStatusFailed || s == PaymentStatusRefunded
}
