package models

import "time"

type BalanceEventReason string

const (
	BalanceReasonSet      BalanceEventReason = "set"
	BalanceReasonPurchase BalanceEventReason = "purchase"
	BalanceReasonReset    BalanceEventReason = "reset"
)

// BalanceEvent records a token balance change for downstream consumers.
type BalanceEvent struct {
	UserID       string             `json:"userId"`
	TokenBalance int                `json:"tokenBalance"`
	Delta        int                `json:"delta,omitempty"`
	Reason       BalanceEventReason `json:"reason"`
	OccurredAt   time.Time          `json:"occurredAt"`
}
