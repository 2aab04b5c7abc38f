package domain

import "time"

// EventType names a notification emitted after a committed state change.
type EventType string

const (
	EventJournalPosted            EventType = "journal.posted"
	EventJournalReversed          EventType = "journal.reversed"
	EventBankTransactionAdded     EventType = "bank.transaction.added"
	EventReconciliationCompleted  EventType = "bank.reconciliation.completed"
	EventReconciliationDiscrepant EventType = "bank.reconciliation.discrepancy"
)

// Event is published to downstream consumers once the owning transaction has committed.
type Event struct {
	EventID     string    `json:"eventID"`
	Type        EventType `json:"type"`
	AggregateID string    `json:"aggregateID"`
	OccurredAt  time.Time `json:"occurredAt"`
	Actor       string    `json:"actor"`
	Payload     any       `json:"payload"`
}
