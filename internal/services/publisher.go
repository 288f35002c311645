package services

import "context"

// ChangePublisher notifies downstream consumers (the export worker)
// about ledger mutations. A nil publisher disables publishing; services
// never fail a write because an event could not be sent.
type ChangePublisher interface {
	PublishChange(ctx context.Context, entity, op string, id int64) error
}
