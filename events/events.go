// Package events carries ledger changes to the live feed, the message broker
// and the mailer. Delivery is best effort: a failing sink never fails the
// operation that produced the event.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/anjiri1684/college_crp/models"
)

type Kind string

const (
	PaymentRecorded  Kind = "payment.recorded"
	FeeRecordOverdue Kind = "fee_record.overdue"
	LedgerReconciled Kind = "ledger.reconciled"
)

type Event struct {
	Kind       Kind                     `json:"type"`
	OccurredAt time.Time                `json:"occurred_at"`
	Payment    *models.Payment          `json:"payment,omitempty"`
	FeeRecord  *models.StudentFeeRecord `json:"fee_record,omitempty"`
}

func NewPaymentRecorded(p *models.Payment, r *models.StudentFeeRecord) Event {
	return Event{Kind: PaymentRecorded, OccurredAt: time.Now().UTC(), Payment: p, FeeRecord: r}
}

func NewFeeRecordOverdue(r models.StudentFeeRecord) Event {
	return Event{Kind: FeeRecordOverdue, OccurredAt: time.Now().UTC(), FeeRecord: &r}
}

func NewLedgerReconciled(r models.StudentFeeRecord) Event {
	return Event{Kind: LedgerReconciled, OccurredAt: time.Now().UTC(), FeeRecord: &r}
}

func (e Event) JSON() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type PublisherFunc func(ctx context.Context, e Event) error

func (f PublisherFunc) Publish(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Nop discards every event.
var Nop Publisher = PublisherFunc(func(context.Context, Event) error { return nil })

// Multi delivers to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Emit publishes e and logs instead of returning a delivery error.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		log.Printf("🔥 Failed to publish %s event: %v", e.Kind, err)
	}
}
