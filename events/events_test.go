package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/anjiri1684/college_crp/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind, durable).Error(0)
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, msg).Error(0)
}

func (m *mockChannel) Close() error {
	return m.Called().Error(0)
}

func TestMultiPublishesToAll(t *testing.T) {
	var got []Kind
	ok := PublisherFunc(func(_ context.Context, e Event) error {
		got = append(got, e.Kind)
		return nil
	})
	failing := PublisherFunc(func(context.Context, Event) error { return errors.New("broker down") })

	m := Multi{ok, failing, nil, ok}
	err := m.Publish(context.Background(), Event{Kind: PaymentRecorded})

	assert.ErrorContains(t, err, "broker down")
	assert.Equal(t, []Kind{PaymentRecorded, PaymentRecorded}, got)
}

func TestEventJSON(t *testing.T) {
	e := NewFeeRecordOverdue(models.StudentFeeRecord{ID: "r1", PaymentStatus: models.StatusOverdue})
	body, err := e.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "fee_record.overdue", decoded["type"])
	assert.NotContains(t, decoded, "payment")
	assert.Equal(t, "r1", decoded["fee_record"].(map[string]any)["id"])
}

func TestAMQPPublisher(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", "college_crp", "topic", true).Return(nil)
	ch.On("PublishWithContext", "college_crp", "payment.recorded", mock.MatchedBy(func(msg amqp.Publishing) bool {
		return msg.ContentType == "application/json" && msg.DeliveryMode == amqp.Persistent && len(msg.Body) > 0
	})).Return(nil)
	ch.On("Close").Return(nil)

	p, err := newAMQPPublisher(ch, "college_crp")
	require.NoError(t, err)

	e := NewPaymentRecorded(&models.Payment{ID: "p1", Amount: 10}, &models.StudentFeeRecord{ID: "r1"})
	require.NoError(t, p.Publish(context.Background(), e))
	require.NoError(t, p.Close())
	ch.AssertExpectations(t)
}

func TestAMQPPublisherDeclareFailure(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", "x", "topic", true).Return(errors.New("access refused"))

	_, err := newAMQPPublisher(ch, "x")
	assert.ErrorContains(t, err, "access refused")
}
