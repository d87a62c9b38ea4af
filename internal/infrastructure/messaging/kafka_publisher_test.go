package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/application/billing"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisherWithWriter(w, "invoice-events")
	at := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), billing.InvoiceEvent{
		Type:               billing.EventInvoiceCreated,
		InvoiceID:          "inv-1",
		Number:             "FAC-20240315100000",
		CustomerID:         "cust-1",
		Status:             "PENDING",
		Total:              decimal.RequireFromString("119.00"),
		LowStockProductIDs: []string{"p-1"},
		OccurredAt:         at,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "inv-1", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, billing.EventInvoiceCreated, string(msg.Headers[0].Value))

	var decoded billing.InvoiceEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "FAC-20240315100000", decoded.Number)
	assert.True(t, decoded.Total.Equal(decimal.RequireFromString("119")))
	assert.Equal(t, []string{"p-1"}, decoded.LowStockProductIDs)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := NewKafkaPublisherWithWriter(&fakeWriter{err: errors.New("broker down")}, "invoice-events")
	err := p.Publish(context.Background(), billing.InvoiceEvent{InvoiceID: "inv-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoice-events")
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), billing.InvoiceEvent{}))
}
