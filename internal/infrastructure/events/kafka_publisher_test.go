package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/internal/infrastructure/events"
)

func sampleEvent() ports.SaleCreatedEvent {
	return ports.SaleCreatedEvent{
		SaleID:        "s-1",
		OwnerID:       "owner-a",
		PaymentMethod: "CASH",
		Status:        "COMPLETED",
		TotalAmount:   decimal.NewFromInt(100),
		Items:         []ports.SaleCreatedItem{{ProductID: "p-1", Quantity: 2}},
	}
}

func TestPublishSaleCreated_EnviaMensaje(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	var got *sarama.ProducerMessage
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		got = msg
		return nil
	})
	pub := events.NewKafkaPublisherWithProducer(producer, "sale.created", zerolog.Nop())

	require.NoError(t, pub.PublishSaleCreated(context.Background(), sampleEvent()))
	require.NoError(t, pub.Close())

	require.NotNil(t, got)
	assert.Equal(t, "sale.created", got.Topic)
	key, err := got.Key.Encode()
	require.NoError(t, err)
	assert.Equal(t, "owner-a", string(key))

	raw, err := got.Value.Encode()
	require.NoError(t, err)
	var decoded ports.SaleCreatedEvent
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "s-1", decoded.SaleID)
	assert.NotEmpty(t, decoded.EventID)
	assert.True(t, decoded.TotalAmount.Equal(decimal.NewFromInt(100)))

	headers := map[string]string{}
	for _, h := range got.Headers {
		headers[string(h.Key)] = string(h.Value)
	}
	assert.Equal(t, events.EventTypeSaleCreated, headers["event_type"])
	assert.Equal(t, decoded.EventID, headers["event_id"])
}

func TestPublishSaleCreated_ErrorDelBroker(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	pub := events.NewKafkaPublisherWithProducer(producer, "sale.created", zerolog.Nop())

	err := pub.PublishSaleCreated(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.True(t, errors.Is(err, sarama.ErrOutOfBrokers))
	require.NoError(t, pub.Close())
}
