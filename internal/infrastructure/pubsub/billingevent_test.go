package pubsub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebill/internal/domain/billing"
)

func TestBillingEventEnvelope_MarshalRoundtrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	event := billing.NewPaymentExecutedEvent("sub_abc123", 100, now, now.Add(30*24*time.Hour), now)

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	envelope := BillingEventEnvelope{
		EventType:   event.GetEventType(),
		AggregateID: event.GetAggregateID(),
		OccurredAt:  event.GetOccurredAt().Unix(),
		Payload:     payload,
	}

	data, err := json.Marshal(envelope)
	require.NoError(t, err)

	var decoded BillingEventEnvelope
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, envelope.EventType, decoded.EventType)
	assert.Equal(t, "sub_abc123", decoded.AggregateID)
	assert.Equal(t, now.Unix(), decoded.OccurredAt)
	assert.JSONEq(t, string(payload), string(decoded.Payload))
}
