package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInboundValidTypes(t *testing.T) {
	for _, raw := range []string{
		`{"type":"add-user"}`,
		`{"type":"new-message","payload":{"text":"hello"}}`,
		`{"type":"typing"}`,
		`{"type":"stop-typing"}`,
	} {
		ev, err := ParseInbound([]byte(raw))
		require.NoError(t, err, raw)
		assert.NotEmpty(t, ev.Type)
	}
}

func TestParseInboundRejectsMalformedJSON(t *testing.T) {
	_, err := ParseInbound([]byte(`{"type":`))
	assert.Error(t, err)
}

func TestParseInboundRejectsUnknownType(t *testing.T) {
	_, err := ParseInbound([]byte(`{"type":"login-ack"}`))
	assert.Error(t, err)

	_, err = ParseInbound([]byte(`{"type":"shutdown"}`))
	assert.Error(t, err)

	_, err = ParseInbound([]byte(`{}`))
	assert.Error(t, err)
}

func TestEncodeEventRoundTrip(t *testing.T) {
	data, err := EncodeEvent(EventNewMessage, MessagePayload{
		ID:          "m1",
		DisplayName: "amelie",
		Text:        "bonjour",
		Timestamp:   1700000000000,
	})
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, EventNewMessage, ev.Type)

	var payload MessagePayload
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, "amelie", payload.DisplayName)
	assert.Equal(t, "bonjour", payload.Text)
}

func TestDecodePayloadMissing(t *testing.T) {
	var p TextPayload
	assert.Error(t, decodePayload(nil, &p))
}
