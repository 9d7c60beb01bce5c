package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient builds a client with a live send queue and no underlying
// connection. Room logic only ever touches the send channel.
func newTestClient(room *Room, connID, displayName string) *Client {
	return &Client{
		room:        room,
		connID:      connID,
		displayName: displayName,
		send:        make(chan []byte, sendQueueSize),
		logger:      zerolog.Nop(),
	}
}

func startTestRoom(t *testing.T) *Room {
	t.Helper()

	room := NewRoom("general", NewRegistry())
	go room.Run()
	t.Cleanup(room.Stop)

	return room
}

func joinRoom(t *testing.T, room *Room, connID, displayName string) *Client {
	t.Helper()

	client := newTestClient(room, connID, displayName)
	before := len(room.Members())
	room.RegisterClient(client)

	require.Eventually(t, func() bool {
		return len(room.Members()) == before+1
	}, time.Second, 5*time.Millisecond)

	return client
}

func recvEvent(t *testing.T, client *Client) Event {
	t.Helper()

	select {
	case data := <-client.send:
		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatalf("no frame received on %s", client.connID)
		return Event{}
	}
}

func assertNoEvent(t *testing.T, client *Client) {
	t.Helper()

	select {
	case data := <-client.send:
		t.Fatalf("unexpected frame on %s: %s", client.connID, data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRoomJoinNotifiesOthersOnly(t *testing.T) {
	room := startTestRoom(t)

	first := joinRoom(t, room, "c1", "amelie")
	second := joinRoom(t, room, "c2", "bruno")

	ev := recvEvent(t, first)
	assert.Equal(t, EventParticipantJoined, ev.Type)

	var notice NoticePayload
	require.NoError(t, json.Unmarshal(ev.Payload, &notice))
	assert.Contains(t, notice.Text, "bruno")

	// The joining client never sees its own announcement.
	assertNoEvent(t, second)
}

func TestRoomLoginAckIncludesRoster(t *testing.T) {
	room := startTestRoom(t)

	joinRoom(t, room, "c1", "amelie")
	second := joinRoom(t, room, "c2", "bruno")

	second.handleAddUser()

	ev := recvEvent(t, second)
	require.Equal(t, EventLoginAck, ev.Type)

	var ack LoginAckPayload
	require.NoError(t, json.Unmarshal(ev.Payload, &ack))
	assert.Equal(t, "bruno", ack.DisplayName)
	require.Len(t, ack.Members, 2)
	assert.Equal(t, "amelie", ack.Members[0].DisplayName)
	assert.Equal(t, "bruno", ack.Members[1].DisplayName)
}

func TestRoomMessageFanOutExcludesSender(t *testing.T) {
	room := startTestRoom(t)

	first := joinRoom(t, room, "c1", "amelie")
	second := joinRoom(t, room, "c2", "bruno")
	third := joinRoom(t, room, "c3", "chloe")

	// Drain the join notices.
	recvEvent(t, first)
	recvEvent(t, first)
	recvEvent(t, second)

	second.handleInbound([]byte(`{"type":"new-message","payload":{"text":"  bonjour  "}}`))

	for _, observer := range []*Client{first, third} {
		ev := recvEvent(t, observer)
		require.Equal(t, EventNewMessage, ev.Type)

		var payload MessagePayload
		require.NoError(t, json.Unmarshal(ev.Payload, &payload))
		assert.Equal(t, "bruno", payload.DisplayName)
		assert.Equal(t, "bonjour", payload.Text)
		assert.NotEmpty(t, payload.ID)
		assert.NotZero(t, payload.Timestamp)
	}

	assertNoEvent(t, second)
}

func TestRoomSenderOrderPreservedPerObserver(t *testing.T) {
	room := startTestRoom(t)

	first := joinRoom(t, room, "c1", "amelie")
	second := joinRoom(t, room, "c2", "bruno")
	recvEvent(t, first)

	for _, text := range []string{"one", "two", "three"} {
		second.handleInbound([]byte(`{"type":"new-message","payload":{"text":"` + text + `"}}`))
	}

	for _, want := range []string{"one", "two", "three"} {
		ev := recvEvent(t, first)
		var payload MessagePayload
		require.NoError(t, json.Unmarshal(ev.Payload, &payload))
		assert.Equal(t, want, payload.Text)
	}
}

func TestRoomTypingRelay(t *testing.T) {
	room := startTestRoom(t)

	first := joinRoom(t, room, "c1", "amelie")
	second := joinRoom(t, room, "c2", "bruno")
	recvEvent(t, first)

	second.handleInbound([]byte(`{"type":"typing"}`))
	ev := recvEvent(t, first)
	require.Equal(t, EventTyping, ev.Type)

	var payload TypingPayload
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, "bruno", payload.DisplayName)

	second.handleInbound([]byte(`{"type":"stop-typing"}`))
	ev = recvEvent(t, first)
	assert.Equal(t, EventStopTyping, ev.Type)

	assertNoEvent(t, second)
}

func TestRoomDropsMalformedAndInvalidFrames(t *testing.T) {
	room := startTestRoom(t)

	first := joinRoom(t, room, "c1", "amelie")
	second := joinRoom(t, room, "c2", "bruno")
	recvEvent(t, first)

	second.handleInbound([]byte(`not json`))
	second.handleInbound([]byte(`{"type":"unknown-event"}`))
	second.handleInbound([]byte(`{"type":"new-message","payload":{"text":"   "}}`))
	second.handleInbound([]byte(`{"type":"new-message"}`))

	assertNoEvent(t, first)
}

func TestRoomLeaveNotifiesRemaining(t *testing.T) {
	room := startTestRoom(t)

	first := joinRoom(t, room, "c1", "amelie")
	second := joinRoom(t, room, "c2", "bruno")
	recvEvent(t, first)

	room.unregister <- second

	require.Eventually(t, func() bool {
		return len(room.Members()) == 1
	}, time.Second, 5*time.Millisecond)

	ev := recvEvent(t, first)
	require.Equal(t, EventParticipantLeft, ev.Type)

	var notice NoticePayload
	require.NoError(t, json.Unmarshal(ev.Payload, &notice))
	assert.Contains(t, notice.Text, "bruno")
}

func TestRoomUnregisterIsEffectiveOnce(t *testing.T) {
	room := startTestRoom(t)

	first := joinRoom(t, room, "c1", "amelie")
	second := joinRoom(t, room, "c2", "bruno")
	recvEvent(t, first)

	room.unregister <- second
	room.unregister <- second

	require.Eventually(t, func() bool {
		return len(room.Members()) == 1
	}, time.Second, 5*time.Millisecond)

	ev := recvEvent(t, first)
	assert.Equal(t, EventParticipantLeft, ev.Type)

	// The second unregister is stale and produces no duplicate notice.
	assertNoEvent(t, first)
	assert.Equal(t, "amelie", room.Members()[0].DisplayName)
}

func TestHubGetOrCreateRoomReusesInstance(t *testing.T) {
	hub := NewHub(NewRegistry())
	t.Cleanup(hub.Shutdown)

	room := hub.GetOrCreateRoom("general")
	assert.Same(t, room, hub.GetOrCreateRoom("general"))
	assert.NotSame(t, room, hub.GetOrCreateRoom("other"))
}
