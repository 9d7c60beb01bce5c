/*
Package chat contains the realtime subsystem: connection presence tracking and
room-scoped event fan-out over WebSocket connections.

This file defines the Client, one active WebSocket connection. It owns the
read and write pumps, inbound event dispatch, and the exactly-once leave
transition on channel close.
*/
package chat

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"inkwell/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxFrameSize = 8192

	// capacity of each client's outbound send queue.
	sendQueueSize = 256
)

// Client represents an active WebSocket connection joined to a room under a
// client-claimed display name.
type Client struct {
	// the room the client belongs to for the lifetime of the channel.
	room *Room

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// connID uniquely identifies this channel among all active connections.
	connID string

	// displayName is the identity claimed in the handshake. It is not
	// verified against the account store on this path.
	displayName string

	// a buffered channel used to queue frames waiting to be sent to the client.
	send chan []byte

	// closeOnce guards the leave transition so a client-initiated close and a
	// transport-error close cannot both fire it.
	closeOnce sync.Once

	logger zerolog.Logger
}

// NewClient constructs a Client for the given room and connection.
func NewClient(room *Room, wsConn *websocket.Conn, displayName string) *Client {
	connID := uuid.New().String()

	clientLogger := logx.Logger().With().
		Str("conn_id", connID).
		Str("room_id", room.ID).
		Str("display_name", displayName).
		Logger()

	return &Client{
		room:        room,
		conn:        wsConn,
		connID:      connID,
		displayName: displayName,
		send:        make(chan []byte, sendQueueSize),
		logger:      clientLogger,
	}
}

// ReadPump reads frames from the WebSocket connection until it closes, then
// performs the leave transition. It handles heartbeats (Pong) and dispatches
// inbound events.
func (c *Client) ReadPump() {
	defer c.shutdown()

	c.conn.SetReadLimit(maxFrameSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.handleInbound(frame)
	}
}

// shutdown runs the leave transition exactly once: unregister from the room,
// then close the underlying connection.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		c.logger.Info().Msg("Client connection cleanup starting.")

		select {
		case c.room.unregister <- c:
		default:
			c.logger.Warn().Msg("Room unregister channel blocked. Connection cleanup still proceeding.")
		}

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error")
		}
	})
}

// handleInbound validates a raw frame against the event vocabulary and
// dispatches it. Malformed frames are logged and dropped; they never close
// the connection.
func (c *Client) handleInbound(frame []byte) {
	ev, err := ParseInbound(frame)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid event, dropping")
		return
	}

	switch ev.Type {
	case EventAddUser:
		c.handleAddUser()

	case EventNewMessage:
		c.handleNewMessage(ev)

	case EventTyping, EventStopTyping:
		c.relayTyping(ev.Type)
	}
}

// handleAddUser answers with the login acknowledgement: the caller's display
// name and the current roster, read synchronously from the presence registry.
// Delivery goes through the room's relay so only the Run goroutine ever
// writes to a send channel.
func (c *Client) handleAddUser() {
	ack, err := EncodeEvent(EventLoginAck, LoginAckPayload{
		DisplayName: c.displayName,
		Members:     c.room.Members(),
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build login-ack")
		return
	}
	c.room.relay <- envelope{targetConnID: c.connID, data: ack}
}

// handleNewMessage validates the text and relays it to the rest of the room.
// Nothing is persisted and nothing is echoed back to the sender.
func (c *Client) handleNewMessage(ev Event) {
	var payload TextPayload
	if err := decodePayload(ev.Payload, &payload); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid new-message payload, dropping")
		return
	}

	text := strings.TrimSpace(payload.Text)
	if text == "" || len(text) > MaxMessageTextBytes {
		c.logger.Warn().Int("text_bytes", len(text)).Msg("Client sent empty or oversized message text, dropping")
		return
	}

	data, err := EncodeEvent(EventNewMessage, MessagePayload{
		ID:          uuid.New().String(),
		DisplayName: c.displayName,
		Text:        text,
		Timestamp:   time.Now().UnixMilli(),
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build new-message event")
		return
	}

	c.room.relay <- envelope{senderConnID: c.connID, data: data}
}

// relayTyping forwards a typing or stop-typing notice naming this client.
func (c *Client) relayTyping(t EventType) {
	data, err := EncodeEvent(t, TypingPayload{DisplayName: c.displayName})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build typing event")
		return
	}

	c.room.relay <- envelope{senderConnID: c.connID, data: data}
}

// WritePump writes queued frames to the WebSocket connection and maintains
// the heartbeat. It closes the connection on exit, which in turn terminates
// the ReadPump and triggers the leave transition.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePing() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send channel. Returns
// false when the WritePump loop should terminate.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePing sends the periodic heartbeat. Returns false on write failure.
func (c *Client) writePing() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
