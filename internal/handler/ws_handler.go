/*
Package handler provides the HTTP handler function for WebSocket connection
upgrading and initialization.
*/
package handler

import (
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"inkwell/internal/app/chat"
	"inkwell/internal/pkg/errs"
	"inkwell/internal/pkg/limiter"
	"inkwell/internal/pkg/logx"
	"inkwell/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection
// requests. Connections join the shared room under the display name claimed in
// the username query parameter; the name is not checked against the identity
// store, so the realtime roster reflects whatever the client sent.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		displayName := strings.TrimSpace(r.URL.Query().Get("username"))
		if displayName == "" {
			logx.Warn("WebSocket request rejected: Missing username query parameter")
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		room := deps.Hub.GetOrCreateRoom(chat.GeneralRoomID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := chat.NewClient(room, conn, displayName)

		go client.WritePump()

		logx.Info("WebSocket connection established", "display_name", displayName, "room_id", room.ID)

		room.RegisterClient(client)

		client.ReadPump()
	}
}
