// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect cross-origin from the frontend; the connection
	// carries no identity until an authenticate event is verified.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades GET /ws requests and hands the connection to the hub.
// Connections start anonymous; authentication happens in-band.
func ServeWS(hub *Hub, st store.Store, tokens *auth.TokenService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", "error", err)
			return
		}

		client := NewClient(hub, conn, st, tokens)
		hub.Register(client)
		client.Start()
	}
}
