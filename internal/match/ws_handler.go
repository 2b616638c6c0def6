package match

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/eduspark/arena-platform/internal/server"
	"github.com/eduspark/arena-platform/pkg/http/ws"
)

// HandleWebSocket upgrades the HTTP connection and pumps messages through the
// handler until the client disconnects. Identity comes from the platform's
// gateway; we only need a stable client id for hub routing, minted here when
// the caller does not supply one.
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientID := uuid.New()
	if raw := r.URL.Query().Get("client_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "malformed client_id", http.StatusBadRequest)
			return
		}
		clientID = parsed
	}

	conn, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	wrapped := ws.NewConnection(conn, h.logger.With().Str("client_id", clientID.String()).Logger())
	h.hub.RegisterConnection(clientID, wrapped)
	defer h.hub.UnregisterConnection(clientID)

	go wrapped.WritePump()
	wrapped.ReadPump(func(msg ws.Message) error {
		return h.HandleMessage(r.Context(), clientID, msg)
	})
}
