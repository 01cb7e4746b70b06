package handlers

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/Andika-Pratama/be_dashboard_proyek/internal/realtime"
)

// Koleksi yang boleh di-subscribe lewat WebSocket.
var subscribableCollections = map[string]bool{
	"proyek":              true,
	"categories":          true,
	"frameworks":          true,
	"account_types":       true,
	"account_providers":   true,
	"management_accounts": true,
}

type SubscribeHandler struct {
	Hub    *realtime.Hub
	Bridge *realtime.Bridge
}

func NewSubscribeHandler(hub *realtime.Hub, bridge *realtime.Bridge) *SubscribeHandler {
	return &SubscribeHandler{Hub: hub, Bridge: bridge}
}

// Handle melayani /ws/subscribe?collections=proyek,categories.
// Client langsung menerima snapshot awal tiap koleksi, lalu snapshot baru
// setiap ada perubahan.
func (h *SubscribeHandler) Handle(conn *websocket.Conn) {
	raw := conn.Query("collections")

	collections := make(map[string]bool)
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if subscribableCollections[name] {
			collections[name] = true
		}
	}

	if len(collections) == 0 {
		frame := realtime.Frame{Type: "error", Message: "Tidak ada koleksi valid untuk di-subscribe"}
		b, _ := json.Marshal(frame)
		_ = conn.WriteMessage(websocket.TextMessage, b)
		conn.Close()
		return
	}

	client := &realtime.Client{
		ID:          uuid.NewString(),
		Collections: collections,
		Conn:        realtime.NewWebSocketConn(conn),
		Send:        make(chan []byte, 64),
	}

	h.Hub.RegisterClient(client)

	// writer
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range client.Send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	// snapshot awal per koleksi, dikirim lewat hub supaya tidak balapan
	// dengan unregister yang menutup channel Send
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for name := range collections {
			h.sendInitialSnapshot(ctx, client.ID, name)
		}
	}()

	// read loop hanya untuk mendeteksi close; pesan masuk diabaikan
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	// unregister dulu (hub menutup Send, writer selesai), baru tunggu writer
	h.Hub.UnregisterClient(client)
	conn.Close()
	<-done
}

func (h *SubscribeHandler) sendInitialSnapshot(ctx context.Context, clientID, collection string) {
	fetch, ok := h.Bridge.Snapshots[collection]
	if !ok {
		return
	}

	data, err := fetch(ctx)
	if err != nil {
		log.Printf("Error fetching initial snapshot for %s: %v", collection, err)
		h.Hub.Deliver(clientID, realtime.Frame{
			Type:       "error",
			Collection: collection,
			Message:    "Gagal memuat data " + collection,
		})
		return
	}

	h.Hub.Deliver(clientID, realtime.Frame{
		Type:       "snapshot",
		Collection: collection,
		Data:       data,
	})
}
