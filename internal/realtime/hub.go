// internal/realtime/hub.go
package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

// Client adalah satu koneksi WebSocket yang berlangganan sejumlah koleksi.
type Client struct {
	ID          string
	Collections map[string]bool
	Conn        *WebSocketConn
	Send        chan []byte
}

// Frame adalah pesan yang dikirim ke subscriber. Type "snapshot" membawa isi
// koleksi terurut; "error" eksplisit supaya gagal query tidak tertukar
// dengan koleksi kosong.
type Frame struct {
	Type       string      `json:"type"` // snapshot | error
	Collection string      `json:"collection"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
}

type Hub struct {
	clients    map[string]*Client
	broadcast  chan broadcastMsg
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

type broadcastMsg struct {
	collection string
	payload    []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan broadcastMsg, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

// PublishSnapshot mengirim snapshot koleksi ke semua subscriber koleksi itu.
func (h *Hub) PublishSnapshot(collection string, data interface{}) {
	h.publishFrame(Frame{Type: "snapshot", Collection: collection, Data: data})
}

// PublishError mengirim frame error ke subscriber koleksi.
func (h *Hub) PublishError(collection string, message string) {
	h.publishFrame(Frame{Type: "error", Collection: collection, Message: message})
}

func (h *Hub) publishFrame(f Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		log.Printf("Error marshaling frame for %s: %v", f.Collection, err)
		return
	}
	h.broadcast <- broadcastMsg{collection: f.Collection, payload: b}
}

// Deliver mengirim frame langsung ke satu client tertentu, dipakai untuk
// snapshot awal saat subscribe. Hanya hub yang boleh menulis atau menutup
// channel Send; pengiriman di sini dipegang mutex yang sama dengan
// unregister, jadi tidak mungkin kirim ke channel yang sudah ditutup.
func (h *Hub) Deliver(clientID string, f Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		log.Printf("Error marshaling frame for %s: %v", f.Collection, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[clientID]
	if !ok {
		return
	}
	select {
	case client.Send <- b:
	default:
	}
}

// SubscriberCount menghitung client yang berlangganan satu koleksi.
func (h *Hub) SubscriberCount(collection string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, client := range h.clients {
		if client.Collections[collection] {
			n++
		}
	}
	return n
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("Subscriber registered: %s", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if old, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(old.Send)
				log.Printf("Subscriber unregistered: %s", client.ID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			// harus LOCK (karena bisa delete)
			h.mu.Lock()
			for id, client := range h.clients {
				if !client.Collections[msg.collection] {
					continue
				}
				select {
				case client.Send <- msg.payload:
				default:
					close(client.Send)
					delete(h.clients, id)
				}
			}
			h.mu.Unlock()
		}
	}
}
