package realtime

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "collections:"

// SnapshotFunc mengambil isi terbaru satu koleksi, terurut createdAt desc.
type SnapshotFunc func(ctx context.Context) (interface{}, error)

// Bridge menjembatani event perubahan di Redis ke snapshot WebSocket.
// Handler yang menulis cukup Publish nama koleksinya; bridge yang query ulang
// dan menyebarkan snapshot, jadi fan-out tetap jalan lintas instance.
type Bridge struct {
	RDB       *redis.Client
	Hub       *Hub
	Snapshots map[string]SnapshotFunc
}

func NewBridge(rdb *redis.Client, hub *Hub, snapshots map[string]SnapshotFunc) *Bridge {
	return &Bridge{RDB: rdb, Hub: hub, Snapshots: snapshots}
}

// NotifyChanged mengumumkan bahwa satu koleksi berubah. Dipanggil handler
// setelah create/update/delete sukses.
func (b *Bridge) NotifyChanged(ctx context.Context, collection string) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := b.RDB.Publish(ctx, channelPrefix+collection, "changed").Err(); err != nil {
		log.Printf("Error publishing change for %s: %v", collection, err)
	}
}

// Run mendengarkan event perubahan dan mendorong snapshot segar ke hub.
// Berhenti saat ctx dibatalkan.
func (b *Bridge) Run(ctx context.Context) {
	pubsub := b.RDB.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			collection := strings.TrimPrefix(msg.Channel, channelPrefix)
			b.pushSnapshot(ctx, collection)
		}
	}
}

// PushSnapshot mengirim snapshot terbaru satu koleksi ke subscriber-nya.
func (b *Bridge) PushSnapshot(ctx context.Context, collection string) {
	b.pushSnapshot(ctx, collection)
}

func (b *Bridge) pushSnapshot(ctx context.Context, collection string) {
	fetch, ok := b.Snapshots[collection]
	if !ok {
		log.Printf("No snapshot source for collection %q", collection)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := fetch(ctx)
	if err != nil {
		log.Printf("Error fetching snapshot for %s: %v", collection, err)
		b.Hub.PublishError(collection, "Gagal memuat data "+collection)
		return
	}
	b.Hub.PublishSnapshot(collection, data)
}
