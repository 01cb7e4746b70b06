package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(id string, collections ...string) *Client {
	cols := make(map[string]bool, len(collections))
	for _, c := range collections {
		cols[c] = true
	}
	return &Client{
		ID:          id,
		Collections: cols,
		Send:        make(chan []byte, 16),
	}
}

func waitFrame(t *testing.T, ch chan []byte) Frame {
	t.Helper()
	select {
	case raw := <-ch:
		var f Frame
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("tidak ada frame dalam 2 detik")
		return Frame{}
	}
}

func TestHubBroadcastsOnlyToSubscribers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	proyekSub := newTestClient("a", "proyek")
	categorySub := newTestClient("b", "categories")
	hub.RegisterClient(proyekSub)
	hub.RegisterClient(categorySub)

	// tunggu register kedua client
	require.Eventually(t, func() bool {
		return hub.SubscriberCount("proyek") == 1 && hub.SubscriberCount("categories") == 1
	}, time.Second, 10*time.Millisecond)

	hub.PublishSnapshot("proyek", []string{"satu", "dua"})

	f := waitFrame(t, proyekSub.Send)
	assert.Equal(t, "snapshot", f.Type)
	assert.Equal(t, "proyek", f.Collection)

	select {
	case <-categorySub.Send:
		t.Fatal("subscriber categories tidak boleh menerima frame proyek")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubPublishError(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	sub := newTestClient("a", "proyek")
	hub.RegisterClient(sub)
	require.Eventually(t, func() bool {
		return hub.SubscriberCount("proyek") == 1
	}, time.Second, 10*time.Millisecond)

	hub.PublishError("proyek", "Gagal memuat data proyek")

	f := waitFrame(t, sub.Send)
	assert.Equal(t, "error", f.Type)
	assert.Equal(t, "Gagal memuat data proyek", f.Message)
	assert.Nil(t, f.Data)
}

func TestHubDeliverToSingleClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := newTestClient("a", "proyek")
	b := newTestClient("b", "proyek")
	hub.RegisterClient(a)
	hub.RegisterClient(b)
	require.Eventually(t, func() bool {
		return hub.SubscriberCount("proyek") == 2
	}, time.Second, 10*time.Millisecond)

	hub.Deliver("a", Frame{Type: "snapshot", Collection: "proyek", Data: []string{"satu"}})

	f := waitFrame(t, a.Send)
	assert.Equal(t, "snapshot", f.Type)

	select {
	case <-b.Send:
		t.Fatal("Deliver tidak boleh menyasar client lain")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubDeliverUnknownClientIsNoop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	assert.NotPanics(t, func() {
		hub.Deliver("tidak-ada", Frame{Type: "snapshot", Collection: "proyek"})
	})
}

func TestHubDeliverAfterUnregisterIsNoop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	sub := newTestClient("a", "proyek")
	hub.RegisterClient(sub)
	require.Eventually(t, func() bool {
		return hub.SubscriberCount("proyek") == 1
	}, time.Second, 10*time.Millisecond)

	hub.UnregisterClient(sub)
	require.Eventually(t, func() bool {
		return hub.SubscriberCount("proyek") == 0
	}, time.Second, 10*time.Millisecond)

	// channel Send sudah ditutup hub; Deliver harus diam, bukan panic
	assert.NotPanics(t, func() {
		hub.Deliver("a", Frame{Type: "snapshot", Collection: "proyek"})
	})
}

func TestBridgePushesSnapshotOnChange(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hub := NewHub()
	go hub.Run()

	bridge := NewBridge(rdb, hub, map[string]SnapshotFunc{
		"proyek": func(ctx context.Context) (interface{}, error) {
			return []map[string]string{{"title": "Toko Online"}}, nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bridge.Run(ctx)

	sub := newTestClient("a", "proyek")
	hub.RegisterClient(sub)
	require.Eventually(t, func() bool {
		return hub.SubscriberCount("proyek") == 1
	}, time.Second, 10*time.Millisecond)

	// beri waktu PSubscribe aktif sebelum publish
	time.Sleep(100 * time.Millisecond)
	bridge.NotifyChanged(context.Background(), "proyek")

	f := waitFrame(t, sub.Send)
	assert.Equal(t, "snapshot", f.Type)
	assert.Equal(t, "proyek", f.Collection)
	require.NotNil(t, f.Data)
}

func TestBridgeSendsErrorFrameWhenSnapshotFails(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hub := NewHub()
	go hub.Run()

	bridge := NewBridge(rdb, hub, map[string]SnapshotFunc{
		"proyek": func(ctx context.Context) (interface{}, error) {
			return nil, context.DeadlineExceeded
		},
	})

	sub := newTestClient("a", "proyek")
	hub.RegisterClient(sub)
	require.Eventually(t, func() bool {
		return hub.SubscriberCount("proyek") == 1
	}, time.Second, 10*time.Millisecond)

	bridge.PushSnapshot(context.Background(), "proyek")

	f := waitFrame(t, sub.Send)
	assert.Equal(t, "error", f.Type)
	assert.Contains(t, f.Message, "Gagal memuat data")
}
