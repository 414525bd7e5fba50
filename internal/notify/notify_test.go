package notify

import (
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/timvw/dockpane/internal/host"
)

type captureSink struct {
	got []Status
}

func (c *captureSink) ActivePanel(_ context.Context, s Status) {
	c.got = append(c.got, s)
}

func TestStore_LatestPerEdge(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	store.ActivePanel(ctx, Status{Edge: host.EdgeLeft, Panel: "files"})
	store.ActivePanel(ctx, Status{Edge: host.EdgeBottom, Panel: "term"})
	store.ActivePanel(ctx, Status{Edge: host.EdgeLeft, Panel: "outline"})

	snap := store.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Snapshot(): got %d entries, want 2", len(snap))
	}
	// sorted by edge name: bottom before left
	if snap[0].Edge != host.EdgeBottom || snap[0].Panel != "term" {
		t.Errorf("snap[0]: got %+v, want bottom/term", snap[0])
	}
	if snap[1].Edge != host.EdgeLeft || snap[1].Panel != "outline" {
		t.Errorf("snap[1]: got %+v, want latest left status", snap[1])
	}
}

func TestMulti_FansOut(t *testing.T) {
	a, b := &captureSink{}, &captureSink{}
	multi := Multi{a, b}

	multi.ActivePanel(context.Background(), Status{Edge: host.EdgeLeft, Panel: "files"})

	for name, sink := range map[string]*captureSink{"first": a, "second": b} {
		if len(sink.got) != 1 || sink.got[0].Panel != "files" {
			t.Errorf("%s sink: got %v, want one files status", name, sink.got)
		}
	}
}

func TestBroadcaster_DeliversFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.sock")
	addr, err := net.ResolveUnixAddr("unixgram", path)
	if err != nil {
		t.Fatalf("ResolveUnixAddr() error: %v", err)
	}
	listener, err := net.ListenUnixgram("unixgram", addr)
	if err != nil {
		t.Fatalf("ListenUnixgram() error: %v", err)
	}
	defer listener.Close()

	b := NewBroadcaster(path)
	defer b.Close()
	b.ActivePanel(context.Background(), Status{Edge: host.EdgeLeft, Panel: "files", TS: time.Now()})

	_ = listener.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 4096)
	n, err := listener.Read(buf)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}

	var got Status
	if err := json.Unmarshal(buf[:n], &got); err != nil {
		t.Fatalf("Unmarshal(%q) error: %v", buf[:n], err)
	}
	if got.Edge != host.EdgeLeft || got.Panel != "files" {
		t.Errorf("frame: got %+v, want left/files", got)
	}
}

func TestBroadcaster_DropsWithoutListener(t *testing.T) {
	b := NewBroadcaster(filepath.Join(t.TempDir(), "nobody.sock"))
	defer b.Close()

	// must not panic or block when nothing listens
	b.ActivePanel(context.Background(), Status{Edge: host.EdgeLeft, Panel: "files"})
}
