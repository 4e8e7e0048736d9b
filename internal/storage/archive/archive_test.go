package archive

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/exilewatch/exilewatch/internal/core"
)

func TestImplementsStore(t *testing.T) {
	var _ Store = (*LocalFS)(nil)
	var _ Store = (*S3Store)(nil)
	var _ Store = Nop{}
}

func TestPayloadKey(t *testing.T) {
	ts := time.Date(2026, 8, 23, 14, 30, 0, 0, time.UTC)

	got := PayloadKey("Settlers of Kalguur", core.CategoryCurrency, ts, "json")
	want := "raw/settlers-of-kalguur/currency/2026-08-23T14-30-00Z.json"
	if got != want {
		t.Errorf("PayloadKey = %q, want %q", got, want)
	}
}

func TestDumpKey(t *testing.T) {
	ts := time.Date(2026, 8, 23, 14, 30, 0, 0, time.UTC)

	got := DumpKey("Necropolis", ts)
	if got != "dumps/necropolis/2026-08-23.zip" {
		t.Errorf("DumpKey = %q", got)
	}
}

func TestLocalFS_PutGet(t *testing.T) {
	fs, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}

	ctx := context.Background()
	key := PayloadKey("Settlers", core.CategoryCards, time.Now(), "json")
	data := []byte(`{"lines":[]}`)

	if err := fs.Put(ctx, key, data); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := fs.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("got %q, want %q", got, data)
	}
}

func TestLocalFS_Exists(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	ctx := context.Background()

	exists, _ := fs.Exists(ctx, "raw/settlers/currency/missing.json")
	if exists {
		t.Error("expected false for missing key")
	}

	fs.Put(ctx, "raw/settlers/currency/present.json", []byte("{}"))
	exists, _ = fs.Exists(ctx, "raw/settlers/currency/present.json")
	if !exists {
		t.Error("expected true for stored key")
	}
}

func TestLocalFS_List(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	ctx := context.Background()

	fs.Put(ctx, "raw/settlers/currency/a.json", []byte("a"))
	fs.Put(ctx, "raw/settlers/currency/b.json", []byte("b"))
	fs.Put(ctx, "raw/settlers/cards/c.json", []byte("c"))

	keys, err := fs.List(ctx, "raw/settlers/currency")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("len(keys) = %d, want 2", len(keys))
	}
	for _, k := range keys {
		if !strings.HasPrefix(k, "raw/settlers/currency/") {
			t.Errorf("key %q outside listed prefix", k)
		}
	}
}

func TestS3Store_Key(t *testing.T) {
	tests := []struct {
		prefix string
		key    string
		want   string
	}{
		{"", "raw/a.json", "raw/a.json"},
		{"exilewatch", "raw/a.json", "exilewatch/raw/a.json"},
	}

	for _, tt := range tests {
		s := &S3Store{prefix: tt.prefix}
		if got := s.key(tt.key); got != tt.want {
			t.Errorf("key(%q) with prefix %q = %q, want %q", tt.key, tt.prefix, got, tt.want)
		}
	}
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var n Nop

	if err := n.Put(ctx, "raw/x.json", []byte("{}")); err != nil {
		t.Errorf("Put: %v", err)
	}
	if _, err := n.Get(ctx, "raw/x.json"); err == nil {
		t.Error("Get should fail on Nop store")
	}
	exists, err := n.Exists(ctx, "raw/x.json")
	if err != nil || exists {
		t.Errorf("Exists = %v, %v; want false, nil", exists, err)
	}
}
