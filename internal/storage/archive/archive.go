// Package archive persists raw provider payloads before parsing, so any
// snapshot can be re-derived after a schema change or a parser bug.
package archive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/exilewatch/exilewatch/internal/core"
)

// Store is a cold storage backend for raw payloads.
type Store interface {
	// Put stores data under the given key.
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves the data stored under the given key.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns all keys matching the prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists reports whether data exists under the given key.
	Exists(ctx context.Context, key string) (bool, error)
}

// PayloadKey builds the storage key for one raw category payload:
// raw/<league>/<category>/<timestamp>.<ext>. League names are slugged so
// keys stay filesystem- and S3-safe.
func PayloadKey(league string, category core.Category, ts time.Time, ext string) string {
	return fmt.Sprintf("raw/%s/%s/%s.%s",
		slug(league), category, ts.UTC().Format("2006-01-02T15-04-05Z"), ext)
}

// DumpKey builds the storage key for one historical dump archive.
func DumpKey(league string, ts time.Time) string {
	return fmt.Sprintf("dumps/%s/%s.zip", slug(league), ts.UTC().Format("2006-01-02"))
}

func slug(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

// Nop is a Store that discards writes; used when archiving is disabled.
type Nop struct{}

func (Nop) Put(ctx context.Context, key string, data []byte) error { return nil }

func (Nop) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, fmt.Errorf("archive disabled: no payload under %s", key)
}

func (Nop) List(ctx context.Context, prefix string) ([]string, error) { return nil, nil }

func (Nop) Exists(ctx context.Context, key string) (bool, error) { return false, nil }
