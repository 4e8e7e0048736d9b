package app

import (
	"testing"

	"github.com/exilewatch/exilewatch/internal/config"
	"github.com/exilewatch/exilewatch/internal/storage/archive"
)

func TestNewArchiveStore(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ArchiveConfig
		wantErr bool
		check   func(t *testing.T, s archive.Store)
	}{
		{
			name: "disabled yields nop store",
			cfg:  config.ArchiveConfig{Type: ""},
			check: func(t *testing.T, s archive.Store) {
				if _, ok := s.(archive.Nop); !ok {
					t.Errorf("store = %T, want archive.Nop", s)
				}
			},
		},
		{
			name: "localfs",
			cfg:  config.ArchiveConfig{Type: "localfs", Path: t.TempDir()},
			check: func(t *testing.T, s archive.Store) {
				if _, ok := s.(*archive.LocalFS); !ok {
					t.Errorf("store = %T, want *archive.LocalFS", s)
				}
			},
		},
		{
			name: "s3",
			cfg: config.ArchiveConfig{Type: "s3", S3: config.S3Config{
				Bucket: "exilewatch-raw",
				Region: "eu-west-1",
			}},
			check: func(t *testing.T, s archive.Store) {
				if _, ok := s.(*archive.S3Store); !ok {
					t.Errorf("store = %T, want *archive.S3Store", s)
				}
			},
		},
		{
			name:    "unknown type",
			cfg:     config.ArchiveConfig{Type: "ftp"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := newArchiveStore(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newArchiveStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.check != nil {
				tt.check(t, s)
			}
		})
	}
}
