package logger

import "testing"

func TestNew_Production(t *testing.T) {
	log, err := New("production", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if log == nil {
		t.Fatal("expected logger")
	}
}

func TestNew_Development(t *testing.T) {
	log, err := New("development", "debug")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !log.Core().Enabled(-1) { // zapcore.DebugLevel
		t.Error("expected debug level enabled")
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New("production", "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestMust_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Must("production", "loud")
}
