package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8082" {
		t.Errorf("Port = %s", cfg.Port)
	}
	if cfg.DataBackend != "sqlite" {
		t.Errorf("DataBackend = %s", cfg.DataBackend)
	}
	if cfg.AMQPExchange != "hushall" || cfg.AMQPQueue != "reconcile_periods" {
		t.Errorf("AMQP defaults = %s/%s", cfg.AMQPExchange, cfg.AMQPQueue)
	}
	if cfg.ReconcileInterval != 5*time.Minute {
		t.Errorf("ReconcileInterval = %v", cfg.ReconcileInterval)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("RECONCILE_INTERVAL", "30s")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port = %s", cfg.Port)
	}
	if cfg.DataBackend != "memory" {
		t.Errorf("DataBackend = %s", cfg.DataBackend)
	}
	if cfg.ReconcileInterval != 30*time.Second {
		t.Errorf("ReconcileInterval = %v", cfg.ReconcileInterval)
	}
}

func TestValidateOK(t *testing.T) {
	cfg := Load()
	cfg.SQLiteDBPath = filepath.Join(t.TempDir(), "hushall.db")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Load()
	cfg.Port = "banana"
	cfg.DataBackend = "cloud"
	cfg.AMQPURL = "http://not-amqp"
	cfg.ReconcileInterval = time.Millisecond

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"invalid port", "invalid data backend", "AMQP URL scheme", "reconcile interval"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestValidateMemoryBackendSkipsDBPath(t *testing.T) {
	cfg := Load()
	cfg.DataBackend = "memory"
	cfg.SQLiteDBPath = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestValidateMissingHistoryDump(t *testing.T) {
	cfg := Load()
	cfg.DataBackend = "memory"
	cfg.HistoryDumpPath = filepath.Join(t.TempDir(), "nope.json")
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "history dump") {
		t.Fatalf("err = %v, want history dump complaint", err)
	}
}
