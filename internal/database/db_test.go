package database

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConnect_Validation(t *testing.T) {
	if _, err := Connect(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty dsn")
	}

	if _, err := Connect(context.Background(), "invalid-dsn", WithMaxConns(4)); err == nil {
		t.Fatalf("expected error for invalid dsn")
	}
}

func TestZapTraceLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zapTraceLogger(zap.New(core))

	logger.Log(context.Background(), tracelog.LogLevelWarn, "Query", map[string]any{"sql": "SELECT 1"})
	logger.Log(context.Background(), tracelog.LogLevelError, "Query", map[string]any{"err": "boom"})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel || entries[1].Level != zapcore.ErrorLevel {
		t.Fatalf("unexpected levels %v %v", entries[0].Level, entries[1].Level)
	}
	if entries[0].LoggerName != "pgx" {
		t.Fatalf("expected pgx logger name, got %q", entries[0].LoggerName)
	}
	if entries[0].ContextMap()["sql"] != "SELECT 1" {
		t.Fatalf("expected sql field, got %v", entries[0].ContextMap())
	}
}
