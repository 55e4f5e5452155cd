package state

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextWithEnv(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
	if _, err := uuid.Parse(env.RunID); err != nil {
		t.Errorf("RunID %q is not uuid: %v", env.RunID, err)
	}

	other := EnvFromContext(ContextWithEnv(context.Background()))
	if other.RunID == env.RunID {
		t.Error("every run must get its own id")
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := &LocalEnv{start: time.Now()}
	time.Sleep(10 * time.Millisecond)
	if up := env.Uptime(); up < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", up)
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	env := &LocalEnv{Log: zap.New(core)}

	env.RedirectStdLog()
	if env.restoreStdLog == nil {
		t.Fatal("Expected restoreStdLog to be set")
	}
	log.Print("from standard logger")
	env.RestoreStdLog()

	if logs.FilterMessage("from standard logger").Len() != 1 {
		t.Errorf("standard logger output not redirected: %v", logs.All())
	}
}

func TestLocalEnv_NilLogger(t *testing.T) {
	env := &LocalEnv{}
	env.RedirectStdLog()
	if env.restoreStdLog != nil {
		t.Error("Expected restoreStdLog to remain nil")
	}
	env.RestoreStdLog()
}
