package diag

import (
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestCollectorWarnings(t *testing.T) {
	c := New(zaptest.NewLogger(t))
	c.Warn("plain text")
	c.Warn("Unsupported units: '%s'", "Point")

	want := []string{"plain text", "Unsupported units: 'Point'"}
	if got := c.Warnings(); !reflect.DeepEqual(got, want) {
		t.Errorf("Warnings() = %v, want %v", got, want)
	}
	if c.Count() != 2 {
		t.Errorf("Count() = %d, want 2", c.Count())
	}

	got := c.Warnings()
	got[0] = "changed"
	if c.Warnings()[0] != "plain text" {
		t.Error("Warnings() must return a copy")
	}
}

func TestCollectorIcons(t *testing.T) {
	c := New(nil)
	for _, p := range []string{"b.svg", "a.png", "", "b.svg", "c.svg", "a.png"} {
		c.AddIcon(p)
	}
	want := []string{"b.svg", "a.png", "c.svg"}
	if got := c.Icons(); !reflect.DeepEqual(got, want) {
		t.Errorf("Icons() = %v, want %v", got, want)
	}
}

func TestCollectorLogsWarnings(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	c := New(zap.New(core))
	c.Warn("lost %d", 1)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["warning"]; got != "lost 1" {
		t.Errorf("logged warning = %v, want %q", got, "lost 1")
	}
}
