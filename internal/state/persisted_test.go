package state

import (
	"os"
	"path/filepath"
	"testing"
)

type testValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestOpenMissingFileUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slot.json")
	slot, err := Open(path, testValue{Name: "default"})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if got := slot.Get(); got.Name != "default" {
		t.Fatalf("expected default value, got %#v", got)
	}
}

func TestSetPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slot.json")
	slot, err := Open(path, testValue{})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := slot.Set(testValue{Name: "saved", Count: 3}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	reopened, err := Open(path, testValue{})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if got := reopened.Get(); got.Name != "saved" || got.Count != 3 {
		t.Fatalf("expected persisted value, got %#v", got)
	}
}

func TestCorruptFileFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slot.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	slot, err := Open(path, testValue{Name: "fallback"})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if got := slot.Get(); got.Name != "fallback" {
		t.Fatalf("expected fallback value, got %#v", got)
	}

	// The slot heals on the next save.
	if err := slot.Set(testValue{Name: "healed"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	reopened, err := Open(path, testValue{})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if got := reopened.Get(); got.Name != "healed" {
		t.Fatalf("expected healed value, got %#v", got)
	}
}

func TestUpdateAppliesFunction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slot.json")
	slot, err := Open(path, testValue{Count: 1})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	err = slot.Update(func(v testValue) testValue {
		v.Count++
		return v
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got := slot.Get(); got.Count != 2 {
		t.Fatalf("expected count 2, got %#v", got)
	}
}
