package history

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/diogo/chatsearch/internal/errors"
)

func TestSession_LoadAndSearch(t *testing.T) {
	s := NewSession(zaptest.NewLogger(t))

	if s.Loaded() {
		t.Error("new session should not be loaded")
	}

	path := writeExport(t, sampleExport)
	if err := s.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !s.Loaded() || s.Path() != path {
		t.Errorf("Loaded() = %v, Path() = %s", s.Loaded(), s.Path())
	}
	if len(s.Conversations()) != 3 {
		t.Errorf("expected 3 conversations, got %d", len(s.Conversations()))
	}

	matches, err := s.Search("hello")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("expected 1 match, got %d", len(matches))
	}

	all, err := s.Search("  ")
	if err != nil {
		t.Fatalf("blank Search failed: %v", err)
	}
	if len(all) != len(s.All()) {
		t.Errorf("blank search returned %d, want %d", len(all), len(s.All()))
	}
}

func TestSession_FailedLoadKeepsPreviousDocument(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewSession(zap.New(core))

	good := writeExport(t, sampleExport)
	if err := s.Load(good); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	before := s.Conversations()

	bad := writeExport(t, `{not json`)
	err := s.Load(bad)
	if !apperrors.IsLoadError(err) {
		t.Fatalf("expected LoadError, got %v", err)
	}

	if s.Path() != good {
		t.Errorf("Path() = %s, want %s", s.Path(), good)
	}
	after := s.Conversations()
	if len(after) != len(before) {
		t.Fatalf("conversation list changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("conversation %d replaced after failed load", i)
		}
	}

	failed := logs.FilterMessage("load failed, keeping previous document").All()
	if len(failed) != 1 {
		t.Fatalf("expected one failure entry, got %d entries", logs.Len())
	}
	// callers report the error themselves
	if failed[0].Level != zapcore.DebugLevel {
		t.Errorf("failure logged at %s, want debug", failed[0].Level)
	}
}

func TestSession_FailedFirstLoadStaysEmpty(t *testing.T) {
	s := NewSession(nil)

	if err := s.Load(writeExport(t, `[`)); err == nil {
		t.Fatal("expected error")
	}
	if s.Loaded() {
		t.Error("session should remain unloaded")
	}

	_, err := s.Search("x")
	if !errors.Is(err, apperrors.ErrNotLoaded) {
		t.Errorf("Search before load error = %v, want ErrNotLoaded", err)
	}
}

func TestSession_SearchPatternErrorKeepsDocument(t *testing.T) {
	s := NewSession(nil)
	if err := s.Load(writeExport(t, sampleExport)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, err := s.Search("(unclosed"); !apperrors.IsPatternError(err) {
		t.Fatalf("expected PatternError, got %v", err)
	}
	if len(s.Conversations()) != 3 {
		t.Error("pattern error should not affect the loaded document")
	}
}

func TestSession_Match(t *testing.T) {
	s := NewSession(nil)
	if err := s.Load(writeExport(t, sampleExport)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	m, ok := s.Match(2)
	if !ok {
		t.Fatal("Match(2) not found")
	}
	if m.Title != "Later chat" || len(m.Messages) != 2 {
		t.Errorf("Match(2) = %s with %d messages", m.Title, len(m.Messages))
	}

	noMapping, ok := s.Match(1)
	if !ok || len(noMapping.Messages) != 0 {
		t.Errorf("Match(1) should exist with no messages")
	}

	if _, ok := s.Match(3); ok {
		t.Error("Match(3) should be out of range")
	}
	if _, ok := s.Match(-1); ok {
		t.Error("Match(-1) should be out of range")
	}
}

func TestSession_Resolve(t *testing.T) {
	s := NewSession(nil)
	if err := s.Load(writeExport(t, sampleExport)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	m, err := s.Resolve("later")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if m.Index != 2 || m.Title != "Later chat" || len(m.Messages) != 2 {
		t.Errorf("Resolve() = %d %s %d", m.Index, m.Title, len(m.Messages))
	}

	if _, err := s.Resolve("7"); !apperrors.IsResolveError(err) {
		t.Errorf("expected ResolveError, got %v", err)
	}
}

func TestSession_Replace(t *testing.T) {
	s := NewSession(nil)
	convs := mustParse(t, sampleExport)

	s.Replace("memory", convs)

	if !s.Loaded() || s.Path() != "memory" || len(s.Conversations()) != 3 {
		t.Errorf("Replace did not install document")
	}
}
