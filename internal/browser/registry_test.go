package browser

import (
	"testing"
	"time"
)

func newTestSession(id string, browserType BrowserType) *Session {
	return NewSession(id, SessionConfig{Type: browserType}, nil)
}

func TestRegistryInsertGetRemove(t *testing.T) {
	reg := NewRegistry()

	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d entries", reg.Len())
	}

	sess := newTestSession("instance-a", Chromium)
	reg.Insert(sess)

	if reg.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", reg.Len())
	}

	got, ok := reg.Get("instance-a")
	if !ok {
		t.Fatal("expected to find instance-a")
	}
	if got != sess {
		t.Error("expected the same session pointer back")
	}

	removed, ok := reg.Remove("instance-a")
	if !ok {
		t.Fatal("expected remove to succeed")
	}
	if removed != sess {
		t.Error("expected removed session to match inserted one")
	}
	if reg.Len() != 0 {
		t.Errorf("expected empty registry after remove, got %d", reg.Len())
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.Get("nope"); ok {
		t.Error("expected lookup of unknown id to fail")
	}
}

func TestRegistryRemoveUnknown(t *testing.T) {
	reg := NewRegistry()
	reg.Insert(newTestSession("instance-a", Firefox))

	if _, ok := reg.Remove("nope"); ok {
		t.Error("expected remove of unknown id to fail")
	}
	if reg.Len() != 1 {
		t.Errorf("expected registry size unchanged, got %d", reg.Len())
	}
}

func TestRegistryOnly(t *testing.T) {
	reg := NewRegistry()

	if sole, n := reg.Only(); sole != nil || n != 0 {
		t.Errorf("empty registry: expected (nil, 0), got (%v, %d)", sole, n)
	}

	sess := newTestSession("instance-a", WebKit)
	reg.Insert(sess)
	sole, n := reg.Only()
	if n != 1 {
		t.Fatalf("expected count 1, got %d", n)
	}
	if sole != sess {
		t.Error("expected the sole session back")
	}

	reg.Insert(newTestSession("instance-b", Chromium))
	if sole, n := reg.Only(); sole != nil || n != 2 {
		t.Errorf("two entries: expected (nil, 2), got (%v, %d)", sole, n)
	}
}

func TestRegistryListOldestFirst(t *testing.T) {
	reg := NewRegistry()

	first := newTestSession("instance-a", Chromium)
	second := newTestSession("instance-b", Firefox)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	reg.Insert(second)
	reg.Insert(first)

	infos := reg.List()
	if len(infos) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(infos))
	}
	if infos[0].InstanceID != "instance-a" || infos[1].InstanceID != "instance-b" {
		t.Errorf("expected oldest-first ordering, got %v", infos)
	}
	if infos[0].BrowserType != "chromium" {
		t.Errorf("expected browser type 'chromium', got %q", infos[0].BrowserType)
	}
	if infos[1].BrowserType != "firefox" {
		t.Errorf("expected browser type 'firefox', got %q", infos[1].BrowserType)
	}
}

func TestRegistryListEmpty(t *testing.T) {
	reg := NewRegistry()
	if infos := reg.List(); len(infos) != 0 {
		t.Errorf("expected empty listing, got %v", infos)
	}
}
