package browser

import (
	"errors"
	"strings"
	"testing"

	"browserhive-mcp-server/internal/config"
)

func newTestManager(t *testing.T) (*Manager, *Registry) {
	t.Helper()
	reg := NewRegistry()
	return NewManager(config.BrowserConfig{}, reg), reg
}

func TestCreateInstance(t *testing.T) {
	m, reg := newTestManager(t)

	id, err := m.CreateInstance(Chromium)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(id, "instance-") {
		t.Errorf("expected identifier with stable prefix, got %q", id)
	}

	sess, ok := reg.Get(id)
	if !ok {
		t.Fatal("expected created instance to be registered")
	}
	if sess.Config().Type != Chromium {
		t.Errorf("expected chromium config, got %q", sess.Config().Type)
	}
	if sess.Disposed() {
		t.Error("fresh instance must not be disposed")
	}
}

func TestCreateInstanceUniqueIdentifiers(t *testing.T) {
	m, _ := newTestManager(t)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := m.CreateInstance(Firefox)
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if seen[id] {
			t.Fatalf("identifier %q issued twice", id)
		}
		seen[id] = true
	}
}

func TestCreateThenCloseCounts(t *testing.T) {
	m, reg := newTestManager(t)

	const n, closeCount = 7, 4
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, err := m.CreateInstance(Chromium)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, id)
	}
	for i := 0; i < closeCount; i++ {
		if err := m.CloseInstance(ids[i]); err != nil {
			t.Fatalf("close %s: %v", ids[i], err)
		}
	}

	if reg.Len() != n-closeCount {
		t.Errorf("expected %d remaining instances, got %d", n-closeCount, reg.Len())
	}
}

func TestCloseInstanceDisposesSession(t *testing.T) {
	m, reg := newTestManager(t)

	id, _ := m.CreateInstance(WebKit)
	sess, _ := reg.Get(id)

	if err := m.CloseInstance(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sess.Disposed() {
		t.Error("expected session to be disposed after close")
	}
	if _, ok := reg.Get(id); ok {
		t.Error("expected registry entry to be removed")
	}
}

func TestCloseInstanceUnknown(t *testing.T) {
	m, reg := newTestManager(t)
	m.CreateInstance(Chromium)

	err := m.CloseInstance("instance-missing")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if reg.Len() != 1 {
		t.Errorf("expected registry size unchanged, got %d", reg.Len())
	}
}

func TestEnsureDefault(t *testing.T) {
	m, reg := newTestManager(t)

	m.EnsureDefault(Firefox)
	if !m.HasDefault() {
		t.Fatal("expected default marker set")
	}

	sess, ok := reg.Get(DefaultInstanceID)
	if !ok {
		t.Fatal("expected reserved default instance to be registered")
	}
	if sess.Config().Type != Firefox {
		t.Errorf("expected firefox default, got %q", sess.Config().Type)
	}

	// Installing twice is a no-op.
	m.EnsureDefault(Chromium)
	if reg.Len() != 1 {
		t.Errorf("expected a single instance, got %d", reg.Len())
	}
}

func TestCloseDefaultClearsMarker(t *testing.T) {
	m, _ := newTestManager(t)
	m.EnsureDefault(Chromium)

	if err := m.CloseInstance(DefaultInstanceID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.HasDefault() {
		t.Error("expected default marker cleared after closing the default instance")
	}
}

func TestListInstances(t *testing.T) {
	m, _ := newTestManager(t)

	if infos := m.ListInstances(); len(infos) != 0 {
		t.Fatalf("expected no instances, got %v", infos)
	}

	idA, _ := m.CreateInstance(Chromium)
	idB, _ := m.CreateInstance(Firefox)

	infos := m.ListInstances()
	if len(infos) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(infos))
	}
	byID := make(map[string]string)
	for _, info := range infos {
		byID[info.InstanceID] = info.BrowserType
	}
	if byID[idA] != "chromium" {
		t.Errorf("expected %s to be chromium, got %q", idA, byID[idA])
	}
	if byID[idB] != "firefox" {
		t.Errorf("expected %s to be firefox, got %q", idB, byID[idB])
	}
}

func TestShutdownDisposesEverything(t *testing.T) {
	m, reg := newTestManager(t)
	m.EnsureDefault(Chromium)
	m.CreateInstance(Firefox)
	m.CreateInstance(WebKit)

	sessions := reg.All()
	if err := m.Shutdown(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reg.Len() != 0 {
		t.Errorf("expected empty registry after shutdown, got %d", reg.Len())
	}
	for _, sess := range sessions {
		if !sess.Disposed() {
			t.Errorf("expected %s to be disposed", sess.ID)
		}
	}
	if m.HasDefault() {
		t.Error("expected default marker cleared after shutdown")
	}
}
