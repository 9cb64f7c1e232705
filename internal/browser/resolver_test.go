package browser

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveExplicitID(t *testing.T) {
	reg := NewRegistry()
	a := newTestSession("instance-a", Chromium)
	b := newTestSession("instance-b", Firefox)
	reg.Insert(a)
	reg.Insert(b)

	sess, err := Resolve(reg, "instance-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess != b {
		t.Error("expected explicit id to select instance-b")
	}
}

func TestResolveExplicitIDUnknown(t *testing.T) {
	// The explicit identifier wins regardless of registry size, including
	// when a fallback selection would have been possible.
	for _, populate := range []int{0, 1, 3} {
		reg := NewRegistry()
		for i := 0; i < populate; i++ {
			reg.Insert(newTestSession("instance-"+string(rune('a'+i)), Chromium))
		}

		_, err := Resolve(reg, "instance-missing")
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("registry size %d: expected NotFoundError, got %v", populate, err)
		}
		if notFound.ID != "instance-missing" {
			t.Errorf("expected offending id in error, got %q", notFound.ID)
		}
		if !strings.Contains(err.Error(), "instance-missing") {
			t.Errorf("expected message to contain the identifier, got %q", err.Error())
		}
	}
}

func TestResolveEmptyRegistry(t *testing.T) {
	reg := NewRegistry()

	_, err := Resolve(reg, "")
	if !errors.Is(err, ErrNoInstances) {
		t.Fatalf("expected ErrNoInstances, got %v", err)
	}
}

func TestResolveSingleInstance(t *testing.T) {
	// "Only one" is the sole criterion; the entry need not be the reserved
	// default.
	reg := NewRegistry()
	sess := newTestSession("instance-not-default", WebKit)
	reg.Insert(sess)

	got, err := Resolve(reg, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != sess {
		t.Error("expected the sole session to be selected")
	}
}

func TestResolveSingleDefaultInstance(t *testing.T) {
	reg := NewRegistry()
	sess := newTestSession(DefaultInstanceID, Chromium)
	reg.Insert(sess)

	got, err := Resolve(reg, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != sess {
		t.Error("expected the default session to be selected")
	}
}

func TestResolveAmbiguous(t *testing.T) {
	reg := NewRegistry()
	a := newTestSession("instance-a", Chromium)
	b := newTestSession("instance-b", Firefox)
	reg.Insert(a)
	reg.Insert(b)

	_, err := Resolve(reg, "")
	if !errors.Is(err, ErrAmbiguousInstance) {
		t.Fatalf("expected ErrAmbiguousInstance, got %v", err)
	}

	// Supplying either valid identifier then succeeds.
	for _, want := range []*Session{a, b} {
		got, err := Resolve(reg, want.ID)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", want.ID, err)
		}
		if got != want {
			t.Errorf("expected %s to be selected", want.ID)
		}
	}
}
