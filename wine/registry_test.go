package wine

import (
	"errors"
	"testing"
)

func TestRegistry_FirstRegisteredBecomesDefault(t *testing.T) {
	reg := NewRegistry()
	first := testContext(t)
	second := testContext(t)

	reg.Register(first, WithName("first"))
	reg.Register(second, WithName("second"))

	got, err := reg.Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	if got != first {
		t.Error("first registered context should be the default")
	}
}

func TestRegistry_AsDefault(t *testing.T) {
	reg := NewRegistry()
	first := testContext(t)
	second := testContext(t)

	reg.Register(first, WithName("first"))
	reg.Register(second, WithName("second"), AsDefault())

	got, err := reg.Resolve("")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != second {
		t.Error("AsDefault should move the default")
	}
}

func TestRegistry_GeneratedNames(t *testing.T) {
	reg := NewRegistry()
	a := reg.Register(testContext(t))
	b := reg.Register(testContext(t))

	if a == "" || b == "" {
		t.Fatal("generated names must not be empty")
	}
	if a == b {
		t.Errorf("generated names collide: %q", a)
	}
}

func TestRegistry_ReplaceKeepsDefault(t *testing.T) {
	reg := NewRegistry()
	first := testContext(t)
	reg.Register(first, WithName("main"))
	reg.Register(testContext(t), WithName("other"))

	replacement := testContext(t)
	reg.Register(replacement, WithName("other"))

	if got, _ := reg.Resolve("other"); got != replacement {
		t.Error("re-registering a name should replace the binding")
	}
	if got, _ := reg.Default(); got != first {
		t.Error("re-registering must not move the default")
	}
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	reg := NewRegistry()
	reg.Register(testContext(t), WithName("main"))

	_, err := reg.Resolve("missing")
	if !errors.Is(err, ErrUnknownContext) {
		t.Errorf("error = %v, want ErrUnknownContext", err)
	}
}

func TestRegistry_ResolveEmptyWithoutDefault(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Resolve("")
	if !errors.Is(err, ErrUnknownContext) {
		t.Errorf("error = %v, want ErrUnknownContext", err)
	}
}

func TestRegistry_UnregisterDefaultClearsIt(t *testing.T) {
	reg := NewRegistry()
	reg.Register(testContext(t), WithName("main"))
	reg.Register(testContext(t), WithName("other"))

	reg.Unregister("main")

	if _, err := reg.Default(); !errors.Is(err, ErrUnknownContext) {
		t.Errorf("error = %v, removing the default should clear it, not promote another", err)
	}
	if _, err := reg.Resolve("other"); err != nil {
		t.Errorf("unrelated binding lost: %v", err)
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register(testContext(t), WithName("zeta"))
	reg.Register(testContext(t), WithName("alpha"))

	names := reg.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("Names() = %v, want [alpha zeta]", names)
	}
	if reg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", reg.Len())
	}
}

func TestRegistry_Clear(t *testing.T) {
	reg := NewRegistry()
	reg.Register(testContext(t), WithName("main"))
	reg.Clear()

	if reg.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", reg.Len())
	}
	if _, err := reg.Default(); !errors.Is(err, ErrUnknownContext) {
		t.Error("Clear should drop the default")
	}
}
