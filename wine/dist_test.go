package wine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// makeDistPayload fills dir with the layout of a Wine payload.
func makeDistPayload(t *testing.T, dir string) {
	t.Helper()
	for _, sub := range []string{"bin", "lib", "lib64", "share"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, bin := range []string{"wine", "wine64", "wineserver", "wine-preloader", "wine64-preloader"} {
		path := filepath.Join(dir, "bin", bin)
		if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

// makeWineDist creates a plain Wine distribution in a temp directory.
func makeWineDist(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	makeDistPayload(t, root)
	return root
}

// makeProtonDist creates a Proton depot with the payload under sub.
func makeProtonDist(t *testing.T, sub string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "proton"), []byte("#!/usr/bin/env python3\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	makeDistPayload(t, filepath.Join(root, sub))
	return root
}

func TestNewDistribution_Wine(t *testing.T) {
	root := makeWineDist(t)

	d, err := NewDistribution(root)
	if err != nil {
		t.Fatalf("NewDistribution failed: %v", err)
	}
	if d.IsProton() {
		t.Error("plain Wine build reported as Proton")
	}
	if d.Dir() != d.Root() {
		t.Errorf("payload %q should equal root %q for plain Wine", d.Dir(), d.Root())
	}
	if got, want := d.Loader(), filepath.Join(root, "bin", "wine64"); got != want {
		t.Errorf("Loader() = %q, want %q", got, want)
	}
	if got, want := d.Server(), filepath.Join(root, "bin", "wineserver"); got != want {
		t.Errorf("Server() = %q, want %q", got, want)
	}
	if d.Proton() != "" {
		t.Errorf("Proton() = %q for plain Wine, want empty", d.Proton())
	}
}

func TestNewDistribution_Proton(t *testing.T) {
	for _, sub := range []string{"dist", "files"} {
		t.Run(sub, func(t *testing.T) {
			root := makeProtonDist(t, sub)

			d, err := NewDistribution(root)
			if err != nil {
				t.Fatalf("NewDistribution failed: %v", err)
			}
			if !d.IsProton() {
				t.Error("Proton depot not detected")
			}
			if got, want := d.Dir(), filepath.Join(root, sub); got != want {
				t.Errorf("payload = %q, want %q", got, want)
			}
			if got, want := d.Proton(), filepath.Join(root, "proton"); got != want {
				t.Errorf("Proton() = %q, want %q", got, want)
			}
		})
	}
}

func TestNewDistribution_MissingDirectory(t *testing.T) {
	_, err := NewDistribution(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrInvalidPath) {
		t.Errorf("error = %v, want ErrInvalidPath", err)
	}
}

func TestNewDistribution_InvalidLayout(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "bin"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := NewDistribution(root)
	if !errors.Is(err, ErrInvalidDistribution) {
		t.Errorf("error = %v, want ErrInvalidDistribution", err)
	}
}

func TestNewDistribution_ProtonWithoutPayload(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "proton"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := NewDistribution(root)
	if !errors.Is(err, ErrInvalidDistribution) {
		t.Errorf("error = %v, want ErrInvalidDistribution", err)
	}
}

func TestNewDistribution_MissingLoaderBinary(t *testing.T) {
	root := makeWineDist(t)
	if err := os.Remove(filepath.Join(root, "bin", "wine64")); err != nil {
		t.Fatal(err)
	}

	_, err := NewDistribution(root)
	if !errors.Is(err, ErrInvalidDistribution) {
		t.Errorf("error = %v, want ErrInvalidDistribution", err)
	}
}

func TestIsWineTool(t *testing.T) {
	for _, name := range []string{"winecfg", "regedit", "Notepad", "MSIEXEC"} {
		if !IsWineTool(name) {
			t.Errorf("IsWineTool(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"bash", "notepad.exe", ""} {
		if IsWineTool(name) {
			t.Errorf("IsWineTool(%q) = true, want false", name)
		}
	}
}
