package validation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExpandUser(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/.wine", filepath.Join(home, ".wine")},
		{"/abs/path", "/abs/path"},
		{"rel/path", "rel/path"},
		{"~user/x", "~user/x"},
	}
	for _, tc := range tests {
		if got := ExpandUser(tc.in); got != tc.want {
			t.Errorf("ExpandUser(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve_NonexistentIsFine(t *testing.T) {
	got, err := Resolve(filepath.Join(t.TempDir(), "does", "not", "exist"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("Resolve returned relative path %q", got)
	}
}

func TestResolve_CleansDots(t *testing.T) {
	dir := t.TempDir()
	got, err := Resolve(filepath.Join(dir, "a", "..", "b"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if want := filepath.Join(dir, "b"); got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveDir(t *testing.T) {
	dir := t.TempDir()

	got, err := ResolveDir(dir)
	if err != nil {
		t.Fatalf("ResolveDir failed: %v", err)
	}
	if got != dir {
		t.Errorf("ResolveDir = %q, want %q", got, dir)
	}

	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ResolveDir(file); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("error = %v, want ErrNotDirectory", err)
	}

	if _, err := ResolveDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestIsExecutableFile(t *testing.T) {
	dir := t.TempDir()

	script := filepath.Join(dir, "run.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	plain := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(plain, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if !IsExecutableFile(script) {
		t.Error("executable script not recognized")
	}
	if IsExecutableFile(plain) {
		t.Error("non-executable file recognized as executable")
	}
	if IsExecutableFile(dir) {
		t.Error("directory recognized as executable file")
	}
	if IsExecutableFile(filepath.Join(dir, "missing")) {
		t.Error("missing file recognized as executable")
	}
}

func TestIsEmptyDir(t *testing.T) {
	dir := t.TempDir()
	if !IsEmptyDir(dir) {
		t.Error("fresh temp dir not empty")
	}
	if err := os.WriteFile(filepath.Join(dir, "f"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if IsEmptyDir(dir) {
		t.Error("dir with an entry reported empty")
	}
	if IsEmptyDir(filepath.Join(dir, "missing")) {
		t.Error("missing dir reported empty")
	}
}
