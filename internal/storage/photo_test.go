package storage

import (
	"os"
	"strings"
	"testing"

	"github.com/hieuleminh03/vgov/internal/apperr"
)

func newStore(t *testing.T) *PhotoStore {
	t.Helper()
	store, err := NewPhotoStore(t.TempDir(), 1)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestSaveAndResolve(t *testing.T) {
	store := newStore(t)
	content := "fake image bytes"

	name, err := store.Save("avatar.PNG", int64(len(content)), strings.NewReader(content))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("extension must be normalized, got %q", name)
	}
	if name == "avatar.png" {
		t.Fatal("stored name must not be the original name")
	}

	path, err := store.Path(name)
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != content {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	store := newStore(t)
	_, err := store.Save("malware.exe", 4, strings.NewReader("data"))
	if !apperr.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	store := newStore(t)
	_, err := store.Save("big.jpg", 2<<20, strings.NewReader("pretend this is huge"))
	if !apperr.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestPathRejectsEscapes(t *testing.T) {
	store := newStore(t)
	for _, name := range []string{"", "../secret.png", "a/b.png"} {
		if _, err := store.Path(name); !apperr.IsNotFound(err) {
			t.Fatalf("Path(%q): want not-found, got %v", name, err)
		}
	}
}

func TestDelete(t *testing.T) {
	store := newStore(t)
	name, err := store.Save("pic.jpg", 4, strings.NewReader("data"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.Delete(name); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Path(name); !apperr.IsNotFound(err) {
		t.Fatalf("file should be gone, got %v", err)
	}
	// Deleting a missing file is tolerated.
	if err := store.Delete(name); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
	// Escaping names are still rejected.
	if err := store.Delete("../x.png"); !apperr.IsNotFound(err) {
		t.Fatalf("want not-found for escaping name, got %v", err)
	}
}
