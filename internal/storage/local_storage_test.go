package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorageSaveAndDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	ctx := context.Background()

	key, err := store.Save(ctx, []byte("png-bytes"), SaveOptions{Category: "Media", BaseName: "Stage Night", Extension: ".PNG"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(key, "media/") || !strings.HasSuffix(key, "/stage-night.png") {
		t.Fatalf("unexpected key %q", key)
	}

	absPath := filepath.Join(store.LocalBaseDir(), filepath.FromSlash(key))
	data, err := os.ReadFile(absPath)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected content %q", data)
	}

	again, err := store.Save(ctx, []byte("other"), SaveOptions{Category: "media", BaseName: "stage-night", Extension: "png", SkipIfExists: true})
	if err != nil {
		t.Fatalf("Save with SkipIfExists: %v", err)
	}
	if again != key {
		t.Fatalf("expected existing key %q, got %q", key, again)
	}
	if data, _ := os.ReadFile(absPath); string(data) != "png-bytes" {
		t.Fatal("SkipIfExists overwrote the existing file")
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(absPath); !os.IsNotExist(err) {
		t.Fatalf("expected file to be removed, stat err = %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("deleting a missing file should succeed, got %v", err)
	}
}

func TestLocalStorageRejectsEmptyInput(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	if _, err := store.Save(context.Background(), nil, SaveOptions{}); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if err := store.Delete(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestLocalStorageDeleteStaysInsideBaseDir(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(root, "secret.txt")
	if err := os.WriteFile(outside, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := NewLocalStorage(filepath.Join(root, "uploads"))
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	if err := store.Delete(context.Background(), "../secret.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside base dir was touched: %v", err)
	}
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		key  string
		want string
	}{
		{name: "relative base", base: NormalisePublicBase("uploads/"), key: "media/a.png", want: "/uploads/media/a.png"},
		{name: "absolute base", base: NormalisePublicBase("https://cdn.example.com/"), key: "/media/a.png", want: "https://cdn.example.com/media/a.png"},
		{name: "absolute key", base: "/uploads", key: "https://trivixa.in/a.png", want: "https://trivixa.in/a.png"},
		{name: "empty key", base: "/uploads", key: " ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PublicURL(tt.base, tt.key); got != tt.want {
				t.Fatalf("PublicURL(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
			}
		})
	}
}
