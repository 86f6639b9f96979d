package storage

import (
	"bytes"
	"errors"
	"testing"
)

func TestFSStoreRoundTrip(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}

	payload := []byte("model bytes")
	if err := store.Save("bundle.gob", payload); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !store.Exists("bundle.gob") {
		t.Error("Exists = false after Save")
	}

	got, err := store.Load("bundle.gob")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Load returned %q, want %q", got, payload)
	}
}

func TestFSStoreOverwrite(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save("b", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("b", []byte("v2")); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load("b")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v2" {
		t.Errorf("Load = %q, want v2", got)
	}
}

func TestFSStoreNotFound(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load("missing"); !errors.Is(err, ErrBundleNotFound) {
		t.Errorf("Load missing = %v, want ErrBundleNotFound", err)
	}
	if store.Exists("missing") {
		t.Error("Exists = true for missing blob")
	}
}
