package jsonfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.json")
	want := map[string]float64{"Mox Opal": 12.5, "Thoughtseize": 15}

	if err := Write(path, want); err != nil {
		t.Fatalf("Write() returned unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() returned unexpected error: %v", err)
	}
	if string(data) != `{"Mox Opal":12.5,"Thoughtseize":15}` {
		t.Errorf("file contents = %s", data)
	}

	var got map[string]float64
	if err := Read(path, &got); err != nil {
		t.Fatalf("Read() returned unexpected error: %v", err)
	}
	if len(got) != 2 || got["Mox Opal"] != 12.5 || got["Thoughtseize"] != 15 {
		t.Errorf("Read() = %v, want %v", got, want)
	}
}

func TestWrite_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "safety_valve.json")

	if err := Write(path, map[string]int{"a": 1, "b": 2}); err != nil {
		t.Fatal(err)
	}
	if err := Write(path, map[string]int{}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Errorf("file contents = %s, want {}", data)
	}
}

func TestRead_Missing(t *testing.T) {
	var v map[string]any
	err := Read(filepath.Join(t.TempDir(), "missing.json"), &v)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Read() error = %v, want fs.ErrNotExist", err)
	}
}

func TestRead_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var v map[string]any
	if err := Read(path, &v); err == nil {
		t.Error("Read() expected error for malformed file, got nil")
	}
}
