package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	if err := WriteFileAtomic(path, []byte("first"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first" {
		t.Errorf("content = %q", data)
	}

	// Overwrite replaces the previous content in one step.
	if err := WriteFileAtomic(path, []byte("second"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic() overwrite error = %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("content after overwrite = %q", data)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		for _, entry := range entries {
			t.Logf("entry: %s", entry.Name())
		}
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.json")
	if err := WriteFileAtomic(path, []byte("x"), 0644); err == nil {
		t.Error("WriteFileAtomic() succeeded into missing directory")
	}
}

func TestMarshalJSON(t *testing.T) {
	v := map[string]int{"a": 1}

	compact, err := MarshalJSON(v, false)
	if err != nil {
		t.Fatal(err)
	}
	if string(compact) != `{"a":1}` {
		t.Errorf("compact = %s", compact)
	}

	pretty, err := MarshalJSON(v, true)
	if err != nil {
		t.Fatal(err)
	}
	if string(pretty) != "{\n  \"a\": 1\n}" {
		t.Errorf("pretty = %s", pretty)
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("abcdef"); got != "abcd" {
		t.Errorf("ShortID() = %q", got)
	}
	if got := ShortID("ab"); got != "ab" {
		t.Errorf("ShortID() short input = %q", got)
	}
}
