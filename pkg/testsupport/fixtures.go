package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-client-store/client"
)

// UpdateGoldenEnv, when set to a non empty value, makes CompareWithGolden
// rewrite golden files instead of comparing against them.
const UpdateGoldenEnv = "UPDATE_GOLDEN"

// FixturePath constructs a path to a fixture file relative to the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

// GoldenPath constructs a path to a golden file relative to the testdata directory.
func GoldenPath(filename string) string {
	return filepath.Join("testdata", "golden", filename)
}

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}
	return data
}

// DecodeClients parses a JSON array of client records.
func DecodeClients(data []byte) ([]client.Client, error) {
	var records []client.Client
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadClients loads a JSON array of client records from path.
func LoadClients(t testing.TB, path string) []client.Client {
	t.Helper()

	records, err := DecodeClients(LoadFixture(t, path))
	if err != nil {
		t.Fatalf("failed to decode clients from %s: %v", path, err)
	}
	return records
}

// SeedStore inserts records through store, failing the test on the first error.
// Records are inserted as given, tombstones and versions included.
func SeedStore(t testing.TB, store client.Store, records []client.Client) []client.Client {
	t.Helper()

	out := make([]client.Client, 0, len(records))
	for _, rec := range records {
		saved, err := store.Insert(context.Background(), rec)
		if err != nil {
			t.Fatalf("failed to seed client %s: %v", rec.ID, err)
		}
		out = append(out, saved)
	}
	return out
}

// WriteGolden writes test output to a golden file, creating parent directories.
func WriteGolden(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write golden file to %s: %v", path, err)
	}
}

// CompareWithGolden compares actual with the golden file at path.
// A missing golden file is created from actual.
func CompareWithGolden(t testing.TB, path string, actual []byte) {
	t.Helper()

	if os.Getenv(UpdateGoldenEnv) != "" {
		WriteGolden(t, path, actual)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Logf("Golden file %s does not exist, creating it", path)
			WriteGolden(t, path, actual)
			return
		}
		t.Fatalf("failed to read golden file %s: %v", path, err)
	}

	if !bytes.Equal(actual, expected) {
		t.Errorf("output mismatch for %s:\nExpected:\n%s\nActual:\n%s", path, expected, actual)
	}
}

// CompareJSONWithGolden marshals v with indentation and compares it with the
// golden file at path.
func CompareJSONWithGolden(t testing.TB, path string, v any) {
	t.Helper()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal JSON for golden file %s: %v", path, err)
	}
	CompareWithGolden(t, path, append(data, '\n'))
}
