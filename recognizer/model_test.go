package recognizer

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func modelZip(t *testing.T, topDir string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		topDir + "/am/final.mdl": "acoustic",
		topDir + "/conf/model.conf": "--sample-frequency=16000",
	} {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestEnsureModelDownloadsAndRenames(t *testing.T) {
	archive := modelZip(t, ModelVersion)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	modelPath := filepath.Join(t.TempDir(), "model")
	if err := EnsureModel(modelPath, srv.URL); err != nil {
		t.Fatalf("EnsureModel: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(modelPath, "conf", "model.conf"))
	if err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
	if string(data) != "--sample-frequency=16000" {
		t.Fatalf("unexpected content: %q", data)
	}

	// No leftover archive or unrenamed dir
	entries, err := os.ReadDir(filepath.Dir(modelPath))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "model" {
		t.Fatalf("unexpected leftovers in model dir: %v", entries)
	}
}

func TestEnsureModelSkipsExisting(t *testing.T) {
	modelPath := filepath.Join(t.TempDir(), "model")
	if err := os.MkdirAll(modelPath, 0755); err != nil {
		t.Fatal(err)
	}

	// Server that always fails: must not be contacted
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("download attempted for existing model")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if err := EnsureModel(modelPath, srv.URL); err != nil {
		t.Fatalf("EnsureModel on existing dir: %v", err)
	}
}

func TestEnsureModelHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if err := EnsureModel(filepath.Join(t.TempDir(), "model"), srv.URL); err == nil {
		t.Fatal("expected error on 404")
	}
}

func TestExtractRejectsUnsafePaths(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("../escape")
	if err != nil {
		t.Fatal(err)
	}
	f.Write([]byte("x"))
	w.Close()

	dir := t.TempDir()
	archive := filepath.Join(dir, "bad.zip")
	if err := os.WriteFile(archive, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := extract(archive, dir); err == nil {
		t.Fatal("expected error for path traversal entry")
	}
}
