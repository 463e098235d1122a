package recognizer

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ModelVersion matches the archive's top-level directory name.
	ModelVersion    = "vosk-model-small-en-us-0.15"
	DefaultModelURL = "https://alphacephei.com/vosk/models/" + ModelVersion + ".zip"
)

// EnsureModel makes sure the decoder model exists at modelPath. A
// pre-existing directory is used as-is, so manual placement always
// works. Otherwise the archive is downloaded, extracted next to the
// target, and the extracted directory renamed into place. Any failure
// is returned to the caller; nothing here terminates the process.
func EnsureModel(modelPath, url string) error {
	if _, err := os.Stat(modelPath); err == nil {
		return nil
	}

	parent := filepath.Dir(modelPath)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("create model parent dir: %w", err)
	}

	archivePath, err := download(url, parent)
	if err != nil {
		return fmt.Errorf("download model: %w", err)
	}
	defer os.Remove(archivePath)

	extractedDir, err := extract(archivePath, parent)
	if err != nil {
		return fmt.Errorf("extract model: %w", err)
	}

	if extractedDir != modelPath {
		if err := os.Rename(extractedDir, modelPath); err != nil {
			return fmt.Errorf("rename model dir: %w", err)
		}
	}
	return nil
}

func download(url, dir string) (string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http status: %s", resp.Status)
	}

	f, err := os.CreateTemp(dir, "model_*.zip")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// extract unzips into dir and returns the archive's top-level directory.
func extract(archivePath, dir string) (string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	var top string
	for _, f := range r.File {
		name := filepath.Clean(f.Name)
		if name == "." || strings.HasPrefix(name, "..") || filepath.IsAbs(name) {
			return "", fmt.Errorf("unsafe archive path %q", f.Name)
		}
		if top == "" {
			parts := strings.SplitN(name, string(filepath.Separator), 2)
			top = parts[0]
		}

		target := filepath.Join(dir, name)
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return "", err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return "", err
		}
		if err := writeEntry(f, target); err != nil {
			return "", err
		}
	}
	if top == "" {
		return "", fmt.Errorf("empty archive")
	}
	return filepath.Join(dir, top), nil
}

func writeEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
