//go:build integration

package integration_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	AppDir     string // extension folder with app.json
	SymbolsDir string // receives the baseline .app
	TempRoot   string // parent of staging directories
}

// setupTestEnv creates isolated temp directories and an app.json for
// extension name.
func setupTestEnv(t *testing.T, name string) *testEnv {
	t.Helper()

	env := &testEnv{
		AppDir:     t.TempDir(),
		SymbolsDir: filepath.Join(t.TempDir(), ".alpackages"),
		TempRoot:   t.TempDir(),
	}
	writeFile(t, filepath.Join(env.AppDir, "app.json"),
		`{"id": "63ca2fa4-4f03-4f2b-a480-172fef340d3f", "name": "`+name+`", "publisher": "Microsoft", "version": "27.0.0.0"}`)
	return env
}

// zipBytes builds an in-memory zip archive from name -> content.
func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

// newFeedServer serves a flat-container feed holding one package with the
// given versions; every version downloads as nupkg.
func newFeedServer(t *testing.T, packageID string, versions []string, nupkg []byte) *httptest.Server {
	t.Helper()

	id := strings.ToLower(packageID)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/"+id+"/index.json":
			_ = json.NewEncoder(w).Encode(map[string][]string{"versions": versions})
		case strings.HasPrefix(r.URL.Path, "/"+id+"/") && strings.HasSuffix(r.URL.Path, ".nupkg"):
			_, _ = w.Write(nupkg)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newStoreServer serves one artifact at /<kind>/<version>/<region>.
func newStoreServer(t *testing.T, artifactPath string, payload []byte) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != artifactPath {
			http.NotFound(w, r)
			return
		}
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// writeFile creates parent directories and writes content to path.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

// assertEmptyDir fails if dir has any entries.
func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Errorf("reading %s: %v", dir, err)
		return
	}
	if len(entries) != 0 {
		t.Errorf("expected %s to be empty, found %d entries", dir, len(entries))
	}
}
