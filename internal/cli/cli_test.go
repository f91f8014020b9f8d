package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bcbuild/baseline/internal/appsourcecop"
	"github.com/bcbuild/baseline/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(config.Reset)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveDefaultFromConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "build.yaml")
	writeFile(t, cfg, "baselineVersion: 25.2.0\n")

	out, err := execute(t, "--config", cfg, "resolve", "--build-mode", "default")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := strings.TrimSpace(out); got != "25.2.0" {
		t.Errorf("resolve printed %q, want %q", got, "25.2.0")
	}
}

func TestResolveRejectsUnknownMode(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "resolve", "--build-mode", "Nightly")
	if err == nil {
		t.Fatal("expected error for unknown build mode")
	}
}

func TestManifestCommandUsesDescriptorAndConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "build.yaml")
	writeFile(t, cfg, "baselineVersion: 24.0.0\nrepoVersion: \"24.0\"\nmaxAllowedObsoleteVersion: 26\n")
	appDir := filepath.Join(dir, "app")
	writeFile(t, filepath.Join(appDir, "app.json"), `{"name": "Business Foundation", "publisher": "Contoso", "version": "24.0.0.0"}`)

	out, err := execute(t, "--config", cfg, "manifest", "--folder", appDir)
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if got, want := strings.TrimSpace(out), appsourcecop.Path(appDir); got != want {
		t.Errorf("manifest printed %q, want %q", got, want)
	}

	m, err := appsourcecop.Load(appsourcecop.Path(appDir))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := map[string]string{
		"version":                    "24.0.0.0",
		"name":                       "Business Foundation",
		"publisher":                  "Contoso",
		"obsoleteTagVersion":         "24.0",
		"obsoleteTagAllowedVersions": "25.0,26.0",
	}
	got := map[string]string{
		"version":                    m.Version,
		"name":                       m.Name,
		"publisher":                  m.Publisher,
		"obsoleteTagVersion":         m.ObsoleteTagVersion,
		"obsoleteTagAllowedVersions": m.ObsoleteTagAllowedVersions,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestManifestRequestFlagsWin(t *testing.T) {
	t.Cleanup(func() {
		manifestFolder, manifestExtension, manifestVersion, manifestPublisher = ".", "", "", ""
		manifestCurrentMajor, manifestMaxMajor, manifestObsoleteTag = 0, 0, ""
	})
	manifestFolder = t.TempDir()
	manifestExtension = "Ext"
	manifestVersion = "27.0.0"
	manifestCurrentMajor = 27
	manifestMaxMajor = 27

	req, err := manifestRequest(config.Settings{
		BaselineVersion:           "1.0.0",
		RepoVersion:               "26.3",
		MaxAllowedObsoleteVersion: 30,
	})
	if err != nil {
		t.Fatalf("manifestRequest: %v", err)
	}
	if req.BaselineVersion != "27.0.0" {
		t.Errorf("BaselineVersion = %q, want %q", req.BaselineVersion, "27.0.0")
	}
	if req.CurrentMajor != 27 || req.MaxObsoleteMajor != 27 {
		t.Errorf("range = (%d, %d], want (27, 27]", req.CurrentMajor, req.MaxObsoleteMajor)
	}
	if req.ObsoleteTagVersion != "26.3" {
		t.Errorf("ObsoleteTagVersion = %q, want %q", req.ObsoleteTagVersion, "26.3")
	}
}

func TestManifestRequestNeedsVersion(t *testing.T) {
	t.Cleanup(func() { manifestFolder, manifestExtension = ".", "" })
	manifestFolder = t.TempDir()
	manifestExtension = "Ext"

	if _, err := manifestRequest(config.Settings{RepoVersion: "26.0", MaxAllowedObsoleteVersion: 27}); err == nil {
		t.Fatal("expected error without a baseline version")
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, appsourcecop.Path(dir), `{
  "version": "24.0.0.0",
  "name": "Ext",
  "publisher": "Microsoft",
  "obsoleteTagVersion": "24.0",
  "obsoleteTagAllowedVersions": "25.0"
}
`)
	cfg := filepath.Join(dir, "none.yaml")

	out, err := execute(t, "--config", cfg, "validate", dir)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("validate output = %q, want it to report a valid file", out)
	}
}

func TestVersionShort(t *testing.T) {
	buildVersion = "1.2.3"
	t.Cleanup(func() { versionShort = false })

	out, err := execute(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if got := strings.TrimSpace(out); got != "1.2.3" {
		t.Errorf("version --short = %q, want %q", got, "1.2.3")
	}
}
