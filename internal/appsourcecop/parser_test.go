package appsourcecop

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testdataDir = "testdata"

func testPath(name string) string {
	return filepath.Join(testdataDir, name)
}

func TestLoad_Valid(t *testing.T) {
	m, err := Load(testPath("valid.json"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if m.Version != "24.0.0.0" {
		t.Errorf("Version = %q, want %q", m.Version, "24.0.0.0")
	}
	if m.Name != "System Application" {
		t.Errorf("Name = %q, want %q", m.Name, "System Application")
	}
	if m.ObsoleteTagAllowedVersions != "27.0,28.0" {
		t.Errorf("ObsoleteTagAllowedVersions = %q, want %q", m.ObsoleteTagAllowedVersions, "27.0,28.0")
	}
	if len(m.Extra) != 0 {
		t.Errorf("Extra = %v, want none", m.Extra)
	}
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(testPath("malformed.json"))
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestLoad_NotObject(t *testing.T) {
	for _, doc := range []string{`[]`, `"text"`, `null`} {
		if _, err := Decode([]byte(doc), "inline"); !errors.Is(err, ErrParse) {
			t.Errorf("Decode(%s) error = %v, want ErrParse", doc, err)
		}
	}
}

func TestLoad_WrongFieldType(t *testing.T) {
	m, err := Decode([]byte(`{"version": 24, "name": "Foo"}`), "inline")
	if err != nil {
		t.Fatalf("Decode failed for numeric version: %v", err)
	}

	data, err := Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"version": 24,`) {
		t.Errorf("numeric version not kept on round trip:\n%s", data)
	}

	m.Set(KeyVersion, "24.0.0.0")
	data, err = Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"version": "24.0.0.0",`) {
		t.Errorf("Set did not replace numeric version:\n%s", data)
	}
}

func TestLoad_NotFound(t *testing.T) {
	if _, err := Load(testPath("nonexistent.json")); err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, FileName)

	m := NewShell()
	m.Set(KeyVersion, "24.0.0.0")
	m.Set(KeyName, "Foo")
	m.Set(KeyPublisher, "Microsoft")
	m.Set(KeyObsoleteTagVersion, "24.0")
	m.Set(KeyObsoleteTagAllowedVersions, "25.0,26.0")
	m.Extra = map[string]json.RawMessage{"mandatoryAffixes": json.RawMessage(`["MS"]`)}

	if err := Save(path, m); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(m.Map(), loaded.Map()); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestLoad_ShellRoundTrip(t *testing.T) {
	m, err := Load(testPath("shell.json"))
	if err != nil {
		t.Fatal(err)
	}
	data, err := Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{\n  \"version\": \"\"\n}\n" {
		t.Errorf("shell encoded as %q", string(data))
	}
}

func TestEncode_StableKeyOrder(t *testing.T) {
	m, err := Load(testPath("valid-with-extras.json"))
	if err != nil {
		t.Fatal(err)
	}
	data, err := Encode(m)
	if err != nil {
		t.Fatal(err)
	}

	order := []string{
		`"version"`, `"name"`, `"publisher"`, `"obsoleteTagVersion"`,
		`"obsoleteTagAllowedVersions"`, `"mandatoryAffixes"`, `"supportedCountries"`,
	}
	last := -1
	for _, key := range order {
		idx := strings.Index(string(data), key)
		if idx < 0 {
			t.Fatalf("key %s missing from output:\n%s", key, data)
		}
		if idx < last {
			t.Errorf("key %s out of order in:\n%s", key, data)
		}
		last = idx
	}
}

func TestEncode_EscapesNonASCII(t *testing.T) {
	m := NewShell()
	m.Set(KeyVersion, "1.0.0.0")
	m.Set(KeyName, "Müller Extension 😀")

	data, err := Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range data {
		if b >= 0x80 {
			t.Fatalf("output contains non-ASCII byte 0x%x:\n%s", b, data)
		}
	}
	if !strings.Contains(string(data), `M\u00fcller`) {
		t.Errorf("expected escaped umlaut in:\n%s", data)
	}

	decoded, err := Decode(data, "inline")
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Name != "Müller Extension 😀" {
		t.Errorf("Name = %q after round trip", decoded.Name)
	}
}

func TestDecode_Windows1252(t *testing.T) {
	// 0xE9 is "é" in Windows-1252 and invalid on its own in UTF-8.
	data := []byte("{\"version\": \"1.0.0.0\", \"name\": \"Caf\xe9\"}")
	m, err := Decode(data, "inline")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if m.Name != "Café" {
		t.Errorf("Name = %q, want %q", m.Name, "Café")
	}
}

func TestDecode_UTF8BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"version": "1.0.0.0"}`)...)
	m, err := Decode(data, "inline")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if m.Version != "1.0.0.0" {
		t.Errorf("Version = %q", m.Version)
	}
}

func TestPath(t *testing.T) {
	if got := Path(filepath.Join("src", "App")); got != filepath.Join("src", "App", "AppSourceCop.json") {
		t.Errorf("Path = %q", got)
	}
}

func TestSave_Unwritable(t *testing.T) {
	tmp := t.TempDir()
	// A directory in place of the file makes the write fail.
	path := filepath.Join(tmp, FileName)
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
	if err := Save(path, NewShell()); err == nil {
		t.Error("expected error writing over a directory")
	}
}
