package appsourcecop

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrParse is returned when an existing manifest is not valid JSON.
var ErrParse = errors.New("malformed manifest")

// legacyEncoding is used to read manifests that are not valid UTF-8.
var legacyEncoding = charmap.Windows1252

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Path returns the manifest path for an extension folder.
func Path(folder string) string {
	return filepath.Join(folder, FileName)
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, path)
}

// Decode parses manifest bytes. UTF-8 input (with or without BOM) is used as
// is; anything else is decoded as Windows-1252.
func Decode(data []byte, path string) (*Manifest, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	var m Manifest
	if err := json.Unmarshal(text, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	return &m, nil
}

// Encode renders the manifest as indented JSON terminated by a newline. The
// single-byte file encoding is plain ASCII: every non-ASCII rune is written
// as a \u escape, so the file reads the same as UTF-8 and as Windows-1252.
func Encode(m *Manifest) ([]byte, error) {
	compact, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("formatting manifest: %w", err)
	}
	indented.WriteByte('\n')

	return escapeNonASCII(indented.Bytes()), nil
}

// Save writes the manifest to path, replacing any existing file.
func Save(path string, m *Manifest) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}

func decodeText(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, nil
	}
	out, _, err := transform.Bytes(legacyEncoding.NewDecoder(), data)
	return out, err
}

// escapeNonASCII rewrites every non-ASCII rune as a JSON \u escape. In valid
// JSON such runes only occur inside strings, so the document keeps its value.
func escapeNonASCII(data []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r < utf8.RuneSelf {
			buf.WriteRune(r)
			continue
		}
		if r > 0xFFFF {
			r -= 0x10000
			fmt.Fprintf(&buf, `\u%04x\u%04x`, 0xD800+(r>>10), 0xDC00+(r&0x3FF))
			continue
		}
		fmt.Fprintf(&buf, `\u%04x`, r)
	}
	return buf.Bytes()
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
