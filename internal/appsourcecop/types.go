package appsourcecop

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// FileName is the manifest file name inside an extension folder.
const FileName = "AppSourceCop.json"

// DefaultPublisher is used when no publisher is supplied.
const DefaultPublisher = "Microsoft"

// Manifest keys, in the order they are written.
const (
	KeyVersion                    = "version"
	KeyName                       = "name"
	KeyPublisher                  = "publisher"
	KeyObsoleteTagVersion         = "obsoleteTagVersion"
	KeyObsoleteTagAllowedVersions = "obsoleteTagAllowedVersions"
)

var knownKeys = []string{
	KeyVersion,
	KeyName,
	KeyPublisher,
	KeyObsoleteTagVersion,
	KeyObsoleteTagAllowedVersions,
}

// Manifest is the content of AppSourceCop.json. Keys the tool does not own
// (mandatoryAffixes, supportedCountries, ...) are kept in Extra and written
// back unchanged after the known keys, sorted by name.
type Manifest struct {
	Version                    string
	Name                       string
	Publisher                  string
	ObsoleteTagVersion         string
	ObsoleteTagAllowedVersions string
	Extra                      map[string]json.RawMessage

	// present tracks which known keys appeared in the decoded document so
	// that a manifest that was never patched round-trips without new keys.
	present map[string]bool
	// mistyped holds known keys whose decoded value was not a string. They
	// are written back as found until Set replaces them.
	mistyped map[string]json.RawMessage
}

// NewShell returns the manifest written for a folder that has none yet.
func NewShell() *Manifest {
	return &Manifest{present: map[string]bool{KeyVersion: true}}
}

func (m *Manifest) field(key string) *string {
	switch key {
	case KeyVersion:
		return &m.Version
	case KeyName:
		return &m.Name
	case KeyPublisher:
		return &m.Publisher
	case KeyObsoleteTagVersion:
		return &m.ObsoleteTagVersion
	case KeyObsoleteTagAllowedVersions:
		return &m.ObsoleteTagAllowedVersions
	}
	return nil
}

// Set assigns a known key and marks it present.
func (m *Manifest) Set(key, value string) {
	p := m.field(key)
	if p == nil {
		raw, _ := json.Marshal(value)
		if m.Extra == nil {
			m.Extra = make(map[string]json.RawMessage)
		}
		m.Extra[key] = raw
		return
	}
	*p = value
	delete(m.mistyped, key)
	if m.present == nil {
		m.present = make(map[string]bool)
	}
	m.present[key] = true
}

// Map flattens the manifest into key -> value. Extra values are returned in
// their decoded JSON form.
func (m *Manifest) Map() map[string]any {
	out := make(map[string]any)
	for _, k := range knownKeys {
		if m.has(k) {
			out[k] = *m.field(k)
		}
	}
	for k, raw := range m.Extra {
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			out[k] = v
		}
	}
	return out
}

func (m *Manifest) has(key string) bool {
	return m.present[key] || *m.field(key) != ""
}

// UnmarshalJSON decodes an AppSourceCop.json object.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("manifest is not a JSON object")
	}

	*m = Manifest{present: make(map[string]bool)}
	for k, v := range raw {
		p := m.field(k)
		if p == nil {
			if m.Extra == nil {
				m.Extra = make(map[string]json.RawMessage)
			}
			m.Extra[k] = v
			continue
		}
		m.present[k] = true
		if err := json.Unmarshal(v, p); err != nil {
			if m.mistyped == nil {
				m.mistyped = make(map[string]json.RawMessage)
			}
			m.mistyped[k] = v
		}
	}
	return nil
}

// MarshalJSON encodes the manifest with a stable key order: known keys first,
// then extra keys sorted by name.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	writeKey := func(k string, v []byte) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		kb, err := marshalNoEscape(k)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	for _, k := range knownKeys {
		if !m.has(k) {
			continue
		}
		vb, ok := m.mistyped[k]
		if !ok {
			var err error
			if vb, err = marshalNoEscape(*m.field(k)); err != nil {
				return nil, err
			}
		}
		if err := writeKey(k, vb); err != nil {
			return nil, err
		}
	}

	extra := make([]string, 0, len(m.Extra))
	for k := range m.Extra {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	for _, k := range extra {
		if err := writeKey(k, m.Extra[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
