// Package project reads the AL project descriptor (app.json) of an
// extension folder.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	descriptorFile   = "app.json"
	defaultPublisher = "Microsoft"
)

// Descriptor is the subset of app.json the baseline workflow needs.
type Descriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Publisher   string `json:"publisher"`
	Version     string `json:"version"`
	Application string `json:"application,omitempty"`

	// Folder is the directory the descriptor was read from.
	Folder string `json:"-"`
}

// DescriptorPath returns the full path to app.json for an extension folder.
func DescriptorPath(folder string) string {
	return filepath.Join(folder, descriptorFile)
}

// LoadDescriptor reads and parses app.json from folder. The publisher
// defaults to "Microsoft" when the descriptor leaves it empty.
func LoadDescriptor(folder string) (*Descriptor, error) {
	path := DescriptorPath(folder)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project descriptor: %w", err)
	}

	var d Descriptor
	if err := json.Unmarshal(stripBOM(data), &d); err != nil {
		return nil, fmt.Errorf("parsing project descriptor %s: %w", path, err)
	}

	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return nil, fmt.Errorf("project descriptor %s has no name", path)
	}
	if strings.TrimSpace(d.Publisher) == "" {
		d.Publisher = defaultPublisher
	}
	d.Folder = folder

	return &d, nil
}

// AL tooling writes app.json with a UTF-8 byte order mark.
func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
