package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// Metadata is the static identity of a plugin.
type Metadata struct {
	ID          string `json:"id"`          // Reverse-DNS identifier (e.g., "com.pulsar.script-editor")
	Name        string `json:"name"`        // Human-readable name
	Version     string `json:"version"`     // Semver (e.g., "0.1.0")
	Author      string `json:"author"`      // Author name or org
	Description string `json:"description"` // Short description
}

// Metadata validation errors.
var (
	ErrMissingID      = errors.New("metadata: id is required")
	ErrInvalidID      = errors.New("metadata: id must be dot-separated lowercase segments")
	ErrMissingName    = errors.New("metadata: name is required")
	ErrMissingVersion = errors.New("metadata: version is required")
	ErrInvalidVersion = errors.New("metadata: version must be valid semver")
)

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*(\.[a-z][a-z0-9-]*)*$`)

// semverPattern validates version strings (simplified semver).
var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)

// Validate checks the metadata is well formed.
func (m Metadata) Validate() error {
	if m.ID == "" {
		return ErrMissingID
	}
	if !idPattern.MatchString(m.ID) {
		return fmt.Errorf("%w: %q", ErrInvalidID, m.ID)
	}
	if m.Name == "" {
		return ErrMissingName
	}
	if m.Version == "" {
		return ErrMissingVersion
	}
	if !semverPattern.MatchString(m.Version) {
		return fmt.Errorf("%w: %q", ErrInvalidVersion, m.Version)
	}
	return nil
}

// String returns "name@version".
func (m Metadata) String() string {
	return fmt.Sprintf("%s@%s", m.Name, m.Version)
}

// Manifest returns the metadata encoded as an indented JSON manifest.
func (m Metadata) Manifest() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
