package profile

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrInvalidName is returned for profile names outside [A-Za-z0-9._-]{1,64}.
var ErrInvalidName = errors.New("invalid profile name")

const (
	DefaultName   = "default"
	MaxNameLength = 64
)

// Profile is a named decision namespace bound to the catalog it was last used with.
type Profile struct {
	Name        string
	CatalogPath string
	CatalogHash string
}

var (
	namePattern     = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	sanitizePattern = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

func New(name, catalogPath, catalogHash string) Profile {
	return Profile{Name: name, CatalogPath: catalogPath, CatalogHash: catalogHash}
}

func Validate(p Profile) error {
	return ValidateName(p.Name)
}

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidName, name, MaxNameLength)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q may only contain letters, digits, '.', '_' and '-'", ErrInvalidName, name)
	}
	return nil
}

// Sanitize turns an arbitrary string into a valid profile name.
func Sanitize(value string) string {
	name := sanitizePattern.ReplaceAllString(strings.TrimSpace(value), "-")
	name = strings.Trim(name, "-.")
	if len(name) > MaxNameLength {
		name = strings.TrimRight(name[:MaxNameLength], "-.")
	}
	if name == "" {
		return DefaultName
	}
	return name
}

// CatalogChanged reports whether hash differs from the hash stored on p.
// A profile that never saw a catalog has not changed.
func CatalogChanged(p Profile, hash string) bool {
	return p.CatalogHash != "" && hash != "" && p.CatalogHash != hash
}

func Format(p Profile) string {
	if p.CatalogPath == "" {
		return p.Name
	}
	return p.Name + " (" + FormatCatalogShort(p.CatalogPath) + ")"
}

func FormatCatalogShort(path string) string {
	if path == "" {
		return ""
	}
	name := filepath.Base(strings.TrimSuffix(path, "/"))
	if name == "." || name == "" {
		return path
	}
	return name
}
