package profile

import (
	"github.com/animesift/animesift/internal/config"
)

// Options contains options for resolving a profile from CLI/MCP input.
type Options struct {
	Name        string
	CatalogPath string
}

// ResolveName converts CLI/MCP-level profile options into a validated name.
// Without an explicit name the catalog file name is used, so each catalog
// keeps its own decisions.
func ResolveName(opts Options) (string, error) {
	if opts.Name != "" {
		if err := ValidateName(opts.Name); err != nil {
			return "", err
		}
		return opts.Name, nil
	}
	if opts.CatalogPath == "" {
		return DefaultName, nil
	}
	return Sanitize(config.ProfileNameFromPath(opts.CatalogPath)), nil
}
