package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is the optional on-disk CLI configuration, read from
// ~/.config/bibliotek/config.yaml (or BIBLIOTEK_CONFIG). Environment
// variables win over profile values.
type Profile struct {
	// BaseURL overrides the default service root.
	BaseURL string `yaml:"base_url"`

	// SessionFile overrides where the session document is stored.
	SessionFile string `yaml:"session_file"`
}

// loadProfile reads the profile at path. A missing or empty path yields a
// zero profile; a present but unreadable or malformed file is an error the
// user should see rather than silently falling back to defaults.
func loadProfile(path string) (Profile, error) {
	var p Profile
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, fmt.Errorf("reading profile %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	return p, nil
}
