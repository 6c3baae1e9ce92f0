package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shaharia-lab/filenotify/internal/storage"
)

// PreferencesFile is the YAML layout accepted by `filenotify prefs import`:
//
//	preferences:
//	  - tenant_id: 6f1c1f0e-...
//	    event_type: Success
//	    recipients:
//	      - channel: EMail
//	        address: ops@example.com
type PreferencesFile struct {
	Preferences []storage.Preference `yaml:"preferences"`
}

// LoadPreferences reads and validates a preferences seed file.
func LoadPreferences(path string) ([]storage.Preference, error) {
	//nolint:gosec // path comes from the operator's command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preferences file: %w", err)
	}
	return ParsePreferences(data)
}

// ParsePreferences decodes a preferences document. Every entry needs a tenant
// and an event type; channel names are validated while decoding.
func ParsePreferences(data []byte) ([]storage.Preference, error) {
	var f PreferencesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing preferences: %w", err)
	}
	for i, p := range f.Preferences {
		if p.TenantID == "" {
			return nil, fmt.Errorf("preference %d: tenant_id is required", i)
		}
		if p.EventType == "" {
			return nil, fmt.Errorf("preference %d: event_type is required", i)
		}
	}
	return f.Preferences, nil
}
