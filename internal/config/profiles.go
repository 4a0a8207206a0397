package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// TLSMode is the TLS discipline a server profile uses.
type TLSMode string

const (
	// TLSImplicit opens a TLS session immediately (typically port 465).
	TLSImplicit TLSMode = "implicit-tls"
	// TLSStartTLS connects in plaintext and upgrades via STARTTLS (typically port 587).
	TLSStartTLS TLSMode = "starttls"
)

// ServerProfile is a named SMTP transport descriptor. Immutable after the
// registry is built.
type ServerProfile struct {
	Name     string  `yaml:"name"`
	Host     string  `yaml:"host"`
	Port     int     `yaml:"port"`
	TLS      TLSMode `yaml:"tls"`
	Address  string  `yaml:"address"`
	Password string  `yaml:"password"`
}

// Configured reports whether the profile carries sender credentials.
// An unconfigured profile is a valid state: real sends through it fail
// with a configuration error instead of a network attempt.
func (p ServerProfile) Configured() bool {
	return p.Address != "" && p.Password != ""
}

// ProfileRegistry is the fixed name → ServerProfile mapping, built once at
// process start.
type ProfileRegistry struct {
	profiles map[string]ServerProfile
}

// NewProfileRegistry builds a registry from the given profiles. Later entries
// with the same name replace earlier ones.
func NewProfileRegistry(profiles ...ServerProfile) *ProfileRegistry {
	r := &ProfileRegistry{profiles: make(map[string]ServerProfile, len(profiles))}
	for _, p := range profiles {
		r.profiles[p.Name] = p
	}
	return r
}

// Get returns the profile with the given name.
func (r *ProfileRegistry) Get(name string) (ServerProfile, bool) {
	p, ok := r.profiles[name]
	return p, ok
}

// Names returns all registered profile names in sorted order.
func (r *ProfileRegistry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuiltinProfiles returns the default server profiles without credentials.
func BuiltinProfiles() []ServerProfile {
	return []ServerProfile{
		{Name: "Gmail", Host: "smtp.gmail.com", Port: 465, TLS: TLSImplicit},
		{Name: "Yandex", Host: "smtp.yandex.ru", Port: 465, TLS: TLSImplicit},
		{Name: "Outlook", Host: "smtp.office365.com", Port: 587, TLS: TLSStartTLS},
	}
}

// profilesFile is the YAML overlay file layout.
type profilesFile struct {
	Profiles []ServerProfile `yaml:"profiles"`
}

// LoadProfiles builds the profile registry: built-in defaults, credentials
// from the environment config, and (when cfg.ProfilesFile is set) a YAML
// overlay that may extend or replace entries by name.
func LoadProfiles(cfg *AppConfig) (*ProfileRegistry, error) {
	profiles := BuiltinProfiles()
	creds := map[string][2]string{
		"Gmail":   {cfg.GmailAddress, cfg.GmailPassword},
		"Yandex":  {cfg.YandexAddress, cfg.YandexPassword},
		"Outlook": {cfg.OutlookAddress, cfg.OutlookPassword},
	}
	for i, p := range profiles {
		if c, ok := creds[p.Name]; ok {
			profiles[i].Address = c[0]
			profiles[i].Password = c[1]
		}
	}

	if cfg.ProfilesFile != "" {
		overlay, err := readProfilesFile(cfg.ProfilesFile)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, overlay...)
	}

	return NewProfileRegistry(profiles...), nil
}

// readProfilesFile parses the YAML profile overlay and validates each entry.
func readProfilesFile(path string) ([]ServerProfile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-configured
	if err != nil {
		return nil, fmt.Errorf("reading profiles file %q: %w", path, err)
	}

	var f profilesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing profiles file %q: %w", path, err)
	}

	for _, p := range f.Profiles {
		if p.Name == "" || p.Host == "" || p.Port == 0 {
			return nil, fmt.Errorf("profiles file %q: profile %+v missing name, host or port", path, p)
		}
		if p.TLS != TLSImplicit && p.TLS != TLSStartTLS {
			return nil, fmt.Errorf("profiles file %q: profile %q has invalid tls mode %q", path, p.Name, p.TLS)
		}
	}
	return f.Profiles, nil
}
