package configs

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed assistant.yaml
var defaultProfile []byte

// Profile is everything about the assistant that shop staff may want to
// reword without touching code.
type Profile struct {
	Name        string            `yaml:"name"`
	Persona     string            `yaml:"persona"`
	Language    string            `yaml:"language"`
	Rules       string            `yaml:"rules"`
	Welcome     string            `yaml:"welcome"`
	FollowUp    string            `yaml:"follow_up"`
	RateLimited string            `yaml:"rate_limited"`
	Failure     string            `yaml:"failure"`
	Canned      map[string]string `yaml:"canned"`
}

// Normalize lower-cases and trims text the same way canned keys are stored.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// LoadProfile reads the YAML profile at path, or the bundled one when path is empty.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return ParseProfile(defaultProfile)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assistant profile: %w", err)
	}
	return ParseProfile(data)
}

func DefaultProfile() *Profile {
	p, err := ParseProfile(defaultProfile)
	if err != nil {
		panic("bundled assistant profile is invalid: " + err.Error())
	}
	return p
}

func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("assistant profile: %w", err)
	}

	canned := make(map[string]string, len(p.Canned))
	for k, v := range p.Canned {
		key := Normalize(k)
		if key == "" || strings.TrimSpace(v) == "" {
			continue
		}
		canned[key] = v
	}
	p.Canned = canned
	if p.Language == "" {
		p.Language = "Bahasa Indonesia"
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Profile) validate() error {
	var missing []string
	for name, v := range map[string]string{
		"persona":      p.Persona,
		"welcome":      p.Welcome,
		"follow_up":    p.FollowUp,
		"rate_limited": p.RateLimited,
		"failure":      p.Failure,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("assistant profile: missing %s", strings.Join(missing, ", "))
	}
	if p.RateLimited == p.Failure {
		return errors.New("assistant profile: rate_limited and failure must differ")
	}
	return nil
}
