package secret

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrDisallowedContent indicates a payload was refused by content policy.
var ErrDisallowedContent = errors.New("secret: payload contains disallowed content")

// Finding describes disallowed content discovered in a payload. Context is
// the matched key fragment, never the value after it: findings are safe to
// log.
type Finding struct {
	Detector string
	Context  string
}

// Detector inspects a payload for disallowed content.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Scan must not panic; an unscannable payload yields no findings.
// - Findings must never contain secret values.
type Detector interface {
	Name() string
	Scan(payload []byte) []Finding
}

// keyDetector flags payloads that assign a value to a sensitive key, in
// either JSON ("password": ...) or key=value form.
type keyDetector struct {
	name string
	re   *regexp.Regexp
}

// NewKeyDetector creates a detector for a credential key name such as
// "password" or "api_key". Matching is case-insensitive.
func NewKeyDetector(name string) (Detector, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("secret: detector key name is required")
	}
	re, err := regexp.Compile(fmt.Sprintf(`(?i)["']?%s["']?\s*[:=]\s*\S`, regexp.QuoteMeta(name)))
	if err != nil {
		return nil, fmt.Errorf("secret: compile detector %q: %w", name, err)
	}
	return &keyDetector{name: name, re: re}, nil
}

func (d *keyDetector) Name() string { return d.name }

func (d *keyDetector) Scan(payload []byte) []Finding {
	loc := d.re.FindIndex(payload)
	if loc == nil {
		return nil
	}
	// Report only the key context, truncated before the value.
	ctxEnd := loc[1] - 1
	return []Finding{{Detector: d.name, Context: string(payload[loc[0]:ctxEnd])}}
}

// pemDetector flags PEM-encoded private key blocks.
type pemDetector struct {
	re *regexp.Regexp
}

var pemBlockPattern = regexp.MustCompile(`-----BEGIN (?:[A-Z ]+ )?PRIVATE KEY-----`)

// NewPEMDetector creates a detector for PEM private key blocks.
func NewPEMDetector() Detector {
	return &pemDetector{re: pemBlockPattern}
}

func (d *pemDetector) Name() string { return "pem_private_key" }

func (d *pemDetector) Scan(payload []byte) []Finding {
	if m := d.re.Find(payload); m != nil {
		return []Finding{{Detector: d.Name(), Context: string(m)}}
	}
	return nil
}

// DefaultKeyNames is the built-in credential key list.
var DefaultKeyNames = []string{"password", "secret", "token", "api_key", "private_key"}

// DefaultDetectors returns the built-in detector set: one key detector per
// DefaultKeyNames entry plus the PEM private key detector.
func DefaultDetectors() []Detector {
	detectors := make([]Detector, 0, len(DefaultKeyNames)+1)
	for _, name := range DefaultKeyNames {
		d, err := NewKeyDetector(name)
		if err != nil {
			continue
		}
		detectors = append(detectors, d)
	}
	return append(detectors, NewPEMDetector())
}
