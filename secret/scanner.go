package secret

import (
	"fmt"
	"strings"
)

// Scanner composes detectors into the content-safety predicate applied
// before a payload is cached.
type Scanner struct {
	detectors []Detector
}

// NewScanner creates a scanner. With no detectors it uses the default set.
func NewScanner(detectors ...Detector) *Scanner {
	if len(detectors) == 0 {
		detectors = DefaultDetectors()
	}
	return &Scanner{detectors: detectors}
}

// Scan runs every detector and collects their findings.
func (s *Scanner) Scan(payload []byte) []Finding {
	var findings []Finding
	for _, d := range s.detectors {
		if d == nil {
			continue
		}
		findings = append(findings, d.Scan(payload)...)
	}
	return findings
}

// Allow reports whether the payload may be stored. A non-nil error wraps
// ErrDisallowedContent and names the detectors that fired; it matches the
// cache engine's safety policy signature.
func (s *Scanner) Allow(payload []byte) error {
	findings := s.Scan(payload)
	if len(findings) == 0 {
		return nil
	}

	names := make([]string, 0, len(findings))
	for _, f := range findings {
		names = append(names, f.Detector)
	}
	return fmt.Errorf("%w (detectors: %s)", ErrDisallowedContent, strings.Join(names, ", "))
}
