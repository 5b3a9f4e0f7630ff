// Package secret provides content-safety scanning for cache payloads.
//
// It supports:
//   - Regex-based credential detection (see Detector + NewKeyDetector)
//   - Pluggable detector factories (see Registry)
//   - A composed scanner whose Allow method plugs into the cache engine's
//     safety policy hook (see Scanner)
//
// The default detector set covers the credential key names password,
// secret, token, api_key and private_key, plus PEM private key blocks.
// Findings carry the detector name and the matched key context, never the
// secret value itself.
package secret
