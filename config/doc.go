// Package config loads layered configuration for the result cache.
//
// Precedence, later overrides earlier:
//
//  1. Built-in defaults (cache enabled, .resultcache dir, 100 MB, 7-day TTL).
//  2. Project file .resultcache.yaml, searched in the working directory and
//     its parents, falling back to $HOME/.config/resultcache/config.yaml.
//  3. Environment variables RESULTCACHE_*.
//
// RESULTCACHE_CONFIG pins the file path and skips the search. Loaded
// configuration converts to the engine and observability config types via
// CachePolicy and Observability.
package config
