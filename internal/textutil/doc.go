// Package textutil normalizes show and release names.
//
// SanitizeSceneName produces the canonical key the scene name cache is indexed
// by. Fingerprint and CosineSimilarity compare names word-by-word so callers
// can offer close matches when an exact key is missing.
package textutil
