// Package namecache maps sanitized scene names to catalogued show identifiers.
//
// Resolving a release name or alias to a show is expensive, so every name that
// has been resolved once is kept in an in-memory map and mirrored to a durable
// scene_names table (see Store). A name that was seen but could not be matched
// is cached as Unresolved; those entries are dropped on every rebuild.
//
// # Rebuild
//
// Rebuild purges unresolved names, refreshes the scene exceptions, reloads the
// durable table, and then derives the canonical name and every alias of each
// catalogued show. RebuildShow repeats only the derivation step for one show.
// Derived names are cached in memory only; Flush writes the whole map back.
//
// # Keys
//
// Every map access goes through the configured Sanitizer (by default
// textutil.SanitizeSceneName), so "Law & Order: SVU" and "Law.and.Order.SVU"
// share one entry. The first identifier stored for a key wins; Add never
// overwrites.
package namecache
