package namecache

import (
	"sort"

	"scenecache/internal/textutil"
)

// minSuggestionScore is the cosine similarity below which a cached name is not
// offered as a close match.
const minSuggestionScore = 0.5

// Suggestion is a cached name that resembles a missed lookup.
type Suggestion struct {
	Name  string  `json:"name"`
	Match Match   `json:"indexer_id"`
	Score float64 `json:"score"`
}

// Suggest returns up to limit resolved names that share words with name,
// best first. It is meant for operator-facing "did you mean" output after a
// Lookup miss and scans the whole cache.
func (c *Cache) Suggest(name string, limit int) []Suggestion {
	query := textutil.NewFingerprint(name)
	if query == nil || limit <= 0 {
		return nil
	}

	c.mu.RLock()
	var out []Suggestion
	for key, match := range c.entries {
		if !match.IsResolved() {
			continue
		}
		score := textutil.CosineSimilarity(query, textutil.NewFingerprint(key))
		if score < minSuggestionScore {
			continue
		}
		out = append(out, Suggestion{Name: key, Match: match, Score: score})
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
