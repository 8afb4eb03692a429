package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Suggestion is a single search suggestion.
type Suggestion struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	Score     float64 `json:"score"`
}

// Suggest returns up to limit suggestions for a partial query, best match
// first. Matching is case-insensitive and includes substrings anywhere in
// the title, so "edit" suggests both "Editor Pro" and "Photo Editor".
func (s *Index) Suggest(ctx context.Context, partial string, limit int) ([]Suggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	partial = strings.TrimSpace(partial)
	if partial == "" || limit <= 0 {
		return nil, nil
	}

	searchQuery := buildSuggestQuery(partial)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, limit, 0, false)
	searchRequest.SortBy([]string{"-_score", "-created_at"})
	searchRequest.Fields = []string{"title", "thumbnail"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute suggest query: %w", err)
	}

	suggestions := make([]Suggestion, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		suggestion := Suggestion{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if title, ok := hit.Fields["title"].(string); ok {
			suggestion.Title = title
		}
		if thumbnail, ok := hit.Fields["thumbnail"].(string); ok {
			suggestion.Thumbnail = thumbnail
		}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}

// buildSuggestQuery constructs the Bleve query for a partial title.
//
// Three clauses combined with OR:
//   - tokenized match on the title, boosted, so whole-word hits rank first
//   - prefix on the keyword title, so "photo e" matches "photo editor"
//   - wildcard substring on the keyword title, the broadest net
func buildSuggestQuery(partial string) query.Query {
	lowered := strings.ToLower(partial)

	matchQuery := bleve.NewMatchQuery(partial)
	matchQuery.SetField("title")
	matchQuery.SetBoost(3.0)

	prefixQuery := bleve.NewPrefixQuery(lowered)
	prefixQuery.SetField("title_exact")
	prefixQuery.SetBoost(2.0)

	wildcardQuery := bleve.NewWildcardQuery("*" + escapeWildcard(lowered) + "*")
	wildcardQuery.SetField("title_exact")
	wildcardQuery.SetBoost(1.0)

	return bleve.NewDisjunctionQuery(matchQuery, prefixQuery, wildcardQuery)
}

// escapeWildcard escapes wildcard metacharacters in user input so they
// match literally.
func escapeWildcard(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)
	return replacer.Replace(s)
}
