package categorization

import (
	"sort"
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

// ScoredCategory is a category with its keyword-overlap score against one
// transaction text.
type ScoredCategory struct {
	Category        Category
	Confidence      float64
	MatchedKeywords []string
}

// Engine scores categories against transaction text by keyword overlap. All
// keywords of all categories are compiled into a single Aho-Corasick matcher,
// so scoring is one pass over the text regardless of how many categories and
// keywords are loaded.
type Engine struct {
	mu         sync.RWMutex
	matcher    *ahocorasick.Matcher
	patterns   []string
	owners     [][]int // pattern index -> category indexes carrying that keyword
	categories []Category
}

// NewEngine compiles an engine from a category set.
func NewEngine(categories []Category) *Engine {
	e := &Engine{}
	e.Build(categories)
	return e
}

// Build recompiles the matcher. Called on cache refresh and after learning.
func (e *Engine) Build(categories []Category) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.categories = categories
	e.patterns = nil
	e.owners = nil
	e.matcher = nil

	patternIndex := make(map[string]int)
	for ci, cat := range categories {
		for _, kw := range NormalizeKeywords(cat.Keywords) {
			idx, ok := patternIndex[kw]
			if !ok {
				idx = len(e.patterns)
				patternIndex[kw] = idx
				e.patterns = append(e.patterns, kw)
				e.owners = append(e.owners, nil)
			}
			e.owners[idx] = append(e.owners[idx], ci)
		}
	}

	if len(e.patterns) > 0 {
		bytePatterns := make([][]byte, len(e.patterns))
		for i, p := range e.patterns {
			bytePatterns[i] = []byte(p)
		}
		e.matcher = ahocorasick.NewMatcher(bytePatterns)
	}
}

// Score returns every category with at least one keyword present in the text.
// Confidence is the fraction of the category's keywords found. Ties are left
// to the caller, which breaks them by category order.
func (e *Engine) Score(text string) []ScoredCategory {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.matcher == nil || strings.TrimSpace(text) == "" {
		return nil
	}

	normalized := strings.ToLower(text)
	matches := e.matcher.Match([]byte(normalized))
	if len(matches) == 0 {
		return nil
	}

	matched := make(map[int][]string) // category index -> matched keywords
	for _, idx := range matches {
		if idx < 0 || idx >= len(e.patterns) {
			continue
		}
		for _, ci := range e.owners[idx] {
			matched[ci] = append(matched[ci], e.patterns[idx])
		}
	}

	scored := make([]ScoredCategory, 0, len(matched))
	for ci, keywords := range matched {
		cat := e.categories[ci]
		total := len(NormalizeKeywords(cat.Keywords))
		if total == 0 {
			continue
		}
		sort.Strings(keywords)
		scored = append(scored, ScoredCategory{
			Category:        cat,
			Confidence:      float64(len(keywords)) / float64(total),
			MatchedKeywords: keywords,
		})
	}

	// Deterministic order: confidence desc, then the repository's category
	// sort order, then name.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Confidence != scored[j].Confidence {
			return scored[i].Confidence > scored[j].Confidence
		}
		if scored[i].Category.SortOrder != scored[j].Category.SortOrder {
			return scored[i].Category.SortOrder < scored[j].Category.SortOrder
		}
		return scored[i].Category.Name < scored[j].Category.Name
	})

	return scored
}

// CategoryCount returns how many categories are loaded.
func (e *Engine) CategoryCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.categories)
}
