package result

import "sort"

// Result is a single similarity match: the matched document payload plus
// a relevance score in [0,1].
type Result struct {
	id      string
	content string
	tags    map[string]string
	score   float64
}

// New creates a similarity result.
func New(id string, score float64, content string, tags map[string]string) Result {
	return Result{id: id, score: score, content: content, tags: tags}
}

// ID returns the document identifier.
func (r *Result) ID() string { return r.id }

// Score returns the similarity score.
func (r *Result) Score() float64 { return r.score }

// Content returns the matched document content.
func (r *Result) Content() string { return r.content }

// Tags returns the matched document tags.
func (r *Result) Tags() map[string]string { return r.tags }

// Results is a set of similarity matches.
type Results []Result

// SortByScore orders results by descending score. Ties keep their
// original order.
func (rs Results) SortByScore() {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].score > rs[j].score
	})
}

// AboveThreshold returns the results scoring at least min.
func (rs Results) AboveThreshold(min float64) Results {
	if min <= 0 {
		return rs
	}
	filtered := make(Results, 0, len(rs))
	for _, r := range rs {
		if r.score >= min {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Top returns at most k leading results.
func (rs Results) Top(k int) Results {
	if k >= 0 && len(rs) > k {
		return rs[:k]
	}
	return rs
}
