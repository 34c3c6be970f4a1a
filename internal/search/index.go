// Package search ranks short free-text notes against a query.
//
// Text is folded before tokenizing: case is folded and diacritics are
// stripped, so "Névralgie" and "nevralgie" are the same token. Documents are
// scored by Jaccard similarity of their token sets with the query's:
//
//	score = |Q ∩ D| / |Q ∪ D|
//
// The package does no logging and no I/O. An Index is safe for concurrent use.
package search

import (
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultK is used when Search is called with k <= 0.
const DefaultK = 3

// EnglishStopwords are function words that carry no meaning in symptom notes.
var EnglishStopwords = []string{
	"a", "an", "and", "at", "but", "for", "i", "in", "is", "it", "my",
	"of", "on", "or", "the", "to", "was", "with",
}

// Result is one ranked document.
type Result struct {
	Key     string
	Snippet string
	Score   float64
}

// Option configures New.
type Option func(*Index)

// WithMinRunes makes Add reject texts shorter than n runes once whitespace
// is collapsed.
func WithMinRunes(n int) Option {
	return func(i *Index) {
		if n >= 0 {
			i.minRunes = n
		}
	}
}

// WithStopwords sets the words dropped from both documents and queries.
func WithStopwords(words []string) Option {
	return func(i *Index) {
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			if w = fold(strings.TrimSpace(w)); w != "" {
				set[w] = struct{}{}
			}
		}
		if len(set) > 0 {
			i.stop = set
		}
	}
}

// WithMaxDocs caps how many documents the index keeps; later Adds are
// refused.
func WithMaxDocs(n int) Option {
	return func(i *Index) {
		if n > 0 {
			i.maxDocs = n
		}
	}
}

type doc struct {
	key    string
	text   string
	runes  int
	tokens map[string]struct{}
}

// Index holds the documents added to it.
type Index struct {
	minRunes int
	maxDocs  int
	stop     map[string]struct{}

	mu   sync.RWMutex
	docs []doc
}

// New returns an empty index.
func New(opts ...Option) *Index {
	idx := &Index{}
	for _, o := range opts {
		o(idx)
	}
	return idx
}

// Add indexes text under key (for diary notes, the entry date) and reports
// whether it was kept. Blank texts, texts under the minimum length, texts
// made only of stop words and texts past the document cap are dropped.
func (i *Index) Add(key, text string) bool {
	text = collapseSpace(text)
	if text == "" {
		return false
	}
	n := utf8.RuneCountInString(text)
	if n < i.minRunes {
		return false
	}
	toks := i.tokenize(text)
	if len(toks) == 0 {
		return false
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.maxDocs > 0 && len(i.docs) >= i.maxDocs {
		return false
	}
	i.docs = append(i.docs, doc{key: key, text: text, runes: n, tokens: toks})
	return true
}

// Len reports how many documents are indexed.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.docs)
}

// Search returns up to k documents sharing at least one token with query,
// best first. Equal scores go to the shorter text, then to the later key
// (the more recent diary date), then to the text itself.
func (i *Index) Search(query string, k int) []Result {
	if k <= 0 {
		k = DefaultK
	}
	q := i.tokenize(query)
	if len(q) == 0 {
		return nil
	}

	i.mu.RLock()
	hits := make([]doc, 0, min(k*4, len(i.docs)))
	scores := make([]float64, 0, cap(hits))
	for _, d := range i.docs {
		shared := overlap(q, d.tokens)
		if shared == 0 {
			continue
		}
		hits = append(hits, d)
		scores = append(scores, float64(shared)/float64(len(q)+len(d.tokens)-shared))
	}
	i.mu.RUnlock()
	if len(hits) == 0 {
		return nil
	}

	order := make([]int, len(hits))
	for n := range order {
		order[n] = n
	}
	sort.Slice(order, func(a, b int) bool {
		x, y := order[a], order[b]
		switch {
		case scores[x] != scores[y]:
			return scores[x] > scores[y]
		case hits[x].runes != hits[y].runes:
			return hits[x].runes < hits[y].runes
		case hits[x].key != hits[y].key:
			return hits[x].key > hits[y].key
		default:
			return hits[x].text < hits[y].text
		}
	})

	out := make([]Result, 0, min(k, len(order)))
	for _, n := range order[:min(k, len(order))] {
		out = append(out, Result{Key: hits[n].key, Snippet: hits[n].text, Score: scores[n]})
	}
	return out
}

// tokenize splits folded text into letter/digit runs. A run must contain a
// letter, so bare numbers ("200", "3") do not match every note with a dose.
func (i *Index) tokenize(s string) map[string]struct{} {
	words := strings.FieldsFunc(fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	var out map[string]struct{}
	for _, w := range words {
		if strings.IndexFunc(w, unicode.IsLetter) < 0 {
			continue
		}
		if _, skip := i.stop[w]; skip {
			continue
		}
		if out == nil {
			out = make(map[string]struct{}, len(words))
		}
		out[w] = struct{}{}
	}
	return out
}

// fold case-folds s and strips its diacritics. Casers and chains keep
// state, so each call builds its own.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Fold())
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

// collapseSpace trims s and replaces every run of whitespace with one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
