// Package service implements the pattern classifier that detects and masks
// secrets in free text.
package service

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/prateekro/trayme-guard/internal/classifier/domain"
)

// Classifier detects, ranks and masks sensitive spans in text.
type Classifier interface {
	Detect(text string) (domain.Category, bool)
	DetectAll(text string) []domain.Category
	HighestSeverity(text string) (domain.Severity, bool)
	Matches(text string) []domain.Match
	Mask(text string) string
	ShouldBlurContent(text string) bool
}

// PatternClassifier evaluates an ordered rule table. It holds no mutable
// state and is safe for concurrent use.
type PatternClassifier struct {
	rules []Rule
}

// NewPatternClassifier creates a classifier over the given rules. Rule order
// decides which category Detect reports.
func NewPatternClassifier(rules []Rule) *PatternClassifier {
	return &PatternClassifier{rules: rules}
}

// NewDefaultClassifier creates a classifier over the built-in rule table.
func NewDefaultClassifier() *PatternClassifier {
	return NewPatternClassifier(DefaultRules())
}

// Detect returns the first category, in rule order, with a match in text.
func (c *PatternClassifier) Detect(text string) (domain.Category, bool) {
	for _, r := range c.rules {
		if r.Matcher.MatchString(text) {
			return r.Category, true
		}
	}
	return "", false
}

// DetectAll returns every category with a match in text, in rule order.
func (c *PatternClassifier) DetectAll(text string) []domain.Category {
	var found []domain.Category
	seen := make(map[domain.Category]struct{}, len(c.rules))
	for _, r := range c.rules {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		if r.Matcher.MatchString(text) {
			seen[r.Category] = struct{}{}
			found = append(found, r.Category)
		}
	}
	return found
}

// HighestSeverity returns the most severe severity among detected categories.
func (c *PatternClassifier) HighestSeverity(text string) (domain.Severity, bool) {
	var best domain.Severity
	found := false
	for _, category := range c.DetectAll(text) {
		s := category.Severity()
		if !found || best.Less(s) {
			best = s
			found = true
		}
	}
	return best, found
}

// Matches returns every span of every rule, ordered by start offset descending.
func (c *PatternClassifier) Matches(text string) []domain.Match {
	var matches []domain.Match
	for _, r := range c.rules {
		for _, loc := range r.Matcher.FindAllStringIndex(text, -1) {
			matches = append(matches, domain.Match{Category: r.Category, Start: loc[0], End: loc[1]})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start > matches[j].Start
	})
	return matches
}

// Mask replaces each matched span with min(rune length, MaxMaskRun) glyphs.
// Spans are replaced right to left so earlier offsets stay valid. Overlapping
// spans are merged into one span first.
func (c *PatternClassifier) Mask(text string) string {
	spans := mergeSpans(c.Matches(text))
	if len(spans) == 0 {
		return text
	}

	masked := text
	for _, s := range spans {
		n := min(utf8.RuneCountInString(text[s.Start:s.End]), domain.MaxMaskRun)
		masked = masked[:s.Start] + strings.Repeat(domain.MaskGlyph, n) + masked[s.End:]
	}
	return masked
}

// ShouldBlurContent reports whether text contains any sensitive content.
func (c *PatternClassifier) ShouldBlurContent(text string) bool {
	_, ok := c.Detect(text)
	return ok
}

// mergeSpans folds overlapping matches together. Input and output are ordered
// by start offset descending.
func mergeSpans(matches []domain.Match) []domain.Match {
	if len(matches) == 0 {
		return nil
	}

	asc := make([]domain.Match, len(matches))
	copy(asc, matches)
	sort.SliceStable(asc, func(i, j int) bool {
		return asc[i].Start < asc[j].Start
	})

	merged := []domain.Match{asc[0]}
	for _, m := range asc[1:] {
		last := &merged[len(merged)-1]
		if m.Start < last.End {
			if m.End > last.End {
				last.End = m.End
			}
			continue
		}
		merged = append(merged, m)
	}

	for i, j := 0, len(merged)-1; i < j; i, j = i+1, j-1 {
		merged[i], merged[j] = merged[j], merged[i]
	}
	return merged
}
