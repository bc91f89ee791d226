// Package search derives sidebar navigation state from the current search.
package search

import (
	"strings"

	"github.com/lu-zhengda/tagside/internal/domain"
)

// Term is one whitespace-separated piece of a search query.
type Term struct {
	Op    string
	Value string
}

// ParseTerms splits a query into terms. "in:work" yields {Op: "in", Value:
// "work"}; a bare word has an empty Op.
func ParseTerms(query string) []Term {
	fields := strings.Fields(query)
	terms := make([]Term, 0, len(fields))
	for _, f := range fields {
		op, value, ok := strings.Cut(f, ":")
		if !ok {
			terms = append(terms, Term{Value: strings.ToLower(f)})
			continue
		}
		terms = append(terms, Term{Op: strings.ToLower(op), Value: strings.ToLower(value)})
	}
	return terms
}

// SelectedTags returns the IDs of tags (and subtags) named by "in:" or
// "tag:" terms of query. Negated terms ("-in:spam") select nothing.
func SelectedTags(query string, tags ...[]domain.Tag) domain.TagSet {
	slugs := make(map[string]bool)
	for _, t := range ParseTerms(query) {
		if (t.Op == "in" || t.Op == "tag") && t.Value != "" {
			slugs[t.Value] = true
		}
	}

	selected := domain.NewTagSet()
	if len(slugs) == 0 {
		return selected
	}
	for _, list := range tags {
		for i := range list {
			if slugs[list[i].Slug] {
				selected.Add(list[i].ID)
			}
			for j := range list[i].Subtags {
				if slugs[list[i].Subtags[j].Slug] {
					selected.Add(list[i].Subtags[j].ID)
				}
			}
		}
	}
	return selected
}
