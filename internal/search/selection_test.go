package search

import (
	"reflect"
	"testing"

	"github.com/lu-zhengda/tagside/internal/domain"
)

func TestParseTerms(t *testing.T) {
	got := ParseTerms("  in:Work  hello tag:x -in:spam ")
	want := []Term{
		{Op: "in", Value: "work"},
		{Value: "hello"},
		{Op: "tag", Value: "x"},
		{Op: "-in", Value: "spam"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseTerms() = %+v, want %+v", got, want)
	}
}

func TestSelectedTags(t *testing.T) {
	priority := []domain.Tag{
		{ID: 1, Slug: "inbox"},
		{ID: 3, Slug: "drafts"},
	}
	regular := []domain.Tag{
		{ID: 7, Slug: "work", Subtags: []domain.Tag{
			{ID: 8, ParentID: 7, Slug: "projects"},
		}},
		{ID: 9, Slug: "spam"},
	}

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{"empty query", "", []int64{}},
		{"single tag", "in:inbox", []int64{1}},
		{"subtag", "in:projects", []int64{8}},
		{"tag op and words", "tag:work invoice in:drafts", []int64{3, 7}},
		{"negated", "-in:spam", []int64{}},
		{"unknown slug", "in:nope", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectedTags(tt.query, priority, regular).IDs()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SelectedTags(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}
