package util

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinOrNone(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  string
	}{
		{"no suggestions", nil, "(none)"},
		{"empty list", []string{}, "(none)"},
		{"one sibling", []string{"greet"}, "greet"},
		{"several siblings", []string{"list", "ls", "last"}, "list, ls, last"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinOrNone(tt.items))
		})
	}
}

func TestJoinOrDefault(t *testing.T) {
	assert.Equal(t, "nothing tracked", JoinOrDefault(nil, "nothing tracked"))
	assert.Equal(t, "a, b", JoinOrDefault([]string{"a", "b"}, "nothing tracked"))
}

func TestPluralize_Wording(t *testing.T) {
	tests := []struct {
		count    int
		singular string
		plural   string
		want     string
	}{
		{0, "item", "items", "0 items"},
		{1, "item", "items", "1 item"},
		{3, "item", "items", "3 items"},
		{1, "check", "checks", "1 check"},
		{2, "check", "checks", "2 checks"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := fmt.Sprintf("%d %s", tt.count, Pluralize(tt.count, tt.singular, tt.plural))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "add", 3},
		{"greet", "greet", 0},
		{"gret", "greet", 1},
		{"lsit", "list", 2},
		{"trakcer", "tracker", 2},
		{"héllo", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"->"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, LevenshteinDistance(tt.a, tt.b))
			assert.Equal(t, tt.want, LevenshteinDistance(tt.b, tt.a))
		})
	}
}

func TestSuggestSimilar_SiblingCommands(t *testing.T) {
	siblings := []string{"add", "list", "ls", "remove"}

	tests := []struct {
		name  string
		input string
		limit int
		want  []string
	}{
		{"typo in subcommand", "lst", 3, []string{"list", "ls"}},
		{"transposed letters", "lsit", 3, []string{"list", "ls"}},
		{"case is ignored", "ADD", 3, []string{"add"}},
		{"limit caps results", "lst", 1, []string{"list"}},
		{"nothing close", "deploy", 3, nil},
		{"empty input", "", 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestSimilar(tt.input, siblings, tt.limit))
		})
	}
}

func TestSuggestSimilar_NearestFirst(t *testing.T) {
	got := SuggestSimilar("gret", []string{"greets", "greet", "wait"}, 3)
	assert.Equal(t, []string{"greet", "greets"}, got)
}

func TestSuggestSimilar_NoSiblings(t *testing.T) {
	assert.Nil(t, SuggestSimilar("echo", nil, 3))
	assert.Nil(t, SuggestSimilar("echo", []string{}, 3))
}
