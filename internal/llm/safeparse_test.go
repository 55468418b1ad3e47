package llm

import (
	"testing"

	"github.com/rs/zerolog"
)

type insightPayload struct {
	Insights []string `json:"insights"`
	Score    float64  `json:"score"`
}

var nop = zerolog.Nop()

func TestParseValidObject(t *testing.T) {
	raw := `{"insights": ["spend less on dining"], "score": 0.8}`
	fallback := insightPayload{Insights: []string{}}

	got := Parse(nop, raw, fallback)

	if len(got.Insights) != 1 || got.Insights[0] != "spend less on dining" {
		t.Errorf("insights = %v", got.Insights)
	}
	if got.Score != 0.8 {
		t.Errorf("score = %v", got.Score)
	}
}

func TestParseFencedOutput(t *testing.T) {
	raw := "```json\n{\"insights\": [\"ok\"], \"score\": 1}\n```"
	got := Parse(nop, raw, insightPayload{})
	if len(got.Insights) != 1 {
		t.Errorf("fenced output not parsed: %+v", got)
	}
}

func TestParseProseWrappedOutput(t *testing.T) {
	raw := "Sure! Here is the JSON you asked for:\n{\"insights\": [\"a\"], \"score\": 2}\nHope this helps."
	got := Parse(nop, raw, insightPayload{})
	if len(got.Insights) != 1 || got.Score != 2 {
		t.Errorf("prose-wrapped output not parsed: %+v", got)
	}
}

func TestParseArray(t *testing.T) {
	raw := "```\n[\"alpha\", \"beta\"]\n```"
	got := Parse(nop, raw, []string{"fallback"})
	if len(got) != 2 || got[0] != "alpha" {
		t.Errorf("array output = %v", got)
	}
}

func TestParseFallbackCases(t *testing.T) {
	fallback := insightPayload{Insights: []string{"default"}}

	tests := []struct {
		name string
		raw  string
	}{
		{"empty string", ""},
		{"not json", "I cannot help with that."},
		{"truncated json", `{"insights": ["a"`},
		{"semantically empty object", "{}"},
		{"json null", "null"},
		{"only fences", "```json\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(nop, tt.raw, fallback)
			if len(got.Insights) != 1 || got.Insights[0] != "default" {
				t.Errorf("Parse(%q) = %+v, want fallback", tt.raw, got)
			}
		})
	}
}

func TestParseEmptyArrayFallsBack(t *testing.T) {
	got := Parse(nop, "[]", []string{"default"})
	if len(got) != 1 || got[0] != "default" {
		t.Errorf("empty array should fall back, got %v", got)
	}
}

func TestParseNeverPanics(t *testing.T) {
	inputs := []string{"", "```", "{{{{", "[1,2,", "\x00\xff", "”smart quotes”"}
	for _, raw := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Parse(%q) panicked: %v", raw, r)
				}
			}()
			Parse(nop, raw, map[string]string{"k": "v"})
		}()
	}
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fence no language", "```\n[1,2]\n```", "[1,2]"},
		{"surrounding prose", "here you go: {\"a\":1} enjoy", `{"a":1}`},
		{"array before object", "[{\"a\":1}] trailing", `[{"a":1}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanModelJSON(tt.raw); got != tt.want {
				t.Errorf("CleanModelJSON(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
