package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitReasoning(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Split
	}{
		{
			name: "structured",
			raw:  "Reasoning: the sky scatters blue light.\nAnswer: The sky is blue.",
			want: Split{Reasoning: "the sky scatters blue light.", Answer: "The sky is blue.", Structured: true},
		},
		{
			name: "no markers",
			raw:  "The sky is blue.",
			want: Split{Reasoning: FallbackReasoning, Answer: "The sky is blue."},
		},
		{
			name: "answer without reasoning",
			raw:  "Answer: 42",
			want: Split{Reasoning: FallbackReasoning, Answer: "Answer: 42"},
		},
		{
			name: "markers out of order",
			raw:  "Answer: 42\nReasoning: because",
			want: Split{Reasoning: FallbackReasoning, Answer: "Answer: 42\nReasoning: because"},
		},
		{
			name: "empty answer",
			raw:  "Reasoning: thinking...\nAnswer:   \n",
			want: Split{Reasoning: FallbackReasoning, Answer: "Reasoning: thinking...\nAnswer:   \n"},
		},
		{
			name: "later answer markers stay in the answer",
			raw:  "Reasoning: r\nAnswer: first\nAnswer: second",
			want: Split{Reasoning: "r", Answer: "first\nAnswer: second", Structured: true},
		},
		{
			name: "repeated reasoning markers are removed",
			raw:  "Reasoning: a\nReasoning: b\nAnswer: c",
			want: Split{Reasoning: "a\n b", Answer: "c", Structured: true},
		},
		{
			name: "preamble before reasoning",
			raw:  "Sure!\n\nReasoning: x\n\nAnswer: y",
			want: Split{Reasoning: "Sure!\n\n x", Answer: "y", Structured: true},
		},
		{
			name: "empty input",
			raw:  "",
			want: Split{Reasoning: FallbackReasoning, Answer: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitReasoning(tt.raw))
		})
	}
}

func TestSplitReasoning_RawKeptVerbatimWithoutAnswer(t *testing.T) {
	inputs := []string{
		"  padded  ",
		"Reasoning: only reasoning here",
		"line one\nline two\n",
		"answer: lowercase marker",
	}
	for _, raw := range inputs {
		got := SplitReasoning(raw)
		assert.False(t, got.Structured, raw)
		assert.Equal(t, FallbackReasoning, got.Reasoning, raw)
		assert.Equal(t, raw, got.Answer, raw)
	}
}
