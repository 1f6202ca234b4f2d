// Package parser turns raw model output into the relay's response fields.
// Everything here is pure: no I/O, no shared state.
package parser

import "strings"

const (
	ReasoningMarker = "Reasoning:"
	AnswerMarker    = "Answer:"

	// FallbackReasoning is reported when the model ignored the format.
	FallbackReasoning = "Direct response without explicit reasoning"
)

// Split 推理/答案拆分结果
type Split struct {
	Reasoning  string
	Answer     string
	Structured bool // 为 false 时 Reasoning 为占位文本，Answer 为原文
}

// SplitReasoning separates the reasoning section from the final answer.
//
// The text is structured when "Reasoning:" occurs before the first "Answer:"
// and something non-blank follows that "Answer:". Anything else falls back to
// the placeholder reasoning with the raw text as the answer, unchanged.
func SplitReasoning(raw string) Split {
	answerAt := strings.Index(raw, AnswerMarker)
	if answerAt < 0 {
		return fallback(raw)
	}

	head := raw[:answerAt]
	if !strings.Contains(head, ReasoningMarker) {
		return fallback(raw)
	}

	answer := strings.TrimSpace(raw[answerAt+len(AnswerMarker):])
	if answer == "" {
		return fallback(raw)
	}

	return Split{
		Reasoning:  strings.TrimSpace(strings.ReplaceAll(head, ReasoningMarker, "")),
		Answer:     answer,
		Structured: true,
	}
}

func fallback(raw string) Split {
	return Split{Reasoning: FallbackReasoning, Answer: raw}
}
