package domain

import (
	"errors"
	"strings"
)

// InstructionSuffix is appended verbatim to every prompt sent to the completion engine.
const InstructionSuffix = "please reply in shortly and don't use any special characters"

const DefaultMaxTokens = 100

var (
	ErrEmptyPrompt = errors.New("empty prompt")
	ErrEmptyReply  = errors.New("empty reply from completion engine")
)

type ChatRequest struct {
	Prompt    string
	MaxTokens int
}

func NewChatRequest(prompt string, maxTokens int) (*ChatRequest, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &ChatRequest{Prompt: prompt, MaxTokens: maxTokens}, nil
}

// Content is the user message body: the prompt immediately followed by InstructionSuffix.
func (r *ChatRequest) Content() string {
	return r.Prompt + InstructionSuffix
}
