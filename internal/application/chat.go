package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"voice-chat/internal/domain"
)

// Completer is the language-model completion boundary: one user message in,
// reply text out.
type Completer interface {
	Complete(ctx context.Context, content string, maxTokens int) (string, error)
}

// Chatter is what the front ends need from ChatService.
type Chatter interface {
	Chat(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type ChatService struct {
	completer Completer
	maxTokens int
	log       *logrus.Entry
}

func NewChatService(completer Completer, maxTokens int, logger *logrus.Logger) *ChatService {
	if maxTokens <= 0 {
		maxTokens = domain.DefaultMaxTokens
	}
	return &ChatService{
		completer: completer,
		maxTokens: maxTokens,
		log:       logger.WithField("component", "chat"),
	}
}

// Chat sends prompt plus the fixed instruction suffix as a single completion
// request. A maxTokens of zero or less uses the service default. Completer
// errors are returned unwrapped so front ends can surface them verbatim.
func (s *ChatService) Chat(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = s.maxTokens
	}

	req, err := domain.NewChatRequest(prompt, maxTokens)
	if err != nil {
		return "", err
	}

	s.log.WithField("max_tokens", req.MaxTokens).Debug("requesting completion")

	reply, err := s.completer.Complete(ctx, req.Content(), req.MaxTokens)
	if err != nil {
		return "", err
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", domain.ErrEmptyReply
	}

	return reply, nil
}
