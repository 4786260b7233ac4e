package relay

import (
	"context"
	"log"

	"github.com/elaralabs/elara/backend/internal/config"
	"github.com/elaralabs/elara/backend/internal/model/chat"
	"github.com/elaralabs/elara/backend/internal/model/persona"
)

// Service is the stateless translation layer between client transcripts and
// the upstream chat-completion API. It injects the fixed persona, performs one
// outbound call per invocation and never retries.
type Service struct {
	cfg      config.AIConfig
	personas persona.Store
	client   *openRouterClient
}

// NewService builds a relay bound to the given persona store and upstream
// configuration. The service is constructed even without a credential; Relay
// then fails per call with a misconfiguration error.
func NewService(personas persona.Store, cfg config.AIConfig) *Service {
	return &Service{
		cfg:      cfg,
		personas: personas,
		client:   newOpenRouterClient(cfg),
	}
}

// Relay forwards the transcript upstream with the persona system message
// prepended and returns only the extracted reply text. The caller-supplied
// messages are passed through in order, unmodified.
func (s *Service) Relay(ctx context.Context, messages []chat.Message) (string, error) {
	if len(messages) == 0 {
		return "", invalidRequest()
	}

	if !s.cfg.Enabled() {
		log.Printf("[relay] rejected request: OPENROUTER_API_KEY is not set")
		return "", misconfigured()
	}

	outbound := make([]chat.Message, 0, len(messages)+1)
	outbound = append(outbound, chat.Message{
		Role:    chat.RoleSystem,
		Content: BuildSystemPrompt(s.personas.Default()),
	})
	outbound = append(outbound, messages...)

	reply, relayErr := s.client.createChatCompletion(ctx, outbound)
	if relayErr != nil {
		log.Printf("[relay] upstream call failed: %v", relayErr)
		return "", relayErr
	}

	return reply, nil
}
