package relay

import (
	"fmt"
	"strings"

	"github.com/elaralabs/elara/backend/internal/model/persona"
)

// BuildSystemPrompt renders the fixed system instruction for the persona that
// is prepended to every relayed conversation.
func BuildSystemPrompt(p persona.Persona) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "Você é %s, %s.\n\n", p.Name, firstRuneLower(p.Title))
	fmt.Fprintf(&builder, "Idioma: %s.\n", p.Language)
	fmt.Fprintf(&builder, "Tom: %s.\n", p.Tone)

	if len(p.Directives) > 0 {
		builder.WriteString("\nRegras de atendimento:\n")
		for _, directive := range p.Directives {
			builder.WriteString("- ")
			builder.WriteString(directive)
			builder.WriteString("\n")
		}
	}

	builder.WriteString("\nMantenha sempre a consistência do personagem durante toda a conversa.")
	return builder.String()
}

func firstRuneLower(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToLower(string(runes[0])) + string(runes[1:])
}
