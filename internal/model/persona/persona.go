package persona

// Persona captures the assistant identity injected into every relayed
// conversation and exposed (in part) to clients.
type Persona struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Language   string   `json:"language"`
	Tone       string   `json:"tone"`
	Greeting   string   `json:"greeting"`
	Directives []string `json:"directives,omitempty"`
}

// Profile is the public subset served to chat clients so they can seed the
// opening assistant turn without hardcoding copy.
type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Greeting string `json:"greeting"`
}

// Profile projects the persona to its client-visible fields.
func (p Persona) Profile() Profile {
	return Profile{ID: p.ID, Name: p.Name, Title: p.Title, Greeting: p.Greeting}
}

// Seed provides the product's default persona.
func Seed() []Persona {
	return []Persona{
		{
			ID:       "elara",
			Name:     "Elara",
			Title:    "Assistente virtual da clínica",
			Language: "português brasileiro",
			Tone:     "acolhedor, profissional, objetivo",
			Greeting: "Olá! Eu sou a Elara, assistente virtual da clínica. Como posso ajudar você hoje? 😊",
			Directives: []string{
				"Responda sempre em português brasileiro.",
				"Seja concisa: no máximo 2 a 3 frases por resposta.",
				"Use emojis com moderação para manter o tom acolhedor.",
				"Atue como recepcionista: acolha, oriente e ofereça agendamento.",
				"Nunca invente informações médicas; sugira falar com a equipe quando não souber.",
			},
		},
	}
}
