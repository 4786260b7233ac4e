package persona

// Store exposes persona retrieval for the relay and HTTP handlers.
type Store interface {
	List() []Persona
	FindByID(id string) (Persona, bool)
	Default() Persona
}

// MemoryStore implements Store with an in-memory slice. The persona set is
// fixed at startup, so no locking is needed.
type MemoryStore struct {
	items []Persona
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied personas.
// At least one persona must be provided.
func NewMemoryStore(items []Persona) *MemoryStore {
	return &MemoryStore{items: append([]Persona(nil), items...)}
}

// List returns the configured persona list.
func (s *MemoryStore) List() []Persona {
	return append([]Persona(nil), s.items...)
}

// FindByID looks up a persona by identifier.
func (s *MemoryStore) FindByID(id string) (Persona, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Persona{}, false
}

// Default returns the persona prepended to every relayed conversation.
func (s *MemoryStore) Default() Persona {
	return s.items[0]
}
