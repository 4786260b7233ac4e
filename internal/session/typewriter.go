package session

// Typewriter reveals a string one character at a time, advanced by an
// external tick. It is cancellable and restartable: after Cancel later ticks
// are no-ops, and Reset rewinds to the start. Not safe for concurrent use.
type Typewriter struct {
	runes     []rune
	pos       int
	cancelled bool
}

// NewTypewriter prepares a reveal over the given text.
func NewTypewriter(text string) *Typewriter {
	return &Typewriter{runes: []rune(text)}
}

// Tick reveals the next character and returns the revealed prefix plus
// whether the reveal has completed. Ticks after completion or cancellation do
// not advance.
func (t *Typewriter) Tick() (string, bool) {
	if t.cancelled || t.pos >= len(t.runes) {
		return t.Revealed(), true
	}

	t.pos++
	return t.Revealed(), t.pos >= len(t.runes)
}

// Revealed returns the prefix revealed so far.
func (t *Typewriter) Revealed() string {
	return string(t.runes[:t.pos])
}

// Done reports whether every character has been revealed.
func (t *Typewriter) Done() bool {
	return t.pos >= len(t.runes)
}

// Cancel freezes the reveal; subsequent ticks are no-ops. Used when the
// widget is torn down mid-reveal.
func (t *Typewriter) Cancel() {
	t.cancelled = true
}

// Reset rewinds the reveal to the beginning and clears cancellation.
func (t *Typewriter) Reset() {
	t.pos = 0
	t.cancelled = false
}
