package session

import "testing"

func TestTypewriterRevealsAllCharacters(t *testing.T) {
	tw := NewTypewriter("Olá! 😊")
	runes := []rune("Olá! 😊")

	for i := 1; i <= len(runes); i++ {
		revealed, done := tw.Tick()
		if revealed != string(runes[:i]) {
			t.Fatalf("tick %d: got %q, want %q", i, revealed, string(runes[:i]))
		}
		if done != (i == len(runes)) {
			t.Fatalf("tick %d: done=%v", i, done)
		}
	}

	if !tw.Done() {
		t.Fatal("typewriter should be done")
	}
}

func TestTypewriterTickAfterDoneIsNoOp(t *testing.T) {
	tw := NewTypewriter("oi")
	tw.Tick()
	tw.Tick()

	revealed, done := tw.Tick()
	if revealed != "oi" || !done {
		t.Fatalf("tick after done: got %q done=%v", revealed, done)
	}
}

func TestTypewriterCancelFreezesReveal(t *testing.T) {
	tw := NewTypewriter("resposta longa")
	tw.Tick()
	tw.Tick()
	tw.Cancel()

	revealed, done := tw.Tick()
	if revealed != "re" || !done {
		t.Fatalf("cancelled tick advanced: got %q done=%v", revealed, done)
	}
	if tw.Done() {
		t.Fatal("cancelled reveal is not complete")
	}
}

func TestTypewriterReset(t *testing.T) {
	tw := NewTypewriter("oi")
	tw.Tick()
	tw.Cancel()
	tw.Reset()

	revealed, done := tw.Tick()
	if revealed != "o" || done {
		t.Fatalf("reset did not restart the reveal: got %q done=%v", revealed, done)
	}
}

func TestTypewriterEmptyText(t *testing.T) {
	tw := NewTypewriter("")
	revealed, done := tw.Tick()
	if revealed != "" || !done {
		t.Fatalf("empty text should complete immediately: got %q done=%v", revealed, done)
	}
}
