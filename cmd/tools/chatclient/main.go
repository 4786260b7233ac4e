// chatclient is an interactive terminal client for the Elara relay. It hosts
// the bounded chat session the same way the browser widget does: seeded
// greeting, turn cap, typewriter reveal, fallback turn on relay failure.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/elaralabs/elara/backend/internal/session"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] no .env file, using system environment: %v", err)
	}

	server := flag.String("server", "http://localhost:8080", "relay server base URL")
	turnCap := flag.Int("cap", session.DefaultCap, "user turns allowed before the session locks")
	tick := flag.Duration("tick", session.DefaultTickInterval, "typewriter tick interval")
	timeout := flag.Duration("timeout", 30*time.Second, "relay request timeout")
	flag.Parse()

	client := session.NewClient(*server, *timeout)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	profile, err := client.FetchPersona(ctx)
	cancel()
	if err != nil {
		log.Fatalf("failed to fetch persona from %s: %v", *server, err)
	}

	sess := session.New(*turnCap, profile.Greeting)
	runner := session.NewRunner(sess, client, *tick)
	defer runner.Close()

	fmt.Printf("%s — %s\n\n", profile.Name, profile.Title)
	fmt.Printf("%s: %s\n", profile.Name, profile.Greeting)
	fmt.Printf("(%d turnos disponíveis; Ctrl+D para sair)\n\n", *turnCap)

	scanner := bufio.NewScanner(os.Stdin)
	for runner.InputEnabled() {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}

		if err := runner.Submit(scanner.Text()); err != nil {
			switch err {
			case session.ErrEmptyInput:
				continue
			case session.ErrTurnsExhausted:
				fmt.Println("(sessão encerrada: limite de turnos atingido)")
				return
			default:
				log.Fatalf("submit failed: %v", err)
			}
		}

		render(runner, profile.Name)
	}

	fmt.Println("\n(sessão encerrada: limite de turnos atingido)")
}

// render consumes updates for one turn: waits out the relay call, prints the
// typewriter reveal and returns once the session settles.
func render(runner *session.Runner, name string) {
	printedLabel := false
	lastLen := 0

	for update := range runner.Updates() {
		switch update.State {
		case session.StateAwaitingReply:
			fmt.Print("...")
		case session.StateRevealing:
			if !printedLabel {
				fmt.Printf("\r%s: ", name)
				printedLabel = true
			}
			fmt.Print(update.Revealed[lastLen:])
			lastLen = len(update.Revealed)
		case session.StateIdle, session.StateTerminal:
			if !printedLabel {
				// Relay failed: the fallback turn was appended unrevealed.
				if last, ok := update.Transcript.Last(); ok {
					fmt.Printf("\r%s: %s", name, last.Text)
				}
			} else if lastLen < len(update.Revealed) {
				fmt.Print(update.Revealed[lastLen:])
			}
			fmt.Println()
			return
		}
	}
}
