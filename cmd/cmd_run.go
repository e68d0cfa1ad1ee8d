// cmd_run.go - Run Command Handler
// Hauptfunktionen: RunHandler, generate, generateInteractive
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/7blacky7/plauderkasten/api"
)

// runOptions - Optionen fuer die Chat-Ausfuehrung
type runOptions struct {
	Session  string
	Prompt   string
	WordWrap bool
}

// RunHandler - Haupthandler fuer den run Command
func RunHandler(cmd *cobra.Command, args []string) error {
	interactive := true

	opts := runOptions{
		WordWrap: os.Getenv("TERM") == "xterm-256color",
	}

	session, err := cmd.Flags().GetString("session")
	if err != nil {
		return err
	}
	opts.Session = session

	prompts := args
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		in, err := readStdinContent()
		if err != nil {
			return err
		}
		if len(in) > 0 {
			prompts = append([]string{in}, prompts...)
		}
		opts.WordWrap = false
		interactive = false
	}
	opts.Prompt = strings.Join(prompts, " ")
	if len(prompts) > 0 {
		interactive = false
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		interactive = false
	}

	nowrap, err := cmd.Flags().GetBool("nowordwrap")
	if err != nil {
		return err
	}
	if nowrap {
		opts.WordWrap = false
	}

	if err := checkServerHeartbeat(cmd, nil); err != nil {
		return err
	}

	if interactive {
		return generateInteractive(cmd, opts)
	}
	return generate(cmd, opts)
}

// generate - Sendet einen Prompt und streamt die Antwort nach stdout
func generate(cmd *cobra.Command, opts runOptions) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	if opts.Prompt == "" {
		return errors.New("a message is required. Usage: plauder run \"your message here\"")
	}

	state := &displayResponseState{}
	req := &api.ChatRequest{Session: opts.Session, Message: opts.Prompt}

	err = client.Chat(cmd.Context(), req, func(resp api.ChatResponse) error {
		displayResponse(resp.Message, opts.WordWrap, state)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Println()

	return nil
}

// generateInteractive - Interaktive Chat-Schleife
func generateInteractive(cmd *cobra.Command, opts runOptions) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "Type a message, /clear to reset the session, /bye to leave.")

	session := opts.Session
	scanner := newLineReader(os.Stdin)

	for {
		fmt.Print(">>> ")
		line, err := scanner.ReadLine()
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		} else if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "/bye":
			return nil
		case line == "/clear":
			if err := client.Reset(cmd.Context(), &api.ResetRequest{Session: session}); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			session = ""
			fmt.Println("Cleared session context")
			continue
		case strings.HasPrefix(line, "/"):
			fmt.Printf("Unknown command '%s'\n", line)
			continue
		}

		state := &displayResponseState{}
		req := &api.ChatRequest{Session: session, Message: line}

		err = client.Chat(cmd.Context(), req, func(resp api.ChatResponse) error {
			// Session-ID des Servers fuer die Folge-Nachrichten uebernehmen
			session = resp.Session
			displayResponse(resp.Message, opts.WordWrap, state)
			return nil
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		fmt.Println()
		fmt.Println()
	}
}

// newRunCmd - Erstellt den run Command
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [MESSAGE...]",
		Short: "Chat with the widget from the terminal",
		RunE:  RunHandler,
	}

	runCmd.Flags().String("session", "", "Session to continue (default: new session)")
	runCmd.Flags().Bool("nowordwrap", false, "Don't wrap words to the next line automatically")

	return runCmd
}
