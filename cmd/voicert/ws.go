package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/enesunal-m/oairealtime"
)

// responseTimeout bounds the wait for a single text answer.
const responseTimeout = 30 * time.Second

const defaultQuestion = "Explain in one or two sentences how websockets work."

var wsTextCmd = &cobra.Command{
	Use:   "ws-text [question]",
	Short: "One-shot text question over WebSocket",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := defaultQuestion
		if len(args) == 1 {
			question = args[0]
		}

		ctx := cmd.Context()
		client, err := oairealtime.Dial(ctx, clientConfig())
		if err != nil {
			return err
		}
		defer client.Close()

		answers := wireTextHandlers(client.Relay, true)

		if err := client.CreateUserMessage(ctx, question); err != nil {
			return err
		}
		if _, err := client.CreateResponse(ctx, oairealtime.CreateResponseOptions{
			Modalities: []string{"text"},
		}); err != nil {
			return err
		}

		answer, err := awaitAnswer(ctx, answers, client.Closed())
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println("Assistant:", answer)
		return nil
	},
}

var wsChatCmd = &cobra.Command{
	Use:   "ws-chat",
	Short: "Interactive chat over WebSocket (exit/quit to leave)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := oairealtime.Dial(ctx, clientConfig())
		if err != nil {
			return err
		}
		defer client.Close()

		answers := wireTextHandlers(client.Relay, true)

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("you> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				return nil
			}

			if err := client.CreateUserMessage(ctx, line); err != nil {
				return err
			}
			if _, err := client.CreateResponse(ctx, oairealtime.CreateResponseOptions{
				Modalities: []string{"text"},
			}); err != nil {
				return err
			}

			// One request in flight at a time: the next prompt is offered
			// only after this response completes (or times out).
			if _, err := awaitAnswer(ctx, answers, client.Closed()); err != nil {
				fmt.Fprintln(os.Stderr, "warning:", err)
			}
			fmt.Println()
		}
	},
}

// wireTextHandlers installs the standard text-accumulation handlers on a
// relay: reset on created, append deltas in arrival order (optionally echoed
// as they stream), surface the assembled text on done.
func wireTextHandlers(relay *oairealtime.Relay, stream bool) <-chan string {
	assembler := oairealtime.NewTextAssembler()
	answers := make(chan string, 1)

	relay.OnResponseCreated(func(e oairealtime.ResponseCreated) { assembler.OnCreated(e) })
	relay.OnResponseTextDelta(func(e oairealtime.ResponseTextDelta) {
		assembler.OnDelta(e)
		if stream {
			fmt.Print(e.Delta)
		}
	})
	relay.OnResponseDone(func(e oairealtime.ResponseDone) {
		select {
		case answers <- assembler.Final(e.Response.ID):
		default: // previous answer unread; drop rather than block the reader
		}
	})
	relay.OnError(func(e oairealtime.ErrorEvent) {
		fmt.Fprintf(os.Stderr, "api error: %s: %s\n", e.Error.Type, e.Error.Message)
	})
	return answers
}

// awaitAnswer waits for one assembled answer, the connection ending, or the
// response timeout.
func awaitAnswer(ctx context.Context, answers <-chan string, closed <-chan struct{}) (string, error) {
	select {
	case a := <-answers:
		return a, nil
	case <-closed:
		return "", fmt.Errorf("connection closed before response completed")
	case <-time.After(responseTimeout):
		return "", fmt.Errorf("%w after %s", oairealtime.ErrResponseTimeout, responseTimeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
