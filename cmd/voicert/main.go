// voicert is a demo CLI for the realtime API: one-shot and interactive text
// round trips over WebSocket, and text/voice round trips over WebRTC.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/enesunal-m/oairealtime"
)

var (
	flagModel    string
	flagBaseURL  string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "voicert",
	Short: "Realtime API demos over WebSocket and WebRTC",
	Long: `voicert exercises the realtime API end to end: send a text question and
stream the answer, hold an interactive chat, or play a wave file as a spoken
question and record the spoken answer.

Requires OPENAI_API_KEY in the environment (a .env file is honored).`,
	SilenceUsage: true,
}

func main() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "gpt-4o-realtime-preview", "realtime model")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", oairealtime.DefaultBaseURL, "API base URL")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level (debug|info|warn|error|off)")

	rootCmd.AddCommand(wsTextCmd, wsChatCmd, webrtcTextCmd, voiceCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// apiKey returns the credential or exits with a printed instruction.
func apiKey() string {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		fmt.Fprintln(os.Stderr, "OPENAI_API_KEY is not set.")
		fmt.Fprintln(os.Stderr, "Export it or add it to a .env file, e.g.:")
		fmt.Fprintln(os.Stderr, "  export OPENAI_API_KEY=sk-...")
		os.Exit(1)
	}
	return key
}

func newLogger() *oairealtime.Logger {
	return oairealtime.NewLogger(oairealtime.ParseLogLevel(flagLogLevel))
}

func clientConfig() oairealtime.Config {
	return oairealtime.Config{
		BaseURL:          flagBaseURL,
		Model:            flagModel,
		Credential:       oairealtime.APIKey(apiKey()),
		StructuredLogger: newLogger(),
	}
}
