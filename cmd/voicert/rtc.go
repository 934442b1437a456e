package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/enesunal-m/oairealtime"
	"github.com/enesunal-m/oairealtime/webrtc"
)

var webrtcTextCmd = &cobra.Command{
	Use:   "webrtc-text [question]",
	Short: "Text question over the WebRTC data channel",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := defaultQuestion
		if len(args) == 1 {
			question = args[0]
		}

		ctx := cmd.Context()
		peer, err := webrtc.Connect(ctx, webrtc.SessionConfig{
			BaseURL: flagBaseURL,
			Model:   flagModel,
			Bearer:  apiKey(),
			Source:  webrtc.SilenceSource{},
			Logger:  newLogger(),
		})
		if err != nil {
			return err
		}
		defer peer.Close()

		answers := wireTextHandlers(peer.Relay(), true)

		openCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		err = peer.WaitOpen(openCtx)
		cancel()
		if err != nil {
			return err
		}

		if err := peer.SendUserMessage(question); err != nil {
			return err
		}
		if err := peer.SendResponseCreate(oairealtime.CreateResponseOptions{
			Modalities: []string{"text"},
		}); err != nil {
			return err
		}

		answer, err := awaitAnswer(ctx, answers, peer.Closed())
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println("Assistant:", answer)
		return nil
	},
}

var (
	flagVoiceIn           string
	flagVoiceOut          string
	flagVoiceName         string
	flagVoiceInstructions string
	flagVoiceMaxDuration  time.Duration
)

var voiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "Voice round trip: play a wave file, record the spoken answer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := webrtc.RunVoice(cmd.Context(), webrtc.VoiceOptions{
			BaseURL:            flagBaseURL,
			Model:              flagModel,
			Bearer:             apiKey(),
			InputPath:          flagVoiceIn,
			OutputPath:         flagVoiceOut,
			Voice:              flagVoiceName,
			Instructions:       flagVoiceInstructions,
			MaxSessionDuration: flagVoiceMaxDuration,
			Logger:             newLogger(),
		})
		if err != nil {
			return err
		}

		if result.LateDone {
			fmt.Println("note: completion arrived before any start notice")
		}
		if result.TimedOut {
			fmt.Println("note: session hit its duration cap; recording may be partial")
		}
		fmt.Printf("Saved %.1fs of audio to %s\n", result.RecordedSeconds, result.OutputPath)
		return nil
	},
}

func init() {
	voiceCmd.Flags().StringVar(&flagVoiceIn, "in", "", "wave file to play as the question (required)")
	voiceCmd.Flags().StringVar(&flagVoiceOut, "out", "answer.wav", "wave file to record the answer to")
	voiceCmd.Flags().StringVar(&flagVoiceName, "voice", "alloy", "voice for the spoken answer")
	voiceCmd.Flags().StringVar(&flagVoiceInstructions, "instructions", "Please answer the spoken question.", "response instructions")
	voiceCmd.Flags().DurationVar(&flagVoiceMaxDuration, "max-duration", 0, "overall session cap (default 60s)")
	_ = voiceCmd.MarkFlagRequired("in")
}
