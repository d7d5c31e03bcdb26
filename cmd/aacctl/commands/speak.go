package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aditya6114/aac-board/internal/config"
	"github.com/aditya6114/aac-board/internal/speech"
)

// NewSpeakCmd creates the speak command
func NewSpeakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "speak <text>",
		Short: "Send a test utterance to the configured TTS endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.TTSEndpoint == "" {
				return fmt.Errorf("TTS_ENDPOINT is not configured")
			}

			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			speaker := speech.NewHTTPSpeaker(cfg.TTSEndpoint, speech.Options{
				Rate:   cfg.TTSRate,
				Pitch:  cfg.TTSPitch,
				Volume: cfg.TTSVolume,
			}, logger)

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			speaker.Speak(ctx, args[0])

			fmt.Printf("Sent %q to %s\n", args[0], cfg.TTSEndpoint)
			return nil
		},
	}
}
