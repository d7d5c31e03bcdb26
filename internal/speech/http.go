package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aditya6114/aac-board/internal/logger"
	"go.uber.org/zap"
)

const speakTimeout = 10 * time.Second

// Options shape the synthesized voice.
type Options struct {
	Rate   float64
	Pitch  float64
	Volume float64
}

// DefaultOptions mirror the voice settings the board has always used.
func DefaultOptions() Options {
	return Options{Rate: 0.8, Pitch: 1, Volume: 1}
}

// HTTPSpeaker posts utterances to a TTS service endpoint.
type HTTPSpeaker struct {
	endpoint string
	options  Options
	client   *http.Client
	log      *zap.Logger
}

// NewHTTPSpeaker creates a speaker for the given endpoint. An empty
// endpoint yields a Noop speaker so callers never branch.
func NewHTTPSpeaker(endpoint string, options Options, log *zap.Logger) Speaker {
	if endpoint == "" {
		return Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if options == (Options{}) {
		options = DefaultOptions()
	}
	return &HTTPSpeaker{
		endpoint: endpoint,
		options:  options,
		client:   &http.Client{Timeout: speakTimeout},
		log:      log,
	}
}

type speakRequest struct {
	Text   string  `json:"text"`
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

// Speak sends the utterance in the background. Transport errors are
// logged and dropped; the caller is never blocked or failed.
func (s *HTTPSpeaker) Speak(ctx context.Context, text string) {
	if text == "" {
		return
	}
	body, err := json.Marshal(speakRequest{
		Text:   text,
		Rate:   s.options.Rate,
		Pitch:  s.options.Pitch,
		Volume: s.options.Volume,
	})
	if err != nil {
		return
	}

	go func() {
		reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), speakTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, s.endpoint, bytes.NewReader(body))
		if err != nil {
			s.log.Warn("tts_request_build_failed", zap.Error(err))
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			s.log.Warn("tts_request_failed",
				zap.String("text", logger.SanitizeText(text)),
				zap.Error(err),
			)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			s.log.Warn("tts_request_rejected",
				zap.Int("status_code", resp.StatusCode),
				zap.String("text", logger.SanitizeText(text)),
			)
		}
	}()
}
