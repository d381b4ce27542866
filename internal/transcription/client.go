package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/callsight/platform/internal/shared/config"
	"github.com/callsight/platform/internal/shared/errors"
)

// Segment is one timestamped slice of a transcript
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is a transcript with its timestamped segments
type Result struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// Client calls a Whisper-style speech-to-text API. Every transcription is
// a single attempt; failures surface to the caller for manual retry.
type Client struct {
	cfg        config.TranscriptionConfig
	httpClient *http.Client
}

// NewClient creates a new transcription client
func NewClient(cfg config.TranscriptionConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Configured reports whether the provider credential is set
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// TranscribeURL fetches the recording at audioURL and transcribes it
func (c *Client) TranscribeURL(ctx context.Context, audioURL string) (*Result, error) {
	if !c.Configured() {
		return nil, errors.Upstream(fmt.Errorf("missing API key"), "transcription service is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, errors.BadRequest("invalid audio URL: " + err.Error())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Upstream(err, "failed to fetch audio file")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Upstream(
			fmt.Errorf("audio fetch returned %s", resp.Status),
			"failed to fetch audio file")
	}

	return c.Transcribe(ctx, "audio.mp3", resp.Body)
}

// Transcribe posts the audio stream to the speech-to-text endpoint and
// returns the transcript with timestamped segments.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (*Result, error) {
	if !c.Configured() {
		return nil, errors.Upstream(fmt.Errorf("missing API key"), "transcription service is not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, errors.Upstream(err, "failed to read audio")
	}
	writer.WriteField("model", c.cfg.Model)
	writer.WriteField("response_format", "verbose_json")
	if err := writer.Close(); err != nil {
		return nil, errors.Internal(err)
	}

	url := c.cfg.BaseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, errors.Internal(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Upstream(err, "transcription request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.Upstream(
			fmt.Errorf("transcription returned %s: %s", resp.Status, detail),
			"transcription request failed")
	}

	// Text and segments must both be present; anything else means the
	// provider changed its response shape.
	var payload struct {
		Text     *string   `json:"text"`
		Segments []Segment `json:"segments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Upstream(err, "invalid transcription response")
	}
	if payload.Text == nil || payload.Segments == nil {
		return nil, errors.Upstream(
			fmt.Errorf("response missing text or segments"),
			"invalid transcription response")
	}

	return &Result{Text: *payload.Text, Segments: payload.Segments}, nil
}
