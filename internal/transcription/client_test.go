package transcription

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callsight/platform/internal/shared/config"
	"github.com/callsight/platform/internal/shared/errors"
)

func testConfig(baseURL string) config.TranscriptionConfig {
	return config.TranscriptionConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "whisper-1",
		Timeout: 5 * time.Second,
	}
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "call.mp3", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"text": "hello, thanks for calling",
			"segments": [
				{"start": 0, "end": 1.4, "text": "hello,"},
				{"start": 1.4, "end": 3.1, "text": "thanks for calling"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))

	res, err := c.Transcribe(context.Background(), "call.mp3", strings.NewReader("audio-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "hello, thanks for calling", res.Text)
	require.Len(t, res.Segments, 2)
	assert.Equal(t, 1.4, res.Segments[0].End)
}

func TestTranscribeNotConfigured(t *testing.T) {
	c := NewClient(config.TranscriptionConfig{})
	assert.False(t, c.Configured())

	_, err := c.Transcribe(context.Background(), "call.mp3", strings.NewReader("audio"))
	assert.True(t, errors.Is(err, errors.ErrUpstream))

	_, err = c.TranscribeURL(context.Background(), "http://example.com/call.mp3")
	assert.True(t, errors.Is(err, errors.ErrUpstream))
}

func TestTranscribeUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))

	_, err := c.Transcribe(context.Background(), "call.mp3", strings.NewReader("audio"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUpstream))
}

func TestTranscribeRejectsPartialResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing segments", body: `{"text": "hello"}`},
		{name: "missing text", body: `{"segments": []}`},
		{name: "not json", body: `<html>gateway error</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(testConfig(srv.URL))
			_, err := c.Transcribe(context.Background(), "call.mp3", strings.NewReader("audio"))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrUpstream))
		})
	}
}

func TestTranscribeURL(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		buf := make([]byte, 32)
		n, _ := file.Read(buf)
		assert.Equal(t, "recorded-audio", string(buf[:n]))

		w.Write([]byte(`{"text": "ok", "segments": []}`))
	}))
	defer api.Close()

	audio := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("recorded-audio"))
	}))
	defer audio.Close()

	c := NewClient(testConfig(api.URL))

	res, err := c.TranscribeURL(context.Background(), audio.URL+"/recording.mp3")
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Text)
	assert.Empty(t, res.Segments)
}

func TestTranscribeURLFetchFailure(t *testing.T) {
	audio := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer audio.Close()

	c := NewClient(testConfig("http://unused.invalid"))

	_, err := c.TranscribeURL(context.Background(), audio.URL+"/missing.mp3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUpstream))
}
