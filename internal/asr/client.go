// Package asr sends audio to a speech-to-text backend and returns the
// recognized text. It supports a single hosted endpoint and an ordered list
// of local candidate servers tried in turn.
package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/habla-dev/habla/internal/probe"
	"github.com/habla-dev/habla/pkg/logger"
)

const (
	// DefaultHostedURL is the hosted transcription endpoint.
	DefaultHostedURL = "https://api.openai.com/v1/audio/transcriptions"
	// HostedModel is the model field sent to the hosted endpoint.
	HostedModel = "whisper-1"
)

// DefaultLocalEndpoints are the local candidate servers, tried in order.
var DefaultLocalEndpoints = []string{
	"http://localhost:8000/transcribe",
	"http://localhost:5000/transcribe",
	"http://127.0.0.1:8000/transcribe",
}

// Result is a transcription with its provenance.
type Result struct {
	Text     string `json:"text"`
	Endpoint string `json:"endpoint"`
}

type whisperResponse struct {
	Text string `json:"text"`
}

// Client talks to the transcription backends.
type Client struct {
	apiKey         string
	useLocal       bool
	hostedURL      string
	localEndpoints []string
	httpClient     *http.Client
	logger         *logger.Logger
}

// NewClient creates a transcription client. With useLocal set, the local
// candidate endpoints are probed instead of the hosted API and no key is
// required.
func NewClient(apiKey string, useLocal bool, timeoutSeconds int, log *logger.Logger) *Client {
	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:         apiKey,
		useLocal:       useLocal,
		hostedURL:      DefaultHostedURL,
		localEndpoints: DefaultLocalEndpoints,
		httpClient:     &http.Client{Timeout: timeout},
		logger:         log.Named("asr"),
	}
}

// SetHostedURL overrides the hosted endpoint (e.g. for proxies).
func (c *Client) SetHostedURL(u string) {
	if u != "" {
		c.hostedURL = strings.TrimRight(u, "/")
	}
}

// SetLocalEndpoints overrides the local candidate list.
func (c *Client) SetLocalEndpoints(endpoints []string) {
	if len(endpoints) > 0 {
		c.localEndpoints = endpoints
	}
}

// Transcribe uploads WAV audio and returns the recognized text. A result
// that is empty after trimming is ErrNoSpeech regardless of which backend
// produced it.
func (c *Client) Transcribe(ctx context.Context, wavData []byte) (*Result, error) {
	var result *Result
	var err error
	if c.useLocal {
		result, err = c.transcribeLocal(ctx, wavData)
	} else {
		result, err = c.transcribeHosted(ctx, wavData)
	}
	if err != nil {
		return nil, err
	}

	result.Text = strings.TrimSpace(result.Text)
	if result.Text == "" {
		return nil, ErrNoSpeech
	}

	c.logger.Info("Transcription result",
		logger.String("text", result.Text),
		logger.String("endpoint", result.Endpoint))
	return result, nil
}

func (c *Client) transcribeHosted(ctx context.Context, wavData []byte) (*Result, error) {
	if c.apiKey == "" {
		return nil, &ConfigError{Reason: "API key required, set OPENAI_API_KEY or pass --api-key"}
	}

	body, contentType, err := buildMultipart(wavData, true)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.hostedURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send transcription request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteAPIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed whisperResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &ResponseFormatError{Err: err}
	}

	return &Result{Text: parsed.Text, Endpoint: c.hostedURL}, nil
}

func (c *Client) transcribeLocal(ctx context.Context, wavData []byte) (*Result, error) {
	attempts := make([]probe.Attempt[*Result], 0, len(c.localEndpoints))
	for _, endpoint := range c.localEndpoints {
		endpoint := endpoint
		attempts = append(attempts, probe.Attempt[*Result]{
			Name: endpoint,
			Run: func(ctx context.Context) (*Result, error) {
				return c.tryLocalEndpoint(ctx, endpoint, wavData)
			},
		})
	}

	result, endpoint, err := probe.First(ctx, attempts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &NoLocalBackendError{Endpoints: c.localEndpoints}
	}

	c.logger.Info("Local transcription backend selected", logger.String("endpoint", endpoint))
	return result, nil
}

func (c *Client) tryLocalEndpoint(ctx context.Context, endpoint string, wavData []byte) (*Result, error) {
	c.logger.Debug("Trying local transcription endpoint", logger.String("endpoint", endpoint))

	// Model/format fields are optional for local servers; send the file only.
	body, contentType, err := buildMultipart(wavData, false)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Failed to connect to local endpoint",
			logger.String("endpoint", endpoint),
			logger.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Warn("Local endpoint returned bad status",
			logger.String("endpoint", endpoint),
			logger.Int("status", resp.StatusCode))
		return nil, &RemoteAPIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.Warn("Failed to parse local endpoint response",
			logger.String("endpoint", endpoint),
			logger.Error(err))
		return nil, &ResponseFormatError{Err: err}
	}

	return &Result{Text: parsed.Text, Endpoint: endpoint}, nil
}

// buildMultipart assembles the upload form. The audio/wav MIME tag on the
// file part is best-effort; the upload never fails over it.
func buildMultipart(wavData []byte, includeFields bool) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if includeFields {
		if err := writer.WriteField("model", HostedModel); err != nil {
			return nil, "", err
		}
		if err := writer.WriteField("response_format", "json"); err != nil {
			return nil, "", err
		}
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="audio.wav"`)
	header.Set("Content-Type", "audio/wav")
	part, err := writer.CreatePart(header)
	if err != nil {
		// Fall back to a part without an explicit MIME type.
		part, err = writer.CreateFormFile("file", "audio.wav")
		if err != nil {
			return nil, "", err
		}
	}
	if _, err := part.Write(wavData); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
