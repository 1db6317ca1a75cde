// Package ollama is the HTTP client for the local inference service.
// Every call is recorded as an llm_runs row, successful or not.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/pkg/ctxutil"
)

type runRecorder interface {
	Record(ctx context.Context, run domain.LLMRun) error
}

// Config holds the endpoint and timeouts.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
}

// recordTimeout bounds the detached write of a run row.
const recordTimeout = 5 * time.Second

// malformedOutput replaces structured output when a fault asks for it.
const malformedOutput = `{"chief_complaint": "unterminated`

// Client talks to the Ollama HTTP API.
type Client struct {
	http    *http.Client
	baseURL string
	runs    runRecorder
	log     *slog.Logger
}

// NewClient creates a Client. runs may be nil to disable run recording.
func NewClient(log *slog.Logger, cfg Config, runs runRecorder) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext

	return &Client{
		http:    &http.Client{Timeout: cfg.RequestTimeout, Transport: transport},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		runs:    runs,
		log:     log.With("adapter", "ollama"),
	}
}

// metrics are the timing fields Ollama returns with every completed call.
// Durations are nanoseconds.
type metrics struct {
	LoadDuration    int64 `json:"load_duration"`
	PromptEvalCount int   `json:"prompt_eval_count"`
	EvalCount       int   `json:"eval_count"`
	EvalDuration    int64 `json:"eval_duration"`
}

type chatRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream"`
	Format   json.RawMessage      `json:"format,omitempty"`
}

type chatResponse struct {
	Model   string             `json:"model"`
	Message domain.ChatMessage `json:"message"`
	metrics
}

// Generate runs a chat completion. A fault policy can force a timeout before
// the call or corrupt structured output after it.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (domain.Generation, error) {
	run := c.newRun(req.Model, req.Track, domain.OpChat, req.CaseID)

	if req.Fault.InferenceTimeout {
		err := c.fail(run, domain.InferenceCodeTimeout, fmt.Errorf("injected: %w", context.DeadlineExceeded))
		c.record(ctx, run, time.Now())
		return domain.Generation{}, err
	}

	start := time.Now()
	var resp chatResponse
	err := c.post(ctx, "/api/chat", chatRequest{
		Model:    req.Model,
		Messages: req.Messages,
		Format:   req.Format,
	}, &resp)
	if err != nil {
		err = c.fail(run, classify(err), err)
		c.record(ctx, run, start)
		return domain.Generation{}, err
	}

	run.Success = true
	run.apply(resp.metrics)
	c.record(ctx, run, start)

	text := resp.Message.Content
	if req.Fault.MalformedOutput && len(req.Format) > 0 {
		text = malformedOutput
	}
	return domain.Generation{Text: text, Model: req.Model}, nil
}

type generateRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	Stream    bool   `json:"stream"`
	KeepAlive string `json:"keep_alive,omitempty"`
}

type generateResponse struct {
	Done bool `json:"done"`
	metrics
}

// Preload loads model into memory with an empty prompt so the first real
// request does not pay the load time.
func (c *Client) Preload(ctx context.Context, model string) error {
	run := c.newRun(model, "", domain.OpGenerate, nil)
	start := time.Now()

	var resp generateResponse
	if err := c.post(ctx, "/api/generate", generateRequest{Model: model, KeepAlive: "30m"}, &resp); err != nil {
		err = c.fail(run, classify(err), err)
		c.record(ctx, run, start)
		return err
	}

	run.Success = true
	run.apply(resp.metrics)
	c.record(ctx, run, start)
	return nil
}

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Embedding  []float32   `json:"embedding"`
	metrics
}

// Embed returns the embedding vector of text.
func (c *Client) Embed(ctx context.Context, model, text string) ([]float32, error) {
	run := c.newRun(model, "", domain.OpEmbed, nil)
	start := time.Now()

	var resp embedResponse
	if err := c.post(ctx, "/api/embed", embedRequest{Model: model, Input: text}, &resp); err != nil {
		err = c.fail(run, classify(err), err)
		c.record(ctx, run, start)
		return nil, err
	}

	vec := resp.Embedding
	if len(resp.Embeddings) > 0 {
		vec = resp.Embeddings[0]
	}
	if len(vec) == 0 {
		err := c.fail(run, domain.InferenceCodeDecode, errors.New("response carries no embedding"))
		c.record(ctx, run, start)
		return nil, err
	}

	run.Success = true
	run.apply(resp.metrics)
	c.record(ctx, run, start)
	return vec, nil
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Tags lists the locally available models. Used by health checks.
func (c *Client) Tags(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("build tags request: %w", err)
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama tags: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{Code: resp.StatusCode}
	}
	var body tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}

	names := make([]string, len(body.Models))
	for i, m := range body.Models {
		names[i] = m.Name
	}
	return names, nil
}

// Ping reports whether the inference service answers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Tags(ctx)
	return err
}

type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("ollama returned %d", e.Code)
	}
	return fmt.Sprintf("ollama returned %d: %s", e.Code, e.Body)
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return "decode response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &decodeError{err: err}
	}
	return nil
}

// classify maps a transport failure to an inference failure code.
func classify(err error) string {
	var se *statusError
	if errors.As(err, &se) {
		return domain.InferenceCodeHTTP(se.Code)
	}
	var de *decodeError
	if errors.As(err, &de) {
		return domain.InferenceCodeDecode
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.InferenceCodeTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return domain.InferenceCodeTimeout
	}
	return domain.InferenceCodeError
}

type run struct {
	domain.LLMRun
}

func (c *Client) newRun(model string, track domain.Track, op string, caseID *uuid.UUID) *run {
	return &run{LLMRun: domain.LLMRun{Model: model, Track: track.String(), Operation: op, CaseID: caseID}}
}

func (r *run) apply(m metrics) {
	if m.LoadDuration > 0 {
		ms := m.LoadDuration / int64(time.Millisecond)
		r.LoadMS = &ms
	}
	if m.PromptEvalCount > 0 {
		n := m.PromptEvalCount
		r.PromptTokens = &n
	}
	if m.EvalCount > 0 {
		n := m.EvalCount
		r.EvalTokens = &n
		if m.EvalDuration > 0 {
			tps := float64(m.EvalCount) / (float64(m.EvalDuration) / 1e9)
			r.TokensPerSec = &tps
		}
	}
}

func (c *Client) fail(r *run, code string, err error) error {
	r.Success = false
	r.ErrorCode = &code
	return &domain.InferenceError{Model: r.Model, Operation: r.Operation, Code: code, Err: err}
}

// record stores the run on a detached context so that a cancelled request is
// still accounted for. Recording failures are logged, never returned.
func (c *Client) record(ctx context.Context, r *run, start time.Time) {
	r.LatencyMS = time.Since(start).Milliseconds()

	level := slog.LevelDebug
	if !r.Success {
		level = slog.LevelWarn
	}
	attrs := []slog.Attr{
		slog.String("model", r.Model),
		slog.String("operation", r.Operation),
		slog.Int64("latency_ms", r.LatencyMS),
		slog.Bool("success", r.Success),
	}
	if r.ErrorCode != nil {
		attrs = append(attrs, slog.String("error_code", *r.ErrorCode))
	}
	c.log.LogAttrs(ctx, level, "inference call", attrs...)

	if c.runs == nil {
		return
	}
	rctx, cancel := ctxutil.Detached(ctx, recordTimeout)
	defer cancel()
	if err := c.runs.Record(rctx, r.LLMRun); err != nil {
		c.log.WarnContext(ctx, "record inference run failed", slog.String("error", err.Error()))
	}
}
