// Package anthropic generates reviewer-track drafts with the Anthropic
// Messages API. It is selected with inference.reviewer_provider=anthropic.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/pkg/ctxutil"
)

type runRecorder interface {
	Record(ctx context.Context, run domain.LLMRun) error
}

// Config holds the API credentials and generation limits.
type Config struct {
	APIKey         string
	Model          string
	MaxTokens      int64
	RequestTimeout time.Duration
	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string
}

const recordTimeout = 5 * time.Second

// Client is a chat generator backed by Claude.
type Client struct {
	api       anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	runs      runRecorder
	log       *slog.Logger
}

// NewClient creates a Client. runs may be nil.
func NewClient(log *slog.Logger, cfg Config, runs runRecorder) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	return &Client{
		api:       anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: maxTokens,
		timeout:   cfg.RequestTimeout,
		runs:      runs,
		log:       log.With("adapter", "anthropic"),
	}
}

// Model returns the configured model id.
func (c *Client) Model() string { return c.model }

// Generate sends the conversation to the Messages API. System messages are
// folded into the system prompt. The request model is ignored in favour of
// the configured one so that the ledger actor matches what actually ran.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (domain.Generation, error) {
	run := domain.LLMRun{Model: c.model, Track: req.Track.String(), Operation: domain.OpChat, CaseID: req.CaseID}
	start := time.Now()

	if req.Fault.InferenceTimeout {
		err := c.fail(&run, domain.InferenceCodeTimeout, fmt.Errorf("injected: %w", context.DeadlineExceeded))
		c.record(ctx, run, start)
		return domain.Generation{}, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	system, messages := buildMessages(req.Messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages:  messages,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		err = c.fail(&run, classify(err), err)
		c.record(ctx, run, start)
		return domain.Generation{}, err
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		err := c.fail(&run, domain.InferenceCodeDecode, errors.New("response carries no text block"))
		c.record(ctx, run, start)
		return domain.Generation{}, err
	}

	run.Success = true
	prompt, eval := int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens)
	run.PromptTokens, run.EvalTokens = &prompt, &eval
	c.record(ctx, run, start)

	return domain.Generation{Text: text.String(), Model: c.model}, nil
}

func buildMessages(in []domain.ChatMessage) (string, []anthropic.MessageParam) {
	var (
		system []string
		out    = make([]anthropic.MessageParam, 0, len(in))
	)
	for _, m := range in {
		switch m.Role {
		case domain.RoleSystem:
			system = append(system, m.Content)
		case domain.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return strings.Join(system, "\n\n"), out
}

func classify(err error) string {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return domain.InferenceCodeHTTP(apiErr.StatusCode)
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

func (c *Client) fail(run *domain.LLMRun, code string, err error) error {
	run.ErrorCode = &code
	return &domain.InferenceError{Model: c.model, Operation: domain.OpChat, Code: code, Err: err}
}

func (c *Client) record(ctx context.Context, run domain.LLMRun, start time.Time) {
	run.LatencyMS = time.Since(start).Milliseconds()
	if run.Success && run.EvalTokens != nil && run.LatencyMS > 0 {
		tps := float64(*run.EvalTokens) / (float64(run.LatencyMS) / 1000)
		run.TokensPerSec = &tps
	}

	if !run.Success {
		c.log.WarnContext(ctx, "inference call failed",
			slog.String("model", run.Model),
			slog.String("error_code", *run.ErrorCode),
			slog.Int64("latency_ms", run.LatencyMS),
		)
	}

	if c.runs == nil {
		return
	}
	rctx, cancel := ctxutil.Detached(ctx, recordTimeout)
	defer cancel()
	if err := c.runs.Record(rctx, run); err != nil {
		c.log.WarnContext(ctx, "record inference run failed", slog.String("error", err.Error()))
	}
}
