package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"clubhub/pkg/config"

	"github.com/Role1776/gigago"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// TextGenerator turns a prompt into one complete reply.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ClosableGenerator is a TextGenerator holding resources that must be released.
type ClosableGenerator interface {
	TextGenerator
	Close() error
}

// NewTextGenerator builds the generator selected by cfg.LLM.Provider, wrapped
// in a circuit breaker.
func NewTextGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ClosableGenerator, error) {
	var (
		next ClosableGenerator
		err  error
	)

	switch strings.ToLower(cfg.LLM.Provider) {
	case "", "ollama":
		next = NewOllamaGenerator(&cfg.LLM, logger)
	case "gigachat":
		next, err = NewGigaChatGenerator(ctx, &cfg.GigaChat, logger)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLM.Provider)
	}

	return NewBreakerGenerator("llm-"+strings.ToLower(cfg.LLM.Provider), next, cfg.LLM.BreakerFailures, logger), nil
}

type OllamaGenerator struct {
	endpoint string
	model    string
	client   *http.Client
	logger   *zap.Logger
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Format string `json:"format"`
	Stream bool   `json:"stream"`
}

// NewOllamaGenerator talks to a local Ollama server. The HTTP client has no
// timeout of its own; callers bound the call through the context.
func NewOllamaGenerator(cfg *config.LLMConfig, logger *zap.Logger) *OllamaGenerator {
	endpoint := strings.TrimRight(cfg.OllamaURL, "/")
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	model := cfg.OllamaModel
	if model == "" {
		model = "llama3"
	}

	return &OllamaGenerator{
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{},
		logger:   logger,
	}
}

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  g.model,
		Prompt: prompt,
		Format: "json",
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return "", &GenerationError{Err: fmt.Errorf("%w: %w", ErrGenerationTransport, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Err: fmt.Errorf("%w: reading body: %w", ErrGenerationTransport, err), Raw: string(raw)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &GenerationError{
			Err: fmt.Errorf("%w: ollama returned status %d", ErrGenerationTransport, resp.StatusCode),
			Raw: string(raw),
		}
	}

	g.logger.Debug("Ollama generation finished",
		zap.String("model", g.model),
		zap.Duration("took", time.Since(start)),
		zap.Int("bytes", len(raw)),
	)

	return unwrapGeneration(raw), nil
}

func (g *OllamaGenerator) Close() error {
	g.client.CloseIdleConnections()
	return nil
}

// unwrapGeneration strips Ollama's {"response": "..."} envelope. A body
// without the envelope is already the payload and is returned as is.
func unwrapGeneration(raw []byte) string {
	var envelope struct {
		Response *string `json:"response"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Response != nil {
		return *envelope.Response
	}
	return string(raw)
}

type GigaChatGenerator struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	logger *zap.Logger
}

func NewGigaChatGenerator(ctx context.Context, cfg *config.GigaChatConfig, logger *zap.Logger) (*GigaChatGenerator, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = "You recommend university clubs. Always answer with a single valid JSON object and nothing else."
	model.Temperature = 0.3

	logger.Info("Using GigaChat model", zap.String("model", cfg.Model))

	return &GigaChatGenerator{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (g *GigaChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := g.model.Generate(ctx, messages)
	if err != nil {
		return "", &GenerationError{Err: fmt.Errorf("%w: %w", ErrGenerationTransport, err)}
	}
	if len(resp.Choices) == 0 {
		return "", &GenerationError{Err: fmt.Errorf("%w: no choices in response", ErrGenerationTransport)}
	}

	return resp.Choices[0].Message.Content, nil
}

func (g *GigaChatGenerator) Close() error {
	if g.client != nil {
		g.client.Close()
	}
	return nil
}

// BreakerGenerator fails fast while the wrapped generator keeps failing.
// It never retries a call.
type BreakerGenerator struct {
	next ClosableGenerator
	cb   *gobreaker.CircuitBreaker[string]
}

func NewBreakerGenerator(name string, next ClosableGenerator, consecutiveFailures uint32, logger *zap.Logger) *BreakerGenerator {
	if consecutiveFailures == 0 {
		consecutiveFailures = 5
	}

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailures
		},
		// the caller going away says nothing about the backend
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerGenerator{next: next, cb: cb}
}

func (b *BreakerGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := b.cb.Execute(func() (string, error) {
		return b.next.Generate(ctx, prompt)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", &GenerationError{Err: fmt.Errorf("%w: %w", ErrGenerationTransport, err)}
	}
	return out, err
}

func (b *BreakerGenerator) Close() error {
	return b.next.Close()
}
