package outfit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
	"github.com/yanqian/outfit-advisor/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
	"github.com/yanqian/outfit-advisor/pkg/metrics"
	"github.com/yanqian/outfit-advisor/pkg/retry"
)

// Service produces weather-aware clothing advice.
type Service interface {
	// Recommend writes each fragment to w as it arrives and returns the full text.
	Recommend(ctx context.Context, text string, w io.Writer) (string, error)
	// Stream emits chunk events in generation order followed by one done or error
	// event, then closes the channel. Cancelling ctx stops the stream early.
	Stream(ctx context.Context, text string) <-chan Event
}

type ChatClient interface {
	CreateChatCompletionStream(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.Stream, error)
}

type service struct {
	cfg     Config
	weather weather.Service
	client  ChatClient
	counter metrics.TokenCounter
	logger  *slog.Logger
}

// NewService wires up the recommendation agent.
func NewService(cfg Config, weatherSvc weather.Service, client ChatClient, counter metrics.TokenCounter, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		weather: weatherSvc,
		client:  client,
		counter: counter,
		logger:  logger.With("component", "outfit.service"),
	}
}

func (s *service) Recommend(ctx context.Context, text string, w io.Writer) (string, error) {
	if w == nil {
		w = io.Discard
	}
	var builder strings.Builder
	err := s.generate(ctx, text, func(fragment string) error {
		builder.WriteString(fragment)
		_, err := io.WriteString(w, fragment)
		return err
	})
	if err != nil {
		return "", err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return "", err
	}
	return builder.String(), nil
}

func (s *service) Stream(ctx context.Context, text string) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)

		send := func(ev Event) error {
			select {
			case out <- ev:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := s.generate(ctx, text, func(fragment string) error {
			return send(ChunkEvent(fragment))
		})
		if ctx.Err() != nil {
			s.logger.Info("recommendation stream abandoned by caller")
			return
		}
		if err != nil {
			s.logger.Error("recommendation stream failed", "code", apperrors.CodeOf(err), "error", err)
			_ = send(ErrorEvent(err.Error()))
			return
		}
		_ = send(DoneEvent())
	}()
	return out
}

// generate runs weather lookup then streaming completion, handing each fragment to
// emit in order. An emit error stops generation and is returned.
func (s *service) generate(ctx context.Context, text string, emit func(string) error) error {
	res, err := s.weather.Query(ctx, text)
	if err != nil {
		return err
	}
	forecast, ok := res.(weather.Success)
	if !ok {
		if failure, isFailure := res.(weather.Failure); isFailure {
			s.logger.Info("forecast unavailable, answering with fallback", "reason", failure.Reason)
		}
		return emit(s.unavailableMessage())
	}

	messages := s.buildMessages(forecast, text)
	stream, err := s.openStream(ctx, messages)
	if err != nil {
		return err
	}
	defer stream.Close()

	var completion strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return apperrors.Wrap(apperrors.CodeLLM, "recommendation stream interrupted", err)
		}
		for _, choice := range chunk.Choices {
			delta := choice.Delta.Content
			if delta == "" {
				continue
			}
			completion.WriteString(delta)
			if err := emit(delta); err != nil {
				return err
			}
		}
	}

	prompts := make([]string, 0, len(messages))
	for _, msg := range messages {
		prompts = append(prompts, msg.Content)
	}
	usage := metrics.Estimate(s.counter, prompts, completion.String())
	s.logger.Info("recommendation completed",
		"city", forecast.City,
		"date", forecast.Date,
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
	)
	return nil
}

// openStream retries only the stream setup; failures after the first byte are final.
func (s *service) openStream(ctx context.Context, messages []chatgpt.Message) (chatgpt.Stream, error) {
	req := chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	}
	policy := s.cfg.Retry
	policy.OnRetry = func(attempt int, err error) {
		s.logger.Warn("recommendation completion failed, retrying", "attempt", attempt, "error", err)
	}

	var stream chatgpt.Stream
	err := retry.Do(ctx, policy, func(ctx context.Context, _ int) error {
		opened, err := s.client.CreateChatCompletionStream(ctx, req)
		if err != nil {
			return err
		}
		stream = opened
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeLLM, "recommendation completion failed", err)
	}
	return stream, nil
}

func (s *service) unavailableMessage() string {
	if msg := strings.TrimSpace(s.cfg.UnavailableMessage); msg != "" {
		return msg
	}
	return DefaultUnavailableMessage
}
