package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/outfit-advisor/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
	"github.com/yanqian/outfit-advisor/pkg/retry"
)

// Service resolves a free-text request into a forecast for one city and day.
type Service interface {
	Query(ctx context.Context, text string) (Result, error)
}

type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

type service struct {
	cfg    Config
	client ChatClient
	tool   ForecastTool
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the weather agent.
func NewService(cfg Config, client ChatClient, tool ForecastTool, logger *slog.Logger) Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &service{
		cfg:    cfg,
		client: client,
		tool:   tool,
		logger: logger.With("component", "weather.service"),
		now:    time.Now,
	}
}

// Query asks the model for an intent command, validates it against the forecast
// horizon and fetches the matching forecast day. A missing city/date or a day
// outside the horizon yields Failure; every other problem is returned as an error.
func (s *service) Query(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "query cannot be empty", nil)
	}
	today := s.now().In(s.cfg.Location)

	reply, err := s.extractIntent(ctx, text, today)
	if err != nil {
		return nil, err
	}
	intent, ok := IntentFromParams(ParseParams(reply))
	if !ok {
		s.logger.Info("weather intent incomplete", "reply", reply)
		return Failure{Reason: "intent command missing city or date"}, nil
	}

	offset, err := ResolveOffset(intent.Date, today)
	if err != nil {
		return nil, err
	}
	if !WithinHorizon(offset) {
		s.logger.Info("weather date outside horizon", "city", intent.City, "date", intent.Date, "offset", offset)
		return Failure{Reason: fmt.Sprintf("offset %d outside forecast horizon", offset)}, nil
	}
	s.logger.Info("weather intent resolved", "city", intent.City, "date", intent.Date, "offset", offset)

	doc, err := fetchAsync(ctx, s.tool, intent.City, s.cfg.ToolTimeout)
	if err != nil {
		if apperrors.CodeOf(err) == "" && ctx.Err() == nil {
			return nil, apperrors.Wrap(apperrors.CodeToolUnavailable, "weather tool call failed", err)
		}
		return nil, err
	}

	forecast, err := ParseForecast(doc, offset)
	if err != nil {
		return nil, err
	}
	s.logger.Info("weather forecast fetched", "city", forecast.City, "date", forecast.Date)
	return forecast, nil
}

func (s *service) extractIntent(ctx context.Context, text string, today time.Time) (string, error) {
	messages := []chatgpt.Message{
		{Role: chatgpt.RoleSystem, Content: s.buildSystemPrompt()},
		{Role: chatgpt.RoleUser, Content: fmt.Sprintf("Today is %s.\n%s", today.Format(isoDate), text)},
	}
	req := chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	}

	policy := s.cfg.Retry
	policy.OnRetry = func(attempt int, err error) {
		s.logger.Warn("intent completion failed, retrying", "attempt", attempt, "error", err)
	}

	var reply string
	err := retry.Do(ctx, policy, func(ctx context.Context, _ int) error {
		resp, err := s.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		content, ok := resp.Content()
		if !ok {
			return errors.New("completion returned no choices")
		}
		reply = content
		return nil
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeLLM, "intent completion failed", err)
	}
	s.logger.Debug("weather intent reply", "content", reply)
	return reply, nil
}

func (s *service) buildSystemPrompt() string {
	base := strings.TrimSpace(s.cfg.Prompt)
	if base == "" {
		base = "You are a weather lookup expert. Work out which city and date the user is asking about."
	}
	enforcer := " Reply with exactly one command in the form [city=<city name>, date=<date>] and nothing else." +
		" Use date=" + TodayToken + " when the user gives no date, otherwise date=YYYY-MM-DD."
	return base + enforcer + intentExamples
}

// intentExamples keep the model on the bracketed command format.
const intentExamples = `

Examples:
User: What's the weather in Beijing?
Reply: [city=Beijing, date=0000]

User: I want the Beijing weather for February 6th
Reply: [city=Beijing, date=2026-02-06]

User: 2月4号上海的天气怎么样
Reply: [city=上海, date=2026-02-04]`
