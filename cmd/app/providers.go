package main

import (
	"log/slog"
	"time"

	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
	"github.com/yanqian/outfit-advisor/internal/domain/weather"
	"github.com/yanqian/outfit-advisor/internal/infra/amap"
	"github.com/yanqian/outfit-advisor/internal/infra/config"
	"github.com/yanqian/outfit-advisor/internal/infra/llm/chatgpt"
	"github.com/yanqian/outfit-advisor/pkg/metrics"
	"github.com/yanqian/outfit-advisor/pkg/retry"
	"github.com/yanqian/outfit-advisor/pkg/util"
)

// chinaStandardOffset is used when the zone database cannot resolve the configured zone.
const chinaStandardOffset = 8 * time.Hour

func provideRetryPolicy(cfg *config.Config) retry.Policy {
	return retry.Policy{
		MaxAttempts: cfg.LLM.Retry.MaxAttempts,
		BaseBackoff: cfg.LLM.Retry.BaseBackoff,
	}
}

func provideLocation(cfg *config.Config) *time.Location {
	return util.LoadLocation(cfg.Weather.Timezone, chinaStandardOffset)
}

func provideWeatherConfig(cfg *config.Config, loc *time.Location, policy retry.Policy) weather.Config {
	return weather.Config{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Prompt:      cfg.Weather.IntentPrompt,
		Location:    loc,
		Retry:       policy,
		ToolTimeout: cfg.Weather.Tool.Timeout,
	}
}

func provideOutfitConfig(cfg *config.Config, policy retry.Policy) outfit.Config {
	return outfit.Config{
		Model:              cfg.LLM.Model,
		Temperature:        cfg.LLM.Temperature,
		MaxTokens:          cfg.LLM.MaxTokens,
		Prompt:             cfg.Advisor.Prompt,
		UnavailableMessage: cfg.Advisor.UnavailableMessage,
		Retry:              policy,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.AttemptTimeout)
}

func provideForecastTool(cfg *config.Config, logger *slog.Logger) (*amap.Client, error) {
	tool := cfg.Weather.Tool
	return amap.NewClient(amap.Config{
		Transport: tool.Transport,
		Command:   tool.Command,
		Args:      tool.Args,
		Endpoint:  tool.Endpoint,
		APIKey:    tool.APIKey,
		ToolName:  tool.ToolName,
		Timeout:   tool.Timeout,
	}, logger)
}

func provideTokenCounter(cfg *config.Config) metrics.TokenCounter {
	return metrics.NewTokenCounter(cfg.LLM.Model)
}
