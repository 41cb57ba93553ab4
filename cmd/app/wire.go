//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/outfit-advisor/internal/bootstrap"
	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
	"github.com/yanqian/outfit-advisor/internal/domain/weather"
	"github.com/yanqian/outfit-advisor/internal/infra/amap"
	"github.com/yanqian/outfit-advisor/internal/infra/config"
	"github.com/yanqian/outfit-advisor/internal/infra/llm/chatgpt"
	httpiface "github.com/yanqian/outfit-advisor/internal/interface/http"
	"github.com/yanqian/outfit-advisor/pkg/logger"
)

var advisorSet = wire.NewSet(
	logger.New,
	provideRetryPolicy,
	provideLocation,
	provideWeatherConfig,
	provideOutfitConfig,
	provideChatGPTClient,
	provideForecastTool,
	provideTokenCounter,
	weather.NewService,
	outfit.NewService,
	wire.Bind(new(weather.ChatClient), new(*chatgpt.Client)),
	wire.Bind(new(weather.ForecastTool), new(*amap.Client)),
	wire.Bind(new(outfit.ChatClient), new(*chatgpt.Client)),
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		advisorSet,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}

func initializeAdvisor() (outfit.Service, error) {
	wire.Build(
		config.Load,
		advisorSet,
	)
	return nil, nil
}
