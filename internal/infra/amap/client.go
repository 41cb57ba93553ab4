package amap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
)

// Supported MCP transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

const (
	defaultToolName = "maps_weather"
	defaultTimeout  = 30 * time.Second
	clientName      = "outfit-advisor"
	clientVersion   = "1.0.0"
	apiKeyEnv       = "AMAP_MAPS_API_KEY"
)

// Config describes how to reach the Amap maps MCP server.
type Config struct {
	Transport string
	Command   string
	Args      []string
	Endpoint  string
	APIKey    string
	ToolName  string
	Timeout   time.Duration
}

// Client calls the Amap weather tool. Every call opens and closes its own MCP
// session; nothing is shared between calls.
type Client struct {
	cfg          Config
	logger       *slog.Logger
	newTransport func() (mcp.Transport, error)
}

// NewClient validates cfg and builds a client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}
	if cfg.ToolName == "" {
		cfg.ToolName = defaultToolName
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := &Client{cfg: cfg, logger: logger.With("component", "amap.client")}
	switch cfg.Transport {
	case TransportStdio:
		if strings.TrimSpace(cfg.Command) == "" {
			return nil, errors.New("amap: stdio transport requires a command")
		}
		c.newTransport = c.stdioTransport
	case TransportHTTP:
		if strings.TrimSpace(cfg.Endpoint) == "" {
			return nil, errors.New("amap: http transport requires an endpoint")
		}
		c.newTransport = c.streamableTransport
	default:
		return nil, fmt.Errorf("amap: unsupported transport %q", cfg.Transport)
	}
	return c, nil
}

// FetchForecast returns the raw forecast document for city.
func (c *Client) FetchForecast(ctx context.Context, city string) (weather.ForecastDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	transport, err := c.newTransport()
	if err != nil {
		return weather.ForecastDocument{}, unavailable("create transport", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: clientName, Version: clientVersion}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return weather.ForecastDocument{}, unavailable("connect", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			c.logger.Warn("amap session close failed", "error", err)
		}
	}()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      c.cfg.ToolName,
		Arguments: map[string]any{"city": city},
	})
	if err != nil {
		return weather.ForecastDocument{}, unavailable("call "+c.cfg.ToolName, err)
	}

	text := textContent(result)
	if result.IsError {
		return weather.ForecastDocument{}, unavailable("call "+c.cfg.ToolName, errors.New(text))
	}
	if strings.TrimSpace(text) == "" {
		return weather.ForecastDocument{}, apperrors.Wrap(apperrors.CodeEmptyResult, "weather tool returned no content", nil)
	}
	c.logger.Info("amap weather fetched", "city", city, "latency_ms", time.Since(start).Milliseconds())
	return weather.ForecastDocument{Text: text}, nil
}

func (c *Client) stdioTransport() (mcp.Transport, error) {
	cmd := exec.Command(c.cfg.Command, c.cfg.Args...)
	cmd.Env = os.Environ()
	if c.cfg.APIKey != "" {
		cmd.Env = append(cmd.Env, apiKeyEnv+"="+c.cfg.APIKey)
	}
	return &mcp.CommandTransport{Command: cmd}, nil
}

func (c *Client) streamableTransport() (mcp.Transport, error) {
	endpoint, err := url.Parse(c.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if c.cfg.APIKey != "" {
		query := endpoint.Query()
		if query.Get("key") == "" {
			query.Set("key", c.cfg.APIKey)
			endpoint.RawQuery = query.Encode()
		}
	}
	return &mcp.StreamableClientTransport{Endpoint: endpoint.String()}, nil
}

func textContent(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok && text.Text != "" {
			return text.Text
		}
	}
	return ""
}

func unavailable(step string, err error) error {
	return apperrors.Wrap(apperrors.CodeToolUnavailable, "weather tool "+step+" failed", err)
}
