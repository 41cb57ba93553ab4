package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/outfit-advisor/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
	"github.com/yanqian/outfit-advisor/pkg/retry"
)

func TestQuerySuccess(t *testing.T) {
	chat := &stubChatClient{replies: []string{"Sure: [city=Chengdu, date=2026-10-19]"}}
	tool := &stubTool{doc: sampleForecastDoc(t, "成都市", "2026-10-17", 5)}
	svc := newTestService(chat, tool)

	res, err := svc.Query(context.Background(), "What should I wear in Chengdu the day after tomorrow?")
	require.NoError(t, err)

	success, ok := res.(Success)
	require.True(t, ok, "expected Success, got %T", res)
	require.Equal(t, "2026-10-19", success.Date)
	require.Equal(t, 22.0, success.DayTemp)
	require.Equal(t, "Chengdu", tool.lastCity)
	require.Equal(t, 1, chat.calls)

	require.Len(t, chat.lastRequest.Messages, 2)
	require.Equal(t, chatgpt.RoleSystem, chat.lastRequest.Messages[0].Role)
	require.Contains(t, chat.lastRequest.Messages[0].Content, "[city=<city name>, date=<date>]")
	require.Contains(t, chat.lastRequest.Messages[0].Content, "Reply: [city=Beijing, date=0000]")
	require.Contains(t, chat.lastRequest.Messages[0].Content, "Reply: [city=上海, date=2026-02-04]")
	require.Contains(t, chat.lastRequest.Messages[1].Content, "Today is 2026-10-17.")
	require.Equal(t, 2048, chat.lastRequest.MaxTokens)
}

func TestQuerySentinelMeansToday(t *testing.T) {
	chat := &stubChatClient{replies: []string{"[city=Beijing, date=0000]"}}
	tool := &stubTool{doc: sampleForecastDoc(t, "北京市", "2026-10-17", 5)}

	res, err := newTestService(chat, tool).Query(context.Background(), "Beijing weather")
	require.NoError(t, err)
	require.Equal(t, "2026-10-17", res.(Success).Date)
}

func TestQueryOutsideHorizon(t *testing.T) {
	for _, date := range []string{"2026-10-27", "2026-10-22", "2026-10-16"} {
		chat := &stubChatClient{replies: []string{"[city=Beijing, date=" + date + "]"}}
		tool := &stubTool{}

		res, err := newTestService(chat, tool).Query(context.Background(), "Beijing on "+date)
		require.NoError(t, err, date)
		require.IsType(t, Failure{}, res, date)
		require.Zero(t, tool.callCount(), date)
	}
}

func TestQueryLastDayOfHorizon(t *testing.T) {
	chat := &stubChatClient{replies: []string{"[city=Beijing, date=2026-10-21]"}}
	tool := &stubTool{doc: sampleForecastDoc(t, "北京市", "2026-10-17", 5)}

	res, err := newTestService(chat, tool).Query(context.Background(), "Beijing on Wednesday")
	require.NoError(t, err)
	require.Equal(t, "2026-10-21", res.(Success).Date)
}

func TestQueryMissingKeys(t *testing.T) {
	for _, reply := range []string{"I cannot help with that.", "[city=Beijing]", "[date=0000]", "[city=, date=0000]", "[city=Beijing, date= ]"} {
		chat := &stubChatClient{replies: []string{reply}}
		tool := &stubTool{}

		res, err := newTestService(chat, tool).Query(context.Background(), "hello")
		require.NoError(t, err, reply)
		require.IsType(t, Failure{}, res, reply)
		require.Zero(t, tool.callCount(), reply)
	}
}

func TestQueryBadDateTokenIsFatal(t *testing.T) {
	chat := &stubChatClient{replies: []string{"[city=Beijing, date=tomorrow]"}}

	_, err := newTestService(chat, &stubTool{}).Query(context.Background(), "Beijing tomorrow")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeDateFormat))
}

func TestQueryRetriesCompletion(t *testing.T) {
	chat := &stubChatClient{
		errs:    []error{errors.New("status=429"), nil},
		replies: []string{"", "[city=Beijing, date=0000]"},
	}
	tool := &stubTool{doc: sampleForecastDoc(t, "北京市", "2026-10-17", 5)}

	res, err := newTestService(chat, tool).Query(context.Background(), "Beijing")
	require.NoError(t, err)
	require.IsType(t, Success{}, res)
	require.Equal(t, 2, chat.calls)
}

func TestQueryCompletionExhaustsRetries(t *testing.T) {
	chat := &stubChatClient{err: errors.New("connection reset")}

	_, err := newTestService(chat, &stubTool{}).Query(context.Background(), "Beijing")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeLLM))
	require.ErrorContains(t, err, "connection reset")
	require.Equal(t, 3, chat.calls)
}

func TestQueryToolErrors(t *testing.T) {
	chat := &stubChatClient{replies: []string{"[city=Beijing, date=0000]"}}
	_, err := newTestService(chat, &stubTool{err: errors.New("exec: npx: not found")}).Query(context.Background(), "Beijing")
	require.True(t, apperrors.IsCode(err, apperrors.CodeToolUnavailable))

	chat = &stubChatClient{replies: []string{"[city=Beijing, date=0000]"}}
	_, err = newTestService(chat, &stubTool{err: apperrors.Wrap(apperrors.CodeEmptyResult, "no content", nil)}).Query(context.Background(), "Beijing")
	require.True(t, apperrors.IsCode(err, apperrors.CodeEmptyResult))

	chat = &stubChatClient{replies: []string{"[city=Beijing, date=0000]"}}
	_, err = newTestService(chat, &stubTool{doc: ForecastDocument{Text: `{"city":"北京市"}`}}).Query(context.Background(), "Beijing")
	require.True(t, apperrors.IsCode(err, apperrors.CodeMalformedForecast))
}

func TestQueryRejectsEmptyText(t *testing.T) {
	chat := &stubChatClient{}
	_, err := newTestService(chat, &stubTool{}).Query(context.Background(), "   ")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Zero(t, chat.calls)
}

func TestQueryCallerCancelsDuringLookup(t *testing.T) {
	release := make(chan struct{})
	finished := make(chan error, 1)
	tool := &stubTool{
		doc:     sampleForecastDoc(t, "北京市", "2026-10-17", 5),
		block:   release,
		started: make(chan struct{}),
		done:    finished,
	}
	chat := &stubChatClient{replies: []string{"[city=Beijing, date=0000]"}}
	svc := newTestService(chat, tool)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := svc.Query(ctx, "Beijing")
		errCh <- err
	}()

	<-tool.started
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)

	close(release)
	select {
	case lookupErr := <-finished:
		require.NoError(t, lookupErr, "lookup context must not inherit the caller's cancellation")
	case <-time.After(2 * time.Second):
		t.Fatal("lookup did not complete")
	}
}

func newTestService(chat ChatClient, tool ForecastTool) *service {
	return &service{
		cfg: Config{
			Model:       "gpt-test",
			Temperature: 0.3,
			MaxTokens:   2048,
			Location:    shanghai,
			Retry:       retry.Policy{MaxAttempts: 3, BaseBackoff: time.Millisecond},
			ToolTimeout: time.Second,
		},
		client: chat,
		tool:   tool,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: func() time.Time {
			return time.Date(2026, 10, 17, 9, 0, 0, 0, shanghai)
		},
	}
}

type stubChatClient struct {
	replies     []string
	errs        []error
	err         error
	calls       int
	lastRequest chatgpt.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	idx := s.calls
	s.calls++
	s.lastRequest = req
	if s.err != nil {
		return chatgpt.ChatCompletionResponse{}, s.err
	}
	if idx < len(s.errs) && s.errs[idx] != nil {
		return chatgpt.ChatCompletionResponse{}, s.errs[idx]
	}
	if idx >= len(s.replies) {
		return chatgpt.ChatCompletionResponse{}, nil
	}
	return completion(s.replies[idx]), nil
}

func completion(content string) chatgpt.ChatCompletionResponse {
	return chatgpt.ChatCompletionResponse{
		Choices: []struct {
			Message chatgpt.Message `json:"message"`
		}{
			{Message: chatgpt.Message{Role: chatgpt.RoleAssistant, Content: content}},
		},
	}
}

type stubTool struct {
	doc     ForecastDocument
	err     error
	block   chan struct{}
	started chan struct{}
	done    chan error

	mu       sync.Mutex
	calls    int
	lastCity string
}

func (s *stubTool) FetchForecast(ctx context.Context, city string) (ForecastDocument, error) {
	s.mu.Lock()
	s.calls++
	s.lastCity = city
	s.mu.Unlock()

	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
	if s.done != nil {
		s.done <- ctx.Err()
	}
	return s.doc, s.err
}

func (s *stubTool) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
