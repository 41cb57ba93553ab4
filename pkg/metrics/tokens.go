package metrics

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// TokenCounter estimates how many tokens a text costs.
type TokenCounter interface {
	Count(text string) int
}

// WordCounter approximates tokens by whitespace separated fields.
type WordCounter struct{}

// Count implements TokenCounter.
func (WordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

type encoder interface {
	Encode(text string, allowedSpecial, disallowedSpecial []string) []int
}

// bpeCounter counts with a tiktoken encoding. tiktoken-go downloads the BPE
// ranks on first use, so the encoding is loaded on a background goroutine the
// first time Count is called; until it is ready (or if it never loads) counts
// come from WordCounter.
type bpeCounter struct {
	model string
	load  func(model string) (encoder, error)

	once sync.Once
	mu   sync.RWMutex
	enc  encoder
	done chan struct{}
}

// NewTokenCounter returns a BPE counter for model. Models unknown to tiktoken use
// cl100k_base. Constructing the counter does no I/O.
func NewTokenCounter(model string) TokenCounter {
	return newBPECounter(model, loadEncoding)
}

func newBPECounter(model string, load func(string) (encoder, error)) *bpeCounter {
	return &bpeCounter{model: model, load: load, done: make(chan struct{})}
}

func (c *bpeCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	c.once.Do(func() { go c.loadEncoder() })

	c.mu.RLock()
	enc := c.enc
	c.mu.RUnlock()
	if enc == nil {
		return WordCounter{}.Count(text)
	}
	return len(enc.Encode(text, nil, nil))
}

func (c *bpeCounter) loadEncoder() {
	defer close(c.done)
	enc, err := c.load(c.model)
	if err != nil || enc == nil {
		return
	}
	c.mu.Lock()
	c.enc = enc
	c.mu.Unlock()
}

func loadEncoding(model string) (encoder, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	if err != nil {
		return nil, err
	}
	return enc, nil
}
