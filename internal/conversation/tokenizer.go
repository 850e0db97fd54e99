package conversation

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE used when none is configured.
const DefaultEncoding = "cl100k_base"

// Tokenizer turns text into token ids. Only the length of the result is used.
type Tokenizer interface {
	Encode(text string) []int
}

// TiktokenTokenizer counts tokens with an OpenAI BPE encoding.
type TiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

func NewTiktokenTokenizer(encoding string) (*TiktokenTokenizer, error) {
	encoding = strings.TrimSpace(encoding)
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", encoding, err)
	}
	return &TiktokenTokenizer{enc: enc}, nil
}

func (t *TiktokenTokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

const approxBytesPerToken = 4

// ApproxTokenizer 不依赖词表，按 bytes/4 粗估，仅用于词表不可用时兜底。
type ApproxTokenizer struct{}

func (ApproxTokenizer) Encode(text string) []int {
	if text == "" {
		return nil
	}
	return make([]int, (len(text)+approxBytesPerToken-1)/approxBytesPerToken)
}

// NewTokenizer 优先加载 tiktoken 词表，失败时回退到 ApproxTokenizer。
func NewTokenizer(encoding string) (Tokenizer, error) {
	tk, err := NewTiktokenTokenizer(encoding)
	if err != nil {
		return ApproxTokenizer{}, err
	}
	return tk, nil
}
