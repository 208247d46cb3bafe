package ai

import (
	"github.com/pkoukk/tiktoken-go"
)

// CountTokens returns the approximate token count of a prompt.
// Gemini does not publish a tiktoken encoding, so cl100k_base is used as
// a stand-in; the histogram only needs order-of-magnitude accuracy.
func CountTokens(text string) int {
	tkm, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return 0
	}
	return len(tkm.Encode(text, nil, nil))
}
