package pipeline

import (
	"math"
	"strings"
)

// EstimateTokens approximates the token count of text from its word count.
// English prose averages roughly 4 tokens per 3 words across common
// subword tokenizers, which is close enough for chunk sizing decisions.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) * 4.0 / 3.0))
}
