// SPDX-License-Identifier: EPL-2.0

package usage

import (
	"fmt"
	"math"
	"strconv"
)

// Pricing of the analysis model, in US dollars per million tokens.
const (
	InputPerMillion  = 0.075
	OutputPerMillion = 0.30

	USDToNTD = 32

	// AudioTokensPerSecond is how the model bills audio input.
	AudioTokensPerSecond = 32
)

type Cost struct {
	USD float64
	NTD float64
}

// CalculateCost prices a request. USD is rounded to 4 decimals and NTD,
// computed from the unrounded USD figure, to 2.
func CalculateCost(inputTokens, outputTokens int) Cost {
	usd := float64(inputTokens)/1e6*InputPerMillion + float64(outputTokens)/1e6*OutputPerMillion
	return Cost{
		USD: round(usd, 4),
		NTD: round(usd*USDToNTD, 2),
	}
}

// EstimateAudioTokens is the expected input token count for seconds of
// audio.
func EstimateAudioTokens(seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	return int(math.Round(seconds * AudioTokensPerSecond))
}

// FormatTokens abbreviates a token count: "1.23M", "4.5K" or the plain
// number below a thousand.
func FormatTokens(tokens int64) string {
	switch {
	case tokens >= 1_000_000:
		return strconv.FormatFloat(float64(tokens)/1e6, 'f', 2, 64) + "M"
	case tokens >= 1_000:
		return strconv.FormatFloat(float64(tokens)/1e3, 'f', 1, 64) + "K"
	default:
		return strconv.FormatInt(tokens, 10)
	}
}

func FormatCost(ntd float64) string {
	return fmt.Sprintf("NT$%.2f", ntd)
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
