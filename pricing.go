package continuation

// ModelPricing is the USD price per 1,000 tokens for one model.
type ModelPricing struct {
	// InputPer1K is the price per 1,000 input tokens.
	InputPer1K float64

	// OutputPer1K is the price per 1,000 output tokens.
	OutputPer1K float64
}

// =============================================================================
// Static per-model pricing
// Prices are list prices per 1K tokens; update alongside provider changes.
// =============================================================================

var modelPricing = map[string]ModelPricing{
	// OpenAI
	"gpt-4o":        {InputPer1K: 0.0025, OutputPer1K: 0.01},
	"gpt-4o-mini":   {InputPer1K: 0.00015, OutputPer1K: 0.0006},
	"gpt-4.1":       {InputPer1K: 0.002, OutputPer1K: 0.008},
	"gpt-4.1-mini":  {InputPer1K: 0.0004, OutputPer1K: 0.0016},
	"gpt-4.1-nano":  {InputPer1K: 0.0001, OutputPer1K: 0.0004},
	"o3":            {InputPer1K: 0.002, OutputPer1K: 0.008},
	"o4-mini":       {InputPer1K: 0.0011, OutputPer1K: 0.0044},

	// Anthropic
	"claude-opus-4-5-20251124":   {InputPer1K: 0.005, OutputPer1K: 0.025},
	"claude-sonnet-4-5-20250929": {InputPer1K: 0.003, OutputPer1K: 0.015},
	"claude-haiku-4-5-20251001":  {InputPer1K: 0.001, OutputPer1K: 0.005},
	"claude-3-5-sonnet-20241022": {InputPer1K: 0.003, OutputPer1K: 0.015},
	"claude-3-5-haiku-20241022":  {InputPer1K: 0.0008, OutputPer1K: 0.004},

	// Google
	"gemini-2.5-pro":   {InputPer1K: 0.00125, OutputPer1K: 0.01},
	"gemini-2.5-flash": {InputPer1K: 0.0003, OutputPer1K: 0.0025},
	"gemini-2.0-flash": {InputPer1K: 0.0001, OutputPer1K: 0.0004},

	// Mistral
	"mistral-large-latest": {InputPer1K: 0.002, OutputPer1K: 0.006},
	"mistral-small-latest": {InputPer1K: 0.0001, OutputPer1K: 0.0003},

	// DeepSeek
	"deepseek-chat":     {InputPer1K: 0.00027, OutputPer1K: 0.0011},
	"deepseek-reasoner": {InputPer1K: 0.00055, OutputPer1K: 0.00219},
}

// LookupPricing returns the pricing entry for a model. ok is false for
// unknown models, in which case cost estimates come out as zero rather
// than guessing.
func LookupPricing(model string) (ModelPricing, bool) {
	pricing, ok := modelPricing[model]
	return pricing, ok
}

// EstimateCost estimates the USD cost of a single call's usage against the
// static pricing table. Unknown models cost zero.
func EstimateCost(model string, usage Usage) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		return 0
	}
	return float64(usage.InputTokens)/1000*pricing.InputPer1K +
		float64(usage.OutputTokens)/1000*pricing.OutputPer1K
}
