// Package main provides an interactive CLI for exercising the
// continuation pipeline end to end: scripted truncation scenarios by
// default, and a live model when an API key is configured.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/tmc/langchaingo/llms/openai"

	continuation "github.com/raaf-ai/raaf-sub009"
	"github.com/raaf-ai/raaf-sub009/models"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr,
			"%sError: %v%s\n",
			colorRed, err, colorReset)
		os.Exit(1)
	}
}

// replayProvider feeds pre-recorded truncated chunks through the real
// pipeline, so every scenario runs without network access.
type replayProvider struct {
	responses []*continuation.CompletionResponse
	calls     int
}

func (p *replayProvider) Complete(
	_ context.Context,
	_ *continuation.CompletionRequest,
) (*continuation.CompletionResponse, error) {
	if p.calls >= len(p.responses) {
		return nil, fmt.Errorf("replay exhausted after %d calls", p.calls)
	}
	resp := p.responses[p.calls]
	p.calls++
	return resp, nil
}

func chunk(content string, reason continuation.StopReason) *continuation.CompletionResponse {
	return &continuation.CompletionResponse{
		Content:    content,
		StopReason: reason,
		Usage: continuation.Usage{
			InputTokens:  200,
			OutputTokens: len(content) / 4,
		},
	}
}

type scenario struct {
	name        string
	description string
	config      continuation.Config
	responses   []*continuation.CompletionResponse
}

func scenarios() []scenario {
	tabular := continuation.DefaultConfig()
	tabular.OutputFormat = continuation.FormatTabular

	markup := continuation.DefaultConfig()
	markup.OutputFormat = continuation.FormatMarkup

	jsonCfg := continuation.DefaultConfig()
	jsonCfg.OutputFormat = continuation.FormatJSON

	exhausted := continuation.DefaultConfig()
	exhausted.OutputFormat = continuation.FormatTabular
	exhausted.MaxAttempts = 2

	return []scenario{
		{
			name:        "Tabular split mid-row",
			description: "CSV cut inside a field, finished on the second request",
			config:      tabular,
			responses: []*continuation.CompletionResponse{
				chunk("id,name,city\n1,Alice,Oslo\n2,Bo", continuation.StopReasonLength),
				chunk("b,Paris\n3,Carol,Kyoto\n", continuation.StopReasonStop),
			},
		},
		{
			name:        "Markup table with restated header",
			description: "Second chunk repeats the table header; duplicate dropped",
			config:      markup,
			responses: []*continuation.CompletionResponse{
				chunk("# Inventory\n\n| sku | qty |\n|---|---|\n| A1 | 4 |\n",
					continuation.StopReasonLength),
				chunk("| sku | qty |\n|---|---|\n| B2 | 9 |\n",
					continuation.StopReasonStop),
			},
		},
		{
			name:        "JSON truncated mid-string",
			description: "Array cut inside a string value, repaired and re-parsed",
			config:      jsonCfg,
			responses: []*continuation.CompletionResponse{
				chunk(`[{"id": 1, "name": "Al`, continuation.StopReasonLength),
				chunk(`ice"}, {"id": 2, "name": "Bob"}]`, continuation.StopReasonStop),
			},
		},
		{
			name:        "Attempt bound reached",
			description: "Still truncated at max_attempts=2; merge runs on what arrived",
			config:      exhausted,
			responses: []*continuation.CompletionResponse{
				chunk("id,name\n1,Alice\n", continuation.StopReasonLength),
				chunk("2,Bob\n", continuation.StopReasonLength),
			},
		},
		{
			name:        "Fallback to concatenation",
			description: "Prose forced through the JSON merger degrades gracefully",
			config:      jsonCfg,
			responses: []*continuation.CompletionResponse{
				chunk("The model ignored the format ", continuation.StopReasonLength),
				chunk("instruction entirely.", continuation.StopReasonStop),
			},
		},
	}
}

// printSink renders diagnostic events as they happen.
type printSink struct{}

func (printSink) Emit(event continuation.Event) {
	switch e := event.(type) {
	case *continuation.RequestIssuedEvent:
		kind := "initial request"
		if e.Continuation {
			kind = "continuation request"
		}
		fmt.Printf("%s  → attempt %d (%s)%s\n",
			colorDim, e.Attempt, kind, colorReset)
	case *continuation.ChunkReceivedEvent:
		fmt.Printf("%s  ← chunk %d: %d bytes, stop_reason=%q%s\n",
			colorDim, e.Index, e.ByteSize, e.StopReason, colorReset)
	case *continuation.WarningEvent:
		fmt.Printf("%s  ! %s%s\n", colorYellow, e.Message, colorReset)
	case *continuation.ExhaustedEvent:
		fmt.Printf("%s  ! attempt bound reached after %d attempts%s\n",
			colorYellow, e.Attempts, colorReset)
	case *continuation.MergeSelectedEvent:
		fmt.Printf("%s  merge strategy: %s (detected=%q confidence=%.2f)%s\n",
			colorDim, e.Strategy, e.DetectedFormat, e.Confidence, colorReset)
	case *continuation.FallbackEvent:
		fmt.Printf("%s  ! fallback level %d: %v%s\n",
			colorYellow, e.Level, e.Cause, colorReset)
	}
}

func runScenario(s scenario) error {
	fmt.Printf("\n%s%s%s%s\n", colorBold, colorWhite, s.name, colorReset)
	fmt.Printf("%s%s%s\n\n", colorDim, s.description, colorReset)

	provider := &replayProvider{responses: s.responses}
	result, err := continuation.Run(
		context.Background(), provider, s.config,
		&continuation.CompletionRequest{Model: "gpt-4o", Prompt: "(replayed)"},
		printSink{})
	if err != nil {
		return err
	}

	fmt.Printf("\n%sMerged output:%s\n%s\n", colorGreen, colorReset, result.Content)

	meta, err := json.MarshalIndent(result.Metadata, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("%sMetadata:%s\n%s\n", colorGreen, colorReset, meta)
	return nil
}

// runLive sends a real request through a live model. The prompt is chosen
// to produce output long enough to truncate when the provider caps output
// tokens aggressively.
func runLive(rl *readline.Instance) error {
	apiKey := os.Getenv("CONTINUATION_TEST_OPENAI_KEY")
	if apiKey == "" {
		fmt.Printf("%sCONTINUATION_TEST_OPENAI_KEY is not set; live mode unavailable.%s\n",
			colorYellow, colorReset)
		return nil
	}

	rl.SetPrompt(colorCyan + "Prompt: " + colorReset)
	prompt, err := rl.Readline()
	if err != nil {
		return err
	}
	rl.SetPrompt(menuPrompt)

	llm, err := openai.New(openai.WithToken(apiKey))
	if err != nil {
		return err
	}

	config := continuation.DefaultConfig()
	result, err := continuation.Run(
		context.Background(), models.NewLCGProvider(llm), config,
		&continuation.CompletionRequest{Model: "gpt-4o-mini", Prompt: prompt},
		printSink{})
	if err != nil {
		return err
	}

	fmt.Printf("\n%sMerged output:%s\n%s\n", colorGreen, colorReset, result.Content)
	meta, err := json.MarshalIndent(result.Metadata, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("%sMetadata:%s\n%s\n", colorGreen, colorReset, meta)
	return nil
}

const menuPrompt = colorCyan + "Enter selection (or 'q' to quit): " + colorReset

func run() error {
	rl, err := readline.New(menuPrompt)
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	items := scenarios()

	fmt.Printf("%s%sContinuation Scenarios:%s\n",
		colorBold, colorYellow, colorReset)
	fmt.Printf("%s%s%s\n",
		colorYellow, strings.Repeat("=", 23), colorReset)
	for i, s := range items {
		fmt.Printf("  %s%d.%s %s%s%s - %s\n",
			colorCyan, i+1, colorReset,
			colorWhite, s.name, colorReset,
			s.description)
	}
	fmt.Printf("  %s%d.%s %sLive model%s - real request via "+
		"CONTINUATION_TEST_OPENAI_KEY\n\n",
		colorCyan, len(items)+1, colorReset,
		colorWhite, colorReset)

	for {
		input, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				fmt.Printf("\n%sGoodbye!%s\n", colorGreen, colorReset)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "q" || input == "Q" {
			fmt.Printf("%sGoodbye!%s\n", colorGreen, colorReset)
			return nil
		}

		num, err := strconv.Atoi(input)
		if err != nil || num < 1 || num > len(items)+1 {
			fmt.Printf("%sInvalid selection. Please enter 1-%d.%s\n\n",
				colorRed, len(items)+1, colorReset)
			continue
		}

		if num == len(items)+1 {
			err = runLive(rl)
		} else {
			err = runScenario(items[num-1])
		}
		if err != nil {
			fmt.Printf("%sScenario failed: %v%s\n", colorRed, err, colorReset)
		}
		fmt.Println()
	}
}
