package continuation

import (
	"context"
	"fmt"
)

// Controller drives the bounded request/classify/accumulate loop for one
// logical request.
//
// The state machine is:
//
//	Idle → Requesting → Classifying → {Continuing → Requesting | Done | Exhausted | Failed}
//
// Only a LengthTruncated classification causes another request; every
// other classification is terminal for the session. The loop never issues
// a request once the attempt bound is reached.
//
// A Controller is safe to reuse across calls to Run; each call creates an
// independent [Session]. Execution within a session is sequential because
// each continuation depends on the previous response's continuation token.
type Controller struct {
	provider Provider
	config   Config
	sink     EventSink
}

// NewController creates a Controller. The config must already be
// validated; NewController does not re-validate it.
func NewController(provider Provider, config Config) *Controller {
	return &Controller{
		provider: provider,
		config:   config,
		sink:     NopSink{},
	}
}

// WithSink sets the diagnostics sink. Returns the controller for chaining.
func (c *Controller) WithSink(sink EventSink) *Controller {
	if sink != nil {
		c.sink = sink
	}
	return c
}

// Run issues the initial request and continues while the response is
// length-truncated and attempts remain. The returned session is always
// non-nil and holds every chunk received, including on failure.
//
// Run returns an error only for provider-level failures (a transport
// error or a chunk classified as ProviderError). Reaching the attempt
// bound is not an error: the session ends in [StateExhausted] and its
// chunks still go to the merge step, which decides success based on
// assembled validity.
func (c *Controller) Run(ctx context.Context, initial *CompletionRequest) (*Session, error) {
	session := NewSession()
	prompt := initial.Prompt
	token := initial.ContinuationToken

	for {
		session.state = StateRequesting
		session.attempts++
		c.sink.Emit(&RequestIssuedEvent{
			Attempt:      session.attempts,
			Continuation: session.attempts > 1,
			UsingToken:   token != "",
		})

		resp, err := c.provider.Complete(ctx, &CompletionRequest{
			Model:             initial.Model,
			Prompt:            prompt,
			ContinuationToken: token,
		})
		if err != nil {
			session.state = StateFailed
			return session, &ContinuationError{
				Kind:       KindProviderError,
				ChunkIndex: len(session.chunks),
				Format:     c.config.OutputFormat,
				Err:        err,
			}
		}

		chunk := session.append(resp)
		c.sink.Emit(&ChunkReceivedEvent{
			Index:        chunk.Index,
			ByteSize:     chunk.ByteSize,
			StopReason:   chunk.StopReason,
			OutputTokens: chunk.Usage.OutputTokens,
		})

		session.state = StateClassifying
		c.sink.Emit(&ClassifiedEvent{
			Index:          chunk.Index,
			Classification: chunk.Classification,
		})

		switch chunk.Classification {
		case LengthTruncated:
			if session.attempts >= c.config.MaxAttempts {
				session.state = StateExhausted
				c.sink.Emit(&ExhaustedEvent{Attempts: session.attempts})
				return session, nil
			}
			session.state = StateContinuing
			token = resp.ContinuationToken
			prompt = ContinuationPrompt(c.config.OutputFormat, session.Content())

		case ProviderError:
			session.state = StateFailed
			return session, &ContinuationError{
				Kind:       KindProviderError,
				ChunkIndex: chunk.Index,
				Format:     c.config.OutputFormat,
				Err:        fmt.Errorf("provider reported stop_reason %q", chunk.StopReason),
			}

		case ContentFiltered:
			c.sink.Emit(&WarningEvent{
				Index:          chunk.Index,
				Classification: ContentFiltered,
				Message:        "generation ended by content filter; treating as complete with caveat",
			})
			session.state = StateDone
			return session, nil

		case Incomplete:
			c.sink.Emit(&WarningEvent{
				Index:          chunk.Index,
				Classification: Incomplete,
				Message:        "provider reported an incomplete response; consider retrying with the carried continuation token",
			})
			session.state = StateDone
			return session, nil

		default:
			// Complete, ToolCallPending, Unknown: terminal, no warning.
			session.state = StateDone
			return session, nil
		}
	}
}
