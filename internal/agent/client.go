package agent

import (
	"context"
	"github.com/mkeskinen/mimicry/internal/errors"
	"github.com/mkeskinen/mimicry/internal/game"
	"github.com/sashabaranov/go-openai"
	"log/slog"
	"os"
)

const (
	maxTokens = 1024
	// temperature keeps the agents terse and on-format without making them
	// fully deterministic.
	temperature = 0.3
)

// Client backs agent participants with a hosted chat-completion API.
type Client struct {
	client       *openai.Client
	defaultModel string
	// models overrides the completion model per participant so that each
	// agent can be played by a different model.
	models map[game.ID]string
	logger *slog.Logger
}

// NewClient creates a responder using the OPENAI_API_KEY environment variable.
func NewClient(defaultModel string, logger *slog.Logger) *Client {
	return &Client{
		client:       openai.NewClient(os.Getenv("OPENAI_API_KEY")),
		defaultModel: defaultModel,
		models:       make(map[game.ID]string),
		logger:       logger.With("source", "agent.Client"),
	}
}

// UseModel plays the given participant with a specific completion model.
func (c *Client) UseModel(id game.ID, model string) {
	c.models[id] = model
}

func (c *Client) model(id game.ID) string {
	if model, ok := c.models[id]; ok {
		return model
	}
	return c.defaultModel
}

func (c *Client) complete(ctx context.Context, id game.ID, prompt string) (string, error) {
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:       c.model(id),
			MaxTokens:   maxTokens,
			Temperature: temperature,
			Messages: []openai.ChatCompletionMessage{
				{ //nolint:exhaustruct // role and content suffice
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt(id),
				},
				{ //nolint:exhaustruct // role and content suffice
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		sentinel := ErrProviderUnavailable
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			sentinel = ErrProviderTimeout
		}
		return "", errors.Wrap(sentinel, "create chat completion",
			slog.String("participant", string(id)),
			slog.String("model", c.model(id)),
			slog.String("cause", err.Error()))
	}
	if len(completion.Choices) == 0 {
		return "", errors.Wrap(ErrProviderUnavailable, "completion without choices",
			slog.String("participant", string(id)))
	}
	return completion.Choices[0].Message.Content, nil
}

func (c *Client) AskQuestion(ctx context.Context, asker game.ID, target game.ID, transcript string) (string, error) {
	return c.complete(ctx, asker, askingPrompt(transcript, target))
}

func (c *Client) AnswerQuestion(
	ctx context.Context, answerer game.ID, transcript string, question string) (string, error) {
	return c.complete(ctx, answerer, answeringPrompt(transcript, question))
}

func (c *Client) GuessHuman(ctx context.Context, guesser game.ID, transcript string) (string, error) {
	return c.complete(ctx, guesser, guessingPrompt(transcript))
}
