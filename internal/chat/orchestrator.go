package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"uni-assistant/internal/database"
	"uni-assistant/internal/metrics"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeEmpty    Outcome = "empty"
	OutcomeTimedOut Outcome = "timed_out"
	OutcomeFailed   Outcome = "failed"
)

const DefaultReplyTimeout = 30 * time.Second

type ReplyMetadata struct {
	Outcome Outcome `json:"outcome"`
	Model   string  `json:"model"`
}

type Orchestrator struct {
	store        *Store
	generator    ReplyGenerator
	timeout      time.Duration
	historyTurns int
}

// NewOrchestrator creates an orchestrator. historyTurns is the number of
// earlier messages sent to the generator with each new message; zero sends
// only the new message.
func NewOrchestrator(store *Store, generator ReplyGenerator, timeout time.Duration, historyTurns int) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultReplyTimeout
	}
	return &Orchestrator{
		store:        store,
		generator:    generator,
		timeout:      timeout,
		historyTurns: max(historyTurns, 0),
	}
}

// PostMessage stores the user's message, asks the generator for a reply and
// stores that too. Generation failures are not returned as errors: the
// fallback text is stored as the reply and the outcome is recorded in the
// message metadata.
func (o *Orchestrator) PostMessage(ctx context.Context, userId, chatId uuid.UUID, text string) (database.Message, database.Message, error) {
	if strings.TrimSpace(text) == "" {
		return database.Message{}, database.Message{}, ErrEmptyText
	}

	if _, err := o.store.OwnedChat(ctx, userId, chatId); err != nil {
		return database.Message{}, database.Message{}, err
	}

	var history []Turn
	if o.historyTurns > 0 {
		previous, err := o.store.ListMessages(ctx, userId, chatId)
		if err != nil {
			return database.Message{}, database.Message{}, err
		}
		if len(previous) > o.historyTurns {
			previous = previous[len(previous)-o.historyTurns:]
		}
		for _, m := range previous {
			history = append(history, Turn{Sender: m.Sender, Text: m.Text})
		}
	}

	userMessage, err := o.store.AppendMessage(ctx, chatId, database.SenderUser, text, nil)
	if err != nil {
		return database.Message{}, database.Message{}, err
	}

	// The reply is generated and saved even if the client goes away.
	detached := context.WithoutCancel(ctx)

	reply, outcome := o.generate(detached, history, text)
	metrics.ReplyOutcomes.WithLabelValues(string(outcome)).Inc()

	metadata, err := json.Marshal(ReplyMetadata{Outcome: outcome, Model: o.generator.Model()})
	if err != nil {
		return database.Message{}, database.Message{}, fmt.Errorf("error encoding reply metadata: %w", err)
	}

	aiMessage, err := o.store.AppendMessage(detached, chatId, database.SenderAI, reply, datatypes.JSON(metadata))
	if err != nil {
		return database.Message{}, database.Message{}, err
	}

	return userMessage, aiMessage, nil
}

func (o *Orchestrator) generate(ctx context.Context, history []Turn, text string) (string, Outcome) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	reply, err := o.generator.Generate(ctx, history, text)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Warn("reply generation timed out", "model", o.generator.Model(), "timeout", o.timeout)
			return FallbackReply, OutcomeTimedOut
		}
		slog.Error("reply generation failed", "model", o.generator.Model(), "error", err)
		return FallbackReply, OutcomeFailed
	}

	slog.Info("reply generated", "model", o.generator.Model(), "duration", time.Since(start))

	if strings.TrimSpace(reply) == "" {
		return EmptyReply, OutcomeEmpty
	}
	return reply, OutcomeOK
}
