// Package pipeline orchestrates inbound chat messages: persistence, the
// agent webhook call, workout extraction, and goal updates.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fitlog-app/fitlog/internal/events"
	"github.com/fitlog-app/fitlog/internal/models"
	"github.com/fitlog-app/fitlog/internal/repository"
	"github.com/fitlog-app/fitlog/internal/tracker"
	"github.com/fitlog-app/fitlog/internal/webhook"
)

// Result is what one processed message produced.
type Result struct {
	UserMessage *models.ChatMessage  `json:"user_message"`
	BotMessages []models.ChatMessage `json:"bot_messages"`
	Workout     *models.Workout      `json:"workout,omitempty"`
	Reply       *webhook.AgentReply  `json:"reply"`
}

// Pipeline processes inbound user messages end to end.
type Pipeline struct {
	repos        *repository.Set
	agent        *webhook.Client
	tracker      *tracker.Tracker
	publisher    *events.Publisher // nil disables event publishing
	agentTimeout time.Duration
	logger       *slog.Logger
}

// New creates a Pipeline. agent is the default webhook client; users with
// their own webhook configured in chat settings override it per request.
func New(repos *repository.Set, agent *webhook.Client, tr *tracker.Tracker, publisher *events.Publisher, agentTimeout time.Duration, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		repos:        repos,
		agent:        agent,
		tracker:      tr,
		publisher:    publisher,
		agentTimeout: agentTimeout,
		logger:       logger,
	}
}

// Process runs the message pipeline. The user message is persisted before
// the agent call and is deliberately not rolled back when the call fails:
// the caller sees the message delivered with no reply, and the returned
// error maps to a 500.
func (p *Pipeline) Process(ctx context.Context, userID, text string) (*Result, error) {
	user, err := p.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("unknown user: %w", err)
	}

	day, err := p.repos.Days.GetOrCreate(ctx, userID, time.Now().UTC().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve day: %w", err)
	}

	userMsg, err := p.repos.Messages.Append(ctx, userID, day.ID, text, true)
	if err != nil {
		return nil, fmt.Errorf("failed to persist message: %w", err)
	}
	result := &Result{UserMessage: userMsg}

	reply, err := p.clientFor(ctx, userID).Send(ctx, webhook.Request{
		Message:   text,
		UserEmail: user.Email,
		UserName:  user.Name,
	})
	if err != nil {
		return result, fmt.Errorf("agent call failed: %w", err)
	}
	result.Reply = reply

	botText := reply.Message
	if botText == "" && reply.Transcript != "" {
		botText = reply.Transcript
	}
	if botText != "" {
		if err := p.appendBot(ctx, result, userID, day.ID, botText); err != nil {
			return result, err
		}
	}

	if reply.WorkoutLogged && len(reply.ParsedExercises) > 0 {
		if err := p.logWorkout(ctx, result, userID, day.ID, userMsg, reply, text); err != nil {
			return result, err
		}
	}

	if reply.Suggestions != "" {
		if err := p.appendBot(ctx, result, userID, day.ID, reply.Suggestions); err != nil {
			return result, err
		}
	}
	if reply.NextWorkoutRecommendation != "" {
		if err := p.appendBot(ctx, result, userID, day.ID, reply.NextWorkoutRecommendation); err != nil {
			return result, err
		}
	}

	if err := p.repos.Days.Touch(ctx, day.ID); err != nil {
		p.logger.Error("failed to touch day", "day_id", day.ID, "error", err)
	}
	return result, nil
}

// logWorkout persists the parsed workout and runs both goal passes. Goal
// update failures degrade to "some goals updated" inside the tracker; only
// workout persistence itself can fail the pipeline here.
func (p *Pipeline) logWorkout(ctx context.Context, result *Result, userID, dayID string, userMsg *models.ChatMessage, reply *webhook.AgentReply, originalText string) error {
	workout, err := p.repos.Workouts.Create(ctx, userID, dayID, userMsg.ID, reply.ParsedExercises)
	if err != nil {
		return fmt.Errorf("failed to persist workout: %w", err)
	}
	result.Workout = workout

	if p.publisher != nil {
		if _, err := p.publisher.PublishWorkoutLogged(ctx, events.WorkoutLogged{
			WorkoutID: workout.ID,
			UserID:    userID,
			DayID:     dayID,
			Month:     workout.CreatedAt.Format("2006-01"),
		}); err != nil {
			p.logger.Error("failed to publish workout event", "workout_id", workout.ID, "error", err)
		}
	}

	progress := p.tracker.ApplyWorkout(ctx, userID, originalText, reply.ParsedExercises)
	progress = append(progress, p.tracker.UpdateFrequencyGoals(ctx, userID)...)
	for _, msg := range progress {
		if err := p.appendBot(ctx, result, userID, dayID, msg); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) appendBot(ctx context.Context, result *Result, userID, dayID, text string) error {
	msg, err := p.repos.Messages.Append(ctx, userID, dayID, text, false)
	if err != nil {
		return fmt.Errorf("failed to persist bot message: %w", err)
	}
	result.BotMessages = append(result.BotMessages, *msg)
	return nil
}

// clientFor returns the webhook client for a user, honoring a per-user
// webhook URL from chat settings.
func (p *Pipeline) clientFor(ctx context.Context, userID string) *webhook.Client {
	settings, err := p.repos.ChatSettings.Get(ctx, userID)
	if err != nil || settings.WebhookURL == "" {
		return p.agent
	}
	return webhook.NewClient(settings.WebhookURL, settings.WebhookSecret, p.agentTimeout)
}
