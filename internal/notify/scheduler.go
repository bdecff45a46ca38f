package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rythu-saathi/backend/internal/store"
	"github.com/rythu-saathi/backend/internal/svcerr"
)

const featureTriggerMarks = "trigger-marks"

// Recipient is the slice of an account the trigger sweep needs.
type Recipient struct {
	ID       string
	Language string
}

// TriggerRule fires a templated notification at a fixed clock hour,
// optionally restricted to one weekday.
type TriggerRule struct {
	Name    string
	Hour    int
	Weekday *time.Weekday
	Build   func(language string) Notification
}

// Matches reports whether the rule's slot covers the given instant.
func (r TriggerRule) Matches(now time.Time) bool {
	if now.Hour() != r.Hour {
		return false
	}
	if r.Weekday != nil && now.Weekday() != *r.Weekday {
		return false
	}
	return true
}

type triggerMark struct {
	Day string `json:"day"`
}

var errMissingRecipients = errors.New("recipients source is required")

const (
	opSchedulerNew = "notify.scheduler.new"
	opSweep        = "notify.sweep"
)

// SchedulerConfig wires the trigger sweep.
type SchedulerConfig struct {
	Publisher  *Service
	Store      *store.Store
	Recipients func(ctx context.Context) ([]Recipient, error)
	Rules      []TriggerRule
	Clock      func() time.Time
	Tick       time.Duration
	Logger     *zap.Logger
}

// Scheduler evaluates fixed-hour trigger rules against every account.
// Last-fired days are persisted per (user, rule), so each slot fires exactly
// once even across process restarts — the redesign of the original portal's
// stateless interval timer, which could fire twice or not at all on reloads.
type Scheduler struct {
	publisher  *Service
	store      *store.Store
	recipients func(ctx context.Context) ([]Recipient, error)
	rules      []TriggerRule
	clock      func() time.Time
	tick       time.Duration
	logger     *zap.Logger
}

// NewScheduler validates the config and returns the trigger scheduler.
func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	if cfg.Publisher == nil {
		return nil, svcerr.New(opSchedulerNew, "missing_publisher", errMissingStore)
	}
	if cfg.Store == nil {
		return nil, svcerr.New(opSchedulerNew, "missing_store", errMissingStore)
	}
	if cfg.Recipients == nil {
		return nil, svcerr.New(opSchedulerNew, "missing_recipients", errMissingRecipients)
	}
	rules := cfg.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	tick := cfg.Tick
	if tick <= 0 {
		tick = time.Minute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Scheduler{
		publisher:  cfg.Publisher,
		store:      cfg.Store,
		recipients: cfg.Recipients,
		rules:      rules,
		clock:      clock,
		tick:       tick,
		logger:     logger,
	}, nil
}

// Run sweeps the rules on every tick until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Warn("trigger sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep fires every due rule that has not fired for the current day yet.
func (s *Scheduler) Sweep(ctx context.Context) error {
	now := s.clock()
	due := make([]TriggerRule, 0, len(s.rules))
	for _, rule := range s.rules {
		if rule.Matches(now) {
			due = append(due, rule)
		}
	}
	if len(due) == 0 {
		return nil
	}

	recipients, err := s.recipients(ctx)
	if err != nil {
		return svcerr.New(opSweep, "recipients_failed", err)
	}

	day := now.Format("2006-01-02")
	for _, recipient := range recipients {
		for _, rule := range due {
			fired, err := s.alreadyFired(ctx, recipient.ID, rule.Name, day)
			if err != nil {
				s.logger.Warn("trigger mark lookup failed",
					zap.String("rule", rule.Name),
					zap.String("user_id", recipient.ID),
					zap.Error(err))
				continue
			}
			if fired {
				continue
			}
			if _, err := s.publisher.Publish(ctx, recipient.ID, rule.Build(recipient.Language)); err != nil {
				continue
			}
			if err := s.markFired(ctx, recipient.ID, rule.Name, day); err != nil {
				s.logger.Warn("trigger mark persist failed",
					zap.String("rule", rule.Name),
					zap.String("user_id", recipient.ID),
					zap.Error(err))
			}
		}
	}
	return nil
}

func (s *Scheduler) alreadyFired(ctx context.Context, userID, ruleName, day string) (bool, error) {
	record, err := s.store.Get(ctx, featureTriggerMarks, userID, ruleName)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var mark triggerMark
	if err := json.Unmarshal([]byte(record.PayloadJSON), &mark); err != nil {
		return false, nil
	}
	return mark.Day == day, nil
}

func (s *Scheduler) markFired(ctx context.Context, userID, ruleName, day string) error {
	payload, err := json.Marshal(triggerMark{Day: day})
	if err != nil {
		return err
	}
	_, err = s.store.Update(ctx, featureTriggerMarks, userID, ruleName, string(payload))
	if errors.Is(err, store.ErrNotFound) {
		_, err = s.store.Insert(ctx, featureTriggerMarks, userID, ruleName, string(payload))
	}
	return err
}

// DefaultRules mirrors the portal's fixed reminder slots: weather at 06:00
// and 18:00, market prices at 09:00, scheme digest Monday 10:00.
func DefaultRules() []TriggerRule {
	monday := time.Monday
	return []TriggerRule{
		{
			Name: "weather-morning",
			Hour: 6,
			Build: func(language string) Notification {
				return weatherReminder(language)
			},
		},
		{
			Name: "weather-evening",
			Hour: 18,
			Build: func(language string) Notification {
				return weatherReminder(language)
			},
		},
		{
			Name: "market-daily",
			Hour: 9,
			Build: func(language string) Notification {
				if language == "te" {
					return Notification{
						Type:      TypeMarket,
						Title:     "మార్కెట్ అప్‌డేట్",
						Message:   "కొత్త మార్కెట్ ధరలు అందుబాటులో ఉన్నాయి.",
						Priority:  PriorityMedium,
						Icon:      "📈",
						ActionURL: "/markets",
					}
				}
				return Notification{
					Type:      TypeMarket,
					Title:     "Market Update",
					Message:   "New market prices available. Check for best selling opportunities.",
					Priority:  PriorityMedium,
					Icon:      "📈",
					ActionURL: "/markets",
				}
			},
		},
		{
			Name:    "scheme-weekly",
			Hour:    10,
			Weekday: &monday,
			Build: func(language string) Notification {
				if language == "te" {
					return Notification{
						Type:      TypeScheme,
						Title:     "కొత్త పథకం",
						Message:   "మీకు అర్హత ఉన్న కొత్త ప్రభుత్వ పథకం అందుబాటులో ఉంది.",
						Priority:  PriorityHigh,
						Icon:      "🏆",
						ActionURL: "/schemes",
					}
				}
				return Notification{
					Type:      TypeScheme,
					Title:     "New Scheme Available",
					Message:   "A new government scheme you might be eligible for is now available.",
					Priority:  PriorityHigh,
					Icon:      "🏆",
					ActionURL: "/schemes",
				}
			},
		},
	}
}

func weatherReminder(language string) Notification {
	if language == "te" {
		return Notification{
			Type:      TypeWeather,
			Title:     "వాతావరణ హెచ్చరిక",
			Message:   "వ్యవసాయ పనుల కోసం నేటి వాతావరణ సూచనను చూడండి.",
			Priority:  PriorityMedium,
			Icon:      "🌤️",
			ActionURL: "/weather",
		}
	}
	return Notification{
		Type:      TypeWeather,
		Title:     "Weather Alert",
		Message:   "Check today's weather forecast for farming activities.",
		Priority:  PriorityMedium,
		Icon:      "🌤️",
		ActionURL: "/weather",
	}
}
