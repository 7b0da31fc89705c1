package subscribers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/nemodouble/godlife/internal/reminders"
	"github.com/nemodouble/godlife/internal/reports"
	"github.com/nemodouble/godlife/internal/routines/application/commands"
	routines "github.com/nemodouble/godlife/internal/routines/domain"
	seasons "github.com/nemodouble/godlife/internal/seasons/domain"
	"github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/shared/infrastructure/eventbus"
	"github.com/nemodouble/godlife/pkg/observability"
)

// Routing keys of chat transport requests.
const (
	RoutingKeyReportRequested = "chat.report.requested"
	RoutingKeyCheckinToggled  = "chat.checkin.toggled"
	RoutingKeySettingsChanged = "chat.settings.changed"
)

// ReportRequest is the payload of chat.report.requested.
type ReportRequest struct {
	Scope    string `json:"scope"`
	SeasonID string `json:"season_id,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

// ToggleRequest is the payload of chat.checkin.toggled. An empty day means
// the owner's current local day.
type ToggleRequest struct {
	RoutineID string `json:"routine_id"`
	Day       string `json:"day,omitempty"`
}

// ReportGenerator builds owner reports.
type ReportGenerator interface {
	Generate(ctx context.Context, req reports.GenerateRequest) (*reports.Report, error)
}

// CheckinToggler advances a routine's checkin state.
type CheckinToggler interface {
	Handle(ctx context.Context, cmd commands.ToggleCheckinCommand) (*commands.ToggleCheckinResult, error)
}

// OwnerDays resolves the owner's current local day.
type OwnerDays interface {
	Today(ctx context.Context, ownerID string) (domain.Day, error)
}

// SettingsSource loads owner settings for reply phrasing.
type SettingsSource interface {
	Handle(ctx context.Context, ownerID string) (*routines.UserSettings, error)
}

type replyPhrases struct {
	toggled map[routines.CheckinState]string
	failed  string
	invalid string
}

var chatReplies = map[routines.Locale]replyPhrases{
	routines.LocaleKorean: {
		toggled: map[routines.CheckinState]string{
			routines.CheckinDone:    "✅ '%s' 완료!",
			routines.CheckinSkipped: "⏭️ '%s' 오늘은 건너뛸게요.",
			routines.CheckinNeither: "⬜ '%s' 체크를 해제했어요.",
		},
		failed:  "죄송해요, 요청을 처리하지 못했어요. 잠시 후 다시 시도해 주세요.",
		invalid: "죄송해요, 요청을 이해하지 못했어요.",
	},
	routines.LocaleEnglish: {
		toggled: map[routines.CheckinState]string{
			routines.CheckinDone:    "✅ '%s' done!",
			routines.CheckinSkipped: "⏭️ '%s' skipped for today.",
			routines.CheckinNeither: "⬜ '%s' cleared.",
		},
		failed:  "Sorry, that request could not be processed. Please try again later.",
		invalid: "Sorry, that request was not understood.",
	},
}

// ChatSubscriber answers report and checkin requests of the chat transport
// and reschedules reminders after settings changes.
type ChatSubscriber struct {
	reports   ReportGenerator
	toggler   CheckinToggler
	days      OwnerDays
	settings  SettingsSource
	observer  commands.SettingsObserver
	messenger reminders.Messenger
	metrics   observability.Metrics
	logger    *slog.Logger
}

// NewChatSubscriber creates a chat subscriber.
func NewChatSubscriber(
	reportGenerator ReportGenerator,
	toggler CheckinToggler,
	days OwnerDays,
	settings SettingsSource,
	observer commands.SettingsObserver,
	messenger reminders.Messenger,
	metrics observability.Metrics,
	logger *slog.Logger,
) *ChatSubscriber {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatSubscriber{
		reports:   reportGenerator,
		toggler:   toggler,
		days:      days,
		settings:  settings,
		observer:  observer,
		messenger: messenger,
		metrics:   metrics,
		logger:    logger,
	}
}

// RoutingKeys returns the chat requests this subscriber handles.
func (s *ChatSubscriber) RoutingKeys() []string {
	return []string{
		RoutingKeyReportRequested,
		RoutingKeyCheckinToggled,
		RoutingKeySettingsChanged,
	}
}

// Handle processes a chat request. Failures are answered or logged, never
// returned: a redelivered report would reach the owner twice and a toggle is
// not idempotent.
func (s *ChatSubscriber) Handle(ctx context.Context, msg *eventbus.Message) error {
	if strings.TrimSpace(msg.OwnerID) == "" {
		s.logger.Warn("chat request without owner", "routing_key", msg.RoutingKey, "message_id", msg.ID)
		return nil
	}
	s.metrics.Counter(observability.MetricEventsConsumed, 1, observability.T("routing_key", msg.RoutingKey))

	switch msg.RoutingKey {
	case RoutingKeyReportRequested:
		return s.handleReport(ctx, msg)
	case RoutingKeyCheckinToggled:
		s.handleToggle(ctx, msg)
		return nil
	case RoutingKeySettingsChanged:
		if s.observer != nil {
			s.observer.SettingsChanged(ctx, msg.OwnerID)
		}
		return nil
	default:
		s.logger.Warn("unknown chat request", "routing_key", msg.RoutingKey)
		return nil
	}
}

func (s *ChatSubscriber) handleReport(ctx context.Context, msg *eventbus.Message) error {
	phrases := s.phrases(ctx, msg.OwnerID)

	var req ReportRequest
	if err := msg.Decode(&req); err != nil {
		s.logger.Warn("undecodable report request", "message_id", msg.ID, "error", err)
		s.reply(ctx, msg.OwnerID, phrases.invalid)
		return nil
	}

	genReq, err := toGenerateRequest(msg.OwnerID, req)
	if err != nil {
		s.reply(ctx, msg.OwnerID, phrases.invalid)
		return nil
	}

	report, err := s.reports.Generate(ctx, genReq)
	if err != nil {
		s.logger.Error("report generation failed", "owner_id", msg.OwnerID, "error", err)
		if isValidationError(err) {
			s.reply(ctx, msg.OwnerID, phrases.invalid)
		} else {
			s.reply(ctx, msg.OwnerID, phrases.failed)
		}
		return nil
	}

	scope := genReq.Scope
	if scope == "" {
		scope = reports.Scope7d
	}
	tag := observability.T("scope", string(scope))
	if err := s.messenger.Send(ctx, msg.OwnerID, report.Text); err != nil {
		s.logger.Warn("report delivery failed", "owner_id", msg.OwnerID, "scope", scope, "error", err)
		s.metrics.Counter(observability.MetricReportsSendFailed, 1, tag)
		return nil
	}
	s.metrics.Counter(observability.MetricReportsGenerated, 1, tag)
	return nil
}

func (s *ChatSubscriber) handleToggle(ctx context.Context, msg *eventbus.Message) {
	phrases := s.phrases(ctx, msg.OwnerID)

	var req ToggleRequest
	if err := msg.Decode(&req); err != nil {
		s.reply(ctx, msg.OwnerID, phrases.invalid)
		return
	}
	routineID, err := uuid.Parse(req.RoutineID)
	if err != nil {
		s.reply(ctx, msg.OwnerID, phrases.invalid)
		return
	}

	day, err := s.requestDay(ctx, msg.OwnerID, req.Day)
	if err != nil {
		s.logger.Warn("toggle day unresolved", "owner_id", msg.OwnerID, "error", err)
		s.reply(ctx, msg.OwnerID, phrases.invalid)
		return
	}

	result, err := s.toggler.Handle(ctx, commands.ToggleCheckinCommand{
		RoutineID: routineID,
		OwnerID:   msg.OwnerID,
		Day:       day,
	})
	if err != nil {
		s.logger.Error("toggle failed",
			"owner_id", msg.OwnerID,
			"routine_id", routineID,
			"error", err,
		)
		if isValidationError(err) {
			s.reply(ctx, msg.OwnerID, phrases.invalid)
		} else {
			s.reply(ctx, msg.OwnerID, phrases.failed)
		}
		return
	}

	s.metrics.Counter(observability.MetricCheckinsToggled, 1, observability.T("state", string(result.State)))
	s.reply(ctx, msg.OwnerID, fmt.Sprintf(phrases.toggled[result.State], result.RoutineName))
}

func (s *ChatSubscriber) requestDay(ctx context.Context, ownerID, value string) (domain.Day, error) {
	if strings.TrimSpace(value) != "" {
		return domain.ParseDay(value)
	}
	return s.days.Today(ctx, ownerID)
}

func (s *ChatSubscriber) phrases(ctx context.Context, ownerID string) replyPhrases {
	if s.settings != nil {
		if settings, err := s.settings.Handle(ctx, ownerID); err == nil && settings != nil {
			if p, ok := chatReplies[settings.Locale]; ok {
				return p
			}
		}
	}
	return chatReplies[routines.LocaleKorean]
}

// reply sends a best-effort answer; the request itself is already settled.
func (s *ChatSubscriber) reply(ctx context.Context, ownerID, text string) {
	if err := s.messenger.Send(ctx, ownerID, text); err != nil {
		s.logger.Warn("chat reply failed", "owner_id", ownerID, "error", err)
	}
}

func toGenerateRequest(ownerID string, req ReportRequest) (reports.GenerateRequest, error) {
	out := reports.GenerateRequest{OwnerID: ownerID}
	if req.Scope != "" {
		scope, err := reports.ParseScope(req.Scope)
		if err != nil {
			return out, err
		}
		out.Scope = scope
	}
	if req.SeasonID != "" {
		id, err := uuid.Parse(req.SeasonID)
		if err != nil {
			return out, err
		}
		out.SeasonID = &id
	}
	if req.Locale != "" {
		locale, err := routines.ParseLocale(req.Locale)
		if err != nil {
			return out, err
		}
		out.Locale = locale
	}
	return out, nil
}

func isValidationError(err error) bool {
	return errors.Is(err, reports.ErrInvalidScope) ||
		errors.Is(err, routines.ErrRoutineNotFound) ||
		errors.Is(err, routines.ErrNotOwner) ||
		errors.Is(err, domain.ErrInvalidDay) ||
		errors.Is(err, seasons.ErrSeasonNotFound)
}
