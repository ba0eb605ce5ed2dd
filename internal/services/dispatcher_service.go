package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/prxgr4mmer/phone-market-analyst/internal/domain"
	"github.com/prxgr4mmer/phone-market-analyst/internal/metrics"
	"github.com/prxgr4mmer/phone-market-analyst/internal/ports"
)

// DispatcherConfig holds the webhook settings of the dispatcher
type DispatcherConfig struct {
	// WebhookSecret, when set, must be presented by every webhook caller
	WebhookSecret string
}

// DispatcherService implements the ports.DispatcherService interface.
// It keeps no state between messages.
type DispatcherService struct {
	cfg       DispatcherConfig
	analysis  ports.AnalysisService
	messenger ports.Messenger
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewDispatcherService creates a new dispatcher service
func NewDispatcherService(
	cfg DispatcherConfig,
	analysis ports.AnalysisService,
	messenger ports.Messenger,
	m *metrics.Metrics,
	logger *slog.Logger,
) *DispatcherService {
	return &DispatcherService{
		cfg:       cfg,
		analysis:  analysis,
		messenger: messenger,
		metrics:   m,
		logger:    logger.With("component", "dispatcher_service"),
	}
}

// Authorize checks the secret presented by a webhook caller
func (s *DispatcherService) Authorize(token string) bool {
	if s.cfg.WebhookSecret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.WebhookSecret)) == 1
}

// Dispatch handles one inbound update and sends exactly one reply to the
// originating chat. Updates without a message are ignored.
func (s *DispatcherService) Dispatch(ctx context.Context, update *domain.Update) *domain.Reply {
	if update == nil || update.Message == nil {
		s.logger.Debug("update without message ignored")
		return nil
	}

	chatID := update.Message.Chat.ID
	command, args := domain.ParseCommand(update.Message.Text)

	reply := &domain.Reply{
		ChatID:  chatID,
		Command: command,
		Text:    s.handle(ctx, command, args),
	}

	s.metrics.IncCommand(commandLabel(command))
	s.logger.Debug("command handled", "chat_id", chatID, "command", command, "args", len(args))

	s.deliver(ctx, reply)
	return reply
}

func (s *DispatcherService) handle(ctx context.Context, command domain.Command, args []string) string {
	switch command {
	case domain.CommandStart, domain.CommandHelp:
		return msgStart
	case domain.CommandCompare:
		return s.handleCompare(ctx, args)
	case domain.CommandReport:
		return s.handleReport(ctx)
	case domain.CommandHealth:
		return s.handleHealth(ctx)
	case domain.CommandWatch:
		return s.handleWatch(ctx, args)
	default:
		return msgInvalidCommand
	}
}

func (s *DispatcherService) handleCompare(ctx context.Context, args []string) string {
	query := strings.Join(args, " ")

	match, err := s.analysis.FindByNameContains(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrDeviceNotFound) {
			return formatNotFound(strings.ToLower(query))
		}
		s.logger.Error("compare failed", "query", query, "error", err)
		return msgUnavailable
	}

	return formatCompare(match)
}

func (s *DispatcherService) handleReport(ctx context.Context) string {
	snapshot, err := s.analysis.ComputeSnapshot(ctx, domain.Filter{})
	if err != nil {
		s.logger.Error("report failed", "error", err)
		return msgUnavailable
	}
	return formatReport(snapshot)
}

func (s *DispatcherService) handleHealth(ctx context.Context) string {
	snapshot, err := s.analysis.ComputeSnapshot(ctx, domain.Filter{})
	if err != nil {
		s.logger.Error("health failed", "error", err)
		return msgUnavailable
	}
	return formatHealth(snapshot)
}

func (s *DispatcherService) handleWatch(ctx context.Context, args []string) string {
	if len(args) < 2 {
		return msgWatchUsage
	}

	threshold := parseThreshold(args[len(args)-1])
	query := strings.Join(args[:len(args)-1], " ")

	device, err := s.analysis.FindByNameContains(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrDeviceNotFound) {
			return formatWatchNotFound(strings.ToLower(query))
		}
		s.logger.Error("watch failed", "query", query, "error", err)
		return msgUnavailable
	}

	s.logger.Info("watch request acknowledged", "device_id", device.ID, "threshold", threshold)
	return formatWatchAck(device, threshold)
}

// parseThreshold keeps only ASCII digits; nothing left, or overflow, yields 0
func parseThreshold(raw string) int64 {
	digits := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)

	threshold, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return threshold
}

// deliver sends the reply once. Failures are logged and counted only.
func (s *DispatcherService) deliver(ctx context.Context, reply *domain.Reply) {
	if !s.messenger.Enabled() {
		s.logger.Warn("skipping reply because the messenger is not configured", "chat_id", reply.ChatID)
		s.metrics.IncDelivery("skipped")
		return
	}

	if err := s.messenger.SendMessage(ctx, reply.ChatID, reply.Text); err != nil {
		s.logger.Error("failed to send reply", "chat_id", reply.ChatID, "command", reply.Command, "error", err)
		s.metrics.IncDelivery("failed")
		return
	}

	s.metrics.IncDelivery("sent")
}

func commandLabel(command domain.Command) string {
	switch command {
	case domain.CommandStart, domain.CommandHelp, domain.CommandCompare,
		domain.CommandReport, domain.CommandHealth, domain.CommandWatch:
		return string(command)
	default:
		return string(domain.CommandUnknown)
	}
}

// Ensure DispatcherService implements ports.DispatcherService
var _ ports.DispatcherService = (*DispatcherService)(nil)
