package bootstrap

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/omriShneor/calendrix/internal/agent"
	"github.com/omriShneor/calendrix/internal/assistant"
	"github.com/omriShneor/calendrix/internal/claude"
	"github.com/omriShneor/calendrix/internal/config"
	"github.com/omriShneor/calendrix/internal/conversation"
	"github.com/omriShneor/calendrix/internal/database"
	"github.com/omriShneor/calendrix/internal/gcal"
	"github.com/omriShneor/calendrix/internal/notify"
	"github.com/omriShneor/calendrix/internal/openai"
	"github.com/omriShneor/calendrix/internal/timeutil"
)

const redisPingTimeout = 2 * time.Second

// Initialize picks every backend from cfg. Missing or broken optional backends
// fall back to their offline counterparts.
func Initialize(ctx context.Context, db *database.DB, cfg *config.Config, root *zap.Logger) *Clients {
	if root == nil {
		root = zap.NewNop()
	}
	logger := root.Named("bootstrap")

	loc, fallback := timeutil.ResolveLocation(cfg.TimeZone)
	if fallback && cfg.TimeZone != "" {
		logger.Warn("unknown time zone, using UTC", zap.String("timezone", cfg.TimeZone))
	}

	clients := &Clients{Clock: timeutil.SystemClock(loc)}
	clients.Oracle = initOracle(cfg, clients.Clock, logger)
	clients.Calendar = initCalendar(ctx, cfg, logger)
	clients.Conversations = initConversations(ctx, db, cfg, clients, logger)
	clients.Notifier = initNotifier(cfg, root, logger)

	return clients
}

// NewAssistant builds the dialogue service over clients
func NewAssistant(db *database.DB, cfg *config.Config, clients *Clients, logger *zap.Logger) *assistant.Service {
	return assistant.NewService(assistant.Options{
		Oracle:        clients.Oracle,
		Conversations: clients.Conversations,
		Materializer:  gcal.NewMaterializer(clients.Calendar, cfg.TimeZone),
		Bookings:      db,
		Notifier:      clients.Notifier,
		Clock:         clients.Clock,
		Logger:        logger,
	})
}

func initOracle(cfg *config.Config, clock timeutil.Clock, logger *zap.Logger) agent.Oracle {
	switch {
	case cfg.OpenAIAPIKey != "":
		logger.Info("dialogue oracle configured", zap.String("oracle", "openai"), zap.String("model", cfg.OpenAIModel))
		return openai.NewClient(openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.OpenAIModel,
			Temperature: float32(cfg.LLMTemperature),
		}, clock)
	case cfg.AnthropicAPIKey != "":
		logger.Info("dialogue oracle configured", zap.String("oracle", "claude"), zap.String("model", cfg.ClaudeModel))
		return claude.NewClient(cfg.AnthropicAPIKey, cfg.ClaudeModel, cfg.LLMTemperature, clock)
	}

	logger.Warn("no language model key set, running the demo dialogue")
	return agent.NewPolicy(clock)
}

func initCalendar(ctx context.Context, cfg *config.Config, logger *zap.Logger) gcal.EventService {
	if !cfg.HasGoogleCredentials() {
		logger.Warn("google calendar not configured, events go to the demo calendar")
		return gcal.NewDemoCalendar()
	}

	credentials, err := gcal.LoadServiceAccountJSON(cfg.GoogleServiceAccountJSON, cfg.GoogleServiceAccountFile)
	if err != nil {
		logger.Error("failed to read service account, using demo calendar", zap.Error(err))
		return gcal.NewDemoCalendar()
	}

	client, err := gcal.NewClient(ctx, credentials, cfg.GoogleCalendarID)
	if err != nil {
		logger.Error("failed to create google calendar client, using demo calendar", zap.Error(err))
		return gcal.NewDemoCalendar()
	}

	logger.Info("google calendar configured", zap.String("calendar_id", client.CalendarID()))
	return client
}

func initConversations(ctx context.Context, db *database.DB, cfg *config.Config, clients *Clients, logger *zap.Logger) conversation.Store {
	if cfg.RedisAddr == "" {
		return database.NewConversationStore(db)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Error("redis unreachable, keeping conversations in sqlite", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		rdb.Close()
		return database.NewConversationStore(db)
	}

	clients.closers = append(clients.closers, rdb.Close)
	logger.Info("conversations stored in redis", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.SessionTTL))
	return conversation.NewRedisStore(rdb, cfg.SessionTTL)
}

func initNotifier(cfg *config.Config, root, logger *zap.Logger) assistant.BookingNotifier {
	service := notify.NewService(notify.NewResendNotifier(cfg.ResendAPIKey, cfg.EmailFrom), cfg.NotifyEmail, root)
	if !service.IsEmailAvailable() {
		return nil
	}

	logger.Info("booking e-mail configured (Resend)", zap.String("recipient", cfg.NotifyEmail))
	return service
}
