package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"homework-status-bot/internal/config"
	"homework-status-bot/internal/domain"
	"homework-status-bot/internal/domain/ports/adapter"
	"homework-status-bot/internal/infra/logging"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter sends text messages through the Telegram Bot API.
// It never polls for updates: the bot only talks. The getMe handshake is
// deferred to the first send so an unreachable Telegram never blocks startup.
type RealTelegramBotAdapter struct {
	token    string
	endpoint string
	client   *http.Client

	mu  sync.Mutex
	bot *tgbotapi.BotAPI

	limiter *rate.Limiter
	log     *zerolog.Logger
}

// NewRealTelegramBotAdapter targets api.telegram.org. It makes no network calls.
func NewRealTelegramBotAdapter(cfg *config.BotConfig, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	return NewRealTelegramBotAdapterWithEndpoint(cfg, tgbotapi.APIEndpoint, &http.Client{}, logger)
}

// NewRealTelegramBotAdapterWithEndpoint is used for self-hosted Bot API servers and tests.
// endpoint follows tgbotapi.APIEndpoint, e.g. "http://host/bot%s/%s".
func NewRealTelegramBotAdapterWithEndpoint(cfg *config.BotConfig, endpoint string, client *http.Client, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if cfg.Token == "" {
		return nil, errors.New("bot token is empty")
	}
	if client == nil {
		client = &http.Client{}
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 1
	}

	compLog := logger.With().Str("component", "TelegramBot").Logger()
	return &RealTelegramBotAdapter{
		token:    cfg.Token,
		endpoint: endpoint,
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(rps), rps),
		log:      &compLog,
	}, nil
}

// api returns the authenticated client, running getMe on first use.
// A failed handshake is retried on the next call.
func (r *RealTelegramBotAdapter) api() (*tgbotapi.BotAPI, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bot != nil {
		return r.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(r.token, r.endpoint, r.client)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", r.scrub(err))
	}
	r.log.Info().Str("bot", bot.Self.UserName).Msg("telegram bot authenticated")
	r.bot = bot
	return bot, nil
}

// SendMessage delivers text to chatID, waiting for the send limiter first.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, chatID string, text string) error {
	if strings.TrimSpace(text) == "" {
		return &domain.Error{Kind: domain.KindDelivery, Err: domain.ErrEmptyMessage}
	}
	msg, err := newMessage(chatID, text)
	if err != nil {
		return &domain.Error{Kind: domain.KindDelivery, Err: err}
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return &domain.Error{Kind: domain.KindDelivery, Err: err}
	}
	bot, err := r.api()
	if err != nil {
		return &domain.Error{Kind: domain.KindDelivery, Err: err}
	}
	sent, err := bot.Send(msg)
	if err != nil {
		return &domain.Error{Kind: domain.KindDelivery, Err: r.scrub(err)}
	}
	r.log.Trace().Int("message_id", sent.MessageID).Msg("telegram message sent")
	return nil
}

// scrub removes the bot token from err. Transport errors from tgbotapi are
// *url.Error values whose URL embeds the token.
func (r *RealTelegramBotAdapter) scrub(err error) error {
	if err == nil || !strings.Contains(err.Error(), r.token) {
		return err
	}
	masked := logging.Redact(r.token, false)
	var uerr *url.Error
	if errors.As(err, &uerr) && !strings.Contains(uerr.Err.Error(), r.token) {
		return &url.Error{
			Op:  uerr.Op,
			URL: strings.ReplaceAll(uerr.URL, r.token, masked),
			Err: uerr.Err,
		}
	}
	return errors.New(strings.ReplaceAll(err.Error(), r.token, masked))
}

// newMessage accepts numeric chat ids (users, groups, -100... channels) and @usernames.
func newMessage(chatID, text string) (tgbotapi.MessageConfig, error) {
	chatID = strings.TrimSpace(chatID)
	if strings.HasPrefix(chatID, "@") && len(chatID) > 1 {
		return tgbotapi.NewMessageToChannel(chatID, text), nil
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return tgbotapi.MessageConfig{}, fmt.Errorf("invalid chat id %q: %w", chatID, err)
	}
	return tgbotapi.NewMessage(id, text), nil
}
