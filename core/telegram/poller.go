package telegram

import (
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

const (
	RunModeWebhook  = "webhook"
	RunModeLongpoll = "longpoll"
)

const defaultLongPollTimeout = 10 * time.Second

// WebhookOptions carries the listener settings for webhook mode.
type WebhookOptions struct {
	Listen string
	Port   int
	URL    string
}

// PollerOptions selects the update delivery mode and its tuning.
type PollerOptions struct {
	RunMode                string
	LongPollTimeoutSeconds int
	Webhook                WebhookOptions
}

// BuildPoller constructs the telebot poller for the configured run mode.
// Anything other than webhook falls back to long polling.
func BuildPoller(opts PollerOptions) tele.Poller {
	if strings.EqualFold(strings.TrimSpace(opts.RunMode), RunModeWebhook) {
		return webhookPoller(opts.Webhook)
	}

	timeout := defaultLongPollTimeout
	if opts.LongPollTimeoutSeconds > 0 {
		timeout = time.Duration(opts.LongPollTimeoutSeconds) * time.Second
	}
	return &tele.LongPoller{Timeout: timeout}
}

func webhookPoller(opts WebhookOptions) *tele.Webhook {
	return &tele.Webhook{
		Listen:   fmt.Sprintf("%s:%d", opts.Listen, opts.Port),
		Endpoint: &tele.WebhookEndpoint{PublicURL: opts.URL},
	}
}
