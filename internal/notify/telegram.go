package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rxtech-lab/swing-trader/pkg/errors"
)

const telegramBaseURL = "https://api.telegram.org"

// Sink delivers one alert message. A returned error is non-fatal to the
// batch: the caller logs it and moves to the next message.
type Sink interface {
	Send(ctx context.Context, text string) error
}

// TelegramSink posts messages to a Telegram chat through the bot API.
type TelegramSink struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

var _ Sink = (*TelegramSink)(nil)

// NewTelegramSink creates a Telegram sink.
func NewTelegramSink(botToken, chatID string) *TelegramSink {
	return &TelegramSink{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  telegramBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithBaseURL points the sink at an alternate endpoint. Used by tests.
func (t *TelegramSink) WithBaseURL(baseURL string) *TelegramSink {
	t.baseURL = baseURL

	return t
}

// Send implements Sink. Non-2xx responses become a NotificationFailed error;
// there is no retry.
func (t *TelegramSink) Send(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)

	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotificationFailed, "failed to build telegram request", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotificationFailed, "telegram request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return errors.Newf(errors.ErrCodeNotificationFailed, "telegram returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
