package service

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Webhook шлёт form-POST alert=<code> (формат WunderTrading).
type Webhook struct {
	url  string
	http *http.Client
}

func NewWebhook(rawURL string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Webhook{url: rawURL, http: &http.Client{Timeout: timeout}}
}

func (w *Webhook) Send(ctx context.Context, a Alert) error {
	if w.url == "" {
		return ErrNoWebhook
	}
	if a.Code == "" {
		return errors.Wrapf(ErrNoAlertCode, "%s", a)
	}

	form := url.Values{}
	for k, v := range a.Extra {
		form.Set(k, v)
	}
	form.Set("alert", a.Code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "build webhook request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := w.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "webhook post")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Errorf("webhook http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
