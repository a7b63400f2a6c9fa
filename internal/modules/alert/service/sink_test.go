package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"wunder_bot/internal/models"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordingNotifier) Send(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordingNotifier) Sendf(format string, args ...any) { r.Send(fmt.Sprintf(format, args...)) }

type WebhookTestSuite struct {
	suite.Suite
	srv    *httptest.Server
	status int
	forms  []url.Values
	ctype  string
}

func TestWebhookSuite(t *testing.T) {
	suite.Run(t, new(WebhookTestSuite))
}

func (s *WebhookTestSuite) SetupTest() {
	s.status = http.StatusOK
	s.forms = nil
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.ctype = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		s.forms = append(s.forms, form)
		w.WriteHeader(s.status)
		_, _ = w.Write([]byte("nope"))
	}))
}

func (s *WebhookTestSuite) TearDownTest() {
	s.srv.Close()
}

func alertFor(code string) Alert {
	return Alert{Code: code, Symbol: "BTCUSDT", Timeframe: "15m", Kind: models.SignalEnterLong, Price: 101.5}
}

func (s *WebhookTestSuite) TestPostsAlertCode() {
	w := NewWebhook(s.srv.URL, time.Second)

	s.Require().NoError(w.Send(context.Background(), alertFor("ENTER-LONG_BTC_abc")))
	s.Require().Len(s.forms, 1)
	s.Equal("ENTER-LONG_BTC_abc", s.forms[0].Get("alert"))
	s.Equal("application/x-www-form-urlencoded", s.ctype)
}

func (s *WebhookTestSuite) TestExtraFieldsDoNotOverrideCode() {
	w := NewWebhook(s.srv.URL, time.Second)
	a := alertFor("code-1")
	a.Extra = map[string]string{"alert": "other", "note": "x"}

	s.Require().NoError(w.Send(context.Background(), a))
	s.Equal("code-1", s.forms[0].Get("alert"))
	s.Equal("x", s.forms[0].Get("note"))
}

func (s *WebhookTestSuite) TestNon200IsError() {
	s.status = http.StatusBadGateway
	w := NewWebhook(s.srv.URL, time.Second)

	err := w.Send(context.Background(), alertFor("c"))
	s.Require().Error(err)
	s.Contains(err.Error(), "502")
}

func (s *WebhookTestSuite) TestEmptyURL() {
	err := NewWebhook("", time.Second).Send(context.Background(), alertFor("c"))
	s.ErrorIs(err, ErrNoWebhook)
	s.Empty(s.forms)
}

func (s *WebhookTestSuite) TestEmptyCode() {
	err := NewWebhook(s.srv.URL, time.Second).Send(context.Background(), alertFor(""))
	s.ErrorIs(err, ErrNoAlertCode)
	s.Empty(s.forms)
}

type stubSink struct{ err error }

func (s stubSink) Send(context.Context, Alert) error { return s.err }

func TestMirroredNotifiesOnlyOnSuccess(t *testing.T) {
	n := &recordingNotifier{}

	require.NoError(t, NewMirrored(stubSink{}, n).Send(context.Background(), alertFor("c1")))
	require.Len(t, n.msgs, 1)
	assert.Contains(t, n.msgs[0], "BTCUSDT@15m ENTER-LONG")
	assert.Contains(t, n.msgs[0], "c1")

	boom := errors.New("boom")
	err := NewMirrored(stubSink{err: boom}, n).Send(context.Background(), alertFor("c2"))
	assert.ErrorIs(t, err, boom)
	assert.Len(t, n.msgs, 1)
}

func TestTelegramSendsToChat(t *testing.T) {
	var mu sync.Mutex
	var sent []url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/bottoken/getMe":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"w","username":"w_bot"}}`))
		case "/bottoken/sendMessage":
			_ = r.ParseForm()
			mu.Lock()
			sent = append(sent, r.PostForm)
			mu.Unlock()
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"},"text":"x"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tg, err := NewTelegramWithEndpoint("token", srv.URL+"/bot%s/%s", 42)
	require.NoError(t, err)

	tg.Sendf("hello %s", "world")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sent, 1)
	assert.Equal(t, "42", sent[0].Get("chat_id"))
	assert.Equal(t, "hello world", sent[0].Get("text"))
}

func TestTelegramWithoutChatIsSilent(t *testing.T) {
	var tg *Telegram
	assert.NotPanics(t, func() { tg.Send("x") })
}
