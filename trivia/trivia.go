// Package trivia runs one-shot question sessions: post a question in a
// channel, wait (bounded) for a reply from the asking user, grade it.
package trivia

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/blitzboy11/Xsin/gateway"
	"github.com/blitzboy11/Xsin/platform"
)

// DefaultTimeout bounds the wait for a reply when the caller passes zero.
const DefaultTimeout = 30 * time.Second

type Result int

const (
	ResultCorrect Result = iota
	ResultIncorrect
	ResultTimeout
)

func (r Result) String() string {
	switch r {
	case ResultCorrect:
		return "correct"
	case ResultIncorrect:
		return "incorrect"
	case ResultTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

type Question struct {
	Prompt string
	Answer string
}

// the original built-in bank
var questionBank = []Question{
	{Prompt: "What is the capital of France?", Answer: "Paris"},
	{Prompt: "What is 2+2?", Answer: "4"},
	{Prompt: "Who wrote 'To Kill a Mockingbird'?", Answer: "Harper Lee"},
}

type sessionKey struct {
	channelID string
	userID    string
}

type session struct {
	reply chan string
}

// Manager tracks open sessions keyed by (channel, asking user). A session
// ends on the first matching reply or on deadline, whichever comes first;
// never both, and never neither.
type Manager struct {
	logger         *slog.Logger
	client         platform.Client
	defaultTimeout time.Duration
	sessions       *xsync.MapOf[sessionKey, *session]
}

func NewManager(logger *slog.Logger, client platform.Client, defaultTimeout time.Duration) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultTimeout
	}
	return &Manager{
		logger:         logger.With("component", "trivia"),
		client:         client,
		defaultTimeout: defaultTimeout,
		sessions:       xsync.NewMapOf[sessionKey, *session](),
	}
}

// Ask posts the question and suspends the calling goroutine until the user
// replies in the channel or the timeout elapses. It must not be called from
// the dispatch path: dispatch keeps flowing while a session is open, which
// is what routes the reply here.
//
// Asking again for the same (channel, user) replaces the open session; the
// earlier Ask times out on its own deadline.
func (m *Manager) Ask(ctx context.Context, channelID, userID, prompt, answer string, timeout time.Duration) (Result, error) {
	if timeout <= 0 {
		timeout = m.defaultTimeout
	}
	key := sessionKey{channelID: channelID, userID: userID}
	sess := &session{reply: make(chan string, 1)}
	m.sessions.Store(key, sess)

	if err := m.client.SendChannelMessage(ctx, channelID, prompt); err != nil {
		m.evict(key, sess)
		return ResultTimeout, fmt.Errorf("posting trivia question: %w", err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case text := <-sess.reply:
		if strings.EqualFold(strings.TrimSpace(text), strings.TrimSpace(answer)) {
			sessionResultCount.WithLabelValues("correct").Inc()
			m.post(ctx, channelID, fmt.Sprintf("Correct, %s!", platform.Mention(userID)))
			return ResultCorrect, nil
		}
		sessionResultCount.WithLabelValues("incorrect").Inc()
		m.post(ctx, channelID, fmt.Sprintf("Incorrect! The answer was %s.", answer))
		return ResultIncorrect, nil
	case <-timer.C:
		m.evict(key, sess)
		sessionResultCount.WithLabelValues("timeout").Inc()
		m.post(ctx, channelID, fmt.Sprintf("Time's up! The answer was %s.", answer))
		return ResultTimeout, nil
	case <-ctx.Done():
		m.evict(key, sess)
		sessionResultCount.WithLabelValues("timeout").Inc()
		return ResultTimeout, ctx.Err()
	}
}

// AskRandom runs Ask with a random question from the built-in bank.
func (m *Manager) AskRandom(ctx context.Context, channelID, userID string, timeout time.Duration) (Result, error) {
	q := questionBank[rand.IntN(len(questionBank))]
	return m.Ask(ctx, channelID, userID, q.Prompt, q.Answer, timeout)
}

// HandleMessage is registered on the dispatcher for message events. It
// routes a message to the open session for (channel, author), if any.
// LoadAndDelete claims the session exactly once, so a reply racing the
// deadline resolves to a single outcome. Never blocks.
func (m *Manager) HandleMessage(ctx context.Context, evt *gateway.MessageEvent) error {
	key := sessionKey{channelID: evt.ChannelID, userID: evt.AuthorID}
	sess, ok := m.sessions.LoadAndDelete(key)
	if !ok {
		return nil
	}
	select {
	case sess.reply <- evt.Text:
	default:
	}
	return nil
}

// evict removes the session only if it is still ours; a replacement session
// stored by a newer Ask stays.
func (m *Manager) evict(key sessionKey, sess *session) {
	m.sessions.Compute(key, func(cur *session, loaded bool) (*session, bool) {
		if !loaded {
			return nil, true
		}
		if cur == sess {
			return nil, true
		}
		return cur, false
	})
}

func (m *Manager) post(ctx context.Context, channelID, text string) {
	if err := m.client.SendChannelMessage(ctx, channelID, text); err != nil {
		m.logger.Warn("trivia result delivery failed", "channel", channelID, "err", err)
	}
}
