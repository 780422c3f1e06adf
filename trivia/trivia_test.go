package trivia

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blitzboy11/Xsin/gateway"
	"github.com/blitzboy11/Xsin/platform"
)

func managerFixture(t *testing.T) (*Manager, *platform.FakeClient) {
	t.Helper()
	client := platform.NewFakeClient()
	return NewManager(nil, client, time.Second), client
}

// runAsk drives one Ask in the background and delivers a reply once the
// question has been posted.
func runAsk(t *testing.T, m *Manager, client *platform.FakeClient, answer, reply string, timeout time.Duration) Result {
	t.Helper()
	ctx := context.Background()
	done := make(chan Result, 1)
	go func() {
		res, err := m.Ask(ctx, "c1", "u1", "What is the capital of France?", answer, timeout)
		assert.NoError(t, err)
		done <- res
	}()

	// wait for the question to be posted before replying
	require.Eventually(t, func() bool {
		return len(client.ChannelMessages()) >= 1
	}, time.Second, 5*time.Millisecond)

	if reply != "" {
		require.NoError(t, m.HandleMessage(ctx, &gateway.MessageEvent{
			MessageID: "m1", ChannelID: "c1", AuthorID: "u1", Text: reply,
		}))
	}

	select {
	case res := <-done:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("Ask did not resolve")
		return ResultTimeout
	}
}

func TestCaseInsensitiveCorrectAnswer(t *testing.T) {
	assert := assert.New(t)
	m, client := managerFixture(t)

	res := runAsk(t, m, client, "Paris", "paris", time.Second)
	assert.Equal(ResultCorrect, res)

	msgs := client.ChannelMessages()
	require.Len(t, msgs, 2)
	assert.Contains(msgs[1].Text, "Correct")
}

func TestIncorrectAnswerRevealsAnswer(t *testing.T) {
	assert := assert.New(t)
	m, client := managerFixture(t)

	res := runAsk(t, m, client, "Paris", "London", time.Second)
	assert.Equal(ResultIncorrect, res)

	msgs := client.ChannelMessages()
	require.Len(t, msgs, 2)
	assert.Contains(msgs[1].Text, "Incorrect")
	assert.Contains(msgs[1].Text, "Paris")
}

func TestTimeoutResolvesExactlyOnce(t *testing.T) {
	assert := assert.New(t)
	m, client := managerFixture(t)

	res := runAsk(t, m, client, "Paris", "", 30*time.Millisecond)
	assert.Equal(ResultTimeout, res)

	// the session is retired: a late reply routes nowhere
	require.NoError(t, m.HandleMessage(context.Background(), &gateway.MessageEvent{
		ChannelID: "c1", AuthorID: "u1", Text: "paris",
	}))
	msgs := client.ChannelMessages()
	require.Len(t, msgs, 2)
	assert.Contains(msgs[1].Text, "Time's up")
}

func TestReplyFromWrongUserOrChannelIgnored(t *testing.T) {
	assert := assert.New(t)
	m, client := managerFixture(t)
	ctx := context.Background()

	done := make(chan Result, 1)
	go func() {
		res, _ := m.Ask(ctx, "c1", "u1", "What is 2+2?", "4", 100*time.Millisecond)
		done <- res
	}()
	require.Eventually(t, func() bool {
		return len(client.ChannelMessages()) >= 1
	}, time.Second, 5*time.Millisecond)

	// wrong author, then wrong channel: neither resolves the session
	require.NoError(t, m.HandleMessage(ctx, &gateway.MessageEvent{ChannelID: "c1", AuthorID: "u2", Text: "4"}))
	require.NoError(t, m.HandleMessage(ctx, &gateway.MessageEvent{ChannelID: "c2", AuthorID: "u1", Text: "4"}))

	assert.Equal(ResultTimeout, <-done)
}

func TestHandleMessageWithoutSessionIsNoop(t *testing.T) {
	m, _ := managerFixture(t)
	assert.NoError(t, m.HandleMessage(context.Background(), &gateway.MessageEvent{
		ChannelID: "c9", AuthorID: "u9", Text: "hello",
	}))
}
