package reminder

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blitzboy11/Xsin/platform"
)

func schedulerFixture(t *testing.T) (*Scheduler, *platform.FakeClient, *time.Time) {
	t.Helper()
	client := platform.NewFakeClient()
	s := NewScheduler(Config{Client: client})
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, client, &now
}

func TestReminderFiresOnceWhenDue(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s, client, now := schedulerFixture(t)

	id, err := s.Schedule(ctx, "u1", 10*time.Second, "stretch")
	require.NoError(t, err)
	assert.NotEmpty(id)
	assert.Equal(1, s.Pending())

	// not due yet
	s.Sweep(ctx)
	assert.Empty(client.DirectMessages())
	assert.Equal(1, s.Pending())

	*now = now.Add(10 * time.Second)
	s.Sweep(ctx)
	dms := client.DirectMessages()
	require.Len(t, dms, 1)
	assert.Equal("u1", dms[0].UserID)
	assert.Equal("Reminder: stretch", dms[0].Text)
	assert.Equal(0, s.Pending())

	// retired: later sweeps never re-fire it
	*now = now.Add(time.Hour)
	s.Sweep(ctx)
	assert.Len(client.DirectMessages(), 1)
}

func TestNegativeDelayFiresOnNextSweep(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s, client, _ := schedulerFixture(t)

	_, err := s.Schedule(ctx, "u1", -5*time.Second, "late")
	require.NoError(t, err)
	s.Sweep(ctx)
	assert.Len(client.DirectMessages(), 1)
}

func TestDeliveryFailureRetiresReminder(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s, client, now := schedulerFixture(t)
	client.FailDirectMessages = fmt.Errorf("target unreachable")

	_, err := s.Schedule(ctx, "u1", 0, "doomed")
	require.NoError(t, err)

	*now = now.Add(time.Second)
	s.Sweep(ctx)
	assert.Equal(0, s.Pending(), "failed delivery must still retire the reminder")

	client.FailDirectMessages = nil
	s.Sweep(ctx)
	assert.Empty(client.DirectMessages())
}

func TestDuplicateRemindersFireIndependently(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s, client, now := schedulerFixture(t)

	// identical owner, text, and fire time; ids keep them distinct
	id1, err := s.Schedule(ctx, "u1", time.Second, "water the plants")
	require.NoError(t, err)
	id2, err := s.Schedule(ctx, "u1", time.Second, "water the plants")
	require.NoError(t, err)
	assert.NotEqual(id1, id2)

	*now = now.Add(2 * time.Second)
	s.Sweep(ctx)
	assert.Len(client.DirectMessages(), 2)
}

func TestConcurrentSchedulingDuringSweeps(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	client := platform.NewFakeClient()
	s := NewScheduler(Config{Client: client})
	// real clock, everything due immediately

	const total = 1000
	var wg sync.WaitGroup
	stop := make(chan struct{})

	// sweep continuously while schedulers insert
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				s.Sweep(ctx)
			}
		}
	}()

	var schedWg sync.WaitGroup
	for i := 0; i < 10; i++ {
		schedWg.Add(1)
		go func(worker int) {
			defer schedWg.Done()
			for j := 0; j < total/10; j++ {
				_, err := s.Schedule(ctx, "u1", 0, fmt.Sprintf("r-%d-%d", worker, j))
				assert.NoError(err)
			}
		}(i)
	}
	schedWg.Wait()

	// drain whatever the racing sweeper left behind
	s.Sweep(ctx)
	close(stop)
	wg.Wait()
	s.Sweep(ctx)

	assert.Equal(0, s.Pending())
	dms := client.DirectMessages()
	assert.Len(dms, total, "every reminder fires exactly once")
	seen := make(map[string]bool, total)
	for _, dm := range dms {
		assert.False(seen[dm.Text], "double-fired: %s", dm.Text)
		seen[dm.Text] = true
	}
}
