package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func tokyo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}
	return loc
}

func TestNew_RejectsBadInput(t *testing.T) {
	if _, err := New(nil, "every now and then", nil, func(context.Context) {}); err == nil {
		t.Fatalf("want parse error")
	}
	if _, err := New(nil, "*/10 * * * *", nil, nil); err == nil {
		t.Fatalf("want error for nil job")
	}
}

func TestNext_FollowsServiceHours(t *testing.T) {
	loc := tokyo(t)
	s, err := New(nil, "*/10 5-23 * * *", loc, func(context.Context) {})
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		from, want time.Time
	}{
		{time.Date(2025, 8, 18, 4, 55, 0, 0, loc), time.Date(2025, 8, 18, 5, 0, 0, 0, loc)},
		{time.Date(2025, 8, 18, 7, 31, 0, 0, loc), time.Date(2025, 8, 18, 7, 40, 0, 0, loc)},
		{time.Date(2025, 8, 18, 23, 55, 0, 0, loc), time.Date(2025, 8, 19, 5, 0, 0, 0, loc)},
	}
	for _, c := range cases {
		if got := s.Next(c.from); !got.Equal(c.want) {
			t.Fatalf("Next(%v) = %v want %v", c.from, got, c.want)
		}
	}
}

func TestNext_UsesConfiguredZone(t *testing.T) {
	loc := tokyo(t)
	s, _ := New(nil, "0 7 * * *", loc, func(context.Context) {})
	// 21:30 UTC is 06:30 JST the next day
	got := s.Next(time.Date(2025, 8, 17, 21, 30, 0, 0, time.UTC))
	if want := time.Date(2025, 8, 17, 22, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("Next = %v want %v", got.UTC(), want)
	}
}

func TestRun_ImmediateThenStopsOnCancel(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	var calls int32
	ctx, cancel := context.WithCancel(context.Background())

	s, err := New(zap.New(core), "0 0 1 1 *", nil, func(context.Context) {
		atomic.AddInt32(&calls, 1)
		cancel()
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Immediate = true

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("want one immediate run, got %d", calls)
	}
	if observed.FilterMessage("scheduler_stopped").Len() != 1 {
		t.Fatalf("missing scheduler_stopped log")
	}
}

func TestRun_CancelledContextSkipsImmediate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls int32
	s, _ := New(nil, "* * * * *", nil, func(context.Context) { atomic.AddInt32(&calls, 1) })
	s.Immediate = true
	s.Run(ctx)
	if calls != 0 {
		t.Fatalf("job ran on a cancelled context")
	}
}

func TestCronLogger_ForwardsErrors(t *testing.T) {
	core, observed := observer.New(zap.DebugLevel)
	l := cronLogger{zap.New(core)}
	l.Info("skip")
	l.Error(errors.New("boom"), "panic", "stack", "x")
	if observed.FilterMessage("cron_skip").Len() != 1 || observed.FilterMessage("cron_panic").Len() != 1 {
		t.Fatalf("unexpected records: %+v", observed.All())
	}
}
