package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testMsg struct {
	n int
}

type otherMsg struct{}

func TestLoopIterate(t *testing.T) {
	var trace []string
	var got []int
	loop := NewLoop()
	loop.AddController(PrLvStatus, ControlFunc(func(cc ControlContext) error {
		trace = append(trace, "status")
		return nil
	}))
	loop.AddController(PrLvDispatch, ControlFunc(func(cc ControlContext) error {
		trace = append(trace, "dispatch")
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			if m, ok := mc.CurrentMessage().(*testMsg); ok && m.n%2 == 0 {
				got = append(got, m.n)
				mc.MessageTaken()
			}
		}))
		cc.PostRun(ControlFunc(func(ControlContext) error {
			trace = append(trace, "post")
			return nil
		}))
		return nil
	}))
	loop.AddController(PrLvLights, ControlFunc(func(cc ControlContext) error {
		trace = append(trace, "lights")
		var left int
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			left++
			mc.MessageTaken()
		}))
		require.Equal(t, 2, left)
		return errors.New("logged only")
	}))

	for n := 1; n <= 4; n++ {
		loop.PostMessage(&testMsg{n: n})
	}
	now := time.Unix(100, 0)
	loop.Iterate(context.Background(), now)
	require.Equal(t, []int{2, 4}, got)
	require.Equal(t, []string{"dispatch", "post", "lights", "status"}, trace)
}

func TestLoopRunTriggered(t *testing.T) {
	loop := NewLoop()
	loop.Interval = time.Hour
	seen := make(chan int, 1)
	loop.AddController(PrLvDispatch, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			seen <- mc.CurrentMessage().(*testMsg).n
			mc.MessageTaken()
		}))
		return nil
	}))
	posted := make(chan struct{})
	loop.AddRunnable(RunnableFunc(func(ctx context.Context) error {
		LoopCtlFrom(ctx).Post(&testMsg{n: 7})
		close(posted)
		<-ctx.Done()
		return ctx.Err()
	}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()
	<-posted
	select {
	case n := <-seen:
		require.Equal(t, 7, n)
	case <-time.After(5 * time.Second):
		t.Fatal("message not processed")
	}
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestRunnerAggregatesErrors(t *testing.T) {
	errA := errors.New("a")
	r := NewRunner().Go(
		RunnableFunc(func(context.Context) error { return errA }),
		NamedRun("canceled", RunnableFunc(func(context.Context) error { return context.Canceled })),
		RunnableFunc(func(context.Context) error { return nil }),
	)
	err := r.Wait()
	require.Error(t, err)
	require.ErrorIs(t, err, errA)
	var agg *AggregatedError
	require.ErrorAs(t, err, &agg)
	require.Len(t, agg.Errors, 1)
}

func TestTake(t *testing.T) {
	testCases := []struct {
		name  string
		fail  int
		taken []int
		err   bool
	}{
		{name: "all taken", taken: []int{1, 2, 3}},
		{name: "errors aggregated", fail: 2, taken: []int{1, 2, 3}, err: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			loop := NewLoop()
			var taken []int
			var others int
			var takeErrs []error
			loop.AddController(PrLvDispatch, ControlFunc(func(cc ControlContext) error {
				err := Take(cc, func(msg *testMsg) error {
					taken = append(taken, msg.n)
					if msg.n == tc.fail {
						return errors.New("failed")
					}
					return nil
				})
				if err != nil {
					takeErrs = append(takeErrs, err)
				}
				return err
			}))
			loop.AddController(PrLvStatus, ControlFunc(func(cc ControlContext) error {
				return Take(cc, func(*otherMsg) error {
					others++
					return nil
				})
			}))
			loop.Post(&testMsg{n: 1}, &otherMsg{}, &testMsg{n: 2})
			loop.PostMessage(&testMsg{n: 3})
			loop.Iterate(context.Background(), time.Now())
			require.Equal(t, tc.taken, taken)
			require.Equal(t, 1, others)

			// taken messages are gone
			loop.Iterate(context.Background(), time.Now())
			require.Equal(t, tc.taken, taken)
			require.Equal(t, 1, others)
			if tc.err {
				require.Len(t, takeErrs, 1)
			} else {
				require.Empty(t, takeErrs)
			}
		})
	}
}

func TestLoopDropsUnhandledMessages(t *testing.T) {
	loop := NewLoop()
	var seen int
	loop.AddController(PrLvStatus, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			seen++
			mc.StopProcessing()
		}))
		return nil
	}))
	loop.PostMessage(&testMsg{n: 1})
	loop.PostMessage(&testMsg{n: 2})
	loop.Iterate(context.Background(), time.Now())
	require.Equal(t, 1, seen)
	loop.Iterate(context.Background(), time.Now())
	require.Equal(t, 1, seen)
}

func TestPostRunHooks(t *testing.T) {
	loop := NewLoop()
	var trace []string
	loop.AddController(PrLvLights, ControlFunc(func(cc ControlContext) error {
		trace = append(trace, "lights")
		cc.PostRun(ControlFunc(func(cc ControlContext) error {
			trace = append(trace, "hook")
			cc.PostRun(ControlFunc(func(ControlContext) error {
				trace = append(trace, "next")
				return nil
			}))
			return nil
		}))
		return nil
	}))
	loop.Iterate(context.Background(), time.Now())
	require.Equal(t, []string{"lights", "hook"}, trace)
	trace = nil
	loop.Iterate(context.Background(), time.Now())
	require.Equal(t, []string{"lights", "next", "hook"}, trace)
}

func TestCountdown(t *testing.T) {
	testCases := []struct {
		start   int
		expires int
	}{
		{start: 3, expires: 3},
		{start: 1, expires: 1},
		{start: 0, expires: 1},
	}
	for _, tc := range testCases {
		var c Countdown
		require.False(t, c.Tick())
		c.Start(tc.start)
		require.True(t, c.Active())
		var n int
		for n = 1; !c.Tick(); n++ {
			require.Less(t, n, 10)
		}
		require.Equal(t, tc.expires, n, "start %d", tc.start)
		require.False(t, c.Active())
		require.False(t, c.Tick())
	}
	var c Countdown
	c.Start(2)
	c.Stop()
	require.False(t, c.Tick())
}

func TestRunWithContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- RunWithContextCancel(ctx, func() { close(stop) }, func() error {
			<-stop
			return errors.New("closed")
		})
	}()
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	errA := errors.New("a")
	require.ErrorIs(t, RunWithContextCancel(context.Background(), nil, func() error { return errA }), errA)
}
