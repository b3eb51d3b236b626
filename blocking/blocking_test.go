package blocking_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/teenjuna/delay"
	"github.com/teenjuna/delay/blocking"
	"github.com/teenjuna/delay/internal/testing/require"
)

var _ delay.Strategy[time.Duration, struct{}] = blocking.New[time.Duration]()

func TestDelay(t *testing.T) {
	run(t, "Elapses at least the duration", func(t *testing.T) {
		s := blocking.New[time.Duration]()
		for _, d := range []time.Duration{time.Nanosecond, time.Millisecond, time.Second, time.Hour} {
			start := time.Now()
			require.Equal(t, s.Delay(d), struct{}{})
			require.GreaterOrEqual(t, time.Since(start), d)
		}
	})

	run(t, "Zero duration", func(t *testing.T) {
		s := blocking.New[time.Duration]()
		start := time.Now()
		s.Delay(0)
		require.Equal(t, time.Since(start), time.Duration(0))
	})

	run(t, "Negative duration", func(t *testing.T) {
		s := blocking.New[time.Duration]()
		start := time.Now()
		s.Delay(-time.Second)
		require.Equal(t, time.Since(start), time.Duration(0))
	})

	run(t, "Custom duration type", func(t *testing.T) {
		type ticks int64
		s := blocking.New[ticks]()
		start := time.Now()
		s.Delay(ticks(time.Minute))
		require.Equal(t, time.Since(start), time.Minute)
	})

	run(t, "Nothing after the call runs early", func(t *testing.T) {
		var (
			s     = blocking.Sleep[time.Duration]{}
			start = time.Now()
			after time.Duration
			done  = make(chan struct{})
		)
		go func() {
			s.Delay(time.Millisecond * 100)
			after = time.Since(start)
			close(done)
		}()

		synctest.Wait()
		select {
		case <-done:
			t.Fatal("delay returned before the duration elapsed")
		default:
		}

		<-done
		require.GreaterOrEqual(t, after, time.Millisecond*100)
	})

	run(t, "Concurrent callers block independently", func(t *testing.T) {
		var (
			s     = blocking.New[time.Duration]()
			start = time.Now()
			long  time.Duration
			short time.Duration
			wg    sync.WaitGroup
		)
		wg.Go(func() {
			s.Delay(time.Millisecond * 100)
			long = time.Since(start)
		})
		wg.Go(func() {
			s.Delay(time.Millisecond * 50)
			short = time.Since(start)
		})
		wg.Wait()

		require.Equal(t, short, time.Millisecond*50)
		require.Equal(t, long, time.Millisecond*100)
	})
}

func run(t *testing.T, name string, fn func(t *testing.T)) {
	t.Run(name, func(t *testing.T) {
		t.Helper()
		t.Parallel()
		synctest.Test(t, func(t *testing.T) {
			fn(t)
		})
	})
}
