package host

import "time"

type timer struct {
	id       TimerID
	callback func()
	deadline time.Time
	index    int
}

// timers is a min-heap of timers ordered by deadline, then by registration order.
type timers []*timer

func (ts timers) Len() int {
	return len(ts)
}

func (ts timers) Less(i, j int) bool {
	if ts[i].deadline.Equal(ts[j].deadline) {
		return ts[i].id < ts[j].id
	}
	return ts[i].deadline.Before(ts[j].deadline)
}

func (ts timers) Swap(i, j int) {
	ts[i], ts[j] = ts[j], ts[i]
	ts[i].index = i
	ts[j].index = j
}

func (ts *timers) Push(x any) {
	t := x.(*timer)
	t.index = len(*ts)
	*ts = append(*ts, t)
}

func (ts *timers) Pop() any {
	old := *ts
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*ts = old[:n-1]
	return t
}
