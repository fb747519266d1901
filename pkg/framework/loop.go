package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the default period of loop iterations.
const DefaultInterval = 20 * time.Millisecond

// Loop runs controllers periodically and delivers the messages posted
// from link and broker goroutines to them. All controllers run on the
// loop goroutine so the state they own needs no locking.
type Loop struct {
	Interval time.Duration

	levels  [PriorityLevels]level
	runners []Runnable

	lock     sync.Mutex
	messages messageQueue
	wakeUpCh chan struct{}
}

// LoopAdder registers a component's controllers and runnables.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type level struct {
	controllers []Controller

	lock  sync.Mutex
	hooks []Controller
}

type messageQueue struct {
	head, tail *queuedMessage
}

type queuedMessage struct {
	msg  Message
	next *queuedMessage
}

func (q *messageQueue) push(item *queuedMessage) {
	item.next = nil
	if q.head == nil {
		q.head = item
	} else {
		q.tail.next = item
	}
	q.tail = item
}

// take moves all items out of q.
func (q *messageQueue) take() messageQueue {
	items := *q
	*q = messageQueue{}
	return items
}

type loopCtxKey struct{}

// LoopCtlFrom gets the LoopControl of the loop running ctx.
func LoopCtlFrom(ctx context.Context) LoopControl {
	return ctx.Value(loopCtxKey{}).(LoopControl)
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval, wakeUpCh: make(chan struct{}, 1)}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers at priorityLevel. Controllers also
// implementing Runnable are run with the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	lv := &l.levels[priorityLevel]
	lv.controllers = append(lv.controllers, ctls...)
	for _, ctl := range ctls {
		if r, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, r)
		}
	}
	return l
}

// AddRunnable adds runnables started with the loop. Their context
// carries the LoopControl.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	if l.wakeUpCh == nil {
		l.wakeUpCh = make(chan struct{}, 1)
	}
	runner := NewRunnerWith(context.WithValue(ctx, loopCtxKey{}, LoopControl(l)))
	runner.Go(l.runners...)
	defer runner.Wait()

	interval := l.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			l.Iterate(ctx, now)
		case <-l.wakeUpCh:
			l.Iterate(ctx, time.Now())
		}
	}
}

// PostRunAt implements LoopControl.
func (l *Loop) PostRunAt(priorityLevel int, hooks ...Controller) {
	lv := &l.levels[priorityLevel]
	lv.lock.Lock()
	lv.hooks = append(lv.hooks, hooks...)
	lv.lock.Unlock()
}

// PostMessage implements LoopControl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.messages.push(&queuedMessage{msg: msg})
	l.lock.Unlock()
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// Post implements LoopControl.
func (l *Loop) Post(msgs ...Message) {
	for _, msg := range msgs {
		l.PostMessage(msg)
	}
	l.TriggerNext()
}

// Iterate runs all controllers once at the given time. Messages nobody
// took are dropped.
func (l *Loop) Iterate(ctx context.Context, now time.Time) {
	iter := &iteration{Loop: l, time: now}
	iter.ctx = context.WithValue(ctx, loopCtxKey{}, LoopControl(l))
	l.lock.Lock()
	iter.messages = l.messages.take()
	l.lock.Unlock()
	for i := range l.levels {
		iter.priorityLevel = i
		l.levels[i].run(iter)
	}
	for item := iter.messages.head; item != nil; item = item.next {
		glog.V(3).Infof("message not handled: %T", item.msg)
	}
}

type iteration struct {
	*Loop
	ctx           context.Context
	time          time.Time
	priorityLevel int
	messages      messageQueue
}

func (t *iteration) Context() context.Context { return t.ctx }
func (t *iteration) Time() time.Time          { return t.time }
func (t *iteration) PriorityLevel() int       { return t.priorityLevel }
func (t *iteration) Messages() MessageStore   { return t }

func (t *iteration) PostRun(hooks ...Controller) {
	t.PostRunAt(t.priorityLevel, hooks...)
}

type processing struct {
	msg   Message
	taken bool
	stop  bool
}

func (p *processing) CurrentMessage() Message { return p.msg }
func (p *processing) MessageTaken()           { p.taken = true }
func (p *processing) StopProcessing()         { p.stop = true }

// ProcessMessages implements MessageStore.
func (t *iteration) ProcessMessages(proc MessageProcessor) {
	items := t.messages.take()
	var remains messageQueue
	for item := items.head; item != nil; {
		next := item.next
		p := &processing{msg: item.msg}
		proc.ProcessMessage(p)
		if !p.taken {
			remains.push(item)
		}
		item = next
		if p.stop {
			for ; item != nil; item = next {
				next = item.next
				remains.push(item)
			}
		}
	}
	t.messages = remains
}

func (lv *level) run(iter *iteration) {
	for _, ctl := range lv.controllers {
		runController(iter, ctl)
	}
	lv.lock.Lock()
	hooks := lv.hooks
	lv.hooks = nil
	lv.lock.Unlock()
	for _, hook := range hooks {
		runController(iter, hook)
	}
}

func runController(iter *iteration, ctl Controller) {
	if err := ctl.Control(iter); err != nil {
		glog.Errorf("controller error: %v", err)
	}
}
