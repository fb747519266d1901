package framework

import (
	"context"
	"time"
)

// Named is implemented by runnables reporting a name in logs.
type Named interface {
	Name() string
}

// Runnable is a background task stopped by canceling its context.
type Runnable interface {
	Run(context.Context) error
}

// Message is posted from link and broker goroutines and consumed by
// controllers in the loop, e.g. a received frame or an MQTT set command.
type Message interface{}

// Controller is called once per loop iteration at its priority level.
type Controller interface {
	Control(ControlContext) error
}

// ControlContext is the state of the current loop iteration.
type ControlContext interface {
	// Context is the context the loop runs with.
	Context() context.Context
	// Time is when the iteration started.
	Time() time.Time
	// PriorityLevel is the level of the running controller.
	PriorityLevel() int
	// Messages are the messages pending when the iteration started plus
	// the ones added by controllers of this iteration.
	Messages() MessageStore
	// PostRun adds one-shot hooks run after the controllers of the
	// current level. Hooks added from a hook run in the next iteration.
	PostRun(hooks ...Controller)

	LoopControl
}

// PriorityLevels is the number of priority levels.
const PriorityLevels int = 8

// Priority levels of the controllers, lower runs first.
const (
	// PrLvDispatch executes frames and commands received from links.
	PrLvDispatch int = 2
	// PrLvLights advances the light animations and projector timers.
	PrLvLights int = 4
	// PrLvStatus reports state changes to keypads and the broker.
	PrLvStatus int = PriorityLevels - 2
)

// LoopControl is safe to use from any goroutine.
type LoopControl interface {
	// PostRunAt adds one-shot hooks run after the controllers of
	// priorityLevel.
	PostRunAt(priorityLevel int, hooks ...Controller)
	// PostMessage enqueues msg for the next iteration.
	PostMessage(msg Message)
	// TriggerNext starts the next iteration without waiting for the
	// ticker.
	TriggerNext()
	// Post enqueues msgs and triggers the next iteration.
	Post(msgs ...Message)
}

// MessageStore holds the messages of an iteration.
type MessageStore interface {
	// ProcessMessages passes every message to proc in posting order.
	ProcessMessages(proc MessageProcessor)
}

// MessageProcessor is used by MessageStore to process messages.
type MessageProcessor interface {
	ProcessMessage(MessageProcessingContext)
}

// ProcessMessageFunc is the func form of MessageProcessor.
type ProcessMessageFunc func(MessageProcessingContext)

// ProcessMessage implements MessageProcessor.
func (f ProcessMessageFunc) ProcessMessage(mc MessageProcessingContext) {
	f(mc)
}

// MessageProcessingContext provides the message being processed.
type MessageProcessingContext interface {
	CurrentMessage() Message
	// MessageTaken removes the message from the store.
	MessageTaken()
	// StopProcessing skips the remaining messages.
	StopProcessing()
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// RunnableFunc is the func form of Runnable.
type RunnableFunc func(context.Context) error

// Run implements Runnable.
func (f RunnableFunc) Run(ctx context.Context) error {
	return f(ctx)
}
