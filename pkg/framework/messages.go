package framework

// Take removes the messages of type T from the iteration and passes them
// to fn in posting order. Errors are aggregated.
func Take[T Message](cc ControlContext, fn func(T) error) error {
	var errs AggregatedError
	cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
		if msg, ok := mc.CurrentMessage().(T); ok {
			mc.MessageTaken()
			errs.Add(fn(msg))
		}
	}))
	return errs.Aggregate()
}
