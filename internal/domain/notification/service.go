package notification

// Notifier delivers messages in the background. The returned channel yields
// exactly one result and may be ignored.
type Notifier interface {
	Notify(msg Message) <-chan error
}

// Broadcaster pushes an event to every connected observer in the background.
type Broadcaster interface {
	Broadcast(event string, payload interface{}) <-chan error
}
