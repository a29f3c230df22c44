package notification

// Event names pushed to stream observers
const (
	EventVisitorAdded         = "visitor_added"
	EventVisitorStatusUpdated = "visitor_status_updated"
)

// Message is an outbound notification to a single address
type Message struct {
	To      string
	Subject string
	Body    string
}
