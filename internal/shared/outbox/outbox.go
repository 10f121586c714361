package outbox

// Outbox row persisted inside the same repository write as the state change.
// The worker relay reads pending rows and publishes them to the event bus.
type Message struct {
	ID         string
	EventType  string
	Payload    []byte
	Status     string // StatusPending or StatusSent
	RetryCount int
}

// Delivery states shared by every outbox-backed adapter.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
)
