package notification

// Channel is the stream user-facing notification events are published to.
const Channel = "bank.notifications"

// Severity labels how urgent a notification is for the recipient.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
)

// Event is one notification on its way through the delivery pipeline. The
// recipient doubles as the ordering key: events for one recipient are
// delivered in publish order.
type Event struct {
	Recipient string   `json:"recipient"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
}
