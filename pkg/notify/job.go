package notify

// Event identifies the kind of notification to deliver.
const (
	EventFriendRequest  = "friend_request"
	EventFriendAccepted = "friend_accepted"
)

// Job is the JSON payload put on the RabbitMQ queue for the notify worker.
// Recipient fields are resolved at publish time so the worker needs no
// database access.
type Job struct {
	Event         string `json:"event"`
	RecipientID   string `json:"recipient_id"`
	RecipientName string `json:"recipient_name"`
	Email         string `json:"email"`
	ActorName     string `json:"actor_name"`
}
