package payloads

// EventKind тип события, порождающего уведомление
type EventKind string

const (
	EventCollect EventKind = "collect"
	EventFollow  EventKind = "follow"
)

// NotificationEvent данные события, передаваемые через RabbitMQ.
// PhotoID заполнен только для EventCollect
type NotificationEvent struct {
	Kind       EventKind `json:"kind"`
	ActorID    int64     `json:"actor_id"`
	ReceiverID int64     `json:"receiver_id"`
	PhotoID    int64     `json:"photo_id,omitempty"`
}
