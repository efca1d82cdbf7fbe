package pubsub

import (
	"encoding/json"
	"time"

	"blogsphere/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Attribute keys set on every blog event message.
const (
	AttrEventType = "event_type"
	AttrBlogID    = "blog_id"
	AttrAuthorID  = "author_id"
	AttrRequestID = "request_id"
)

// PushMessage is the message part of a push request.
type PushMessage struct {
	// Data is the encoded BlogEvent. encoding/json carries it as base64.
	Data        []byte            `json:"data"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	MessageID   string            `json:"messageId"`
	PublishTime string            `json:"publishTime"`
}

// PushEnvelope is the JSON body a push subscription POSTs to its endpoint.
type PushEnvelope struct {
	Message      PushMessage `json:"message"`
	Subscription string      `json:"subscription"`
}

// NewPushEnvelope wraps event the way Pub/Sub would deliver it to subscription.
func NewPushEnvelope(event *service.BlogEvent, subscription string) (*PushEnvelope, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &PushEnvelope{
		Message: PushMessage{
			Data:        data,
			Attributes:  eventAttributes(event),
			MessageID:   uuid.NewString(),
			PublishTime: time.Now().UTC().Format(time.RFC3339),
		},
		Subscription: subscription,
	}, nil
}

// BlogEvent decodes the event carried by the envelope.
func (e *PushEnvelope) BlogEvent() (*service.BlogEvent, error) {
	var event service.BlogEvent
	if err := json.Unmarshal(e.Message.Data, &event); err != nil {
		return nil, errors.Wrap(err, "failed to decode blog event")
	}

	return &event, nil
}

// RequestID returns the request_id attribute, or "".
func (e *PushEnvelope) RequestID() string {
	return e.Message.Attributes[AttrRequestID]
}

// eventAttributes lets subscriptions filter on event type and carries the request
// ID across the hop.
func eventAttributes(event *service.BlogEvent) map[string]string {
	attrs := map[string]string{
		AttrEventType: event.Type,
		AttrBlogID:    event.BlogID,
		AttrAuthorID:  event.AuthorID,
	}
	if event.RequestID != "" {
		attrs[AttrRequestID] = event.RequestID
	}

	return attrs
}
