package billing

import "encoding/json"

const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

type EventData struct {
	Object json.RawMessage `json:"object"`
}

type CheckoutSession struct {
	ID           string            `json:"id"`
	URL          string            `json:"url,omitempty"`
	Customer     string            `json:"customer"`
	Subscription string            `json:"subscription"`
	Metadata     map[string]string `json:"metadata"`
}

type Subscription struct {
	ID string `json:"id"`
}

func ParseEvent(payload []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (e *Event) CheckoutSession() (*CheckoutSession, error) {
	var session CheckoutSession
	if err := json.Unmarshal(e.Data.Object, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (e *Event) Subscription() (*Subscription, error) {
	var sub Subscription
	if err := json.Unmarshal(e.Data.Object, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
