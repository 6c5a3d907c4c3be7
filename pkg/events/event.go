package events

import "time"

const (
	// TypeCoachMessage carries an outbound coaching message to the messaging gateway.
	TypeCoachMessage = "COACH_MESSAGE"
	// TypeMealLogged is raised after any meal record is written.
	TypeMealLogged = "MEAL_LOGGED"

	// OriginCoach marks events this service published itself.
	OriginCoach = "nutricoach-be"
)

type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewCoachMessage builds the event the messaging gateway turns into a chat message.
func NewCoachMessage(externalUserID, category, title, body string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeCoachMessage,
		Data: map[string]interface{}{
			"external_user_id": externalUserID,
			"category":         category,
			"title":            title,
			"body":             body,
			"sent_at":          at.UTC().Format(time.RFC3339),
		},
		OccurredAt: at,
	}
}

func NewMealLogged(memberID, source string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeMealLogged,
		Data: map[string]interface{}{
			"member_id": memberID,
			"source":    source,
			"logged_at": at.UTC().Format(time.RFC3339),
			"origin":    OriginCoach,
		},
		OccurredAt: at,
	}
}

// StringField reads a string entry from a payload, returning "" when absent.
func StringField(e Event, key string) string {
	if v, ok := e.Payload()[key].(string); ok {
		return v
	}
	return ""
}
