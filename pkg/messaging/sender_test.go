package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nutricoach-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	events []events.Event
	err    error
}

func (p *capturePublisher) Publish(ctx context.Context, event events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func TestNatsSender_Send(t *testing.T) {
	pub := &capturePublisher{}
	s := NewNatsSender(pub)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC) }

	err := s.Send(context.Background(), "U123", Message{Category: "morning", Title: "Good morning", Body: "Breakfast?"})
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, events.TypeCoachMessage, ev.EventType())
	assert.Equal(t, "U123", events.StringField(ev, "external_user_id"))
	assert.Equal(t, "Breakfast?", events.StringField(ev, "body"))
	assert.Equal(t, "2026-03-01T01:00:00Z", events.StringField(ev, "sent_at"))
}

func TestNatsSender_PublishError(t *testing.T) {
	s := NewNatsSender(&capturePublisher{err: errors.New("no responders")})
	err := s.Send(context.Background(), "U1", Message{})
	assert.ErrorContains(t, err, "no responders")
}

func TestWebhookSender(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"accepted", http.StatusOK, false},
		{"created", http.StatusCreated, false},
		{"rejected", http.StatusBadRequest, true},
		{"server error", http.StatusBadGateway, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got webhookPayload
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			s := NewWebhookSender(srv.URL, "tok", time.Second)
			err := s.Send(context.Background(), "U9", Message{Category: "water", Body: "Drink up"})
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrRejected)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, "U9", got.To)
			assert.Equal(t, "Drink up", got.Message.Body)
		})
	}
}
