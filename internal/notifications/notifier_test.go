package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildapply/internal/cache"
	"guildapply/internal/testutil"
)

func reviewedEvent(kind EventKind, reason *string) Event {
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return Event{
		Kind:            kind,
		ApplicationID:   "0195a1b2-0000-7000-8000-000000000001",
		ApplicationType: "moderator",
		ApplicantID:     "1001",
		ApplicantName:   "applicant",
		ReviewerID:      "2002",
		ReviewerName:    "reviewer",
		ReviewedAt:      &at,
		Reason:          reason,
	}
}

func TestParseWebhookURL(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantID    string
		wantToken string
		wantErr   bool
	}{
		{name: "canonical", raw: "https://discord.com/api/webhooks/123/abc-token", wantID: "123", wantToken: "abc-token"},
		{name: "versioned", raw: "https://discord.com/api/v10/webhooks/456/tok", wantID: "456", wantToken: "tok"},
		{name: "trailing slash", raw: "https://discord.com/api/webhooks/789/tok/", wantID: "789", wantToken: "tok"},
		{name: "missing token", raw: "https://discord.com/api/webhooks/123", wantErr: true},
		{name: "not a webhook", raw: "https://example.com/hooks", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, token, err := ParseWebhookURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestWebhookMessage(t *testing.T) {
	reason := "Great answers"

	accepted := WebhookMessage(reviewedEvent(EventAccepted, &reason))
	require.Len(t, accepted.Embeds, 1)
	embed := accepted.Embeds[0]
	assert.Equal(t, "Accepted Applications Bot", accepted.Username)
	assert.Equal(t, "Application Accepted!", embed.Title)
	assert.Equal(t, colorAccepted, embed.Color)
	assert.Contains(t, embed.Description, "**Application Type:** Moderator")
	assert.Equal(t, "2025-03-14T09:30:00Z", embed.Timestamp)
	require.Len(t, embed.Fields, 5)
	assert.Equal(t, "reviewer (2002)", embed.Fields[2].Value)
	assert.Equal(t, "Reason", embed.Fields[4].Name)
	assert.Equal(t, reason, embed.Fields[4].Value)

	rejected := WebhookMessage(reviewedEvent(EventRejected, nil))
	assert.Equal(t, "Denied Applications Bot", rejected.Username)
	assert.Equal(t, "Application Rejected!", rejected.Embeds[0].Title)
	assert.Equal(t, colorRejected, rejected.Embeds[0].Color)
	assert.Len(t, rejected.Embeds[0].Fields, 4)
}

func TestWebhookNotifier_RoutesByDecision(t *testing.T) {
	var mu sync.Mutex
	hits := map[string]discordgo.WebhookParams{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v9/webhooks/", func(w http.ResponseWriter, r *http.Request) {
		var params discordgo.WebhookParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		mu.Lock()
		hits[r.URL.Path] = params
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	client := testutil.RedirectedClient(t, mux)

	n, err := NewWebhookNotifier(
		"https://discord.com/api/webhooks/111/accept-token",
		"https://discord.com/api/webhooks/222/deny-token",
		client,
	)
	require.NoError(t, err)

	require.NoError(t, n.Notify(context.Background(), reviewedEvent(EventAccepted, nil)))
	require.NoError(t, n.Notify(context.Background(), reviewedEvent(EventRejected, nil)))
	require.NoError(t, n.Notify(context.Background(), Event{Kind: "application.withdrawn"}))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, hits, 2)
	assert.Equal(t, "Accepted Applications Bot", hits["/api/v9/webhooks/111/accept-token"].Username)
	assert.Equal(t, "Denied Applications Bot", hits["/api/v9/webhooks/222/deny-token"].Username)
}

func TestWebhookNotifier_SkipsUnconfigured(t *testing.T) {
	var calls int32
	client := testutil.RedirectedClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNoContent)
	}))

	n, err := NewWebhookNotifier("", "", client)
	require.NoError(t, err)

	assert.NoError(t, n.Notify(context.Background(), reviewedEvent(EventAccepted, nil)))
	assert.NoError(t, n.Notify(context.Background(), reviewedEvent(EventRejected, nil)))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestWebhookNotifier_ReportsFailure(t *testing.T) {
	client := testutil.RedirectedClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Unknown Webhook","code":10015}`))
	}))

	n, err := NewWebhookNotifier("https://discord.com/api/webhooks/1/gone", "", client)
	require.NoError(t, err)

	err = n.Notify(context.Background(), reviewedEvent(EventAccepted, nil))
	assert.Error(t, err)
}

func TestNewWebhookNotifier_RejectsMalformedURL(t *testing.T) {
	_, err := NewWebhookNotifier("https://discord.com/not-a-hook", "", nil)
	assert.Error(t, err)
}

type recordingNotifier struct {
	events []Event
	err    error
}

func (r *recordingNotifier) Notify(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func TestMulti_FansOutAndJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	a := &recordingNotifier{}
	b := &recordingNotifier{err: boom}

	err := Multi{a, nil, b, Nop{}}.Notify(context.Background(), reviewedEvent(EventAccepted, nil))
	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestRedisPublisher_NilClientIsNoop(t *testing.T) {
	p := NewRedisPublisher(nil)
	assert.NoError(t, p.Notify(context.Background(), reviewedEvent(EventAccepted, nil)))
	assert.NoError(t, p.Subscribe(context.Background(), func(Event) {}))
}

func TestRedisPublisher_PublishAndSubscribe(t *testing.T) {
	rdb, _ := testutil.NewRedis(t)
	p := NewRedisPublisher(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Event, 1)
	require.NoError(t, p.Subscribe(ctx, func(e Event) { received <- e }))

	reason := "welcome aboard"
	require.NoError(t, p.Notify(context.Background(), reviewedEvent(EventAccepted, &reason)))

	select {
	case e := <-received:
		assert.Equal(t, EventAccepted, e.Kind)
		assert.Equal(t, "1001", e.ApplicantID)
		require.NotNil(t, e.Reason)
		assert.Equal(t, reason, *e.Reason)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestRedisPublisher_SubscriberSurvivesPanics(t *testing.T) {
	rdb, _ := testutil.NewRedis(t)
	p := NewRedisPublisher(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen int32
	require.NoError(t, p.Subscribe(ctx, func(Event) {
		if atomic.AddInt32(&seen, 1) == 1 {
			panic("handler failure")
		}
	}))

	require.NoError(t, rdb.Publish(context.Background(), cache.ApplicationEventsChannel, "not json").Err())
	require.NoError(t, p.Notify(context.Background(), reviewedEvent(EventAccepted, nil)))
	require.NoError(t, p.Notify(context.Background(), reviewedEvent(EventRejected, nil)))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&seen) == 2
	}, time.Second, 10*time.Millisecond)
}
