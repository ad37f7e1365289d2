package handlers

import (
	"net/http"
	"testing"

	"github.com/cliptide/backend/internal/engagement"
	"github.com/cliptide/backend/internal/models"
)

func TestToggleSubscriptionPairsToNoop(t *testing.T) {
	env := newTestEnv(t)
	channel, _ := env.seedPrincipal(t, "channel")
	_, tokens := env.seedPrincipal(t, "viewer")

	rec := env.do(t, http.MethodPost, "/api/v1/subscriptions/"+channel.ID, tokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	first := decodeBody[toggleResponse](t, rec)
	if !first.Active || first.Count != 1 {
		t.Fatalf("expected active with count 1, got %+v", first)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/subscriptions/"+channel.ID, tokens.AccessToken, nil)
	second := decodeBody[toggleResponse](t, rec)
	if second.Active || second.Count != 0 {
		t.Fatalf("expected inactive with count 0, got %+v", second)
	}
}

func TestSelfSubscriptionRejected(t *testing.T) {
	env := newTestEnv(t)
	channel, tokens := env.seedPrincipal(t, "channel")

	before := env.users.findByIDCalls
	rec := env.do(t, http.MethodPost, "/api/v1/subscriptions/"+channel.ID, tokens.AccessToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for self-subscription, got %d", rec.Code)
	}

	// The rejection must happen before the handler touches any store.
	if env.users.findByIDCalls != before {
		t.Fatal("self-subscription must not look up the channel")
	}
	if env.subscriptions.toggleCalls != 0 {
		t.Fatal("self-subscription must not reach the subscription store")
	}
}

func TestToggleSubscriptionUnknownChannel(t *testing.T) {
	env := newTestEnv(t)
	_, tokens := env.seedPrincipal(t, "viewer")

	rec := env.do(t, http.MethodPost, "/api/v1/subscriptions/no-such-channel", tokens.AccessToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestChannelProfileIsViewerRelative(t *testing.T) {
	env := newTestEnv(t)
	channel, _ := env.seedPrincipal(t, "channel")
	_, subscriber := env.seedPrincipal(t, "subscriber")

	env.do(t, http.MethodPost, "/api/v1/subscriptions/"+channel.ID, subscriber.AccessToken, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/channels/channel", subscriber.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	profile := decodeBody[engagement.ChannelProfile](t, rec)
	if profile.SubscriberCount != 1 || !profile.IsSubscribed {
		t.Fatalf("expected subscribed profile, got %+v", profile)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/channels/channel", "", nil)
	anonymous := decodeBody[engagement.ChannelProfile](t, rec)
	if anonymous.SubscriberCount != 1 || anonymous.IsSubscribed {
		t.Fatalf("anonymous viewer must see count without flag, got %+v", anonymous)
	}
}

func TestListSubscribersAndMine(t *testing.T) {
	env := newTestEnv(t)
	channel, _ := env.seedPrincipal(t, "channel")
	subscriber, tokens := env.seedPrincipal(t, "subscriber")

	env.do(t, http.MethodPost, "/api/v1/subscriptions/"+channel.ID, tokens.AccessToken, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/subscriptions/"+channel.ID+"/subscribers", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	subscribers := decodeBody[struct {
		Subscribers []models.Summary `json:"subscribers"`
	}](t, rec)
	if len(subscribers.Subscribers) != 1 || subscribers.Subscribers[0].ID != subscriber.ID {
		t.Fatalf("expected the one subscriber, got %+v", subscribers.Subscribers)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/subscriptions/mine", tokens.AccessToken, nil)
	mine := decodeBody[struct {
		Channels []models.Summary `json:"channels"`
	}](t, rec)
	if len(mine.Channels) != 1 || mine.Channels[0].ID != channel.ID {
		t.Fatalf("expected the one channel, got %+v", mine.Channels)
	}
}
