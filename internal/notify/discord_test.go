package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscordNotifier_DeliversReportCreated(t *testing.T) {
	received := make(chan webhookPayload, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var p webhookPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		received <- p
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	n := NewDiscordNotifier(ts.URL, "424242")
	n.deliver(Event{
		Kind:         EventReportCreated,
		ReportNumber: "BUG-0007",
		ReportType:   "bug",
		Title:        "Crash on save",
		Description:  "The app crashes",
		ActorName:    "Dana Reyes",
		OccurredAt:   time.Now().UTC(),
	})

	p := <-received
	assert.Contains(t, p.Content, "<@424242>")
	assert.Contains(t, p.Content, "BUG-0007")
	require.Len(t, p.Embeds, 1)
	assert.Contains(t, p.Embeds[0].Title, "BUG-0007")
	assert.Equal(t, colorBug, p.Embeds[0].Color)
}

func TestDiscordNotifier_StatusChangeFields(t *testing.T) {
	received := make(chan webhookPayload, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p webhookPayload
		_ = json.NewDecoder(r.Body).Decode(&p)
		received <- p
	}))
	defer ts.Close()

	n := NewDiscordNotifier(ts.URL, "")
	n.deliver(Event{
		Kind:         EventStatusChanged,
		ReportNumber: "FEAT-0002",
		OldValue:     "open",
		NewValue:     "in_progress",
		ActorName:    "Sam Ortiz",
	})

	p := <-received
	assert.Empty(t, p.Content, "pings only fire on creation")
	require.Len(t, p.Embeds, 1)
	fields := p.Embeds[0].Fields
	require.Len(t, fields, 3)
	assert.Equal(t, "open", fields[0].Value)
	assert.Equal(t, "in_progress", fields[1].Value)
	assert.Equal(t, "Sam Ortiz", fields[2].Value)
}

func TestDiscordNotifier_EmptyURLDisablesDelivery(t *testing.T) {
	n := NewDiscordNotifier("", "")
	// Must return without any network activity and without panicking.
	n.Notify(Event{Kind: EventReportCreated, ReportNumber: "BUG-0001"})
}

func TestDiscordNotifier_NotifyNeverBlocks(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	n := NewDiscordNotifier(ts.URL, "")

	done := make(chan struct{})
	go func() {
		n.Notify(Event{Kind: EventCommentAdded, ReportNumber: "BUG-0001"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a slow webhook endpoint")
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}
	got := truncate(string(long), 500)
	assert.Len(t, got, 503)
	assert.Equal(t, "...", got[500:])
}
