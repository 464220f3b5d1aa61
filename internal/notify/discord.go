// Package notify mirrors feedback events to a Discord channel via webhook.
// Delivery is best-effort: failures are logged and counted, never retried,
// and never surface to the request that triggered them.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"coachhub/internal/middleware"
)

// Event kinds mirrored to the channel. Votes deliberately do not notify.
const (
	EventReportCreated   = "report_created"
	EventStatusChanged   = "status_changed"
	EventPriorityChanged = "priority_changed"
	EventCommentAdded    = "comment_added"
)

// Embed colors per event kind (Discord decimal RGB).
const (
	colorBug     = 0xE74C3C
	colorFeature = 0x3498DB
	colorChange  = 0xE67E22
	colorComment = 0x95A5A6
)

// Event describes one feedback happening worth mirroring.
type Event struct {
	Kind         string
	ReportNumber string
	ReportType   string
	Title        string
	Description  string
	ActorName    string
	OldValue     string
	NewValue     string
	OccurredAt   time.Time
}

// Notifier delivers events to a side channel. Implementations must never
// block the caller on delivery.
type Notifier interface {
	Notify(event Event)
}

// embedField is a single name/value pair inside a Discord embed.
type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields,omitempty"`
	Timestamp   string       `json:"timestamp"`
}

type webhookPayload struct {
	Content string  `json:"content"`
	Embeds  []embed `json:"embeds"`
}

// DiscordNotifier posts webhook payloads to a configured Discord channel.
type DiscordNotifier struct {
	webhookURL string
	pingUserID string
	client     *http.Client
}

// NewDiscordNotifier creates a notifier for the given webhook URL. An empty
// URL disables delivery entirely.
func NewDiscordNotifier(webhookURL, pingUserID string) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		pingUserID: pingUserID,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify fires the delivery on a detached goroutine and returns immediately.
func (n *DiscordNotifier) Notify(event Event) {
	if n == nil || n.webhookURL == "" {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				middleware.Logger.Error("panic in webhook notifier",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()
		n.deliver(event)
	}()
}

func (n *DiscordNotifier) deliver(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	body, err := json.Marshal(n.buildPayload(event))
	if err != nil {
		n.logFailure(event, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		n.logFailure(event, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logFailure(event, err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logFailure(event, fmt.Errorf("webhook returned status %d", resp.StatusCode))
	}
}

func (n *DiscordNotifier) logFailure(event Event, err error) {
	middleware.NotificationFailures.Inc()
	middleware.Logger.Warn("webhook notification failed",
		slog.String("kind", event.Kind),
		slog.String("report_number", event.ReportNumber),
		slog.String("error", err.Error()),
	)
}

func (n *DiscordNotifier) buildPayload(event Event) webhookPayload {
	ts := event.OccurredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	var content string
	var e embed

	switch event.Kind {
	case EventReportCreated:
		color := colorFeature
		label := "Feature request"
		if event.ReportType == "bug" {
			color = colorBug
			label = "Bug report"
		}
		if n.pingUserID != "" {
			content = fmt.Sprintf("<@%s> new %s", n.pingUserID, event.ReportNumber)
		}
		e = embed{
			Title:       fmt.Sprintf("%s %s: %s", label, event.ReportNumber, event.Title),
			Description: truncate(event.Description, 500),
			Color:       color,
			Fields: []embedField{
				{Name: "Submitted by", Value: orDash(event.ActorName), Inline: true},
				{Name: "Type", Value: event.ReportType, Inline: true},
			},
		}
	case EventStatusChanged:
		e = embed{
			Title: fmt.Sprintf("%s status changed", event.ReportNumber),
			Color: colorChange,
			Fields: []embedField{
				{Name: "From", Value: event.OldValue, Inline: true},
				{Name: "To", Value: event.NewValue, Inline: true},
				{Name: "Changed by", Value: orDash(event.ActorName), Inline: true},
			},
		}
	case EventPriorityChanged:
		e = embed{
			Title: fmt.Sprintf("%s priority changed", event.ReportNumber),
			Color: colorChange,
			Fields: []embedField{
				{Name: "From", Value: event.OldValue, Inline: true},
				{Name: "To", Value: event.NewValue, Inline: true},
				{Name: "Changed by", Value: orDash(event.ActorName), Inline: true},
			},
		}
	case EventCommentAdded:
		e = embed{
			Title:       fmt.Sprintf("New comment on %s", event.ReportNumber),
			Description: truncate(event.Description, 500),
			Color:       colorComment,
			Fields: []embedField{
				{Name: "Author", Value: orDash(event.ActorName), Inline: true},
			},
		}
	default:
		e = embed{Title: fmt.Sprintf("%s: %s", event.ReportNumber, event.Kind), Color: colorComment}
	}

	e.Timestamp = ts.Format(time.RFC3339)
	return webhookPayload{Content: content, Embeds: []embed{e}}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func orDash(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
