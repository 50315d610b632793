package notifications

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"guildapply/internal/observability"
)

const (
	colorAccepted = 0x10B981
	colorRejected = 0xEF4444
)

type webhookTarget struct {
	id    string
	token string
}

// ParseWebhookURL extracts the webhook id and token from a Discord webhook URL
// of the form https://discord.com/api/webhooks/<id>/<token>.
func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("parse webhook url: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if p == "webhooks" && i+2 < len(parts) {
			id, token = parts[i+1], parts[i+2]
			break
		}
	}
	if id == "" || token == "" {
		return "", "", fmt.Errorf("webhook url %q has no id/token", u.Redacted())
	}
	return id, token, nil
}

// WebhookNotifier posts review decisions to the accepted and denied Discord
// webhooks. A decision whose webhook is not configured is skipped.
type WebhookNotifier struct {
	session  *discordgo.Session
	accepted *webhookTarget
	denied   *webhookTarget
}

// NewWebhookNotifier builds a notifier from the two webhook URLs. Either URL
// may be empty. A nil httpClient keeps discordgo's default client.
func NewWebhookNotifier(acceptedURL, deniedURL string, httpClient *http.Client) (*WebhookNotifier, error) {
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	if httpClient != nil {
		s.Client = httpClient
	}
	s.MaxRestRetries = 1

	n := &WebhookNotifier{session: s}
	if acceptedURL != "" {
		id, token, err := ParseWebhookURL(acceptedURL)
		if err != nil {
			return nil, fmt.Errorf("accepted webhook: %w", err)
		}
		n.accepted = &webhookTarget{id: id, token: token}
	}
	if deniedURL != "" {
		id, token, err := ParseWebhookURL(deniedURL)
		if err != nil {
			return nil, fmt.Errorf("denied webhook: %w", err)
		}
		n.denied = &webhookTarget{id: id, token: token}
	}
	return n, nil
}

// Notify implements Notifier. Only accepted and rejected events are posted.
func (n *WebhookNotifier) Notify(ctx context.Context, event Event) error {
	var target *webhookTarget
	switch event.Kind {
	case EventAccepted:
		target = n.accepted
	case EventRejected:
		target = n.denied
	default:
		return nil
	}
	if target == nil {
		observability.NotificationsSent.WithLabelValues("webhook", "skipped").Inc()
		return nil
	}

	ctx, span := observability.StartDiscord(ctx, "webhooks/execute")
	defer span.End()

	_, err := n.session.WebhookExecute(target.id, target.token, false, WebhookMessage(event), discordgo.WithContext(ctx))
	if err != nil {
		observability.RecordError(span, err)
		observability.NotificationsSent.WithLabelValues("webhook", "error").Inc()
		return fmt.Errorf("execute %s webhook for application %s: %w", event.Kind, event.ApplicationID, err)
	}
	observability.NotificationsSent.WithLabelValues("webhook", "ok").Inc()
	return nil
}

// WebhookMessage renders the embed posted for a review decision.
func WebhookMessage(event Event) *discordgo.WebhookParams {
	status, username, avatar, color := "Rejected", "Denied Applications Bot",
		"https://placehold.co/128x128/EF4444/FFFFFF?text=%E2%9C%97", colorRejected
	if event.Kind == EventAccepted {
		status, username, avatar, color = "Accepted", "Accepted Applications Bot",
			"https://placehold.co/128x128/10B981/FFFFFF?text=%E2%9C%93", colorAccepted
	}

	reviewDate := "N/A"
	timestamp := ""
	if event.ReviewedAt != nil {
		reviewDate = event.ReviewedAt.UTC().Format("2006-01-02 15:04 MST")
		timestamp = event.ReviewedAt.UTC().Format(time.RFC3339)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Application " + status + "!",
		Description: fmt.Sprintf("**Applicant:** %s\n**Application Type:** %s\n**Status:** %s",
			event.ApplicantName, capitalize(event.ApplicationType), status),
		Color:     color,
		Timestamp: timestamp,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Discord ID", Value: event.ApplicantID, Inline: true},
			{Name: "Application ID", Value: event.ApplicationID, Inline: true},
			{Name: "Reviewed By", Value: fmt.Sprintf("%s (%s)", event.ReviewerName, event.ReviewerID), Inline: true},
			{Name: "Review Date", Value: reviewDate, Inline: true},
		},
	}
	if event.Reason != nil && *event.Reason != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Reason", Value: *event.Reason})
	}

	return &discordgo.WebhookParams{
		Username:  username,
		AvatarURL: avatar,
		Embeds:    []*discordgo.MessageEmbed{embed},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
