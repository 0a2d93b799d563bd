// Package notify posts proposal workflow events to the team's Slack and
// Discord webhooks. Delivery is best-effort: failures are returned for
// logging but never block the originating operation.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/proposalhub-dev/proposalhub/internal/models"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username  string         `json:"username"`
	AvatarURL string         `json:"avatar_url,omitempty"`
	Embeds    []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorBlue   = 3447003  // #3498DB - Proposal submitted
	ColorGreen  = 65280    // #00FF00 - Proposal approved
	ColorRed    = 16711680 // #FF0000 - Proposal rejected
	ColorOrange = 16753920 // #FFA500 - Revision requested / reminder

	Username = "ProposalHub"
)

// Notifier holds the team webhook targets. Empty URLs disable the channel.
type Notifier struct {
	slackURL   string
	discordURL string
}

func NewNotifier() *Notifier {
	return &Notifier{
		slackURL:   os.Getenv("SLACK_WEBHOOK_URL"),
		discordURL: os.Getenv("DISCORD_WEBHOOK_URL"),
	}
}

// ProposalSubmitted announces a proposal entering the review queue.
func (n *Notifier) ProposalSubmitted(proposal *models.Proposal, owner string) error {
	if n.discordURL != "" {
		payload := DiscordWebhookRequest{
			Username: Username,
			Embeds: []DiscordEmbed{
				{
					Title:       "📥 **PROPOSAL SUBMITTED**",
					Description: fmt.Sprintf("**%s** is waiting for review.", proposal.Title),
					Color:       ColorBlue,
					Fields: []DiscordWebhookField{
						{Name: "📝 Proposal", Value: proposal.Title, Inline: true},
						{Name: "👤 Business Developer", Value: owner, Inline: true},
						{Name: "🔢 Version", Value: fmt.Sprintf("v%d", proposal.CurrentVersion), Inline: true},
					},
					Footer:    &DiscordFooter{Text: "ProposalHub review queue"},
					Timestamp: time.Now().Format(time.RFC3339),
				},
			},
		}

		if err := sendDiscordWebhook(n.discordURL, payload); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if n.slackURL != "" {
		payload := SlackWebhookRequest{
			Username:  Username,
			IconEmoji: ":inbox_tray:",
			Text:      ":inbox_tray: *PROPOSAL SUBMITTED*",
			Attachments: []SlackAttachment{
				{
					Color: "#3498DB",
					Title: fmt.Sprintf("'%s' is waiting for review", proposal.Title),
					Text:  proposal.ProjectDescription,
					Fields: []SlackField{
						{Title: "Business Developer", Value: owner, Short: true},
						{Title: "Version", Value: fmt.Sprintf("v%d", proposal.CurrentVersion), Short: true},
					},
					Footer:    "ProposalHub review queue",
					Timestamp: time.Now().Unix(),
				},
			},
		}

		if err := sendSlackWebhook(n.slackURL, payload); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

// ReviewDecision announces an admin decision on a proposal.
func (n *Notifier) ReviewDecision(proposal *models.Proposal, review *models.Review, reviewer string) error {
	title, color, slackColor, emoji := decisionStyle(review.Status)

	if n.discordURL != "" {
		payload := DiscordWebhookRequest{
			Username: Username,
			Embeds: []DiscordEmbed{
				{
					Title:       title,
					Description: fmt.Sprintf("**%s** was reviewed.", proposal.Title),
					Color:       color,
					Fields: []DiscordWebhookField{
						{Name: "📝 Proposal", Value: proposal.Title, Inline: true},
						{Name: "👤 Reviewer", Value: reviewer, Inline: true},
						{Name: "🏷️ Decision", Value: "**" + string(review.Status) + "**", Inline: true},
						{Name: "💬 Comments", Value: review.Comments, Inline: false},
					},
					Footer:    &DiscordFooter{Text: "ProposalHub review queue"},
					Timestamp: time.Now().Format(time.RFC3339),
				},
			},
		}

		if err := sendDiscordWebhook(n.discordURL, payload); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if n.slackURL != "" {
		payload := SlackWebhookRequest{
			Username:  Username,
			IconEmoji: emoji,
			Text:      fmt.Sprintf("%s *PROPOSAL %s*", emoji, review.Status),
			Attachments: []SlackAttachment{
				{
					Color: slackColor,
					Title: fmt.Sprintf("'%s' was reviewed by %s", proposal.Title, reviewer),
					Text:  review.Comments,
					Fields: []SlackField{
						{Title: "Decision", Value: string(review.Status), Short: true},
						{Title: "Version", Value: fmt.Sprintf("v%d", proposal.CurrentVersion), Short: true},
					},
					Footer:    "ProposalHub review queue",
					Timestamp: time.Now().Unix(),
				},
			},
		}

		if err := sendSlackWebhook(n.slackURL, payload); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

// ReviewReminder nudges admins about proposals sitting in the review queue.
func (n *Notifier) ReviewReminder(pending []models.Proposal, threshold time.Duration) error {
	if len(pending) == 0 {
		return nil
	}

	text := fmt.Sprintf("%d proposal(s) have been waiting for review longer than %s.", len(pending), threshold)

	if n.discordURL != "" {
		fields := make([]DiscordWebhookField, 0, len(pending))
		for _, proposal := range pending {
			fields = append(fields, DiscordWebhookField{
				Name:   proposal.Title,
				Value:  fmt.Sprintf("submitted %s", proposal.UpdatedAt.Format("2006-01-02 15:04 UTC")),
				Inline: false,
			})
		}

		payload := DiscordWebhookRequest{
			Username: Username,
			Embeds: []DiscordEmbed{
				{
					Title:       "⏰ **REVIEW REMINDER**",
					Description: text,
					Color:       ColorOrange,
					Fields:      fields,
					Footer:      &DiscordFooter{Text: "ProposalHub review queue"},
					Timestamp:   time.Now().Format(time.RFC3339),
				},
			},
		}

		if err := sendDiscordWebhook(n.discordURL, payload); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if n.slackURL != "" {
		fields := make([]SlackField, 0, len(pending))
		for _, proposal := range pending {
			fields = append(fields, SlackField{
				Title: proposal.Title,
				Value: fmt.Sprintf("submitted %s", proposal.UpdatedAt.Format("2006-01-02 15:04 UTC")),
				Short: false,
			})
		}

		payload := SlackWebhookRequest{
			Username:  Username,
			IconEmoji: ":alarm_clock:",
			Text:      ":alarm_clock: *REVIEW REMINDER*",
			Attachments: []SlackAttachment{
				{
					Color:     "warning",
					Title:     "Proposals waiting for review",
					Text:      text,
					Fields:    fields,
					Footer:    "ProposalHub review queue",
					Timestamp: time.Now().Unix(),
				},
			},
		}

		if err := sendSlackWebhook(n.slackURL, payload); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func decisionStyle(status models.ProposalStatus) (title string, color int, slackColor, emoji string) {
	switch status {
	case models.StatusApproved:
		return "✅ **PROPOSAL APPROVED**", ColorGreen, "good", ":white_check_mark:"
	case models.StatusRejected:
		return "❌ **PROPOSAL REJECTED**", ColorRed, "danger", ":x:"
	default:
		return "🔄 **REVISION REQUESTED**", ColorOrange, "warning", ":arrows_counterclockwise:"
	}
}

func sendDiscordWebhook(webhookURL string, payload DiscordWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Discord payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Discord webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func sendSlackWebhook(webhookURL string, payload SlackWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}
