// Package notify delivers stock alerts and auto orders to a Slack incoming webhook.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"hotel-inventory-api/internal/export"
	"hotel-inventory-api/internal/models"
)

// Slack posts to an incoming webhook. With an empty URL it only logs.
type Slack struct {
	url string
	log *zap.Logger
}

func NewSlack(webhookURL string, log *zap.Logger) *Slack {
	if log == nil {
		log = zap.NewNop()
	}
	return &Slack{url: strings.TrimSpace(webhookURL), log: log}
}

func (s *Slack) Enabled() bool { return s.url != "" }

var severityIcon = map[models.Severity]string{
	models.SeverityHigh:   ":red_circle:",
	models.SeverityMedium: ":large_orange_circle:",
	models.SeverityLow:    ":large_blue_circle:",
}

func (s *Slack) NotifyAlerts(ctx context.Context, alerts []models.StockAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	lines := make([]string, 0, len(alerts))
	for _, a := range alerts {
		lines = append(lines, fmt.Sprintf("%s %s", severityIcon[a.Severity], a.Message))
		s.log.Info("stock alert",
			zap.String("alert_id", a.ID),
			zap.String("severity", string(a.Severity)),
			zap.String("message", a.Message),
		)
	}
	return s.post(ctx, fmt.Sprintf("Stok uyarıları (%d)", len(alerts)), lines)
}

func (s *Slack) NotifyOrders(ctx context.Context, orders []models.PurchaseOrder) error {
	if len(orders) == 0 {
		return nil
	}
	lines := make([]string, 0, len(orders))
	for _, o := range orders {
		lines = append(lines, fmt.Sprintf("*%s* × %d – %s (%s)\n_%s_",
			o.Category, o.Quantity, o.Supplier, export.Currency(o.EstimatedCost), o.Notes))
		s.log.Info("auto order created",
			zap.String("order_id", o.ID),
			zap.String("category", o.Category),
			zap.Int("quantity", o.Quantity),
		)
	}
	return s.post(ctx, fmt.Sprintf("Onay bekleyen otomatik siparişler (%d)", len(orders)), lines)
}

func (s *Slack) post(ctx context.Context, title string, lines []string) error {
	if !s.Enabled() {
		return nil
	}
	msg := &slack.WebhookMessage{
		Text: title,
		Blocks: &slack.Blocks{BlockSet: []slack.Block{
			slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, false, false)),
			slack.NewDividerBlock(),
			slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, strings.Join(lines, "\n"), false, false), nil, nil),
		}},
	}
	if err := slack.PostWebhookContext(ctx, s.url, msg); err != nil {
		return fmt.Errorf("post slack webhook: %w", err)
	}
	return nil
}
