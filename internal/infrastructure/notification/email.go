package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ningscard/backend/internal/domain/order"
	"github.com/ningscard/backend/internal/infrastructure/config"
)

const resendEndpoint = "https://api.resend.com/emails"

// EmailNotifier sends the merchant a summary email for each accepted
// submission through the Resend HTTP API
type EmailNotifier struct {
	cfg        config.NotificationConfig
	endpoint   string
	httpClient *http.Client
}

// NewEmailNotifier creates a new EmailNotifier
func NewEmailNotifier(cfg config.NotificationConfig) *EmailNotifier {
	return &EmailNotifier{
		cfg:      cfg,
		endpoint: resendEndpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type emailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// OrderSubmitted emails the merchant the lines an accepted submission touched
func (n *EmailNotifier) OrderSubmitted(ctx context.Context, customerRef string, lines []order.OrderLine) error {
	if !n.cfg.Enabled {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "New submission from %s\n\n", customerRef)
	for _, line := range lines {
		fmt.Fprintf(&sb, "%s", line.Item)
		if line.CardNo != "" {
			fmt.Fprintf(&sb, " #%s", line.CardNo)
		}
		fmt.Fprintf(&sb, "  x%d  unit %s  total %s\n",
			line.Quantity, line.UnitPrice.String(), line.TotalFee.String())
	}

	payload := emailPayload{
		From:    n.cfg.FromEmail,
		To:      []string{n.cfg.ToEmail},
		Subject: fmt.Sprintf("Order submission: %s", customerRef),
		Text:    sb.String(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode notification email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification email rejected with status %d", resp.StatusCode)
	}
	return nil
}
