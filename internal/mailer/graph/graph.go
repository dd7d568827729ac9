package graph

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/mailer"
)

const defaultScope = "https://graph.microsoft.com/.default"

// Client talks to Microsoft Graph with application (client credential)
// permissions. It backs both the Mailer and the usage-report fetcher.
type Client struct {
	http   *resty.Client
	login  *resty.Client
	cfg    internal.GraphConfig
	sender string
	logger *slog.Logger

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func NewClient(cfg internal.GraphConfig, senderEmail string, logger *slog.Logger) *Client {
	return &Client{
		http:   resty.New().SetBaseURL(cfg.BaseURL).SetTimeout(30 * time.Second),
		login:  resty.New().SetBaseURL(cfg.LoginURL).SetTimeout(15 * time.Second),
		cfg:    cfg,
		sender: senderEmail,
		logger: logger,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.expiresAt) {
		return c.accessToken, nil
	}

	var tok tokenResponse
	resp, err := c.login.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id":     c.cfg.ClientID,
			"client_secret": c.cfg.ClientSecret,
			"scope":         defaultScope,
			"grant_type":    "client_credentials",
		}).
		SetResult(&tok).
		Post(fmt.Sprintf("/%s/oauth2/v2.0/token", c.cfg.TenantID))
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("token request failed: %s", resp.Status())
	}

	c.accessToken = tok.AccessToken
	// refresh a minute early
	c.expiresAt = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}

type emailAddress struct {
	Address string `json:"address"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type messageBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphMessage struct {
	Subject      string      `json:"subject"`
	Body         messageBody `json:"body"`
	ToRecipients []recipient `json:"toRecipients"`
	CCRecipients []recipient `json:"ccRecipients,omitempty"`
}

type sendMailRequest struct {
	Message graphMessage `json:"message"`
}

// Send delivers an HTML mail through /users/{sender}/sendMail. It never
// returns a Go error; the outcome is the Result.
func (c *Client) Send(ctx context.Context, msg mailer.Message) mailer.Result {
	tok, err := c.token(ctx)
	if err != nil {
		c.logger.Error("graph mail token fetch failed", "error", err, "to", msg.To)
		return mailer.Failure(internal.NewNotificationError("failed to acquire mail token", err))
	}

	req := sendMailRequest{
		Message: graphMessage{
			Subject:      msg.Subject,
			Body:         messageBody{ContentType: "HTML", Content: msg.HTML},
			ToRecipients: []recipient{{EmailAddress: emailAddress{Address: msg.To}}},
		},
	}
	if msg.CC != "" {
		req.Message.CCRecipients = []recipient{{EmailAddress: emailAddress{Address: msg.CC}}}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(tok).
		SetBody(req).
		Post(fmt.Sprintf("/users/%s/sendMail", c.sender))
	if err != nil {
		c.logger.Error("graph mail send failed", "error", err, "to", msg.To)
		return mailer.Failure(internal.NewNotificationError("mail send failed", err))
	}
	if resp.IsError() {
		err := fmt.Errorf("graph sendMail: %s", resp.Status())
		c.logger.Error("graph mail send rejected", "status", resp.Status(), "to", msg.To)
		return mailer.Failure(internal.NewNotificationError("mail send rejected", err))
	}

	c.logger.Info("email sent", "to", msg.To, "subject", msg.Subject)
	return mailer.Success()
}

// FetchReportCSV downloads a usage report, e.g.
// getMailboxUsageDetail(period='D7'). Graph returns these as CSV.
func (c *Client) FetchReportCSV(ctx context.Context, report string) ([]byte, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(tok).
		Get("/reports/" + report)
	if err != nil {
		return nil, fmt.Errorf("report fetch failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("report fetch failed: %s", resp.Status())
	}
	return resp.Body(), nil
}
