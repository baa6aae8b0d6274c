// File: internal/infra/adapters/sms/twilio.go
package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"poster-commerce/internal/config"
	"poster-commerce/internal/domain/ports/adapter"
	"poster-commerce/internal/infra/metrics"
)

var _ adapter.SMSSender = (*TwilioSender)(nil)

// TwilioSender implements adapter.SMSSender against the Twilio Messages REST API.
type TwilioSender struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
}

func NewTwilioSender(cfg config.SMSConfig) (*TwilioSender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, errors.New("sms: account_sid and auth_token are required")
	}
	if cfg.From == "" {
		return nil, errors.New("sms: from number is required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.twilio.com"
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("sms: invalid base url: %w", err)
	}
	return &TwilioSender{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.From,
		baseURL:    base,
		client:     &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (t *TwilioSender) endpoint() string {
	return fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, url.PathEscape(t.accountSID))
}

// Send posts one message. Non-2xx responses surface Twilio's error code and message.
func (t *TwilioSender) Send(ctx context.Context, to, body string) (adapter.SMSResult, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.from)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return adapter.SMSResult{}, err
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		metrics.IncSMS(false)
		return adapter.SMSResult{}, fmt.Errorf("sms request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.IncSMS(false)
		var apiErr twilioError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return adapter.SMSResult{}, fmt.Errorf("sms rejected (http %d, code %d): %s", resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return adapter.SMSResult{}, fmt.Errorf("sms rejected: http %d", resp.StatusCode)
	}

	var out twilioMessage
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.IncSMS(false)
		return adapter.SMSResult{}, fmt.Errorf("decode sms response: %w", err)
	}
	metrics.IncSMS(true)
	return adapter.SMSResult{SID: out.SID, Status: out.Status}, nil
}

// twilioMessage is the Messages resource returned on success.
type twilioMessage struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// twilioError is the REST error body; status there is the numeric HTTP code.
type twilioError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	MoreInfo string `json:"more_info"`
}
