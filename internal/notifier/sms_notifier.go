package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	config "github.com/Keoroanthony/go-foodorders/configs"
	"github.com/Keoroanthony/go-foodorders/internal/models"
)

type SMSResponse struct {
	SMSMessageData struct {
		Message    string `json:"Message"`
		Recipients []struct {
			StatusCode int    `json:"statusCode"`
			Number     string `json:"number"`
			Cost       string `json:"cost"`
			Status     string `json:"status"`
			MessageID  string `json:"messageId"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

type SMSNotifier struct {
	cfg    config.AfricaTalkingConfig
	client *http.Client
	log    *logrus.Entry
}

func NewSMSNotifier(cfg config.AfricaTalkingConfig, client *http.Client, log *logrus.Entry) *SMSNotifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &SMSNotifier{cfg: cfg, client: client, log: log.WithField("channel", "sms")}
}

// Notify is a no-op for users without a phone number.
func (n *SMSNotifier) Notify(ctx context.Context, to models.User, msg Message) error {
	if to.Phone == "" {
		return nil
	}

	data := url.Values{}
	data.Set("username", n.cfg.Username)
	data.Set("to", to.Phone)
	data.Set("message", msg.Text)
	data.Set("from", n.cfg.SenderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.SMSURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create SMS request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apikey", n.cfg.APIKey)

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.WithError(err).WithField("to", to.Phone).Warn("SMS send failed")
		return fmt.Errorf("SMS send failed: %w", err)
	}
	defer resp.Body.Close()

	var smsResp SMSResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&smsResp)

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		n.log.WithFields(logrus.Fields{"to": to.Phone, "status": resp.StatusCode, "message": smsResp.SMSMessageData.Message}).
			Warn("SMS API returned non-success status")
		return fmt.Errorf("SMS API returned non-success status: %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode SMS response: %w", decodeErr)
	}

	n.log.WithFields(logrus.Fields{"to": to.Phone, "message": smsResp.SMSMessageData.Message}).Info("SMS sent")
	return nil
}
