package notifier

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/sirupsen/logrus"

	config "github.com/Keoroanthony/go-foodorders/configs"
	"github.com/Keoroanthony/go-foodorders/internal/models"
)

type sesSender interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type EmailNotifier struct {
	client sesSender
	sender string
	log    *logrus.Entry
}

func NewEmailNotifier(ctx context.Context, cfg config.EmailConfig, log *logrus.Entry) (*EmailNotifier, error) {
	if cfg.SenderEmail == "" {
		return nil, errors.New("sender email address is not configured in environment variables")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}
	return newEmailNotifier(ses.NewFromConfig(awsCfg), cfg.SenderEmail, log), nil
}

func newEmailNotifier(client sesSender, sender string, log *logrus.Entry) *EmailNotifier {
	return &EmailNotifier{client: client, sender: sender, log: log.WithField("channel", "email")}
}

// Notify is a no-op for users without an email address.
func (n *EmailNotifier) Notify(ctx context.Context, to models.User, msg Message) error {
	if to.Email == "" {
		return nil
	}

	greeting := to.Name
	if greeting == "" {
		greeting = to.Login
	}
	bodyText := fmt.Sprintf("Dear %s,\n\n%s\n", greeting, msg.Text)
	bodyHTML := fmt.Sprintf("<html><body><p>Dear %s,</p><p>%s</p></body></html>",
		html.EscapeString(greeting), strings.ReplaceAll(html.EscapeString(msg.Text), "\n", "<br>"))

	input := &ses.SendEmailInput{
		Source: aws.String(n.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(msg.Subject)},
			Body: &types.Body{
				Html: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(bodyHTML)},
				Text: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(bodyText)},
			},
		},
	}

	if _, err := n.client.SendEmail(ctx, input); err != nil {
		n.log.WithError(err).WithField("to", to.Email).Warn("failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	n.log.WithFields(logrus.Fields{"to": to.Email, "subject": msg.Subject}).Info("email sent")
	return nil
}
