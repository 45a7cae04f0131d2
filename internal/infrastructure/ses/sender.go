// Package ses delivers reminder emails through Amazon SES.
package ses

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"bract/internal/domain/notification"
)

// API is the subset of the SES client used by the sender.
type API interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Sender sends reminder emails from a verified source address.
type Sender struct {
	client    API
	fromEmail string
}

var _ notification.Sender = (*Sender)(nil)

func NewSender(client API, fromEmail string) *Sender {
	return &Sender{client: client, fromEmail: fromEmail}
}

func (s *Sender) SendReminderEmail(ctx context.Context, toAddress string, items []notification.ReminderItem) error {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{toAddress},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(notification.Subject(len(items))),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(notification.BuildReminderEmail(items)),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	return nil
}
