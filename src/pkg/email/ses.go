package email

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/tuumbleweed/xerr"
)

// Credentials and region come from the usual AWS_* environment variables.
func sendWithSES(ctx context.Context, message Message) (messageID string, e *xerr.Error) {
	raw, e := buildRawMessage(message, time.Now())
	if e != nil {
		return "", e
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", xerr.NewError(err, "load AWS config for SES", nil)
	}

	client := sesv2.NewFromConfig(awsCfg)
	output, err := client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(message.Sender),
		Destination:      &types.Destination{ToAddresses: message.Recipients},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return "", xerr.NewError(err, "send email with SES", message.Recipients)
	}

	return aws.ToString(output.MessageId), nil
}
