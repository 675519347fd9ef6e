package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(MailerConfig{Provider: ProviderSES, FromAddress: "no-reply@example.com", SES: SESConfig{Region: "eu-west-1"}}, testLogger)
	require.NoError(t, err)
	assert.IsType(t, &sesMailer{}, m)

	_, err = NewMailer(MailerConfig{Provider: ProviderSES}, testLogger)
	require.Error(t, err)

	for _, provider := range []string{"", ProviderNoop, "smtp"} {
		m, err := NewMailer(MailerConfig{Provider: provider}, testLogger)
		require.NoError(t, err)
		assert.IsType(t, &noopMailer{}, m)
		assert.NoError(t, m.Send(context.Background(), "a@example.com", "s", "", "t"))
	}
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := &sesMailer{client: client, fromAddress: "no-reply@example.com", fromName: "Events", logger: testLogger}

	require.NoError(t, m.Send(context.Background(), "ann@example.com", "Hello", "<p>hi</p>", ""))
	require.NotNil(t, client.input)
	assert.Equal(t, "Events <no-reply@example.com>", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"ann@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Hello", aws.ToString(client.input.Message.Subject.Data))
	require.NotNil(t, client.input.Message.Body.Html)
	assert.Nil(t, client.input.Message.Body.Text)

	client.err = errors.New("throttled")
	err := m.Send(context.Background(), "ann@example.com", "Hello", "", "hi")
	require.ErrorContains(t, err, "throttled")
}
