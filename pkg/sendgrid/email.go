package sendgrid

import (
	"context"
	"fmt"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/config"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService interface {
	Send(ctx context.Context, msg *models.EmailMessage) error
	GetSendGridClient() *sendgrid.Client
}

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	templates map[string]string
}

func NewEmailService(cfg config.SendGrid) EmailService {
	return &emailService{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		templates: cfg.Templates(),
	}
}

// Send delivers msg through the SendGrid dynamic template registered under
// msg.Template. The subject and every context entry become template data.
func (e *emailService) Send(ctx context.Context, msg *models.EmailMessage) error {
	templateID := e.templates[msg.Template]
	if templateID == "" {
		return fmt.Errorf("no sendgrid template configured for %q", msg.Template)
	}

	fromEmail := e.fromEmail
	if msg.From != "" {
		fromEmail = msg.From
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(e.fromName, fromEmail))
	message.SetTemplateID(templateID)

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", msg.To))
	personalization.Subject = msg.Subject
	personalization.SetDynamicTemplateData("subject", msg.Subject)

	for key, value := range msg.Context {
		personalization.SetDynamicTemplateData(key, value)
	}

	message.AddPersonalizations(personalization)

	response, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	return nil
}

// GetSendGridClient provides access to the internal sendgrid.Client.
func (e *emailService) GetSendGridClient() *sendgrid.Client {
	return e.client
}
