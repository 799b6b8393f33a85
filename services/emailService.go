package services

import (
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// EmailService delivers verification codes through the Resend API.
// It is the Notification Sender collaborator: one attempt per call,
// no retry, failures bubble up to the caller.
type EmailService struct {
	client *resend.Client
	from   string
}

// NewEmailService builds the sender. An empty API key yields a
// disabled service whose sends fail loudly instead of silently.
func NewEmailService(apiKey, from string) *EmailService {
	if apiKey == "" {
		log.Println("WARNING: RESEND_API_KEY not set, verification emails disabled")
		return &EmailService{from: from}
	}
	return &EmailService{client: resend.NewClient(apiKey), from: from}
}

// SendVerificationCode mails the 6-digit code to the address.
func (s *EmailService) SendVerificationCode(toEmail, code, displayName string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("email service not configured")
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif;
            line-height: 1.6;
            color: #222;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            text-align: center;
            padding: 20px 0;
            border-bottom: 2px solid #e50914;
        }
        .header h1 { color: #e50914; margin: 0; }
        .code-container {
            background-color: #f5f5f5;
            border: 2px solid #e50914;
            border-radius: 8px;
            padding: 20px;
            text-align: center;
            margin: 20px 0;
        }
        .code {
            font-size: 32px;
            font-weight: bold;
            letter-spacing: 8px;
            color: #e50914;
            font-family: monospace;
        }
        .footer {
            text-align: center;
            padding: 20px 0;
            border-top: 1px solid #ddd;
            font-size: 12px;
            color: #666;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>CineVault</h1>
    </div>

    <div class="content">
        <h2>Recuperación de contraseña</h2>

        <p>Hola %s,</p>

        <p>Recibimos una solicitud para restablecer tu contraseña de CineVault. Usa este código de verificación para continuar:</p>

        <div class="code-container">
            <div class="code">%s</div>
        </div>

        <p><strong>El código vence en 10 minutos y solo puede usarse una vez.</strong></p>

        <p>Si no solicitaste el cambio, ignora este correo; tu contraseña seguirá igual.</p>
    </div>

    <div class="footer">
        <p>Este es un mensaje automático, por favor no respondas directamente.</p>
    </div>
</body>
</html>
`, displayName, code)

	textBody := fmt.Sprintf(`Recuperación de contraseña

Hola %s,

Tu código de verificación de CineVault es: %s

El código vence en 10 minutos y solo puede usarse una vez.
Si no solicitaste el cambio, ignora este correo.
`, displayName, code)

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "Tu código de verificación de CineVault",
		Html:    htmlBody,
		Text:    textBody,
	}

	sent, err := s.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	log.Printf("Sent verification code email to %s. Email ID: %s", toEmail, sent.Id)
	return nil
}
