package mailing

import (
	"MeatFresh-Backend/internal/utils"
	"bytes"
	"html/template"
	"strconv"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

func SendMail(toEmail string, subject string, body string) error {
	emailConfig := LoadMailConfig()

	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", emailConfig.SMTPEmail, emailConfig.SMTPSender)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(emailConfig.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		emailConfig.SMTPHost,
		port,
		emailConfig.SMTPEmail,
		emailConfig.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}

var resetPasswordTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1e293b;">
  <h2>MeatFresh</h2>
  <p>Hi {{.Name}},</p>
  <p>We received a request to reset your password. The link below is valid for {{.ValidMinutes}} minutes.</p>
  <p><a href="{{.Link}}" style="background:#f43f5e;color:#fff;padding:10px 16px;border-radius:8px;text-decoration:none;">Reset password</a></p>
  <p>If you did not ask for this, you can ignore this e-mail.</p>
</body>
</html>`))

type ResetPasswordData struct {
	Name         string
	Link         string
	ValidMinutes int
}

func ResetPasswordBody(data ResetPasswordData) (string, error) {
	var buf bytes.Buffer
	if err := resetPasswordTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
