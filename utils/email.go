package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"lms/config"
)

// SendEmail sends an HTML email via SMTP. Callers fire it on a
// goroutine; delivery failures are logged, never surfaced to clients.
func SendEmail(cfg *config.Config, to []string, subject string, htmlBody string) error {
	if cfg.EmailSender == "" {
		log.Println("Email sender not configured, skipping email:", subject)
		return nil
	}

	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := cfg.EmailSender
	password := cfg.Password

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: LMS <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg)); err != nil {
		log.Println("Error sending email:", err)
		return err
	}
	return nil
}

// WelcomeEmailBody builds the registration welcome mail.
func WelcomeEmailBody(name string) string {
	return fmt.Sprintf(`
	<html>
		<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
			<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
				<h2>Welcome, %s!</h2>
				<p>Your account has been created. Browse the catalog and start learning.</p>
			</div>
		</body>
	</html>`, name)
}

// PayoutPaidEmailBody builds the instructor payout notification mail.
func PayoutPaidEmailBody(name string, amount float64, courseTitle string) string {
	return fmt.Sprintf(`
	<html>
		<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
			<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
				<h2>Payout sent</h2>
				<p>Hi %s, your payout of %.2f for the course "%s" has been marked paid.</p>
			</div>
		</body>
	</html>`, name, amount, courseTitle)
}
