package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	// SendLeadAlert notifies the sales inbox that a chat visitor asked for
	// a callback. fields carries whatever the conversation captured.
	SendLeadAlert(userId string, fields map[string]interface{}) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	salesEmail  string
}

func NewEmailService(host string, port int, username, password, senderEmail, salesEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		salesEmail:  salesEmail,
	}
}

func (s *emailService) SendLeadAlert(userId string, fields map[string]interface{}) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", s.salesEmail)
	m.SetHeader("Subject", "New callback request from chat")

	var rows strings.Builder
	for k, v := range fields {
		rows.WriteString(fmt.Sprintf("<tr><td style=\"padding: 4px 12px;\"><b>%s</b></td><td style=\"padding: 4px 12px;\">%v</td></tr>", k, v))
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>New Lead Captured</h2>
			<p>A chat visitor (%s) asked for a callback.</p>
			<table style="border-collapse: collapse;">%s</table>
			<p>Please follow up within one business day.</p>
		</div>
	`, userId, rows.String())

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send lead alert for %s: %v\n", userId, err)
		return err
	}

	fmt.Printf("[MAILER] Lead alert sent for %s\n", userId)
	return nil
}
