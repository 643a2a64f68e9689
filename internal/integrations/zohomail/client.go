package zohomail

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// Message исходящее письмо
type Message struct {
	To       []string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Client клиент исходящей почты (Zoho SMTP, implicit TLS)
type Client struct {
	host      string
	port      int
	user      string
	password  string
	fromEmail string
	log       Logger
}

// NewClient создает новый экземпляр почтового клиента
func NewClient(host string, port int, user, password, fromEmail string, log Logger) *Client {
	return &Client{
		host:      host,
		port:      port,
		user:      user,
		password:  password,
		fromEmail: fromEmail,
		log:       log,
	}
}

// Send отправляет письмо. Zoho принимает SMTPS на 465 порту,
// поэтому TLS устанавливается до SMTP-диалога.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("%w: no recipients", ErrInternal)
	}

	addr := fmt.Sprintf("%s:%d", c.host, c.port)

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: c.host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: tls dial: %v", ErrSendFailed, err)
	}

	client, err := smtp.NewClient(conn, c.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: smtp handshake: %v", ErrSendFailed, err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", c.user, c.password, c.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("%w: auth: %v", ErrSendFailed, err)
	}

	if err := client.Mail(c.fromEmail); err != nil {
		return fmt.Errorf("%w: mail from: %v", ErrSendFailed, err)
	}
	for _, rcpt := range msg.To {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("%w: rcpt to %s: %v", ErrSendFailed, rcpt, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("%w: data: %v", ErrSendFailed, err)
	}
	if _, err := writer.Write(c.buildMIME(msg)); err != nil {
		return fmt.Errorf("%w: write body: %v", ErrSendFailed, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("%w: close body: %v", ErrSendFailed, err)
	}

	if err := client.Quit(); err != nil {
		c.log.Warn("SMTP quit failed: %v", err)
	}

	return nil
}

// buildMIME собирает multipart/alternative письмо с text и html частями
func (c *Client) buildMIME(msg Message) []byte {
	var sb strings.Builder
	boundary := "tpd-mail-boundary"

	sb.WriteString(fmt.Sprintf("From: %s\r\n", c.fromEmail))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	if msg.ReplyTo != "" {
		sb.WriteString(fmt.Sprintf("Reply-To: %s\r\n", msg.ReplyTo))
	}
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject)))
	sb.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary))
		sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		sb.WriteString(msg.TextBody)
		sb.WriteString(fmt.Sprintf("\r\n--%s\r\n", boundary))
		sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		sb.WriteString(msg.HTMLBody)
		sb.WriteString(fmt.Sprintf("\r\n--%s--\r\n", boundary))
	case msg.HTMLBody != "":
		sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		sb.WriteString(msg.HTMLBody)
		sb.WriteString("\r\n")
	default:
		sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		sb.WriteString(msg.TextBody)
		sb.WriteString("\r\n")
	}

	return []byte(sb.String())
}
