package email

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"
)

type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("smtp host is required")
	}
	if c.Port == 0 {
		return fmt.Errorf("smtp port is required")
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// SMTPSender implements Sender over gomail.
type SMTPSender struct {
	config    Config
	dialer    *gomail.Dialer
	templates map[string]*messageTemplate
}

type messageTemplate struct {
	subject string
	body    *template.Template
}

func NewSMTPSender(config Config) (*SMTPSender, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}

	sender := &SMTPSender{
		config:    config,
		dialer:    gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		templates: make(map[string]*messageTemplate),
	}

	for name, def := range defaultTemplates {
		body, err := template.New(name).Parse(def.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		sender.templates[name] = &messageTemplate{subject: def.Subject, body: body}
	}

	return sender, nil
}

func (s *SMTPSender) Send(ctx context.Context, recipientEmail, templateType string, variables map[string]string) error {
	tmpl, ok := s.templates[templateType]
	if !ok {
		return fmt.Errorf("unknown email template: %s", templateType)
	}

	var buf bytes.Buffer
	if err := tmpl.body.Execute(&buf, variables); err != nil {
		return fmt.Errorf("failed to render template %s: %w", templateType, err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", recipientEmail)
	m.SetHeader("Subject", tmpl.subject)
	m.SetBody("text/plain", buf.String())

	return s.dialer.DialAndSend(m)
}
