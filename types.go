package registration

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Site describes the site rendering notification templates
type Site struct {
	Name   string
	Domain string
}

// SiteProvider resolves the current site context
type SiteProvider interface {
	GetCurrent(ctx context.Context) (Site, error)
}

// SiteProviderFunc adapts a function to the SiteProvider interface
type SiteProviderFunc func(ctx context.Context) (Site, error)

func (f SiteProviderFunc) GetCurrent(ctx context.Context) (Site, error) {
	return f(ctx)
}

// StaticSite returns a SiteProvider that always resolves to site
func StaticSite(site Site) SiteProvider {
	return SiteProviderFunc(func(context.Context) (Site, error) {
		return site, nil
	})
}

// Message is a single outbound notification. HTMLBody is an alternative
// representation of TextBody, never a second message.
type Message struct {
	To       []string
	From     string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers notification messages. Send failures propagate to the
// calling operation; a half-registered user should not go silently
// unnotified.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// MailerFunc adapts a function to the Mailer interface
type MailerFunc func(ctx context.Context, msg Message) error

func (f MailerFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

type devMailer struct {
	logger Logger
}

func (m devMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("====== SENDING EMAIL NOTIFICATION =======")
	m.logger.Info("to: %v", msg.To)
	m.logger.Info("from: %s", msg.From)
	m.logger.Info("subject: %s", msg.Subject)
	m.logger.Info("%s", msg.TextBody)
	return nil
}

// Admin is a site administrator contact for the supervised variant
type Admin struct {
	Name  string
	Email string
}

// Config holds registration options, read once at construction time
type Config interface {
	GetActivationWindow() time.Duration
	GetDefaultFromEmail() string
	GetRegistrationFromEmail() string
	GetEmailHTML() bool
	GetAdmins() []Admin
	GetSupervisedApproval() bool
}

// SimpleConfig is a plain struct Config implementation
type SimpleConfig struct {
	ActivationDays        int
	DefaultFromEmail      string
	RegistrationFromEmail string
	EmailHTML             bool
	Admins                []Admin
	SupervisedApproval    bool
}

func (c SimpleConfig) GetActivationWindow() time.Duration {
	return time.Duration(c.ActivationDays) * 24 * time.Hour
}

func (c SimpleConfig) GetDefaultFromEmail() string      { return c.DefaultFromEmail }
func (c SimpleConfig) GetRegistrationFromEmail() string { return c.RegistrationFromEmail }
func (c SimpleConfig) GetEmailHTML() bool               { return c.EmailHTML }
func (c SimpleConfig) GetAdmins() []Admin               { return c.Admins }
func (c SimpleConfig) GetSupervisedApproval() bool      { return c.SupervisedApproval }

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] REG "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] REG "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] REG "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
