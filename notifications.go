package registration

import (
	"bytes"
	"context"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gofiber/template/django/v3"
	goerrors "github.com/goliatone/go-errors"
)

const (
	activationEmailTemplate        = "registration/activation_email"
	adminApproveEmailTemplate      = "registration/admin_approve_email"
	adminApproveCompleteEmailTpl   = "registration/admin_approve_complete_email"
	emailSubjectSuffix             = "_subject"
	emailBodySuffix                = "_body"
	emailHTMLSuffix                = "_body_html"
	registrationTemplatesExtension = ".tpl"
)

type emailRenderer struct {
	engine *django.Engine
}

func newEmailRenderer() (*emailRenderer, error) {
	templates, err := fs.Sub(templatesFS, "data/templates")
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open embedded templates")
	}

	engine := django.NewFileSystem(http.FS(templates), registrationTemplatesExtension)
	if err := engine.Load(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load email templates")
	}

	return &emailRenderer{engine: engine}, nil
}

func (r *emailRenderer) renderString(name string, bind map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Render(&buf, name, bind); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render template "+name)
	}
	return buf.String(), nil
}

// buildMessage renders subject + text body, attaching the HTML alternative
// only when the configuration enables it. Subjects collapse to one line.
func (s *Store) buildMessage(ctx context.Context, base string, to []string, bind map[string]any) (Message, error) {
	render, err := s.renderer()
	if err != nil {
		return Message{}, err
	}

	site, err := s.sites.GetCurrent(ctx)
	if err != nil {
		return Message{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve site context")
	}

	bind["site"] = map[string]any{
		"name":   site.Name,
		"domain": site.Domain,
	}
	bind["expiration_days"] = int(s.config.GetActivationWindow().Hours() / 24)

	subject, err := render.renderString(base+emailSubjectSuffix, bind)
	if err != nil {
		return Message{}, err
	}

	text, err := render.renderString(base+emailBodySuffix, bind)
	if err != nil {
		return Message{}, err
	}

	msg := Message{
		To:       to,
		From:     s.fromEmail(),
		Subject:  strings.Join(strings.Fields(subject), " "),
		TextBody: text,
	}

	if s.config.GetEmailHTML() {
		html, err := render.renderString(base+emailHTMLSuffix, bind)
		if err != nil {
			return Message{}, err
		}
		msg.HTMLBody = html
	}

	return msg, nil
}

// SendActivationEmail delivers the activation key to the profile's owner.
func (s *Store) SendActivationEmail(ctx context.Context, profile *RegistrationProfile) error {
	if profile == nil || profile.User == nil {
		return ErrUserNotFound
	}

	msg, err := s.buildMessage(ctx, activationEmailTemplate, []string{profile.User.Email}, map[string]any{
		"user":           userBinding(profile.User),
		"activation_key": profile.ActivationKey,
	})
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to send activation email")
	}

	return nil
}

// SendAdminApproveEmail notifies the configured administrators that an
// activated account is waiting for approval.
func (s *Store) SendAdminApproveEmail(ctx context.Context, profile *RegistrationProfile) error {
	if profile == nil || profile.User == nil {
		return ErrUserNotFound
	}

	admins := s.config.GetAdmins()
	if len(admins) == 0 {
		s.logger.Error("supervised approval enabled but no admins configured")
		return nil
	}

	to := make([]string, 0, len(admins))
	for _, admin := range admins {
		to = append(to, admin.Email)
	}

	msg, err := s.buildMessage(ctx, adminApproveEmailTemplate, to, map[string]any{
		"user":       userBinding(profile.User),
		"profile_id": profile.ID.String(),
	})
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to send admin approval email")
	}

	return nil
}

// SendAdminApproveCompleteEmail tells a user their account was approved.
func (s *Store) SendAdminApproveCompleteEmail(ctx context.Context, user *User) error {
	if user == nil {
		return ErrUserNotFound
	}

	msg, err := s.buildMessage(ctx, adminApproveCompleteEmailTpl, []string{user.Email}, map[string]any{
		"user": userBinding(user),
	})
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to send approval complete email")
	}

	return nil
}

// fromEmail resolves the registration specific from address, falling back
// to the global default.
func (s *Store) fromEmail() string {
	if from := s.config.GetRegistrationFromEmail(); from != "" {
		return from
	}
	return s.config.GetDefaultFromEmail()
}

func (s *Store) renderer() (*emailRenderer, error) {
	s.renderOnce.Do(func() {
		s.render, s.renderErr = newEmailRenderer()
	})
	return s.render, s.renderErr
}

func userBinding(user *User) map[string]any {
	return map[string]any{
		"id":       user.ID.String(),
		"username": user.Username,
		"email":    user.Email,
	}
}
