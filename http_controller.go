package registration

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
)

// RegisterRegistrationRoutes mounts the registration flow on app.
func RegisterRegistrationRoutes[T any](app router.Router[T], opts ...RegistrationControllerOption) {

	controller := NewRegistrationController(opts...)

	app.Get(controller.Routes.Register, controller.RegistrationShow).
		SetName("register.get")
	app.Post(controller.Routes.Register, controller.RegistrationCreate).
		SetName("register.post")

	app.Get(fmt.Sprintf("%s/:key", controller.Routes.Activate), controller.ActivateAccount).
		SetName("activate.get")

	app.Get(controller.Routes.Resend, controller.ResendShow).
		SetName("resend.get")
	app.Post(controller.Routes.Resend, controller.ResendPost).
		SetName("resend.post")
}

type RegistrationControllerRoutes struct {
	Register string
	Activate string
	Resend   string
}

type RegistrationControllerViews struct {
	Register           string
	RegisterComplete   string
	ActivationComplete string
	ActivationFailed   string
	Resend             string
}

type RegistrationController struct {
	Debug        bool
	Logger       Logger
	Store        *Store
	Routes       *RegistrationControllerRoutes
	Views        *RegistrationControllerViews
	ErrorHandler router.ErrorHandler
}

type RegistrationControllerOption func(*RegistrationController) *RegistrationController

func NewRegistrationController(opts ...RegistrationControllerOption) *RegistrationController {
	c := &RegistrationController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &RegistrationControllerRoutes{
			Register: "/register",
			Activate: "/activate",
			Resend:   "/resend",
		},
		Views: &RegistrationControllerViews{
			Register:           "register",
			RegisterComplete:   "register_complete",
			ActivationComplete: "activation_complete",
			ActivationFailed:   "activation_failed",
			Resend:             "resend_activation",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Store == nil {
		panic("Missing registration Store in registration controller...")
	}

	return c
}

func WithControllerStore(store *Store) RegistrationControllerOption {
	return func(c *RegistrationController) *RegistrationController {
		c.Store = store
		return c
	}
}

func WithControllerLogger(logger Logger) RegistrationControllerOption {
	return func(c *RegistrationController) *RegistrationController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func (a *RegistrationController) RegistrationShow(ctx router.Context) error {
	return ctx.Render(a.Views.Register, router.ViewContext{
		"errors": map[string]string{},
		"record": RegisterUserMessage{},
	})
}

// RegistrationCreatePayload is the form payload
type RegistrationCreatePayload struct {
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 150)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(10, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.Length(10, 100),
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

func (a *RegistrationController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		errors := map[string]string{}
		errors["form"] = "Failed to parse form"
		a.Logger.Error("register user parse payload: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.Register, router.ViewContext{
			"errors": errors,
			"record": payload,
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.Register, router.ViewContext{
			"record":     payload,
			"validation": err.Error(),
		})
	}

	req := RegisterUserMessage{
		Username:  payload.Username,
		Email:     payload.Email,
		Password:  payload.Password,
		SendEmail: true,
	}

	if a.Debug {
		fmt.Println("======= REGISTRATION ======")
		fmt.Println(print.MaybePrettyJSON(req))
		fmt.Println("===========================")
	}

	registerUser := NewRegisterUserHandler(a.Store)
	if err := registerUser.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("register user error: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error registering user",
		}).Render(a.Views.Register, router.ViewContext{
			"record": payload,
			"errors": []string{err.Error()},
		})
	}

	return ctx.Render(a.Views.RegisterComplete, router.ViewContext{
		"email": payload.Email,
	})
}

func (a *RegistrationController) ActivateAccount(ctx router.Context) error {
	key := ctx.Param("key", "")

	var resp *ActivateAccountResponse
	input := ActivateAccountMessage{
		Key: key,
		OnResponse: func(r *ActivateAccountResponse) {
			resp = r
		},
	}

	activate := NewActivateAccountHandler(a.Store)
	if err := activate.Execute(ctx.Context(), input); err != nil {
		a.Logger.Error("account activation error: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if a.Debug {
		fmt.Println("======= ACTIVATION ======")
		fmt.Println(print.MaybePrettyJSON(resp))
		fmt.Println("=========================")
	}

	if !resp.Activated {
		return ctx.Render(a.Views.ActivationFailed, router.ViewContext{
			"found":   resp.Found,
			"expired": resp.Expired,
		})
	}

	return ctx.Render(a.Views.ActivationComplete, router.ViewContext{
		"user": resp.User,
		// supervised accounts stay inactive until an admin approves them
		"pending_approval": !resp.User.IsActive,
	})
}

func (a *RegistrationController) ResendShow(ctx router.Context) error {
	return ctx.Render(a.Views.Resend, router.ViewContext{
		"errors": map[string]string{},
	})
}

// ResendActivationPayload holds values for the resend form
type ResendActivationPayload struct {
	Email string `form:"email" json:"email"`
}

// Validate will validate the payload
func (r ResendActivationPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
	)
}

func (a *RegistrationController) ResendPost(ctx router.Context) error {
	payload := new(ResendActivationPayload)

	if err := ctx.Bind(payload); err != nil {
		errors := map[string]string{}
		errors["form"] = "Failed to parse form"
		a.Logger.Error("resend activation parse payload: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.Resend, router.ViewContext{
			"errors": errors,
			"record": payload,
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("resend activation validate payload: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.Resend, router.ViewContext{
			"record":     payload,
			"validation": err.Error(),
		})
	}

	var resp *ResendActivationResponse
	input := ResendActivationMessage{
		Email: payload.Email,
		OnResponse: func(r *ResendActivationResponse) {
			resp = r
		},
	}

	resend := NewResendActivationHandler(a.Store)
	if err := resend.Execute(ctx.Context(), input); err != nil {
		a.Logger.Error("resend activation error: ", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error resending activation",
		}).Render(a.Views.Resend, router.ViewContext{
			"record": payload,
			"errors": []string{err.Error()},
		})
	}

	return ctx.Render(a.Views.Resend, router.ViewContext{
		"resent": resp.Resent,
		"email":  payload.Email,
	})
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return validation.NewError("validation_match", "values must match")
		}
		return nil
	}
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Render("errors/500", router.ViewContext{
		"message": err.Error(),
	})
}
