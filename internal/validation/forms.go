package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// LoginForm is the login form as posted by the browser.
type LoginForm struct {
	Email    string `form:"email" validate:"required,campus_email"`
	Password string `form:"password" validate:"required"`
}

// RegisterForm is the account registration form.
type RegisterForm struct {
	Name            string `form:"name" validate:"required,campus_name"`
	Email           string `form:"email" validate:"required,campus_email"`
	Password        string `form:"password" validate:"required,campus_password"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

// ContactForm is the home page contact form. Blank fields report the
// field-specific message rather than MsgRequired.
type ContactForm struct {
	Name    string `form:"name" validate:"campus_name"`
	Email   string `form:"email" validate:"campus_email"`
	Message string `form:"message" validate:"campus_message"`
}

// Normalize trims the fields the browser form trims before validation.
func (f *LoginForm) Normalize() {
	f.Email = TrimSpace(f.Email)
}

func (f *RegisterForm) Normalize() {
	f.Name = TrimSpace(f.Name)
	f.Email = TrimSpace(f.Email)
}

func (f *ContactForm) Normalize() {
	f.Name = TrimSpace(f.Name)
	f.Email = TrimSpace(f.Email)
}

var messages = map[string]string{
	"required":        MsgRequired,
	"campus_name":     MsgName,
	"campus_email":    MsgEmail,
	"campus_message":  MsgMessage,
	"campus_password": MsgPassword,
	"eqfield":         MsgMismatch,
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
		register := func(tag string, fn func(string) bool) {
			if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return fn(fl.Field().String())
			}); err != nil {
				panic(err)
			}
		}
		register("campus_name", ValidateName)
		register("campus_email", ValidateEmail)
		register("campus_message", ValidateMessage)
		register("campus_password", ValidatePassword)
		validate = v
	})
	return validate
}

// Struct validates a form and returns Errors in field order, or nil.
func Struct(form any) error {
	err := instance().Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = MsgRequired
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
