package wizard

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a draft field (by its JSON name) to a user-facing message.
type FieldErrors map[string]string

func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

const (
	MsgFullNameRequired = "Full Name is required"
	MsgEmailRequired    = "Email is required"
	MsgEmailInvalid     = "Invalid email format"
)

// Non-space run, @, non-space run, dot, non-space run.
var looseEmail = regexp.MustCompile(`\S+@\S+\.\S+`)

var looseEmailValidator validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && looseEmail.MatchString(s)
}

type attendeeInput struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,looseemail"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return jsonName(f.Tag.Get("json"))
	})
	if err := v.RegisterValidation("looseemail", looseEmailValidator); err != nil {
		panic(err)
	}
	return v
}

var messages = map[string]map[string]string{
	"fullName": {"required": MsgFullNameRequired},
	"email":    {"required": MsgEmailRequired, "looseemail": MsgEmailInvalid},
}

func validateAttendee(fullName, email string) FieldErrors {
	in := attendeeInput{
		FullName: strings.TrimSpace(fullName),
		Email:    strings.TrimSpace(email),
	}
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"form": err.Error()}
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		out[fe.Field()] = msg
	}
	return out
}

func jsonName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}
