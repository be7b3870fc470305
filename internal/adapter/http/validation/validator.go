package validation

import (
	"regexp"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

const MinPasswordLength = 6

// emailPattern accepts local@domain.tld where the final label has at least two
// letters. A single trailing newline is tolerated.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\n?$`)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

// Error is a validation failure carrying the single message shown to the client.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	if err := Validator.RegisterValidation("user_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	english := en.New()
	uni := ut.New(english, english)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	addCustomTranslations()
}

func addCustomTranslations() {
	messages := map[string]string{
		"invalid_data":       "Invalid JSON data",
		"missing_field":      "Missing or invalid field: {0}",
		"invalid_email":      "Invalid email format",
		"password_too_short": "Password must be at least {0} characters long",
	}

	for key, text := range messages {
		if err := Translator.Add(key, text, true); err != nil {
			panic(err)
		}
	}
}

func newError(key string, params ...string) *Error {
	message, err := Translator.T(key, params...)

	if err != nil {
		message = key
	}

	return &Error{Message: message}
}

// Validate checks a decoded JSON payload. Required fields must be non-empty
// strings; email and password are checked whenever present. Checks run in that
// order and the first failure is returned.
func Validate(payload any, requiredFields ...string) error {
	data, ok := payload.(map[string]any)

	if !ok {
		return newError("invalid_data")
	}

	for _, field := range requiredFields {
		value, ok := data[field].(string)

		if !ok || Validator.Var(value, "required") != nil {
			return newError("missing_field", field)
		}
	}

	if raw, exists := data["email"]; exists {
		email, ok := raw.(string)

		if !ok || Validator.Var(email, "user_email") != nil {
			return newError("invalid_email")
		}
	}

	if raw, exists := data["password"]; exists {
		password, ok := raw.(string)

		if !ok || Validator.Var(password, "min="+strconv.Itoa(MinPasswordLength)) != nil {
			return newError("password_too_short", strconv.Itoa(MinPasswordLength))
		}
	}

	return nil
}
