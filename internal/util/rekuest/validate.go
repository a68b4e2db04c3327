package rekuest

import (
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/dderr"
	"github.com/highgarden7/dddorok-admin-backend/internal/util"
)

var (
	Validate = util.NewValidator()

	UT = ut.New(en.New())

	translator ut.Translator
)

func init() {
	translator, _ = UT.GetTranslator("en")
	err := enTranslations.RegisterDefaultTranslations(Validate, translator)
	if err != nil {
		log.Warn().Err(err).Str("locale", "en").Msg("could not register translation")
	}

	err = Validate.RegisterTranslation("measurementcode", translator, func(ut ut.Translator) error {
		return ut.Add("measurementcode", "{0} must be an upper snake case measurement code", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("measurementcode", fe.Field())
		return t
	})
	if err != nil {
		log.Warn().Err(err).Str("locale", "en").Msg("could not register translation for function measurementcode")
	}
}

type ErrorResponse struct {
	Field     string `json:"field,omitempty"`
	Violation string `json:"violation"`
	Message   string `json:"message"`
}

func translate(ve validator.ValidationErrors) []*ErrorResponse {
	trans := make([]*ErrorResponse, 0, len(ve))

	for _, fe := range ve {
		trans = append(trans, &ErrorResponse{
			Field:     fe.Namespace(),
			Violation: fe.Tag(),
			Message:   fe.Translate(translator),
		})
	}

	return trans
}

// Struct validates s with the validator singleton. It is usable outside of a
// request, e.g. for seed files.
func Struct(s any) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return dderr.ErrValidation.Msg("invalid request: %s", err)
	}
	return dderr.NewInvalidViolations(translate(errs))
}

// ValidBody will get the body from *fiber.Ctx using fiber#BodyParser(),
// and validate it using the validator singleton. dest shall always be a pointer.
func ValidBody(ctx *fiber.Ctx, dest any) error {
	if err := ctx.BodyParser(dest); err != nil {
		return dderr.ErrValidation.Msg("invalid request: %s", err)
	}

	return Struct(dest)
}

func ValidVar(field any, tag string) error {
	err := Validate.Var(field, tag)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return dderr.ErrValidation.Msg("invalid request: %s", err)
	}
	return dderr.NewInvalidViolations(translate(errs))
}

// ValidUUIDParam reads the path parameter name and requires it to be a UUID.
func ValidUUIDParam(ctx *fiber.Ctx, name string) (string, error) {
	v := ctx.Params(name)
	if err := Validate.Var(v, "required,uuid"); err != nil {
		return "", dderr.ErrValidation.Msg("invalid request: path parameter %s must be a uuid", name)
	}
	return v, nil
}
