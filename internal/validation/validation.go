// Package validation checks form drafts before they are submitted. The
// client only enforces presence; the backend owns every other rule.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/boddenberg/sarathi-client-go/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their wire name, e.g. "start_location".
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// FieldProblem is one failed check on a draft. Field is the wire name;
// Label is what the form shows, from the draft's `label` tag.
type FieldProblem struct {
	Field   string `json:"field"`
	Label   string `json:"label,omitempty"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Check returns every problem with draft, or nil when it is complete.
func Check(draft any) []FieldProblem {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldProblem{{Message: err.Error(), Type: "invalid"}}
	}

	typ := reflect.TypeOf(draft)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	problems := make([]FieldProblem, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, FieldProblem{
			Field:   fe.Field(),
			Label:   label(typ, fe),
			Message: message(fe),
			Type:    fe.Tag(),
		})
	}
	return problems
}

// Validate returns the first problem as a *domain.ErrValidation.
func Validate(draft any) error {
	problems := Check(draft)
	if len(problems) == 0 {
		return nil
	}
	return &domain.ErrValidation{Field: problems[0].Field, Message: problems[0].Message}
}

// Summary joins the problems into one display line.
func Summary(problems []FieldProblem) string {
	parts := make([]string, 0, len(problems))
	for _, p := range problems {
		name := p.Label
		if name == "" {
			name = p.Field
		}
		if name == "" {
			parts = append(parts, p.Message)
			continue
		}
		parts = append(parts, name+": "+p.Message)
	}
	return strings.Join(parts, ", ")
}

func label(typ reflect.Type, fe validator.FieldError) string {
	if typ.Kind() != reflect.Struct {
		return ""
	}
	sf, ok := typ.FieldByName(fe.StructField())
	if !ok {
		return ""
	}
	return sf.Tag.Get("label")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	default:
		return "Invalid value"
	}
}
