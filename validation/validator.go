package validation

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/json"
)

type Error struct {
	Code    string
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type Validator struct {
	validate *validator.Validate
	rules    []Rule
}

func New(rules []Rule) (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.RegisterValidation("notblank", validators.NotBlank)
	if err != nil {
		return nil, errors.WithMessage(err, "register notblank")
	}
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return &Validator{
		validate: validate,
		rules:    rules,
	}, nil
}

// Lookup returns the first rule declared for the request.
func (v *Validator) Lookup(method string, path string) (Rule, bool) {
	for _, rule := range v.rules {
		if rule.Method == method && rule.Paths.Match(path) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Validate decodes body into the rule schema and checks it. Failures are returned as Error.
func (v *Validator) Validate(rule Rule, body []byte) error {
	payload := rule.New()
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	err := json.Unmarshal(body, payload)
	if err != nil {
		return Error{Code: rule.Code, Message: "malformed json body"}
	}

	err = v.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return errors.WithMessage(err, "validate struct")
	}

	first := fieldErrors[0]
	code := rule.Code
	if fieldCode, ok := rule.FieldCodes[topLevelField(first.StructNamespace())]; ok {
		code = fieldCode
	}
	return Error{
		Code:    code,
		Message: fmt.Sprintf("field '%s' failed on '%s'", first.Namespace(), first.Tag()),
	}
}

// topLevelField turns "ValetIntake.Services[0]" into "Services".
func topLevelField(namespace string) string {
	_, field, _ := strings.Cut(namespace, ".")
	field, _, _ = strings.Cut(field, ".")
	field, _, _ = strings.Cut(field, "[")
	return field
}
