// Package schema defines the accepted input shapes for users, tasks, auth tokens and
// search filters. Every Parse function turns an untyped payload into a normalized value
// or a *ValidationError listing every violated field and rule.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Defaults shared by the search inputs.
const (
	DefaultLimit     = 10
	DefaultOffset    = 0
	DefaultSortOrder = "desc"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json names so field errors line up with the payload keys.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return v
}

// FieldError describes one violated rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError is returned when a payload does not satisfy its schema.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field already carries an error.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) add(field, rule, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Rule: rule, Message: message})
}

// Validate runs the struct rules of v and returns a *ValidationError on failure.
func Validate(v any) error {
	return finish(&ValidationError{}, v)
}

// finish merges the struct validation result of v into verr.
// Fields that already failed decoding are not reported twice.
func finish(verr *ValidationError, v any) error {
	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			if verr.Has(fe.Field()) {
				continue
			}
			verr.add(fe.Field(), fe.Tag(), ruleMessage(fe))
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		if fe.Param() == "0" {
			return "must be a positive integer"
		}
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		if fe.Param() == "0" {
			return "must be a non-negative integer"
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return "failed on the '" + fe.Tag() + "' rule"
}

// decode unmarshals a JSON object into dst. Malformed JSON and type mismatches are
// reported as field errors; an empty body decodes as an empty object.
func decode(data []byte, dst any) *ValidationError {
	verr := &ValidationError{}
	if len(bytes.TrimSpace(data)) == 0 {
		return verr
	}
	if err := json.Unmarshal(data, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		var syntaxErr *json.SyntaxError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			verr.add(typeErr.Field, "type", "must be of type "+jsonKind(typeErr.Type))
		case errors.As(err, &typeErr):
			verr.add("body", "type", "must be a JSON object")
		case errors.As(err, &syntaxErr):
			verr.add("body", "json", "must be valid JSON")
		default:
			verr.add("body", "json", err.Error())
		}
	}
	return verr
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	}
	return t.Kind().String()
}
