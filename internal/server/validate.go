package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"lyricsmith/internal/services"
)

const (
	maxBodyBytes = 1 << 20

	codeInvalidContentType = "INVALID_CONTENT_TYPE"
	codeInvalidBody        = "INVALID_REQUEST_BODY"
	codeValidation         = "VALIDATION_ERROR"
)

// Violation kinds reported in validation details.
const (
	KindRequired    = "required"
	KindInvalidEnum = "invalid_enum_value"
	KindTooShort    = "too_short"
	KindTooLong     = "too_long"
	KindTooSmall    = "too_small"
	KindTooBig      = "too_big"
	KindInvalidFmt  = "invalid_format"
	KindInvalidType = "invalid_type"
)

// Violation is one failed field check.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type defaulter interface {
	ApplyDefaults()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// withBody decodes and validates a JSON body into T before calling fn.
func withBody[T any](fn func(*Context, *T) error) Handler {
	return func(c *Context) error {
		var req T
		if err := bindJSON(c.Writer, c.Request, &req); err != nil {
			return err
		}
		if d, ok := any(&req).(defaulter); ok {
			d.ApplyDefaults()
		}
		return fn(c, &req)
	}
}

// bindJSON decodes r's body into target and runs struct validation. Unknown
// fields are ignored.
func bindJSON(w http.ResponseWriter, r *http.Request, target any) error {
	if !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return services.NewError(services.KindValidation, codeInvalidContentType, "Content-Type must be application/json")
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return services.NewError(services.KindValidation, codeInvalidBody, "Invalid request body").WithCause(err)
	}
	var mistyped []Violation
	if err := json.Unmarshal(body, target); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return services.NewError(services.KindValidation, codeInvalidBody, "Invalid request body").WithCause(err)
		}
		mistyped = typeViolations(body, target)
		if len(mistyped) == 0 {
			mistyped = []Violation{typeViolation(typeErr.Field, typeErr)}
		}
	}
	var found []Violation
	if err := validate.Struct(target); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return services.NewError(services.KindValidation, codeValidation, "Validation failed").WithCause(err)
		}
		found = violations(fieldErrs)
	}
	if len(mistyped) == 0 && len(found) == 0 {
		return nil
	}
	details := mistyped
	for _, v := range found {
		if !coveredBy(mistyped, v.Field) {
			details = append(details, v)
		}
	}
	return validationFailed(details)
}

// typeViolations decodes each top-level member separately so that every
// mistyped field is reported, not only the first one encoding/json returns.
func typeViolations(body []byte, target any) []Violation {
	rt := reflect.TypeOf(target)
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil {
		return nil
	}
	var out []Violation
	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		raw, ok := lookupMember(members, name)
		if !ok {
			continue
		}
		var typeErr *json.UnmarshalTypeError
		if err := json.Unmarshal(raw, reflect.New(field.Type).Interface()); errors.As(err, &typeErr) {
			path := name
			if typeErr.Field != "" {
				path += "." + typeErr.Field
			}
			out = append(out, typeViolation(path, typeErr))
		}
	}
	return out
}

// lookupMember matches keys case-insensitively, as encoding/json does.
func lookupMember(members map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if raw, ok := members[name]; ok {
		return raw, true
	}
	for key, raw := range members {
		if strings.EqualFold(key, name) {
			return raw, true
		}
	}
	return nil, false
}

func typeViolation(field string, typeErr *json.UnmarshalTypeError) Violation {
	return Violation{
		Field:   field,
		Message: fmt.Sprintf("Expected %s, received %s", typeName(typeErr.Type), typeErr.Value),
		Code:    KindInvalidType,
	}
}

// coveredBy reports whether field, or a parent of it, already has a type
// violation. A mistyped field decodes to its zero value and would otherwise
// also fail its tag checks.
func coveredBy(mistyped []Violation, field string) bool {
	for _, v := range mistyped {
		if field == v.Field || strings.HasPrefix(field, v.Field+".") || strings.HasPrefix(field, v.Field+"[") ||
			strings.HasPrefix(v.Field, field+".") || strings.HasPrefix(v.Field, field+"[") {
			return true
		}
	}
	return false
}

func validationFailed(details []Violation) error {
	return services.NewError(services.KindValidation, codeValidation, "Validation failed").WithDetails(details)
}

func violations(errs validator.ValidationErrors) []Violation {
	out := make([]Violation, 0, len(errs))
	seen := make(map[string]bool, len(errs))
	for _, fe := range errs {
		field := fieldPath(fe.Namespace())
		if seen[field] {
			continue
		}
		seen[field] = true
		code, message := describe(fe)
		out = append(out, Violation{Field: field, Message: message, Code: code})
	}
	return out
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func describe(fe validator.FieldError) (string, string) {
	sized := isSized(fe.Kind())
	switch fe.Tag() {
	case "required":
		return KindRequired, "Required"
	case "oneof":
		options := strings.Fields(fe.Param())
		quoted := make([]string, len(options))
		for i, option := range options {
			quoted[i] = "'" + option + "'"
		}
		return KindInvalidEnum, fmt.Sprintf("Invalid enum value. Expected %s, received '%v'", strings.Join(quoted, " | "), fe.Value())
	case "min":
		if sized {
			return KindTooShort, fmt.Sprintf("Must contain at least %s item(s)", fe.Param())
		}
		return KindTooSmall, fmt.Sprintf("Number must be greater than or equal to %s", fe.Param())
	case "max":
		if sized {
			return KindTooLong, fmt.Sprintf("Must contain at most %s item(s)", fe.Param())
		}
		return KindTooBig, fmt.Sprintf("Number must be less than or equal to %s", fe.Param())
	case "uuid":
		return KindInvalidFmt, "Invalid uuid"
	default:
		return KindInvalidFmt, fmt.Sprintf("Invalid value (%s)", fe.Tag())
	}
}

func isSized(kind reflect.Kind) bool {
	switch kind {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return true
	default:
		return false
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64, reflect.Int32:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return t.String()
	}
}
