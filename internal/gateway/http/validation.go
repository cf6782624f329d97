package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/credgate/pkg/authsdk"
	"github.com/go-playground/validator/v10"
)

// Request bodies larger than this are rejected as unparseable.
const maxBodyBytes = 100 << 10

const (
	locationBody    = "body"
	locationHeaders = "headers"

	msgInvalidBody   = "Cuerpo de la solicitud invalido"
	msgTokenRequired = "El token es requerido"
	msgTokenFormat   = "Formato de token invalido. Debe ser Bearer <token>"
)

var (
	bearerPattern = regexp.MustCompile(`^Bearer\s[\w-]*\.[\w-]*\.[\w-]*$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		return name
	})
	_ = v.RegisterValidation("bearer", func(fl validator.FieldLevel) bool {
		return bearerPattern.MatchString(fl.Field().String())
	})
	return v
}

type loginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type fieldRule struct {
	name      string
	required  string
	notString string
}

// loginRules is ordered; errors are reported in this order.
var loginRules = []fieldRule{
	{name: "identifier", required: "El correo o nombre de usuario es requerido", notString: "El identificador debe ser texto"},
	{name: "password", required: "La contrasena es requerida", notString: "La contrasena debe ser texto"},
}

// decodeLogin reads a JSON or form encoded login body. A field that is
// absent fails both the required and the type rule; a present non-string
// value only fails the type rule.
func decodeLogin(w http.ResponseWriter, r *http.Request) (authsdk.LoginRequest, *authsdk.ValidationError) {
	fields, err := readBody(w, r)
	if err != nil {
		return authsdk.LoginRequest{}, &authsdk.ValidationError{Errors: []authsdk.FieldError{
			{Type: "field", Msg: msgInvalidBody, Path: locationBody, Location: locationBody},
		}}
	}

	values := make(map[string]string, len(loginRules))
	notString := make(map[string]bool, len(loginRules))
	for _, rule := range loginRules {
		s, ok := asString(fields[rule.name])
		values[rule.name] = s
		notString[rule.name] = !ok
	}

	in := loginInput{Identifier: values["identifier"], Password: values["password"]}

	missing := make(map[string]bool, len(loginRules))
	var verrs validator.ValidationErrors
	if err := validate.Struct(in); errors.As(err, &verrs) {
		for _, fe := range verrs {
			missing[fe.Field()] = true
		}
	}

	var errs []authsdk.FieldError
	for _, rule := range loginRules {
		if missing[rule.name] {
			errs = append(errs, bodyFieldError(rule.name, rule.required))
		}
		if notString[rule.name] {
			errs = append(errs, bodyFieldError(rule.name, rule.notString))
		}
	}
	if len(errs) > 0 {
		return authsdk.LoginRequest{}, &authsdk.ValidationError{Errors: errs}
	}

	return authsdk.LoginRequest{Identifier: in.Identifier, Password: in.Password}, nil
}

// readBody returns the decoded body fields. Content types other than JSON
// and form encoding are treated as an empty body.
func readBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var fields map[string]any
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return fields, nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		fields := make(map[string]any, len(r.PostForm))
		for k, v := range r.PostForm {
			if len(v) > 0 {
				fields[k] = v[0]
			}
		}
		return fields, nil

	default:
		return map[string]any{}, nil
	}
}

// asString returns v as text and whether it already was a string. Other
// values are stringified so a number still counts as non-empty.
func asString(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case json.Number:
		return v.String(), false
	case bool:
		return strconv.FormatBool(v), false
	default:
		return fmt.Sprint(v), false
	}
}

// bearerToken extracts the token from "Authorization: Bearer <jwt>". A
// missing header reports both the required and the format rule.
func bearerToken(r *http.Request) (string, *authsdk.ValidationError) {
	header := r.Header.Get("Authorization")

	var errs []authsdk.FieldError
	if err := validate.Var(header, "required"); err != nil {
		errs = append(errs, headerFieldError(msgTokenRequired))
	}
	if err := validate.Var(header, "bearer"); err != nil {
		errs = append(errs, headerFieldError(msgTokenFormat))
	}
	if len(errs) > 0 {
		return "", &authsdk.ValidationError{Errors: errs}
	}

	// "Bearer" plus exactly one whitespace byte, guaranteed by the pattern.
	return header[len("Bearer "):], nil
}

func bodyFieldError(path, msg string) authsdk.FieldError {
	return authsdk.FieldError{Type: "field", Msg: msg, Path: path, Location: locationBody}
}

func headerFieldError(msg string) authsdk.FieldError {
	return authsdk.FieldError{Type: "field", Msg: msg, Path: "authorization", Location: locationHeaders}
}
