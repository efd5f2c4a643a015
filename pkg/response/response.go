// Package response renders JSON bodies and maps domain errors onto HTTP status codes.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/shareit-team/shareit-server/pkg/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Code      int       `json:"code"`
	Status    string    `json:"status"`
	FieldName string    `json:"fieldName,omitempty"`
	Error     string    `json:"error"`
}

var registerOnce sync.Once

// UseJSONFieldNames makes gin's validator report json tag names instead of Go field names.
func UseJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// OK sends 200 with data as the bare body.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends 200 with an empty body.
func NoContent(c *gin.Context) {
	c.Status(http.StatusOK)
}

// StatusFor maps an error onto its HTTP status code.
func StatusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound, domain.KindNotAuthorized, domain.KindNotAvailable:
		return http.StatusNotFound
	case domain.KindValidation, domain.KindUnsupportedState:
		return http.StatusBadRequest
	case domain.KindAlreadyExists, domain.KindConflict:
		return http.StatusConflict
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error writes err using its mapped status. Unclassified errors are attached to the
// gin context for the logger middleware and rendered with a generic message.
func Error(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		ValidationFailed(c, verrs)
		return
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		field := ""
		if typeErr != nil {
			field = typeErr.Field
		}
		abort(c, http.StatusBadRequest, field, err.Error())
		return
	}

	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		abort(c, status, "", "internal server error")
		return
	}

	field := ""
	var de *domain.Error
	if errors.As(err, &de) {
		field = de.Field
	}
	abort(c, status, field, err.Error())
}

// BindingError renders a request-body binding failure. Anything that is not a
// validation failure is a malformed body and maps to 400.
func BindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		ValidationFailed(c, verrs)
		return
	}
	field := ""
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field = typeErr.Field
	}
	abort(c, http.StatusBadRequest, field, err.Error())
}

// BadRequest sends 400 for an invalid field.
func BadRequest(c *gin.Context, field, message string) {
	abort(c, http.StatusBadRequest, field, message)
}

// TooManyRequests sends 429.
func TooManyRequests(c *gin.Context, message string) {
	abort(c, http.StatusTooManyRequests, "", message)
}

// ValidationFailed sends 400 with one body per failed field.
func ValidationFailed(c *gin.Context, verrs validator.ValidationErrors) {
	now := time.Now().UTC()
	body := make([]ErrorResponse, 0, len(verrs))
	for _, fe := range verrs {
		body = append(body, ErrorResponse{
			Timestamp: now,
			Code:      http.StatusBadRequest,
			Status:    statusName(http.StatusBadRequest),
			FieldName: fe.Field(),
			Error:     describe(fe),
		})
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}

func abort(c *gin.Context, status int, field, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Timestamp: time.Now().UTC(),
		Code:      status,
		Status:    statusName(status),
		FieldName: field,
		Error:     message,
	})
}

// statusName renders a status code like Spring's HttpStatus names, e.g. 404 -> NOT_FOUND.
func statusName(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return fmt.Sprint(status)
	}
	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_").Replace(text))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be blank"
	case "email":
		return "must be a well-formed email address"
	case "max":
		return fmt.Sprintf("size must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("size must be at least %s", fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
