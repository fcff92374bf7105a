package registrations

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// tagText rejects values PostgreSQL cannot store in a text column:
// invalid UTF-8 and NUL bytes.
const tagText = "pgtext"

const msgRequired = "Name and Role are required fields."

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation(tagText, validText)
	}
}

func validText(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

// RegisterRequest is the form posted to /register/:token. Lengths match the
// attendees columns. Group is nil when the form omits the field.
type RegisterRequest struct {
	Name  string  `form:"name" binding:"required,max=100,pgtext"`
	Role  string  `form:"role" binding:"required,max=50,pgtext"`
	Group *string `form:"group" binding:"omitempty,max=100,pgtext"`
}

// ValidationError is a user-correctable problem with a submission.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// bindRegistration binds and validates the form. On failure the returned
// request still holds whatever values were decoded, and the error is a
// *ValidationError.
func bindRegistration(c *gin.Context) (RegisterRequest, error) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		return req, &ValidationError{Message: validationMessage(err)}
	}
	return req, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "The form could not be read. Please try again."
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return msgRequired
		}
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
	case tagText:
		return fmt.Sprintf("%s contains characters that are not allowed.", fe.Field())
	}
	return fmt.Sprintf("%s is invalid.", fe.Field())
}
