package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/helpdesk/internal/domain"
)

var validate = newValidator()

// maxPasswordBytes is bcrypt's input limit; the max tag counts characters.
const maxPasswordBytes = 72

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	registerCustomRules(v)
	return v
}

// ValidateRegistration checks a new account.
func ValidateRegistration(in UserInput) error {
	if err := check(in); err != nil {
		return err
	}
	if in.Password == "" {
		return domain.NewValidationError("password", "password is required")
	}
	return checkPasswordBytes(in.Password)
}

// ValidateUserUpdate checks a profile update; the password is optional.
func ValidateUserUpdate(in UserInput) error {
	if err := check(in); err != nil {
		return err
	}
	return checkPasswordBytes(in.Password)
}

// ValidateLogin checks login credentials.
func ValidateLogin(in LoginInput) error {
	return check(in)
}

// ValidateTicket checks ticket fields.
func ValidateTicket(in TicketInput) error {
	return check(in)
}

// ValidateStatus checks a ticket status change.
func ValidateStatus(in StatusInput) error {
	return check(in)
}

// ValidateReply checks reply fields.
func ValidateReply(in ReplyInput) error {
	return check(in)
}

// ValidateResetRequest checks a reset request.
func ValidateResetRequest(in ResetRequestInput) error {
	return check(in)
}

// ValidatePasswordReset checks a reset completion.
func ValidatePasswordReset(in ResetInput) error {
	if err := check(in); err != nil {
		return err
	}
	return checkPasswordBytes(in.Password)
}

// ValidateUserType checks a user type value.
func ValidateUserType(t domain.UserType) error {
	if err := validate.Var(string(t), "required,user_type"); err != nil {
		return firstViolation(err, "type")
	}
	return nil
}

func checkPasswordBytes(password string) error {
	if len(password) > maxPasswordBytes {
		return domain.NewValidationError("password", fmt.Sprintf("password must be at most %d bytes long", maxPasswordBytes))
	}
	return nil
}

func check(in any) error {
	if err := validate.Struct(in); err != nil {
		return firstViolation(err, "")
	}
	return nil
}

func firstViolation(err error, field string) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	fe := errs[0]
	name := fe.Field()
	if name == "" {
		name = field
	}
	return domain.NewValidationError(name, message(name, fe))
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, strings.ToLower(fe.Param()))
	case "ticket_status":
		return field + " must be one of publish, closed, solved"
	case "user_type":
		return field + " must be one of member, admin, banned, deleted"
	default:
		return fmt.Sprintf("%s is invalid (failed on '%s')", field, fe.Tag())
	}
}
