package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register validation %q: %v", tag, err))
		}
	}

	mustRegister("user_type", validateUserType)
	mustRegister("ticket_status", validateTicketStatus)
}

func validateUserType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return domain.UserType(value).Valid()
}

// deleted is reachable only through the delete operation.
func validateTicketStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	status := domain.TicketStatus(value)
	return status.Valid() && status != domain.TicketStatusDeleted
}
