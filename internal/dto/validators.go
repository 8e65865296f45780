package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/sorahq/ledger-api/internal/core/domain"
)

// RegisterCustomValidators adds domain enum validators to gin's binding engine.
// Called once at startup before routes are registered.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("accounttype", validateAccountType)
	_ = v.RegisterValidation("entrystatus", validateEntryStatus)
}

func validateAccountType(fl validator.FieldLevel) bool {
	switch domain.AccountType(fl.Field().String()) {
	case domain.Asset, domain.Liability, domain.Equity, domain.Revenue, domain.Expense:
		return true
	}
	return false
}

func validateEntryStatus(fl validator.FieldLevel) bool {
	switch domain.EntryStatus(fl.Field().String()) {
	case domain.Draft, domain.Approved:
		return true
	}
	return false
}
