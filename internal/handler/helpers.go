package handler

import (
	"errors"
	"net/http"
	"reflect"

	"tillbook/internal/apierror"
	"tillbook/internal/ledger"
	"tillbook/internal/money"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps domain sentinel errors to HTTP statuses. Anything
// unrecognized surfaces as a 400 with the backend message verbatim.
func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, ledger.ErrSessionAlreadyOpen),
		errors.Is(err, ledger.ErrSessionNotOpen):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrOverrideRejected),
		errors.Is(err, ledger.ErrNotAssigned):
		status = http.StatusForbidden
	case errors.Is(err, ledger.ErrOverrideRequired),
		errors.Is(err, ledger.ErrOverrideTooShort),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, money.ErrInvalidDenomination),
		errors.Is(err, money.ErrInvalidAmount):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, gorm.ErrRecordNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, apierror.New(err.Error()))
}
