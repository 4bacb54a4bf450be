package v1

import (
	"errors"
	"net/http"

	"job-tracker-backend/pkg/apperror"
	"job-tracker-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// bindError reports validator failures field by field and anything else as
// a malformed body.
func bindError(err error) *apperror.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperror.BadRequest("Validation failed").WithDetails(validation.FormatValidationErrors(err))
	}
	return apperror.New(http.StatusBadRequest, "Invalid request", err)
}
