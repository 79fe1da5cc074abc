package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/rmitchellscott/ditherlab/internal/imageprocessing"
)

// validationErrorMessage returns a user-friendly validation error message
func validationErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, ve := range verrs {
			switch ve.Field() {
			case "ColorCount":
				switch ve.Tag() {
				case "min", "max":
					return fmt.Sprintf("colorCount must be between %d and %d",
						imageprocessing.MinColorCount, imageprocessing.MaxColorCount)
				}
			case "Algorithm":
				if ve.Tag() == "max" {
					return "algorithm name is too long"
				}
			case "Preset":
				if ve.Tag() == "max" {
					return "preset name is too long"
				}
			}
		}
	}
	return "Invalid request"
}

// isValidationError reports whether err came from struct tag validation rather than decoding
func isValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}
