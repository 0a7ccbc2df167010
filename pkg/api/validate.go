package api

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/imfine/texwire/pkg/wire"
)

// validate is a singleton validator instance
var validate = validator.New()


// ClassifyRequest asks for the channels of filenames.
type ClassifyRequest struct {
	Files []string `json:"files" validate:"required,min=1,max=1000,dive,required,max=1024"`
}

// SetupRequest runs the PBR texture setup on a material.
type SetupRequest struct {
	Files []string `json:"files" validate:"required,min=1,max=64,dive,required,max=1024"`
}

// TransformRequest adds transform controls to texture samplers. An empty
// node list uses the material's selection; missing options use the defaults.
type TransformRequest struct {
	Nodes   []string      `json:"nodes" validate:"omitempty,max=256,dive,uuid"`
	Options *wire.Options `json:"options"`
}

// validateRequest validates req by its struct tags.
func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must have at least %s entries", field, e.Param())
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, e.Param())
		case "uuid":
			return fmt.Errorf("%s: %q is not a node id", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
