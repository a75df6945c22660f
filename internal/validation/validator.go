package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level
// validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// register struct-level validation for UpdateProductRequest so a
	// body that names no fields at all is rejected instead of becoming
	// a silent no-op write.
	v.RegisterStructValidation(updateProductStructValidation, UpdateProductRequest{})

	return v
}

func updateProductStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(UpdateProductRequest)

	if req.Name == nil && req.Description == nil && req.Price == nil &&
		req.MarketPrice == nil && req.Stock == nil && req.Image == nil &&
		req.MarketURL == nil && req.MarketSource == nil {
		sl.ReportError(req, "UpdateProductRequest", "", "at_least_one_field", "")
	}
}
