package validator

// Validator is the shared validation entry point handed to services and
// handlers.
type Validator struct {
	business *BusinessValidator
}

// New creates a Validator with business rules registered.
func New() *Validator {
	return &Validator{
		business: NewBusinessValidator(),
	}
}

// GetBusinessValidator returns the underlying business rule validator.
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

// Validate validates struct tags on any request type.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	return v.business.Validate(s)
}
