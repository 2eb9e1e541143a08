// Package validator checks user input before it is sent to the API.
//
// Rules are plain values combined with Apply, which returns nil or a
// ValidationErrors listing every failed field:
//
//	err := validator.Apply(
//		validator.Required("email", email),
//		validator.Email("email", email),
//		validator.MinLen("password", password, 6),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//		// verrs.Get("email") ...
//	}
//
// ValidationErrors matches ErrValidationFailed with errors.Is.
package validator
