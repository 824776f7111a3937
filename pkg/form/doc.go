// Package form validates user input before it leaves the client. The rules
// mirror the checks the service applies, so most mistakes are caught without
// a round trip; the service remains the authority.
//
// Rules are values built from the field name and its input, applied in one
// pass:
//
//	err := form.Apply(
//		form.Required("username", username),
//		form.MinLen("password", password, 6),
//	)
//
// Apply returns nil or a form.Errors holding every failed field.
package form
