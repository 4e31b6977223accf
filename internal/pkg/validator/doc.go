// Package validator validates request structs with go-playground/validator v10.
//
// Failed validation returns V10ValidationError, a snake_case field to message
// map that the router renders as the "error" object of the response.
package validator
