package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating a ForgeError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *ForgeError {
	if err == nil {
		return nil
	}

	// Keep the location and entry of an inner ForgeError
	var fe *ForgeError
	if errors.As(err, &fe) {
		return &ForgeError{
			Type:     errType,
			Code:     code,
			Message:  message,
			Entry:    fe.Entry,
			FilePath: fe.FilePath,
			Cause:    fe,
			Context:  fe.Context,
		}
	}

	return &ForgeError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WrapIO wraps an error as an I/O error on path.
func WrapIO(err error, code, path, message string) *ForgeError {
	fe := Wrap(err, ErrorTypeIO, code, message)
	if fe != nil {
		fe.FilePath = path
	}
	return fe
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, code, message string) *ForgeError {
	return Wrap(err, ErrorTypeConfig, code, message)
}

// Combine merges several errors into one, dropping nils.
func Combine(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}

	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return errors.Join(nonNil...)
	}
}
