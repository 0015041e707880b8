// Package apperr holds the error types the HTTP layer maps to status codes.
package apperr

import (
	"errors"
	"fmt"
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

type UnknownPageError struct {
	Page string
}

func (e UnknownPageError) Error() string {
	return fmt.Sprintf("unknown page type %q", e.Page)
}

// VendorError wraps a failed call to a downstream service (storage, email, TTS, CRM).
type VendorError struct {
	Vendor string
	Op     string
	Status int
	Err    error
}

func (e *VendorError) Error() string {
	msg := e.Vendor + " " + e.Op + " failed"
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *VendorError) Unwrap() error {
	return e.Err
}

func Vendor(vendor, op string, err error) error {
	return &VendorError{Vendor: vendor, Op: op, Err: err}
}

func VendorStatus(vendor, op string, status int) error {
	return &VendorError{Vendor: vendor, Op: op, Status: status}
}

func IsClientError(err error) bool {
	var v ValidationError
	if errors.As(err, &v) {
		return true
	}
	var u UnknownPageError
	return errors.As(err, &u)
}
