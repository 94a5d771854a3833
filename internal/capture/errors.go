package capture

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies why a camera source could not be acquired.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrPermissionDenied
	ErrNoDevice
	ErrDeviceBusy
	ErrUnsupportedConstraints
	ErrInsecureContext
)

var kindMessages = map[ErrorKind]string{
	ErrUnknown:                "Unable to access camera.",
	ErrPermissionDenied:       "Camera permission denied. Please allow camera access.",
	ErrNoDevice:               "No camera found on this device.",
	ErrDeviceBusy:             "Camera is already in use by another application.",
	ErrUnsupportedConstraints: "Camera does not support the requested settings.",
	ErrInsecureContext:        "Camera access requires a secure (HTTPS) context.",
}

// CameraError is a terminal acquisition failure. The only recovery the
// pipeline offers is a full restart of the capture source.
type CameraError struct {
	Kind  ErrorKind
	Cause error
}

func (e *CameraError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message(), e.Cause)
	}
	return e.Message()
}

func (e *CameraError) Unwrap() error { return e.Cause }

// Message returns the human-readable classification shown to the user.
func (e *CameraError) Message() string {
	return kindMessages[e.Kind]
}

// Recovery names the single supported recovery action.
func (e *CameraError) Recovery() string {
	return "Restart the capture client to try again."
}

// ClassifyAcquireError maps a raw source error onto the camera error
// taxonomy. A *CameraError passes through unchanged; anything else is
// classified by the provider's error name conventions.
func ClassifyAcquireError(err error) *CameraError {
	var camErr *CameraError
	if errors.As(err, &camErr) {
		return camErr
	}

	msg := strings.ToLower(err.Error())
	kind := ErrUnknown
	switch {
	case strings.Contains(msg, "notallowed") || strings.Contains(msg, "permission denied"):
		kind = ErrPermissionDenied
	case strings.Contains(msg, "notfound") || strings.Contains(msg, "no such device"):
		kind = ErrNoDevice
	case strings.Contains(msg, "notreadable") || strings.Contains(msg, "device busy") || strings.Contains(msg, "in use"):
		kind = ErrDeviceBusy
	case strings.Contains(msg, "overconstrained") || strings.Contains(msg, "constraint"):
		kind = ErrUnsupportedConstraints
	case strings.Contains(msg, "secure context") || strings.Contains(msg, "https"):
		kind = ErrInsecureContext
	}
	return &CameraError{Kind: kind, Cause: err}
}
