package interview

import "errors"

var (
	// ErrConnectionFailure means the remote channel never opened.
	ErrConnectionFailure = errors.New("connection failure")
	// ErrTransportError means the remote channel failed mid-session.
	ErrTransportError = errors.New("transport error")
	// ErrDeviceError means a capture or playback device was unavailable.
	ErrDeviceError = errors.New("device error")

	ErrSessionStarted    = errors.New("session already started")
	ErrSessionNotActive  = errors.New("session is not active")
	ErrSessionTerminated = errors.New("session already terminated")
)
