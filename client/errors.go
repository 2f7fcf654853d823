package client

import "errors"

var (
	// ErrNoDialer is returned when a Client is constructed without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order to
	// reach the node.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrNotInitialized is returned when an operation is attempted on a Client
	// whose transport could not be established.
	ErrNotInitialized = errors.New("client not initialized")

	// ErrAlreadyClosed is returned when Close is called on a Client that has
	// already been closed.
	ErrAlreadyClosed = errors.New("client already closed")

	// ErrLoopRunning is returned when Loop is called while another Loop is
	// still running.
	ErrLoopRunning = errors.New("loop already running")

	// ErrCommandFailed is returned when the node answers ERROR for a reason
	// not covered by a more specific error.
	ErrCommandFailed = errors.New("command failed")

	// ErrNotConfigured is returned when the node reports that the sensor or
	// pump pin is not configured.
	ErrNotConfigured = errors.New("pin not configured on node")

	// ErrUnknownCommand is returned when the node does not recognise the
	// command, usually because its firmware is older than the client.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUnexpectedResponse is returned when the node answers OK but the data
	// lines do not have the expected shape.
	ErrUnexpectedResponse = errors.New("unexpected response")
)
