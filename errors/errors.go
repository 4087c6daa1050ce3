package errors

import "fmt"

var (
	ErrNameTaken         = fmt.Errorf("display name already in use")
	ErrSenderUnknown     = fmt.Errorf("connection has not joined")
	ErrMessageTooLong    = fmt.Errorf("message exceeds maximum length")
	ErrRecipientNotFound = fmt.Errorf("recipient not connected")
	ErrInvalidGroup      = fmt.Errorf("group does not exist")
	ErrNotMember         = fmt.Errorf("not a participant of the group")
	ErrSessionClosed     = fmt.Errorf("session outbound closed")
	ErrUnknownCommand    = fmt.Errorf("unknown command verb")
	ErrMalformedCommand  = fmt.Errorf("malformed command arguments")
	ErrWorkerPanic       = fmt.Errorf("worker panic")
)
