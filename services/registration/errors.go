package registration

import "errors"

// Rejection kinds.
const (
	KindValidation = "validation"
	KindConflict   = "conflict"
)

// Rejection messages returned to clients.
const (
	MsgBotDetected       = "bot activity detected"
	MsgTooFast           = "submission too fast"
	MsgMalicious         = "malicious content detected"
	MsgInvalidForm       = "invalid form data"
	MsgInvalidDriveLink  = "invalid drive link format"
	MsgInvalidEmail      = "invalid email format"
	MsgEmailTaken        = "email already registered"
	MsgTeamTaken         = "team name taken"
	MsgDeviceTaken       = "one registration per device"
	MsgTransactionTaken  = "transaction id already used"
	MsgDuplicateRecorded = "registration already exists"
)

// RejectionError is a client-facing refusal. Anything else returned by the
// pipeline is an internal failure.
type RejectionError struct {
	Kind    string
	Message string
}

func (e *RejectionError) Error() string { return e.Message }

func validationError(msg string) error {
	return &RejectionError{Kind: KindValidation, Message: msg}
}

func conflictError(msg string) error {
	return &RejectionError{Kind: KindConflict, Message: msg}
}

// AsRejection unwraps a RejectionError from err.
func AsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
