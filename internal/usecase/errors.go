package usecase

import "errors"

// DomainError is a rule violation detected before any remote call.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps a failed remote call. Message is the notification
// shown to the user.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

const (
	CodeInvalidStage         = "INVALID_STAGE"
	CodeTransitionNotAllowed = "TRANSITION_NOT_ALLOWED"
	CodeLeadIDRequired       = "LEAD_ID_REQUIRED"
	CodeConclusionRequired   = "CONCLUSION_REQUIRED"
	CodeValidation           = "VALIDATION_ERROR"

	CodeStatusUpdateFailed = "STATUS_UPDATE_FAILED"
	CodeFollowUpFailed     = "FOLLOW_UP_FAILED"
	CodeCreateLeadFailed   = "CREATE_LEAD_FAILED"
	CodeUpdateLeadFailed   = "UPDATE_LEAD_FAILED"
)

const (
	MsgStatusUpdateFailed = "failed to update lead status"
	MsgFollowUpFailed     = "failed to add follow-up"
	MsgCreateLeadFailed   = "failed to create lead"
	MsgUpdateLeadFailed   = "failed to update lead"
)
