package service

// Outcome labels passed to a Recorder.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidRequest     = "invalid_request"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeUserNotFound       = "user_not_found"
	OutcomeEmailTaken         = "email_taken"
	OutcomeMissingToken       = "missing_token"
	OutcomeRejected           = "rejected"
	OutcomeUnavailable        = "unavailable"
	OutcomeError              = "error"
)

// Recorder is told the outcome of each session operation.
// metrics.Metrics implements it.
type Recorder interface {
	Login(outcome string)
	Registration(outcome string)
	Refresh(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) Login(string)        {}
func (nopRecorder) Registration(string) {}
func (nopRecorder) Refresh(string)      {}
