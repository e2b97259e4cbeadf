package domain

import "time"

// RegistrationState is a step of the registration state machine:
// RECEIVED → LOCAL_CREATED → REMOTE_CREATED, or FAILED from any step.
type RegistrationState string

const (
	RegistrationReceived      RegistrationState = "RECEIVED"
	RegistrationLocalCreated  RegistrationState = "LOCAL_CREATED"
	RegistrationRemoteCreated RegistrationState = "REMOTE_CREATED"
	RegistrationFailed        RegistrationState = "FAILED"
	// RegistrationCompensated is written by the reconciler after it removed a
	// local record whose remote counterpart was never created.
	RegistrationCompensated RegistrationState = "COMPENSATED"
)

// RegistrationStep names the step a FAILED registration stopped at.
type RegistrationStep string

const (
	StepValidate        RegistrationStep = "validate"
	StepLocalCreate     RegistrationStep = "local_create"
	StepRemoteProvision RegistrationStep = "remote_provision"
)

// RegistrationEvent is one entry of the provisioning journal.
type RegistrationEvent struct {
	UserID   string            `json:"userId,omitempty"`
	Username string            `json:"username"`
	Email    string            `json:"email"`
	State    RegistrationState `json:"state"`
	Step     RegistrationStep  `json:"step,omitempty"`
	Error    string            `json:"error,omitempty"`
	At       time.Time         `json:"at"`
}

// Key returns the value used to keep events of one registration in order.
func (e RegistrationEvent) Key() string {
	if e.Email != "" {
		return e.Email
	}
	return e.Username
}
