package booking

// State is a step of the booking flow.
type State string

const (
	StateValidating         State = "validating"
	StateSalonChecked       State = "salon_checked"
	StateServiceChecked     State = "service_checked"
	StateTimeValidated      State = "time_validated"
	StateAppointmentWritten State = "appointment_written"
	StateServiceAttached    State = "service_attached"

	StateRejected   State = "rejected"
	StateRolledBack State = "rolled_back"
)

var nextState = map[State]State{
	StateValidating:         StateSalonChecked,
	StateSalonChecked:       StateServiceChecked,
	StateServiceChecked:     StateTimeValidated,
	StateTimeValidated:      StateAppointmentWritten,
	StateAppointmentWritten: StateServiceAttached,
}

// Terminal reports whether no further step follows s.
func (s State) Terminal() bool {
	_, ok := nextState[s]
	return !ok
}

// failState is where a failure at s ends up. Once the appointment row exists
// any failure is a rollback.
func failState(s State) State {
	if s == StateAppointmentWritten {
		return StateRolledBack
	}
	return StateRejected
}
