package domain

import "fmt"

// TripStage is one leg of a simulated trip. Exactly one is active at a time.
type TripStage string

const (
	StageSearchingDriver     TripStage = "searching_driver"
	StageDriverFound         TripStage = "driver_found"
	StageDriverToPickup      TripStage = "driver_to_pickup"
	StagePickupToDestination TripStage = "pickup_to_destination"
	StageArrived             TripStage = "arrived"
)

// validTransitions defines the stage machine. Every stage has at most one successor.
var validTransitions = map[TripStage][]TripStage{
	StageSearchingDriver:     {StageDriverFound},
	StageDriverFound:         {StageDriverToPickup},
	StageDriverToPickup:      {StagePickupToDestination},
	StagePickupToDestination: {StageArrived},
	StageArrived:             {},
}

// IsValid returns true if the stage is a recognized trip stage.
func (s TripStage) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this stage to the target is allowed.
func (s TripStage) CanTransitionTo(target TripStage) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Next returns the successor stage, or false when the stage is terminal.
func (s TripStage) Next() (TripStage, bool) {
	allowed := validTransitions[s]
	if len(allowed) == 0 {
		return "", false
	}
	return allowed[0], true
}

// IsTerminal returns true if no further transitions are possible from this stage.
func (s TripStage) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// String returns the string representation of the stage.
func (s TripStage) String() string {
	return string(s)
}

// ParseTripStage converts a string to a TripStage, returning an error if invalid.
func ParseTripStage(s string) (TripStage, error) {
	stage := TripStage(s)
	if !stage.IsValid() {
		return "", fmt.Errorf("invalid trip stage: %s", s)
	}
	return stage, nil
}
