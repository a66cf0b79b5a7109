package agent

import (
	"fulfillment/internal/pkg/errs"
)

// EmploymentStatus represents the employment state of a delivery agent.
// Only Active agents participate in order assignment.
type EmploymentStatus int

const (
	// EmploymentUnknown represents an invalid or undefined employment status.
	EmploymentUnknown EmploymentStatus = iota

	// Active agents are working and eligible for new assignments.
	Active

	// Inactive agents are off shift; they keep their history but receive no orders.
	Inactive

	// Suspended agents are temporarily barred from assignments.
	Suspended

	// Terminated agents have left the fleet permanently.
	Terminated
)

// getEmploymentStatusStrings returns a map of EmploymentStatus values to their string representations.
func getEmploymentStatusStrings() map[EmploymentStatus]string {
	return map[EmploymentStatus]string{
		EmploymentUnknown: "unknown",
		Active:            "active",
		Inactive:          "inactive",
		Suspended:         "suspended",
		Terminated:        "terminated",
	}
}

// Validate checks that the employment status is a known value.
func (s EmploymentStatus) Validate() error {
	if s == EmploymentUnknown {
		return errs.NewValueIsRequiredError("employment status")
	}
	if _, ok := getEmploymentStatusStrings()[s]; !ok {
		return errs.NewValueIsRequiredError("employment status")
	}
	return nil
}

// String returns the string representation of the employment status.
func (s EmploymentStatus) String() string {
	if name, ok := getEmploymentStatusStrings()[s]; ok {
		return name
	}
	return getEmploymentStatusStrings()[EmploymentUnknown]
}

// EmploymentStatusFromString parses the string representation of an employment status.
func EmploymentStatusFromString(name string) (EmploymentStatus, error) {
	for status, str := range getEmploymentStatusStrings() {
		if str == name && status != EmploymentUnknown {
			return status, nil
		}
	}
	return EmploymentUnknown, errs.NewValueIsRequiredError("employment status")
}
