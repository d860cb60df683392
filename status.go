package catalog

import "fmt"

// LoanStatus is the availability of a BookInstance. Its value is the code
// stored in the status column. Any status may be replaced by any other.
type LoanStatus string

const (
	StatusMaintenance LoanStatus = "m"
	StatusOnLoan      LoanStatus = "o"
	StatusAvailable   LoanStatus = "a"
	StatusReserved    LoanStatus = "r"
)

// LoanStatuses lists every status in display order.
var LoanStatuses = []LoanStatus{
	StatusMaintenance,
	StatusOnLoan,
	StatusAvailable,
	StatusReserved,
}

func (s LoanStatus) Valid() bool {
	switch s {
	case StatusMaintenance, StatusOnLoan, StatusAvailable, StatusReserved:
		return true
	}
	return false
}

func (s LoanStatus) String() string {
	switch s {
	case StatusMaintenance:
		return "Maintenance"
	case StatusOnLoan:
		return "On loan"
	case StatusAvailable:
		return "Available"
	case StatusReserved:
		return "Reserved"
	default:
		return fmt.Sprintf("LoanStatus(%q)", string(s))
	}
}

// ParseLoanStatus accepts either a status code or its label.
func ParseLoanStatus(v string) (LoanStatus, error) {
	for _, s := range LoanStatuses {
		if v == string(s) || v == s.String() {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: unknown loan status %q", ErrValidation, v)
}
