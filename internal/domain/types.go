package domain

type BookingStatus string

const (
	StatusBooked                BookingStatus = "booked"
	StatusArrived               BookingStatus = "arrived"
	StatusCompleted             BookingStatus = "completed"
	StatusCancellationRequested BookingStatus = "cancellation_requested"
	StatusCancelled             BookingStatus = "cancelled"
)

// transitions is the set of legal status changes. Same-status updates are
// always permitted so repeated calls stay idempotent.
var transitions = map[BookingStatus][]BookingStatus{
	StatusBooked:                {StatusArrived, StatusCancellationRequested},
	StatusArrived:               {StatusCompleted},
	StatusCancellationRequested: {StatusCancelled, StatusBooked},
	StatusCompleted:             {},
	StatusCancelled:             {},
}

func (s BookingStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether a booking in status s may move to next.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	if s == next {
		return true
	}
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition out of s is possible.
func (s BookingStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type Court struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CourtRates maps a court id to its hourly rate. Entries for removed courts
// may linger; readers must tolerate missing ids.
type CourtRates map[int]float64

type Booking struct {
	ID      string `json:"id"`
	CourtID int    `json:"courtId"`
	// Date is a calendar day in YYYY-MM-DD form.
	Date string `json:"date"`
	// TimeSlot is one slot label or several contiguous labels joined
	// by " & ", e.g. "14:00 - 15:00 & 15:00 - 16:00".
	TimeSlot      string        `json:"timeSlot"`
	CustomerName  string        `json:"customerName"`
	CustomerPhone string        `json:"customerPhone"`
	UserEmail     string        `json:"userEmail,omitempty"`
	Status        BookingStatus `json:"status"`
}

type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	// Password holds the bcrypt hash, never the plaintext.
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Principal is the authenticated identity resolved from a session token.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
