package visitor

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusCheckedIn  Status = "checked-in"
	StatusCheckedOut Status = "checked-out"
)

// AllStatuses returns the closed status enumeration in lifecycle order
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusApproved,
		StatusRejected,
		StatusCheckedIn,
		StatusCheckedOut,
	}
}

func (s Status) IsValid() bool {
	for _, st := range AllStatuses() {
		if s == st {
			return true
		}
	}
	return false
}

// Time slot labels accepted at registration
const (
	TimeSlotMorning     = "9:00 AM - 11:00 AM"
	TimeSlotLateMorning = "11:00 AM - 1:00 PM"
	TimeSlotEarlyAfter  = "1:00 PM - 3:00 PM"
	TimeSlotLateAfter   = "3:00 PM - 5:00 PM"
)

func AllTimeSlots() []string {
	return []string{
		TimeSlotMorning,
		TimeSlotLateMorning,
		TimeSlotEarlyAfter,
		TimeSlotLateAfter,
	}
}

type Visitor struct {
	ID           string
	FullName     string
	Contact      string
	Purpose      string
	HostEmployee string
	Company      *string
	TimeSlot     *string
	Status       Status
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Photo        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ApplyStatus sets the status and stamps check-in/check-out times.
// An existing timestamp is never overwritten, so re-entering a status is idempotent.
func (v *Visitor) ApplyStatus(status Status, now time.Time) {
	v.Status = status
	switch status {
	case StatusCheckedIn:
		if v.CheckInTime == nil {
			t := now
			v.CheckInTime = &t
		}
	case StatusCheckedOut:
		if v.CheckOutTime == nil {
			t := now
			v.CheckOutTime = &t
		}
	}
}
