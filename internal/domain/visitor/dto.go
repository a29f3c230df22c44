package visitor

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/validator"
)

type CreateVisitorRequest struct {
	FullName     string  `json:"full_name"`
	Contact      string  `json:"contact"`
	Purpose      string  `json:"purpose"`
	HostEmployee string  `json:"host_employee"`
	Company      *string `json:"company,omitempty"`
	TimeSlot     *string `json:"time_slot,omitempty"`

	// Photo is the blob reference of an already uploaded photo
	Photo *string `json:"-"`
}

// Validate checks required fields. requireTimeSlot selects the time-slot variant,
// where a slot must be supplied; a supplied slot must always be a known label.
func (r *CreateVisitorRequest) Validate(requireTimeSlot bool) error {
	var errs validator.ValidationErrors

	required := []struct {
		field string
		value string
	}{
		{"full_name", r.FullName},
		{"contact", r.Contact},
		{"purpose", r.Purpose},
		{"host_employee", r.HostEmployee},
	}
	for _, f := range required {
		if validator.IsEmpty(f.value) {
			errs = append(errs, validator.ValidationError{
				Field:   f.field,
				Message: f.field + " is required",
			})
		} else if len(f.value) > 255 {
			errs = append(errs, validator.ValidationError{
				Field:   f.field,
				Message: f.field + " must not exceed 255 characters",
			})
		}
	}

	if r.Company != nil && len(*r.Company) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "company",
			Message: "company must not exceed 255 characters",
		})
	}

	if r.TimeSlot == nil || validator.IsEmpty(*r.TimeSlot) {
		if requireTimeSlot {
			errs = append(errs, validator.ValidationError{
				Field:   "time_slot",
				Message: "time_slot is required",
			})
		}
	} else if !validator.IsInSlice(*r.TimeSlot, AllTimeSlots()) {
		errs = append(errs, validator.ValidationError{
			Field:   "time_slot",
			Message: "time_slot must be one of: " + strings.Join(AllTimeSlots(), ", "),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Normalize trims input and drops empty optional fields
func (r *CreateVisitorRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Contact = strings.TrimSpace(r.Contact)
	r.Purpose = strings.TrimSpace(r.Purpose)
	r.HostEmployee = strings.TrimSpace(r.HostEmployee)
	if r.Company != nil && validator.IsEmpty(*r.Company) {
		r.Company = nil
	}
	if r.TimeSlot != nil && validator.IsEmpty(*r.TimeSlot) {
		r.TimeSlot = nil
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	if !Status(r.Status).IsValid() {
		statuses := make([]string, 0, len(AllStatuses()))
		for _, s := range AllStatuses() {
			statuses = append(statuses, string(s))
		}
		return validator.Single("status", "status must be one of: "+strings.Join(statuses, ", "))
	}
	return nil
}

type VisitorResponse struct {
	ID           string     `json:"id"`
	FullName     string     `json:"full_name"`
	Contact      string     `json:"contact"`
	Purpose      string     `json:"purpose"`
	HostEmployee string     `json:"host_employee"`
	Company      *string    `json:"company"`
	TimeSlot     *string    `json:"time_slot"`
	Status       Status     `json:"status"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Photo        *string    `json:"photo"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func ToResponse(v Visitor) VisitorResponse {
	return VisitorResponse{
		ID:           v.ID,
		FullName:     v.FullName,
		Contact:      v.Contact,
		Purpose:      v.Purpose,
		HostEmployee: v.HostEmployee,
		Company:      v.Company,
		TimeSlot:     v.TimeSlot,
		Status:       v.Status,
		CheckInTime:  v.CheckInTime,
		CheckOutTime: v.CheckOutTime,
		Photo:        v.Photo,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func ToResponses(visitors []Visitor) []VisitorResponse {
	out := make([]VisitorResponse, 0, len(visitors))
	for _, v := range visitors {
		out = append(out, ToResponse(v))
	}
	return out
}
