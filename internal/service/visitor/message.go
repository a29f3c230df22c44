package visitor

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
	"time"

	"github.com/cmlabs-hris/vms-backend-go/internal/domain/visitor"
)

//go:embed templates/*.txt
var templateFS embed.FS

var messageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.txt"))

const (
	subjectVisitorAdded  = "New Visitor Registered"
	subjectStatusUpdated = "Visitor Status Updated"

	notYet       = "Not yet"
	notSpecified = "Not specified"
	timeLayout   = "02 Jan 2006 15:04 MST"
)

type visitorMessageData struct {
	FullName     string
	Contact      string
	Purpose      string
	HostEmployee string
	Company      string
	TimeSlot     string
	Status       string
	CheckInTime  string
	CheckOutTime string
}

func newVisitorMessageData(v visitor.Visitor) visitorMessageData {
	data := visitorMessageData{
		FullName:     v.FullName,
		Contact:      v.Contact,
		Purpose:      v.Purpose,
		HostEmployee: v.HostEmployee,
		TimeSlot:     notSpecified,
		Status:       string(v.Status),
		CheckInTime:  formatTimestamp(v.CheckInTime),
		CheckOutTime: formatTimestamp(v.CheckOutTime),
	}
	if v.Company != nil {
		data.Company = *v.Company
	}
	if v.TimeSlot != nil {
		data.TimeSlot = *v.TimeSlot
	}
	return data
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return notYet
	}
	return t.Format(timeLayout)
}

func renderMessage(name string, v visitor.Visitor) (string, error) {
	var body bytes.Buffer
	if err := messageTemplates.ExecuteTemplate(&body, name, newVisitorMessageData(v)); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return body.String(), nil
}
