// Package booking implements the slot-filling engine behind the assistant:
// field validation, free-text field extraction, and the per-conversation
// state machine that collects a complete booking, confirms it with the user,
// and persists it.
package booking

import "github.com/bookwise-ai/bookwise/internal/catalog"

// Field names used across extraction, validation, and prompts.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldServiceType = "service_type"
	FieldDate        = "date"
	FieldTime        = "time"
)

// RequiredFields is the fixed collection order. Prompts always ask for the
// first missing entry of this list, regardless of the order values arrived in.
var RequiredFields = []string{FieldName, FieldEmail, FieldPhone, FieldServiceType, FieldDate, FieldTime}

// Draft accumulates booking fields across turns. Every non-empty field has
// already passed validation; Price is derived from the catalog the moment
// ServiceType is set and is never user-supplied.
type Draft struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	ServiceType string `json:"service_type,omitempty"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	Price       string `json:"price,omitempty"`
}

// SessionState carries the per-conversation dialogue flags. It is passed by
// value into every turn and returned updated, so the flow itself holds no
// cross-turn state.
type SessionState struct {
	Draft                Draft `json:"draft"`
	AwaitingConfirmation bool  `json:"awaiting_confirmation"`

	// Optional values staged by a date/time picker in the UI layer. They are
	// consumed when the user references the selection ("use selected date").
	SuggestedDate string `json:"suggested_date,omitempty"`
	SuggestedTime string `json:"suggested_time,omitempty"`
}

// Value returns the draft's value for a required field.
func (d Draft) Value(field string) string {
	switch field {
	case FieldName:
		return d.Name
	case FieldEmail:
		return d.Email
	case FieldPhone:
		return d.Phone
	case FieldServiceType:
		return d.ServiceType
	case FieldDate:
		return d.Date
	case FieldTime:
		return d.Time
	}
	return ""
}

func (d *Draft) set(field, value string) {
	switch field {
	case FieldName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	case FieldServiceType:
		d.ServiceType = value
	case FieldDate:
		d.Date = value
	case FieldTime:
		d.Time = value
	}
}

// Known reports which required fields already hold values.
func (d Draft) Known() map[string]bool {
	known := make(map[string]bool, len(RequiredFields))
	for _, f := range RequiredFields {
		if d.Value(f) != "" {
			known[f] = true
		}
	}
	return known
}

// Missing lists the required fields still empty, in collection order.
func (d Draft) Missing() []string {
	var missing []string
	for _, f := range RequiredFields {
		if d.Value(f) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// IsEmpty reports whether no field has been collected yet.
func (d Draft) IsEmpty() bool {
	return len(d.Missing()) == len(RequiredFields)
}

// Complete reports whether every required field is present.
func (d Draft) Complete() bool {
	return len(d.Missing()) == 0
}

// Merge copies validated fields into the draft. Price is derived as soon as
// the service type lands; unknown service types (an LLM guess outside the
// catalog) price as free.
func (d *Draft) Merge(fields map[string]string) {
	for _, f := range RequiredFields {
		if v, ok := fields[f]; ok && v != "" {
			d.set(f, v)
		}
	}
	if d.ServiceType != "" && d.Price == "" {
		if svc, ok := catalog.Lookup(d.ServiceType); ok {
			d.Price = svc.PriceLabel()
		} else {
			d.Price = "Free"
		}
	}
}
