// Package catalog holds the static table of bookable services: pricing,
// display metadata, and the trigger keywords used to recognize a service in
// free text. The table is ordered; keyword matching is first-match-wins in
// table order.
package catalog

import (
	"strconv"
	"strings"
)

// Service describes one bookable service type.
type Service struct {
	Name     string
	Price    int // dollars, 0 = free
	Icon     string
	Message  string
	Keywords []string
}

// services is the canonical ordered catalog. Order matters: the keyword
// matcher returns the first service whose trigger list hits.
var services = []Service{
	{
		Name:     "Doctor Appointment",
		Price:    100,
		Icon:     "🏥",
		Message:  "Your health is our priority!",
		Keywords: []string{"doctor", "medical", "physician", "healthcare", "clinic", "checkup", "consultation", "appointment"},
	},
	{
		Name:     "Salon Service",
		Price:    50,
		Icon:     "💇",
		Message:  "Get ready to look fabulous!",
		Keywords: []string{"salon", "haircut", "hair", "beauty", "manicure", "pedicure", "styling"},
	},
	{
		Name:     "Hotel Reservation",
		Price:    150,
		Icon:     "🏨",
		Message:  "Enjoy your comfortable stay!",
		Keywords: []string{"hotel", "room", "accommodation", "stay", "resort", "lodge"},
	},
	{
		Name:     "Event Booking",
		Price:    200,
		Icon:     "🎉",
		Message:  "Let's make your event memorable!",
		Keywords: []string{"event", "party", "celebration", "wedding", "conference", "meeting"},
	},
	{
		Name:     "Fitness Class",
		Price:    30,
		Icon:     "💪",
		Message:  "Time to get fit and healthy!",
		Keywords: []string{"fitness", "gym", "workout", "exercise", "yoga", "training", "class"},
	},
	{
		Name:     "Restaurant Reservation",
		Price:    0,
		Icon:     "🍽️",
		Message:  "Bon appétit! Enjoy your meal!",
		Keywords: []string{"restaurant", "dining", "dinner", "lunch", "table", "food", "eat"},
	},
	{
		Name:     "Travel Booking",
		Price:    500,
		Icon:     "✈️",
		Message:  "Have an amazing journey!",
		Keywords: []string{"travel", "trip", "tour", "vacation", "flight", "ticket", "journey"},
	},
	{
		Name:     "Spa Treatment",
		Price:    120,
		Icon:     "🧖",
		Message:  "Relax and rejuvenate!",
		Keywords: []string{"spa", "massage", "treatment", "therapy", "relaxation", "wellness"},
	},
	{
		Name:     "Consultation",
		Price:    80,
		Icon:     "📋",
		Message:  "We look forward to helping you!",
		Keywords: []string{"consult", "advice", "guidance", "counseling"},
	},
}

// Services returns the catalog in canonical order.
func Services() []Service {
	return services
}

// Names returns the canonical service names in table order.
func Names() []string {
	names := make([]string, len(services))
	for i, s := range services {
		names[i] = s.Name
	}
	return names
}

// Lookup finds a service by its canonical name.
func Lookup(name string) (Service, bool) {
	for _, s := range services {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}

// MatchKeywords scans text (case-insensitive substring match) against each
// service's trigger words and returns the first service that matches. Ties are
// broken by table order, not by where the keyword appears in the text.
func MatchKeywords(text string) (Service, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, s := range services {
		for _, kw := range s.Keywords {
			if strings.Contains(lower, kw) {
				return s, true
			}
		}
	}
	return Service{}, false
}

// PriceLabel renders a service price the way it appears in chat and email.
func (s Service) PriceLabel() string {
	if s.Price > 0 {
		return "$" + strconv.Itoa(s.Price)
	}
	return "Free"
}
