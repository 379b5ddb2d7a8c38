package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/bookwise-ai/bookwise/internal/catalog"
)

// Display labels and icons per field, used by progress summaries, error
// bullets, and the confirmation card.
var fieldIcons = map[string]string{
	FieldName:        "👤",
	FieldEmail:       "📧",
	FieldPhone:       "📱",
	FieldServiceType: "🎯",
	FieldDate:        "📅",
	FieldTime:        "⏰",
}

func fieldLabel(field string) string {
	return titleCase(strings.ReplaceAll(field, "_", " "))
}

func fieldIcon(field string) string {
	if icon, ok := fieldIcons[field]; ok {
		return icon
	}
	return "•"
}

const openingPrompt = "Great! Let's make a booking. What's your name?"

// questionFor renders the request for one missing field. The phrasing doubles
// as the booking-progress marker the intent classifier looks for, so changes
// here must stay in sync with the classifier's marker table.
func questionFor(field string, now time.Time) string {
	switch field {
	case FieldName:
		return "What's your name?"
	case FieldEmail:
		return "What's your email address?\n📧 *Example: john.doe@gmail.com*"
	case FieldPhone:
		return "What's your phone number?\n📱 *Example: 9876543210*"
	case FieldServiceType:
		var b strings.Builder
		b.WriteString("What type of service would you like?\n\n**Available Services:**\n")
		for _, svc := range catalog.Services() {
			fmt.Fprintf(&b, "%s **%s** - %s\n", svc.Icon, svc.Name, svc.PriceLabel())
		}
		b.WriteString("\n💡 *Type the service name (e.g., 'Doctor', 'Salon')*")
		return b.String()
	case FieldDate:
		today := now.Format("2006-01-02")
		tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")
		return fmt.Sprintf("What date?\n\n📅 **Format:** YYYY-MM-DD\n**Quick picks:**\n• Today: `%s`\n• Tomorrow: `%s`", today, tomorrow)
	case FieldTime:
		return "What time?\n\n⏰ **Format:** HH:MM (24-hour)\n**Examples:** `09:00`, `14:30`, `18:00`"
	}
	return fmt.Sprintf("Please provide %s.", strings.ReplaceAll(field, "_", " "))
}

// progressSummary lists collected fields in required-field order, never in
// insertion order.
func progressSummary(draft Draft) string {
	var collected []string
	for _, f := range RequiredFields {
		if v := draft.Value(f); v != "" {
			collected = append(collected, fmt.Sprintf("%s %s: **%s**", fieldIcon(f), fieldLabel(f), v))
		}
	}
	if len(collected) == 0 {
		return ""
	}
	return "✅ **Information collected so far:**\n" + strings.Join(collected, "\n") + "\n\n"
}

func validationErrorReply(errs []ValidationError) string {
	var b strings.Builder
	b.WriteString("⚠️ I found some issues:\n\n")
	for _, e := range errs {
		fmt.Fprintf(&b, "• **%s**: %s\n", fieldLabel(e.Field), e.Message)
	}
	fmt.Fprintf(&b, "\nPlease provide the correct %s.", strings.ReplaceAll(errs[0].Field, "_", " "))
	return b.String()
}

func serviceDisplay(serviceType string) catalog.Service {
	if svc, ok := catalog.Lookup(serviceType); ok {
		return svc
	}
	return catalog.Service{Name: serviceType, Icon: "🎯", Message: "Thank you for booking!"}
}

const summaryDivider = "━━━━━━━━━━━━━━━━━━━━━━━━━━"

// confirmationSummary renders the full-draft card asking for a yes/no.
func confirmationSummary(draft Draft) string {
	svc := serviceDisplay(draft.ServiceType)
	var b strings.Builder
	fmt.Fprintf(&b, "%s **Perfect! Confirm your booking:**\n\n%s\n\n", svc.Icon, summaryDivider)
	fmt.Fprintf(&b, "👤 **Name:** %s\n", draft.Name)
	fmt.Fprintf(&b, "📧 **Email:** %s\n", draft.Email)
	fmt.Fprintf(&b, "📱 **Phone:** %s\n", draft.Phone)
	fmt.Fprintf(&b, "%s **Service:** %s\n", svc.Icon, draft.ServiceType)
	fmt.Fprintf(&b, "💰 **Price:** %s\n", draft.Price)
	fmt.Fprintf(&b, "📅 **Date:** %s\n", draft.Date)
	fmt.Fprintf(&b, "⏰ **Time:** %s\n\n%s\n\n", draft.Time, summaryDivider)
	b.WriteString("✅ Reply **'yes'** to confirm\n❌ Reply **'no'** to restart")
	return b.String()
}

// confirmedReply renders the terminal success message. emailSent toggles the
// confirmation-email line; a failed email never fails the booking.
func confirmedReply(draft Draft, bookingID int64, emailSent bool) string {
	svc := serviceDisplay(draft.ServiceType)
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 **BOOKING CONFIRMED!**\n\n%s\n\n", summaryDivider)
	fmt.Fprintf(&b, "📋 **Booking ID:** `%d`\n", bookingID)
	fmt.Fprintf(&b, "%s **Service:** %s\n", svc.Icon, draft.ServiceType)
	fmt.Fprintf(&b, "📅 **Date:** %s at %s\n", draft.Date, draft.Time)
	fmt.Fprintf(&b, "💰 **Total:** %s\n\n%s\n\n", draft.Price, summaryDivider)
	if emailSent {
		fmt.Fprintf(&b, "✅ **Confirmation email sent to:**\n   %s\n\n", draft.Email)
	} else {
		b.WriteString("⚠️ *Email could not be sent, but booking is saved*\n\n")
	}
	fmt.Fprintf(&b, "💫 **%s**\n\n", svc.Message)
	b.WriteString("🌟 *Your booking is confirmed. You're all set!*\n\nNeed anything else? Just ask! 😊")
	return b.String()
}

const (
	restartReply       = "No problem! Let's start fresh. What service would you like to book?"
	confirmPromptReply = "Please reply **'yes'** to confirm or **'no'** to restart."
)

func persistenceFailureReply(err error) string {
	return fmt.Sprintf("❌ Error: %v\n\nPlease try again.", err)
}
