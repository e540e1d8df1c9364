package service

import (
	"strings"

	"pictiv/internal/models"
)

const (
	whatsappBaseURL = "https://wa.me/"
	// lineBreak is a newline already percent-encoded for the text parameter.
	lineBreak = "%0A"
)

// WhatsAppLink builds the click-to-chat URL that opens a chat with the
// studio prefilled with the booking summary. Field values are embedded
// as submitted; only the line breaks are encoded.
func WhatsAppLink(studioNumber string, booking models.BookingRequest) string {
	notes := "-"
	if booking.Notes != nil && *booking.Notes != "" {
		notes = *booking.Notes
	}

	var msg strings.Builder
	msg.WriteString("New Booking Request - Pictiv.Studio" + lineBreak)
	msg.WriteString("Name: " + booking.FullName + lineBreak)
	msg.WriteString("Phone: " + booking.Phone + lineBreak)
	msg.WriteString("Service: " + booking.ServiceKey + lineBreak)
	msg.WriteString("Date: " + booking.Date + " " + booking.Time + lineBreak)
	msg.WriteString("Location: " + booking.Location + lineBreak)
	msg.WriteString("Notes: " + notes)

	return whatsappBaseURL + strings.ReplaceAll(studioNumber, "+", "") + "?text=" + msg.String()
}
