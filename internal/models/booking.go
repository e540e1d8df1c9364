package models

import "time"

// BookingRequest is a session booking submitted from the site.
// ServiceKey is free-form and not checked against the catalog.
type BookingRequest struct {
	FullName           string  `json:"full_name" bson:"full_name"`
	Email              *string `json:"email" bson:"email"`
	Phone              string  `json:"phone" bson:"phone"`
	ServiceKey         string  `json:"service_key" bson:"service_key"`
	Date               string  `json:"date" bson:"date"`
	Time               string  `json:"time" bson:"time"`
	Location           string  `json:"location" bson:"location"`
	Notes              *string `json:"notes" bson:"notes"`
	ContactViaWhatsapp bool    `json:"contact_via_whatsapp" bson:"contact_via_whatsapp"`
}

// Booking is the persisted form of a BookingRequest.
type Booking struct {
	ID             string `json:"_id,omitempty" bson:"_id,omitempty"`
	BookingRequest `bson:",inline"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// BookingReceipt is returned to the visitor after a booking is stored.
type BookingReceipt struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	WhatsApp string `json:"whatsapp"`
}
