package api

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"pictiv/internal/models"
)

// Payload fields are pointers so a missing field can be told apart from an
// empty one; only missing required fields are rejected.
type bookingPayload struct {
	FullName           *string `json:"full_name" validate:"required"`
	Email              *string `json:"email" validate:"omitempty,email"`
	Phone              *string `json:"phone" validate:"required"`
	ServiceKey         *string `json:"service_key" validate:"required"`
	Date               *string `json:"date" validate:"required"`
	Time               *string `json:"time" validate:"required"`
	Location           *string `json:"location" validate:"required"`
	Notes              *string `json:"notes"`
	ContactViaWhatsapp *bool   `json:"contact_via_whatsapp"`
}

func (p *bookingPayload) toRequest() models.BookingRequest {
	contact := true
	if p.ContactViaWhatsapp != nil {
		contact = *p.ContactViaWhatsapp
	}
	return models.BookingRequest{
		FullName:           value(p.FullName),
		Email:              p.Email,
		Phone:              value(p.Phone),
		ServiceKey:         value(p.ServiceKey),
		Date:               value(p.Date),
		Time:               value(p.Time),
		Location:           value(p.Location),
		Notes:              p.Notes,
		ContactViaWhatsapp: contact,
	}
}

type inquiryPayload struct {
	FullName *string `json:"full_name" validate:"required"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Subject  *string `json:"subject" validate:"required"`
	Message  *string `json:"message" validate:"required"`
}

func (p *inquiryPayload) toRequest() models.InquiryRequest {
	return models.InquiryRequest{
		FullName: value(p.FullName),
		Email:    p.Email,
		Phone:    p.Phone,
		Subject:  value(p.Subject),
		Message:  value(p.Message),
	}
}

// assignFields copies each object member into the payload field whose json
// key matches it exactly. Keys that differ only in case are ignored.
func assignFields(object map[string]json.RawMessage, payload any) error {
	v := reflect.ValueOf(payload).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		raw, ok := object[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, v.Field(i).Addr().Interface()); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				typeErr.Field = name
			}
			return err
		}
	}
	return nil
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
