package models

import "time"

// InquiryRequest is a general contact form submission.
type InquiryRequest struct {
	FullName string  `json:"full_name" bson:"full_name"`
	Email    *string `json:"email" bson:"email"`
	Phone    *string `json:"phone" bson:"phone"`
	Subject  string  `json:"subject" bson:"subject"`
	Message  string  `json:"message" bson:"message"`
}

type Inquiry struct {
	ID             string `json:"_id,omitempty" bson:"_id,omitempty"`
	InquiryRequest `bson:",inline"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

type InquiryReceipt struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
