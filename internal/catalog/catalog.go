// Package catalog holds the studio's built-in service packages and
// announcements. They seed empty collections and back the fallback
// responses when the document store cannot be read.
package catalog

import "pictiv/internal/models"

var defaultServices = []models.ServiceItem{
	{
		Key:         "wedding_day",
		Name:        "Wedding Day Package",
		Description: "Full-day coverage capturing rituals, candid moments, and couple portraits.",
		Deliverables: []string{
			"600+ edited photographs",
			"Online gallery",
			"Highlight reel",
			"Optional premium album",
		},
		Duration: "8-12 hours",
		Price:    models.StringPtr("On request"),
		Addons:   []string{"Extra photographer", "Same-day edit", "Drone coverage"},
	},
	{
		Key:         "pre_wedding",
		Name:        "Pre-Wedding Shoot",
		Description: "A styled, cinematic session to celebrate your story.",
		Deliverables: []string{
			"60+ edited photographs",
			"2 outfit changes",
			"Location guidance",
		},
		Duration: "3-4 hours",
		Price:    models.StringPtr("On request"),
		Addons:   []string{"Short video reel", "Makeup artist"},
	},
	{
		Key:         "maternity",
		Name:        "Maternity Package",
		Description: "Elegant, serene portraits celebrating motherhood.",
		Deliverables: []string{
			"40+ edited photographs",
			"Private online gallery",
			"Wardrobe guidance",
		},
		Duration: "2-3 hours",
		Price:    models.StringPtr("On request"),
		Addons:   []string{"Outdoor location", "Printed enlargements"},
	},
	{
		Key:         "portrait",
		Name:        "Makeup & Portrait Session",
		Description: "Fine portraiture with a focus on expression and detail.",
		Deliverables: []string{
			"20+ edited photographs",
			"Retouched close-ups",
			"Backdrop and lighting setup",
		},
		Duration: "1-2 hours",
		Price:    models.StringPtr("On request"),
		Addons:   []string{"Professional makeup", "Studio wardrobe"},
	},
	{
		Key:          "event",
		Name:         "Event Coverage",
		Description:  "Thoughtful documentation of family and social gatherings.",
		Deliverables: []string{"Edited photo set", "Highlights gallery"},
		Duration:     "As needed",
		Price:        models.StringPtr("Hourly / On request"),
		Addons:       []string{"Additional photographer"},
	},
}

var defaultAnnouncements = []models.Announcement{
	{
		Key:     "festive_offer",
		Title:   "Festive Offer",
		Message: "Seasonal packages with complimentary reels on select bookings.",
		Tag:     models.StringPtr("Offer"),
		Active:  true,
	},
	{
		Key:     "studio_update",
		Title:   "Studio Update",
		Message: "Now accepting limited winter wedding bookings in Nashik.",
		Tag:     models.StringPtr("Update"),
		Active:  true,
	},
}

// Services returns a copy of the built-in service packages.
func Services() []models.ServiceItem {
	out := make([]models.ServiceItem, len(defaultServices))
	for i, s := range defaultServices {
		out[i] = copyService(s)
	}
	return out
}

// Announcements returns a copy of every built-in announcement, active or not.
func Announcements() []models.Announcement {
	out := make([]models.Announcement, len(defaultAnnouncements))
	for i, a := range defaultAnnouncements {
		out[i] = copyAnnouncement(a)
	}
	return out
}

// ActiveAnnouncements returns the built-in announcements visitors may see.
func ActiveAnnouncements() []models.Announcement {
	out := make([]models.Announcement, 0, len(defaultAnnouncements))
	for _, a := range defaultAnnouncements {
		if a.Active {
			out = append(out, copyAnnouncement(a))
		}
	}
	return out
}

func copyService(s models.ServiceItem) models.ServiceItem {
	s.Deliverables = append([]string{}, s.Deliverables...)
	s.Addons = append([]string{}, s.Addons...)
	if s.Price != nil {
		s.Price = models.StringPtr(*s.Price)
	}
	return s
}

func copyAnnouncement(a models.Announcement) models.Announcement {
	if a.Tag != nil {
		a.Tag = models.StringPtr(*a.Tag)
	}
	return a
}
