package catalog

import (
	"fmt"
	"os"

	"pictiv/internal/models"

	"gopkg.in/yaml.v3"
)

// File is a studio catalog kept in YAML, used to seed a fresh database
// with packages other than the built-in ones.
type File struct {
	Services      []models.ServiceItem        `yaml:"services"`
	Announcements []models.StoredAnnouncement `yaml:"announcements"`
}

// Default returns the built-in catalog as a File.
func Default() *File {
	f := &File{Services: Services()}
	for _, a := range Announcements() {
		active := a.Active
		f.Announcements = append(f.Announcements, models.StoredAnnouncement{
			Key:     a.Key,
			Title:   a.Title,
			Message: a.Message,
			Tag:     a.Tag,
			Active:  &active,
		})
	}
	return f
}

// LoadFile reads and checks a catalog file. Announcements without an
// active flag are active.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Services) == 0 && len(f.Announcements) == 0 {
		return nil, fmt.Errorf("catalog %s is empty", path)
	}

	seen := make(map[string]bool, len(f.Services))
	for i := range f.Services {
		s := &f.Services[i]
		if s.Key == "" {
			return nil, fmt.Errorf("service #%d has no key", i+1)
		}
		if seen[s.Key] {
			return nil, fmt.Errorf("duplicate service key %q", s.Key)
		}
		seen[s.Key] = true
		if s.Deliverables == nil {
			s.Deliverables = []string{}
		}
		if s.Addons == nil {
			s.Addons = []string{}
		}
	}

	seen = make(map[string]bool, len(f.Announcements))
	for i, a := range f.Announcements {
		if a.Key == "" {
			return nil, fmt.Errorf("announcement #%d has no key", i+1)
		}
		if seen[a.Key] {
			return nil, fmt.Errorf("duplicate announcement key %q", a.Key)
		}
		seen[a.Key] = true
	}

	return &f, nil
}

// AnnouncementList resolves the active flag of every announcement.
func (f *File) AnnouncementList() []models.Announcement {
	out := make([]models.Announcement, len(f.Announcements))
	for i, a := range f.Announcements {
		out[i] = a.Announcement()
	}
	return out
}
