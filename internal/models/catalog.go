package models

// ServiceItem is a service package offered by the studio.
type ServiceItem struct {
	Key          string   `json:"key" bson:"key" yaml:"key"`
	Name         string   `json:"name" bson:"name" yaml:"name"`
	Description  string   `json:"description" bson:"description" yaml:"description"`
	Deliverables []string `json:"deliverables" bson:"deliverables" yaml:"deliverables"`
	Duration     string   `json:"duration" bson:"duration" yaml:"duration"`
	Price        *string  `json:"price" bson:"price" yaml:"price"`
	Addons       []string `json:"addons" bson:"addons" yaml:"addons"`
}

// Announcement is a site banner such as an offer or a studio update.
type Announcement struct {
	Key     string  `json:"key" bson:"key" yaml:"key"`
	Title   string  `json:"title" bson:"title" yaml:"title"`
	Message string  `json:"message" bson:"message" yaml:"message"`
	Tag     *string `json:"tag" bson:"tag" yaml:"tag"`
	Active  bool    `json:"active" bson:"active" yaml:"active"`
}

// StoredAnnouncement is the read shape of an announcement document.
// Records written without an "active" field are treated as active.
type StoredAnnouncement struct {
	Key     string  `json:"key" bson:"key" yaml:"key"`
	Title   string  `json:"title" bson:"title" yaml:"title"`
	Message string  `json:"message" bson:"message" yaml:"message"`
	Tag     *string `json:"tag" bson:"tag" yaml:"tag"`
	Active  *bool   `json:"active" bson:"active" yaml:"active"`
}

func (a StoredAnnouncement) IsActive() bool {
	return a.Active == nil || *a.Active
}

func (a StoredAnnouncement) Announcement() Announcement {
	return Announcement{
		Key:     a.Key,
		Title:   a.Title,
		Message: a.Message,
		Tag:     a.Tag,
		Active:  a.IsActive(),
	}
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
