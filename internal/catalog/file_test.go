package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeCatalog(t, `
services:
  - key: newborn
    name: Newborn Session
    description: Calm in-home session.
    deliverables: ["30 edited photographs"]
    duration: 2-3 hours
    price: "From 9,999"
announcements:
  - key: monsoon
    title: Monsoon offer
    message: 10% off outdoor shoots.
  - key: old
    title: Old
    message: gone
    active: false
`)

	f, err := LoadFile(path)
	require.NoError(t, err)

	require.Len(t, f.Services, 1)
	s := f.Services[0]
	assert.Equal(t, "newborn", s.Key)
	assert.Equal(t, []string{"30 edited photographs"}, s.Deliverables)
	assert.Equal(t, []string{}, s.Addons)
	require.NotNil(t, s.Price)
	assert.Equal(t, "From 9,999", *s.Price)

	list := f.AnnouncementList()
	require.Len(t, list, 2)
	assert.True(t, list[0].Active)
	assert.Nil(t, list[0].Tag)
	assert.False(t, list[1].Active)
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Empty", "services: []\n"},
		{"Malformed", "services: [\n"},
		{"MissingKey", "services:\n  - name: x\n"},
		{"DuplicateService", "services:\n  - key: a\n  - key: a\n"},
		{"DuplicateAnnouncement", "announcements:\n  - key: a\n  - key: a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeCatalog(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	f := Default()

	assert.Equal(t, Services(), f.Services)
	assert.Equal(t, Announcements(), f.AnnouncementList())
}
