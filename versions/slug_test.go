package versions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"modhost/db"
	"modhost/ids"
)

func TestSanitizeSlug(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"1.0.0", "1.0.0"},
		{"V2.0 Beta", "v2.0-beta"},
		{"  Hello World  ", "hello-world"},
		{"weird/!@#chars", "weirdchars"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			result := sanitizeSlug(tt.in)
			if result != tt.expected {
				t.Errorf("sanitizeSlug(%q) = %q, want %q", tt.in, result, tt.expected)
			}
		})
	}
}

func TestResolveVersionSlug(t *testing.T) {
	_, gdb := newTestService(t)

	projectID := ids.New()
	versionID := ids.New()

	now := time.Now().UTC()
	require.NoError(t, gdb.Create(&db.Project{
		ID:            projectID,
		Slug:          "slug-test-project",
		Name:          "slug-test-project",
		Type:          "mod",
		Visibility:    db.VisibilityListed,
		Status:        db.StatusApproved,
		Loaders:       []string{},
		GameVersions:  []string{},
		DatePublished: now,
		DateUpdated:   now,
	}).Error)

	t.Run("clean version number becomes the slug", func(t *testing.T) {
		slug, err := resolveVersionSlug(gdb, projectID, "1.0.0", db.ChannelRelease, versionID)
		require.NoError(t, err)
		require.Equal(t, "1.0.0", slug)
	})

	t.Run("dev channel always uses the id", func(t *testing.T) {
		slug, err := resolveVersionSlug(gdb, projectID, "1.0.0", db.ChannelDev, versionID)
		require.NoError(t, err)
		require.Equal(t, versionID, slug)
	})

	t.Run("reserved word falls back to the id", func(t *testing.T) {
		slug, err := resolveVersionSlug(gdb, projectID, "latest", db.ChannelRelease, versionID)
		require.NoError(t, err)
		require.Equal(t, versionID, slug)
	})

	t.Run("collision falls back to the id", func(t *testing.T) {
		existing := db.Version{
			ID:             ids.New(),
			ProjectID:      projectID,
			VersionNumber:  "2.0",
			Slug:           "2.0",
			ReleaseChannel: db.ChannelRelease,
			DatePublished:  time.Now().UTC(),
		}
		require.NoError(t, gdb.Create(&existing).Error)

		slug, err := resolveVersionSlug(gdb, projectID, "2.0", db.ChannelRelease, versionID)
		require.NoError(t, err)
		require.Equal(t, versionID, slug)
	})
}
