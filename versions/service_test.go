package versions

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"modhost/db"
	"modhost/ids"
	"modhost/storage"
)

// newTestService spins up a throwaway sqlite database and blob store.
func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dir := t.TempDir()

	gdb, err := db.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)

	store, err := storage.NewLocalStore(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	return NewService(gdb, store, zap.NewNop().Sugar()), gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, role string) db.User {
	t.Helper()
	user := db.User{ID: ids.New(), UserName: "user-" + ids.New(), Role: role, Token: "token-" + ids.New()}
	require.NoError(t, gdb.Create(&user).Error)
	return user
}

// seedProject inserts an approved, listed project owned by owner.
func seedProject(t *testing.T, gdb *gorm.DB, owner db.User, slug, projectType string) db.Project {
	t.Helper()
	now := time.Now().UTC()
	project := db.Project{
		ID:            ids.New(),
		Slug:          slug,
		Name:          slug,
		Type:          projectType,
		Visibility:    db.VisibilityListed,
		Status:        db.StatusApproved,
		Loaders:       []string{},
		GameVersions:  []string{},
		DatePublished: now,
		DateUpdated:   now,
	}
	require.NoError(t, gdb.Create(&project).Error)
	member := db.TeamMember{
		ID:        ids.New(),
		ProjectID: project.ID,
		UserID:    owner.ID,
		Role:      "owner",
		IsOwner:   true,
		Accepted:  true,
	}
	require.NoError(t, gdb.Create(&member).Error)
	return project
}

// zipFile builds a small valid zip archive whose content depends on
// payload, so different payloads get different fingerprints.
func zipFile(t *testing.T, payload string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("content.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func uploads(name, payload string, t *testing.T) []UploadFile {
	return []UploadFile{{Name: name, Content: zipFile(t, payload), IsPrimary: true}}
}
