// Package versions implements the project/version/dependency
// management core: version creation with file uploads, duplicate
// detection, dependency resolution, dev-channel retention and the
// denormalized loader/game-version aggregates on projects.
package versions

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"modhost/db"
	"modhost/ids"
	"modhost/perms"
	"modhost/storage"
)

// Service coordinates the version workflows against the database and
// the blob store. All dependencies are injected so tests can run
// against a throwaway sqlite file and directory.
type Service struct {
	db    *gorm.DB
	store storage.Store
	log   *zap.SugaredLogger
}

func NewService(gdb *gorm.DB, store storage.Store, log *zap.SugaredLogger) *Service {
	return &Service{db: gdb, store: store, log: log}
}

// CreateProjectInput are the fields needed to register a project.
type CreateProjectInput struct {
	OwnerID    string
	Name       string
	Slug       string
	Type       string
	Visibility string
}

func validProjectType(t string) bool {
	switch t {
	case db.TypeMod, db.TypeModpack, db.TypeResourcePack, db.TypeShader, db.TypePlugin, db.TypeDatapack:
		return true
	}
	return false
}

// CreateProject registers a new project with its owning team member.
// The slug must be unique across the platform.
func (s *Service) CreateProject(in CreateProjectInput) (*db.Project, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	if !validProjectType(in.Type) {
		return nil, fmt.Errorf("%w: unknown project type %q", ErrInvalidInput, in.Type)
	}
	if in.OwnerID == "" {
		return nil, ErrUnauthorized
	}
	slug := sanitizeSlug(in.Slug)
	if slug == "" {
		slug = sanitizeSlug(in.Name)
	}
	if slug == "" || reservedSlugs[slug] {
		return nil, fmt.Errorf("%w: invalid project slug %q", ErrInvalidInput, in.Slug)
	}
	visibility := in.Visibility
	if visibility == "" {
		visibility = db.VisibilityListed
	}

	now := time.Now().UTC()
	project := db.Project{
		ID:            ids.New(),
		Slug:          slug,
		Name:          in.Name,
		Type:          in.Type,
		Visibility:    visibility,
		Status:        db.StatusDraft,
		Loaders:       []string{},
		GameVersions:  []string{},
		DatePublished: now,
		DateUpdated:   now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.Project{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: project slug %q already taken", ErrConflict, slug)
		}
		if err := tx.Create(&project).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: project slug %q already taken", ErrConflict, slug)
			}
			return err
		}
		owner := db.TeamMember{
			ID:        ids.New(),
			ProjectID: project.ID,
			UserID:    in.OwnerID,
			Role:      "owner",
			IsOwner:   true,
			Accepted:  true,
		}
		return tx.Create(&owner).Error
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetProject loads a project by slug or id, applying the visibility
// rules for the requesting user. Inaccessible and missing projects are
// indistinguishable to the caller.
func (s *Service) GetProject(slugOrID, userID string) (*db.Project, error) {
	project, err := getProjectBySlugOrID(s.db, slugOrID)
	if err != nil {
		return nil, err
	}
	if !perms.IsProjectAccessible(project.Visibility, project.Status, userID, project.Team) {
		return nil, ErrNotFound
	}
	return project, nil
}

// ListProjects returns every project, newest first. Used by the admin
// CLI only.
func (s *Service) ListProjects() ([]db.Project, error) {
	var projects []db.Project
	err := s.db.Order("date_published DESC").Find(&projects).Error
	return projects, err
}

// ListVersions returns a project's versions, newest first, with files
// and dependencies attached.
func (s *Service) ListVersions(projectSlugOrID, userID string) ([]db.Version, error) {
	project, err := s.GetProject(projectSlugOrID, userID)
	if err != nil {
		return nil, err
	}
	var list []db.Version
	err = s.db.Preload("Files").Preload("Dependencies").
		Where("project_id = ?", project.ID).
		Order("date_published DESC").
		Find(&list).Error
	return list, err
}

// GetVersion loads one version of a project by slug or id.
func (s *Service) GetVersion(projectSlugOrID, versionSlugOrID, userID string) (*db.Version, error) {
	project, err := s.GetProject(projectSlugOrID, userID)
	if err != nil {
		return nil, err
	}
	var version db.Version
	err = s.db.Preload("Files").Preload("Dependencies").
		Where("project_id = ? AND (slug = ? OR id = ?)", project.ID, versionSlugOrID, versionSlugOrID).
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func getProjectBySlugOrID(tx *gorm.DB, slugOrID string) (*db.Project, error) {
	var project db.Project
	err := tx.Preload("Team").
		Where("slug = ? OR id = ?", strings.ToLower(slugOrID), slugOrID).
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// authorize checks that userID holds the given team permission on the
// project. The caller maps the returned ErrUnauthorized to a generic
// not-found response.
func (s *Service) authorize(project *db.Project, userID, permission string) error {
	if userID == "" {
		return ErrUnauthorized
	}
	var user db.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnauthorized
		}
		return err
	}

	var memberPerms []string
	isOwner := false
	if member := perms.MemberOf(project.Team, userID); member != nil {
		memberPerms = member.Permissions
		isOwner = member.IsOwner
	} else if user.Role == db.RoleUser {
		return ErrUnauthorized
	}

	if !perms.HasAccess(permission, memberPerms, isOwner, user.Role) {
		return ErrUnauthorized
	}
	return nil
}

// versionBlobDir is the blob-store key prefix holding every file of a
// version.
func versionBlobDir(projectID, versionID string) string {
	return path.Join("projects", projectID, "versions", versionID)
}

// persistAggregates writes the recomputed denormalized fields to the
// project row. Select forces empty slices through, so deleting the
// last version clears the lists.
func persistAggregates(tx *gorm.DB, projectID string, loaders, gameVersions []string, now time.Time) error {
	if loaders == nil {
		loaders = []string{}
	}
	if gameVersions == nil {
		gameVersions = []string{}
	}
	return tx.Model(&db.Project{ID: projectID}).
		Select("loaders", "game_versions", "date_updated").
		Updates(db.Project{Loaders: loaders, GameVersions: gameVersions, DateUpdated: now}).Error
}

// recomputeAggregates loads the project's remaining versions and
// persists the fresh union, excluding the given version ids.
func recomputeAggregates(tx *gorm.DB, projectID string, excluded map[string]bool, now time.Time) error {
	var remaining []db.Version
	if err := tx.Where("project_id = ?", projectID).Find(&remaining).Error; err != nil {
		return err
	}
	lists := make([]VersionLists, 0, len(remaining))
	for _, v := range remaining {
		lists = append(lists, VersionLists{ID: v.ID, Loaders: v.Loaders, GameVersions: v.GameVersions})
	}
	loaders, gameVersions := Aggregate(lists, excluded, nil, nil)
	return persistAggregates(tx, projectID, loaders, gameVersions, now)
}

// deleteVersionRows removes a version and its dependent rows: the
// dependency records it declares, its version-file links and the file
// metadata behind them. Blob deletion is the caller's business.
func deleteVersionRows(tx *gorm.DB, version *db.Version) error {
	if err := tx.Where("dependent_version_id = ?", version.ID).Delete(&db.Dependency{}).Error; err != nil {
		return err
	}

	var links []db.VersionFile
	if err := tx.Where("version_id = ?", version.ID).Find(&links).Error; err != nil {
		return err
	}
	if len(links) > 0 {
		fileIDs := make([]string, 0, len(links))
		for _, l := range links {
			fileIDs = append(fileIDs, l.FileID)
		}
		if err := tx.Where("id IN ?", fileIDs).Delete(&db.File{}).Error; err != nil {
			return err
		}
		if err := tx.Where("version_id = ?", version.ID).Delete(&db.VersionFile{}).Error; err != nil {
			return err
		}
	}

	return tx.Delete(&db.Version{}, "id = ?", version.ID).Error
}

// isUniqueViolation detects a unique-constraint failure regardless of
// whether the driver translates it to gorm's sentinel.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}
