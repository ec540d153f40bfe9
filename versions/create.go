package versions

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"modhost/db"
	"modhost/ids"
	"modhost/perms"
	"modhost/sniff"
	"modhost/storage"
)

// CreateVersionInput is everything a version-creation request carries.
type CreateVersionInput struct {
	ProjectSlugOrID string
	UserID          string

	Title          string
	VersionNumber  string
	Changelog      string
	ReleaseChannel string
	Loaders        []string
	GameVersions   []string
	Featured       bool
	Dependencies   []DependencyCandidate
	Files          []UploadFile
}

// CreateVersionResult is returned on success. Warnings describe
// dependency candidates that were silently adjusted or dropped.
type CreateVersionResult struct {
	VersionID string   `json:"versionId"`
	Slug      string   `json:"slug"`
	Warnings  []string `json:"warnings,omitempty"`
}

// blobWrite is a pending blob-store write, executed after the
// database transaction commits.
type blobWrite struct {
	path    string
	content []byte
}

func validReleaseChannel(c string) bool {
	switch c {
	case db.ChannelRelease, db.ChannelBeta, db.ChannelDev:
		return true
	}
	return false
}

func (in *CreateVersionInput) validate() error {
	if in.Title == "" {
		return fmt.Errorf("%w: version title is required", ErrInvalidInput)
	}
	if in.VersionNumber == "" {
		return fmt.Errorf("%w: version number is required", ErrInvalidInput)
	}
	if !validReleaseChannel(in.ReleaseChannel) {
		return fmt.Errorf("%w: unknown release channel %q", ErrInvalidInput, in.ReleaseChannel)
	}
	if len(in.GameVersions) == 0 {
		return fmt.Errorf("%w: at least one game version is required", ErrInvalidInput)
	}
	for _, l := range in.Loaders {
		if !KnownLoader(l) {
			return fmt.Errorf("%w: unknown loader %q", ErrInvalidInput, l)
		}
	}
	for _, d := range in.Dependencies {
		if d.ProjectID == "" {
			return fmt.Errorf("%w: dependency is missing a target project", ErrInvalidInput)
		}
		if !validDependencyType(d.Type) {
			return fmt.Errorf("%w: unknown dependency type %q", ErrInvalidInput, d.Type)
		}
	}
	if len(in.Files) == 0 {
		return fmt.Errorf("%w: a version needs at least one file", ErrInvalidInput)
	}
	primaries := 0
	for _, f := range in.Files {
		if f.Name == "" {
			return fmt.Errorf("%w: uploaded file is missing a name", ErrInvalidInput)
		}
		if f.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		return fmt.Errorf("%w: exactly one file must be marked primary", ErrInvalidInput)
	}
	return nil
}

// CreateVersion runs the whole version-creation workflow: permission
// check, primary file type validation, duplicate detection, slug
// resolution, version and dependency persistence, dev-channel
// retention pruning, aggregate recomputation, and finally blob
// persistence. Every database step runs inside one transaction, so
// concurrent uploads to the same project cannot race on the slug or
// the denormalized aggregates. Blob writes happen after commit; a
// failed blob write is compensated by deleting the version again.
func (s *Service) CreateVersion(in CreateVersionInput) (*CreateVersionResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	project, err := getProjectBySlugOrID(s.db, in.ProjectSlugOrID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(project, in.UserID, perms.PermUploadVersion); err != nil {
		return nil, err
	}

	// The primary file's sniffed type must fit the project type; the
	// check runs on magic bytes, never on the file name.
	var primary *UploadFile
	for i := range in.Files {
		if in.Files[i].IsPrimary {
			primary = &in.Files[i]
		}
	}
	primaryType, err := sniff.DetectType(bytes.NewReader(primary.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to sniff primary file: %w", err)
	}
	if !sniff.ValidPrimaryType(project.Type, primaryType) {
		return nil, fmt.Errorf("%w: file type %q is not valid for a %s project", ErrInvalidInput, string(primaryType), project.Type)
	}

	versionID := ids.New()
	now := time.Now().UTC()

	var (
		result     CreateVersionResult
		pending    []blobWrite
		prunedDirs []string
	)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		dup, err := hasDuplicateFiles(tx, project.ID, in.Files)
		if err != nil {
			return err
		}
		if dup {
			return ErrDuplicateFile
		}

		slug, err := resolveVersionSlug(tx, project.ID, in.VersionNumber, in.ReleaseChannel, versionID)
		if err != nil {
			return err
		}

		version := db.Version{
			ID:             versionID,
			ProjectID:      project.ID,
			AuthorID:       in.UserID,
			Title:          in.Title,
			VersionNumber:  in.VersionNumber,
			Slug:           slug,
			ReleaseChannel: in.ReleaseChannel,
			Loaders:        lowercaseAll(in.Loaders),
			GameVersions:   in.GameVersions,
			Featured:       in.Featured,
			Changelog:      in.Changelog,
			DatePublished:  now,
		}
		if err := tx.Create(&version).Error; err != nil {
			if isUniqueViolation(err) {
				// Lost the slug to a concurrent upload. Surface the
				// conflict instead of retrying so true duplicate
				// submissions stay visible.
				return fmt.Errorf("%w: version slug %q already taken", ErrConflict, slug)
			}
			return err
		}

		deps, warnings, err := resolveDependencies(tx, in.UserID, versionID, in.Dependencies)
		if err != nil {
			return err
		}
		if len(deps) > 0 {
			if err := tx.Create(&deps).Error; err != nil {
				return err
			}
		}

		// Dev builds are disposable: only a handful is retained, the
		// rest is pruned right after the new one lands.
		excluded := make(map[string]bool)
		if in.ReleaseChannel == db.ChannelDev {
			var all []db.Version
			if err := tx.Where("project_id = ?", project.ID).Find(&all).Error; err != nil {
				return err
			}
			for _, target := range SelectPruneTargets(all) {
				if err := deleteVersionRows(tx, &target); err != nil {
					return err
				}
				excluded[target.ID] = true
				prunedDirs = append(prunedDirs, versionBlobDir(project.ID, target.ID))
			}
		}

		if err := recomputeAggregates(tx, project.ID, excluded, now); err != nil {
			return err
		}

		for _, f := range in.Files {
			name := filepath.Base(f.Name)
			fileType, err := sniff.DetectType(bytes.NewReader(f.Content))
			if err != nil {
				return fmt.Errorf("failed to sniff file %s: %w", name, err)
			}
			file := db.File{
				ID:             ids.New(),
				Name:           name,
				Size:           int64(len(f.Content)),
				Type:           string(fileType),
				SHA1:           fingerprintSHA1(f.Content),
				SHA512:         fingerprintSHA512(f.Content),
				StorageService: storage.ServiceLocal,
				StoragePath:    path.Join(versionBlobDir(project.ID, versionID), name),
			}
			if err := tx.Create(&file).Error; err != nil {
				return err
			}
			link := db.VersionFile{
				ID:        ids.New(),
				VersionID: versionID,
				FileID:    file.ID,
				IsPrimary: f.IsPrimary,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
			pending = append(pending, blobWrite{path: file.StoragePath, content: f.Content})
		}

		result = CreateVersionResult{VersionID: versionID, Slug: slug, Warnings: warnings}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Blob writes after the commit. The database and the blob store
	// cannot share a transaction, so a failed write rolls the version
	// back explicitly.
	for _, b := range pending {
		if _, err := s.store.Save(storage.ServiceLocal, b.path, bytes.NewReader(b.content)); err != nil {
			s.log.Errorw("Blob write failed, rolling back version",
				zap.String("project_id", project.ID),
				zap.String("version_id", versionID),
				zap.String("path", b.path),
				zap.Error(err),
			)
			s.compensateFailedUpload(project.ID, versionID)
			return nil, fmt.Errorf("%w: could not persist uploaded files", ErrStorage)
		}
	}

	for _, dir := range prunedDirs {
		if err := s.store.DeleteDirectory(storage.ServiceLocal, dir); err != nil {
			s.log.Warnw("Failed to delete pruned dev version blobs",
				zap.String("project_id", project.ID),
				zap.String("dir", dir),
				zap.Error(err),
			)
		}
	}

	s.log.Infow("Version created",
		zap.String("project_id", project.ID),
		zap.String("version_id", versionID),
		zap.String("slug", result.Slug),
		zap.String("channel", in.ReleaseChannel),
	)
	return &result, nil
}

// compensateFailedUpload removes a version whose blobs could not be
// written: blobs saved so far, the version's rows and the project
// aggregates it contributed to.
func (s *Service) compensateFailedUpload(projectID, versionID string) {
	if err := s.store.DeleteDirectory(storage.ServiceLocal, versionBlobDir(projectID, versionID)); err != nil {
		s.log.Warnw("Compensation: failed to delete version blobs", zap.String("version_id", versionID), zap.Error(err))
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var version db.Version
		if err := tx.First(&version, "id = ?", versionID).Error; err != nil {
			return err
		}
		if err := deleteVersionRows(tx, &version); err != nil {
			return err
		}
		return recomputeAggregates(tx, projectID, map[string]bool{versionID: true}, time.Now().UTC())
	})
	if err != nil {
		s.log.Errorw("Compensation failed, version left without files",
			zap.String("version_id", versionID),
			zap.Error(err),
		)
	}
}

func lowercaseAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
