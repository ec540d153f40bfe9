package versions

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"modhost/db"
	"modhost/perms"
	"modhost/storage"
)

// DeleteVersion removes one version of a project: its dependency and
// file rows, its blobs, and its contribution to the project's
// denormalized aggregates. Database work happens in one transaction;
// blob deletion follows and is logged on failure only, since the rows
// referring to the blobs are already gone.
func (s *Service) DeleteVersion(projectSlugOrID, versionSlugOrID, userID string) error {
	project, err := getProjectBySlugOrID(s.db, projectSlugOrID)
	if err != nil {
		return err
	}
	if err := s.authorize(project, userID, perms.PermDeleteVersion); err != nil {
		return err
	}

	var blobDir string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var version db.Version
		err := tx.Where("project_id = ? AND (slug = ? OR id = ?)", project.ID, versionSlugOrID, versionSlugOrID).
			First(&version).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := deleteVersionRows(tx, &version); err != nil {
			return err
		}
		blobDir = versionBlobDir(project.ID, version.ID)
		return recomputeAggregates(tx, project.ID, map[string]bool{version.ID: true}, time.Now().UTC())
	})
	if err != nil {
		return err
	}

	if err := s.store.DeleteDirectory(storage.ServiceLocal, blobDir); err != nil {
		s.log.Warnw("Failed to delete version blobs",
			zap.String("project_id", project.ID),
			zap.String("dir", blobDir),
			zap.Error(err),
		)
	}

	s.log.Infow("Version deleted",
		zap.String("project_id", project.ID),
		zap.String("version", versionSlugOrID),
	)
	return nil
}

// PruneProject applies the dev-channel retention policy to one
// project and returns how many versions were pruned.
func (s *Service) PruneProject(projectID string) (int, error) {
	var prunedDirs []string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var all []db.Version
		if err := tx.Where("project_id = ?", projectID).Find(&all).Error; err != nil {
			return err
		}
		targets := SelectPruneTargets(all)
		if len(targets) == 0 {
			return nil
		}
		excluded := make(map[string]bool, len(targets))
		for _, target := range targets {
			if err := deleteVersionRows(tx, &target); err != nil {
				return err
			}
			excluded[target.ID] = true
			prunedDirs = append(prunedDirs, versionBlobDir(projectID, target.ID))
		}
		return recomputeAggregates(tx, projectID, excluded, time.Now().UTC())
	})
	if err != nil {
		return 0, err
	}

	for _, dir := range prunedDirs {
		if err := s.store.DeleteDirectory(storage.ServiceLocal, dir); err != nil {
			s.log.Warnw("Failed to delete pruned version blobs", zap.String("dir", dir), zap.Error(err))
		}
	}
	return len(prunedDirs), nil
}

// PruneAll runs the retention policy across every project. Used by the
// one-shot admin command.
func (s *Service) PruneAll() (int, error) {
	var projectIDs []string
	if err := s.db.Model(&db.Project{}).Pluck("id", &projectIDs).Error; err != nil {
		return 0, err
	}
	total := 0
	for _, id := range projectIDs {
		n, err := s.PruneProject(id)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// SweepOrphans deletes versions older than maxAge that never got a
// primary file. Such versions are the residue of uploads whose blob
// write failed after the database commit and whose compensation also
// failed.
func (s *Service) SweepOrphans(maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge)

	var orphans []db.Version
	err := s.db.
		Where("date_published < ?", cutoff).
		Where("id NOT IN (?)", s.db.Model(&db.VersionFile{}).Select("version_id").Where("is_primary = ?", true)).
		Find(&orphans).Error
	if err != nil {
		return 0, err
	}

	for _, orphan := range orphans {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := deleteVersionRows(tx, &orphan); err != nil {
				return err
			}
			return recomputeAggregates(tx, orphan.ProjectID, map[string]bool{orphan.ID: true}, time.Now().UTC())
		})
		if err != nil {
			return 0, err
		}
		if err := s.store.DeleteDirectory(storage.ServiceLocal, versionBlobDir(orphan.ProjectID, orphan.ID)); err != nil {
			s.log.Warnw("Failed to delete orphan version blobs", zap.String("version_id", orphan.ID), zap.Error(err))
		}
		s.log.Infow("Swept orphan version",
			zap.String("project_id", orphan.ProjectID),
			zap.String("version_id", orphan.ID),
		)
	}
	return len(orphans), nil
}
