package versions

import (
	"fmt"

	"gorm.io/gorm"

	"modhost/db"
	"modhost/ids"
	"modhost/perms"
)

// DependencyCandidate is a proposed dependency record as submitted by
// the uploader. VersionID empty means a project-level dependency.
type DependencyCandidate struct {
	ProjectID string `json:"projectId"`
	VersionID string `json:"versionId,omitempty"`
	Type      string `json:"type"`
}

// resolveDependencies validates candidates against real projects and
// versions using two batched reads. Candidates whose target project is
// missing or not visible to the acting user are dropped; candidates
// pinning a version that no longer exists under the target project are
// downgraded to project-level; only the first candidate per distinct
// target project is kept. Every silently adjusted candidate produces a
// warning so the behavior stays observable.
func resolveDependencies(tx *gorm.DB, userID, dependentVersionID string, candidates []DependencyCandidate) ([]db.Dependency, []string, error) {
	if len(candidates) == 0 {
		return nil, nil, nil
	}

	projectIDs := make([]string, 0, len(candidates))
	versionIDs := make([]string, 0, len(candidates))
	seenProject := make(map[string]bool)
	for _, c := range candidates {
		if !seenProject[c.ProjectID] {
			seenProject[c.ProjectID] = true
			projectIDs = append(projectIDs, c.ProjectID)
		}
		if c.VersionID != "" {
			versionIDs = append(versionIDs, c.VersionID)
		}
	}

	var projects []db.Project
	if err := tx.Preload("Team").Where("id IN ?", projectIDs).Find(&projects).Error; err != nil {
		return nil, nil, err
	}
	projectByID := make(map[string]*db.Project, len(projects))
	for i := range projects {
		projectByID[projects[i].ID] = &projects[i]
	}

	versionOK := make(map[string]string) // version id -> owning project id
	if len(versionIDs) > 0 {
		var found []db.Version
		if err := tx.Select("id", "project_id").Where("id IN ?", versionIDs).Find(&found).Error; err != nil {
			return nil, nil, err
		}
		for _, v := range found {
			versionOK[v.ID] = v.ProjectID
		}
	}

	var resolved []db.Dependency
	var warnings []string
	kept := make(map[string]bool)
	for _, c := range candidates {
		if kept[c.ProjectID] {
			warnings = append(warnings, fmt.Sprintf("dependency on project %s listed more than once, keeping the first entry", c.ProjectID))
			continue
		}

		target, ok := projectByID[c.ProjectID]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("dependency dropped: project %s does not exist", c.ProjectID))
			continue
		}
		if !perms.IsProjectAccessible(target.Visibility, target.Status, userID, target.Team) {
			// Same message as a missing project: dependencies must not
			// leak references to private or unpublished projects.
			warnings = append(warnings, fmt.Sprintf("dependency dropped: project %s does not exist", c.ProjectID))
			continue
		}

		versionID := c.VersionID
		if versionID != "" && versionOK[versionID] != target.ID {
			warnings = append(warnings, fmt.Sprintf("dependency on project %s: pinned version no longer exists, keeping a project-level dependency", c.ProjectID))
			versionID = ""
		}

		kept[c.ProjectID] = true
		resolved = append(resolved, db.Dependency{
			ID:                 ids.New(),
			DependentVersionID: dependentVersionID,
			ProjectID:          target.ID,
			VersionID:          versionID,
			Type:               c.Type,
		})
	}

	return resolved, warnings, nil
}

// validDependencyType reports whether t is one of the dependency kinds
// the platform stores.
func validDependencyType(t string) bool {
	switch t {
	case db.DependencyRequired, db.DependencyOptional, db.DependencyIncompatible, db.DependencyEmbedded:
		return true
	}
	return false
}
