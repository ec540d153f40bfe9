package versions

import (
	"strings"

	"gorm.io/gorm"

	"modhost/db"
)

// reservedSlugs can never be claimed as a version slug: they collide
// with routes on the version pages.
var reservedSlugs = map[string]bool{
	"new":      true,
	"latest":   true,
	"edit":     true,
	"delete":   true,
	"settings": true,
	"gallery":  true,
	"version":  true,
	"versions": true,
	"members":  true,
	"about":    true,
	"api":      true,
	"admin":    true,
}

// sanitizeSlug lowercases s and strips everything that is not safe in
// a URL path segment. Whitespace becomes a dash.
func sanitizeSlug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteRune('-')
		}
	}
	return b.String()
}

// resolveVersionSlug picks the URL slug for a new version. The desired
// slug is the sanitized version number, replaced by the version's own
// id when: the release channel is DEV (dev builds are always keyed by
// id so frequent dev uploads don't churn slugs), the desired slug is
// empty or reserved, or another version of the project already holds
// it.
func resolveVersionSlug(tx *gorm.DB, projectID, versionNumber, releaseChannel, versionID string) (string, error) {
	if releaseChannel == db.ChannelDev {
		return versionID, nil
	}

	desired := sanitizeSlug(versionNumber)
	if desired == "" || reservedSlugs[desired] {
		return versionID, nil
	}

	var count int64
	err := tx.Model(&db.Version{}).
		Where("project_id = ? AND slug = ?", projectID, desired).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	if count > 0 {
		return versionID, nil
	}
	return desired, nil
}
