package versions

import (
	"crypto/sha1"
	"crypto/sha512"
	"encoding/hex"

	"gorm.io/gorm"

	"modhost/db"
)

// UploadFile is a candidate file attached to a version-creation
// request. Content is held in memory; uploads are bounded by the
// configured request size limit before they reach this package.
type UploadFile struct {
	Name      string
	Content   []byte
	IsPrimary bool
}

func fingerprintSHA512(content []byte) string {
	sum := sha512.Sum512(content)
	return hex.EncodeToString(sum[:])
}

func fingerprintSHA1(content []byte) string {
	sum := sha1.Sum(content)
	return hex.EncodeToString(sum[:])
}

// hasDuplicateFiles reports whether any candidate duplicates a file
// already attached to a version of the project, or another candidate
// in the same upload. Matching is by content fingerprint; a single
// match rejects the whole request.
func hasDuplicateFiles(tx *gorm.DB, projectID string, candidates []UploadFile) (bool, error) {
	if len(candidates) == 0 {
		return false, nil
	}

	seen := make(map[string]bool, len(candidates))
	hashes := make([]string, 0, len(candidates))
	for _, c := range candidates {
		fp := fingerprintSHA512(c.Content)
		if seen[fp] {
			return true, nil
		}
		seen[fp] = true
		hashes = append(hashes, fp)
	}

	var count int64
	err := tx.Model(&db.File{}).
		Joins("JOIN version_files ON version_files.file_id = files.id").
		Joins("JOIN versions ON versions.id = version_files.version_id").
		Where("versions.project_id = ? AND files.sha512 IN ?", projectID, hashes).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
