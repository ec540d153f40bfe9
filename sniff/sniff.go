// Package sniff detects uploaded file types from magic bytes rather
// than filename extensions, and knows which types each kind of project
// accepts as its primary file.
package sniff

import (
	"io"

	"github.com/gabriel-vasile/mimetype"

	"modhost/db"
)

// FileType is the detected content type of an upload.
type FileType string

const (
	TypeJar     FileType = "jar"
	TypeZip     FileType = "zip"
	TypeUnknown FileType = ""
)

// DetectType sniffs the content type of the reader from its leading
// bytes. Unknown content yields TypeUnknown with a nil error.
func DetectType(r io.Reader) (FileType, error) {
	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return TypeUnknown, err
	}
	switch {
	case mtype.Is("application/jar"):
		return TypeJar, nil
	case mtype.Is("application/zip"):
		return TypeZip, nil
	default:
		return TypeUnknown, nil
	}
}

// primaryFileTypes maps a project type to the file types its primary
// file may have.
var primaryFileTypes = map[string][]FileType{
	db.TypeMod:          {TypeJar, TypeZip},
	db.TypePlugin:       {TypeJar, TypeZip},
	db.TypeModpack:      {TypeZip},
	db.TypeResourcePack: {TypeZip},
	db.TypeShader:       {TypeZip},
	db.TypeDatapack:     {TypeZip},
}

// ValidPrimaryType reports whether ft is an acceptable primary file
// type for a project of the given type.
func ValidPrimaryType(projectType string, ft FileType) bool {
	if ft == TypeUnknown {
		return false
	}
	for _, allowed := range primaryFileTypes[projectType] {
		if ft == allowed {
			return true
		}
	}
	return false
}
