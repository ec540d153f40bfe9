package db

import (
	"time"
)

// Project visibility values.
const (
	VisibilityListed   = "LISTED"
	VisibilityUnlisted = "UNLISTED"
	VisibilityPrivate  = "PRIVATE"
	VisibilityArchived = "ARCHIVED"
)

// Project status values.
const (
	StatusDraft      = "DRAFT"
	StatusProcessing = "PROCESSING"
	StatusApproved   = "APPROVED"
	StatusRejected   = "REJECTED"
)

// Project types.
const (
	TypeMod          = "MOD"
	TypeModpack      = "MODPACK"
	TypeResourcePack = "RESOURCE_PACK"
	TypeShader       = "SHADER"
	TypePlugin       = "PLUGIN"
	TypeDatapack     = "DATAPACK"
)

// Version release channels.
const (
	ChannelRelease = "RELEASE"
	ChannelBeta    = "BETA"
	ChannelDev     = "DEV"
)

// Dependency types.
const (
	DependencyRequired     = "REQUIRED"
	DependencyOptional     = "OPTIONAL"
	DependencyIncompatible = "INCOMPATIBLE"
	DependencyEmbedded     = "EMBEDDED"
)

// User roles.
const (
	RoleUser      = "USER"
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)

// User represents a platform account.
type User struct {
	ID        string `gorm:"primaryKey"`
	UserName  string `gorm:"uniqueIndex"`
	Role      string
	Token     string `gorm:"uniqueIndex"` // Opaque API token
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Project represents a hosted project (mod, resource pack, ...).
// Loaders and GameVersions are denormalized: they always equal the
// deduplicated union over the project's live versions, recomputed on
// every version create/delete.
type Project struct {
	ID            string `gorm:"primaryKey"`
	Slug          string `gorm:"uniqueIndex"`
	Name          string
	Type          string
	Visibility    string
	Status        string
	Loaders       []string `gorm:"serializer:json"`
	GameVersions  []string `gorm:"serializer:json"`
	DatePublished time.Time
	DateUpdated   time.Time

	Versions []Version    `gorm:"foreignKey:ProjectID"`
	Team     []TeamMember `gorm:"foreignKey:ProjectID"`
}

// TeamMember links a user to a project with its permission set.
type TeamMember struct {
	ID          string `gorm:"primaryKey"`
	ProjectID   string `gorm:"index"`
	UserID      string `gorm:"index"`
	Role        string
	IsOwner     bool
	Permissions []string `gorm:"serializer:json"`
	Accepted    bool
	CreatedAt   time.Time
}

// Version represents one uploaded version of a project.
// Slug is unique within the owning project; DEV-channel versions
// always take slug = id to avoid churn in disposable dev build URLs.
type Version struct {
	ID             string `gorm:"primaryKey"`
	ProjectID      string `gorm:"index;uniqueIndex:idx_project_version_slug,priority:1"`
	AuthorID       string
	Title          string
	VersionNumber  string
	Slug           string `gorm:"uniqueIndex:idx_project_version_slug,priority:2"`
	ReleaseChannel string
	Loaders        []string `gorm:"serializer:json"`
	GameVersions   []string `gorm:"serializer:json"`
	Featured       bool
	Changelog      string
	DatePublished  time.Time

	Files        []VersionFile `gorm:"foreignKey:VersionID"`
	Dependencies []Dependency  `gorm:"foreignKey:DependentVersionID"`
}

// File holds the metadata of a stored blob.
type File struct {
	ID             string `gorm:"primaryKey"`
	Name           string
	Size           int64
	Type           string
	SHA1           string `gorm:"column:sha1;index"`
	SHA512         string `gorm:"column:sha512;index"`
	StorageService string
	StoragePath    string
	CreatedAt      time.Time
}

// VersionFile links a File to a Version. Exactly one file per version
// carries IsPrimary = true.
type VersionFile struct {
	ID        string `gorm:"primaryKey"`
	VersionID string `gorm:"index"`
	FileID    string `gorm:"index"`
	IsPrimary bool
}

// Dependency records that one version depends on another project, and
// optionally on a specific version of it. VersionID empty means
// "depends on the project, any version". At most one dependency per
// distinct target project is kept for a given dependent version.
type Dependency struct {
	ID                 string `gorm:"primaryKey"`
	DependentVersionID string `gorm:"index"`
	ProjectID          string `gorm:"index"` // target project
	VersionID          string // target version, empty for project-level
	Type               string
}
