// Package perms holds the pure access-control predicates: the
// permission oracle for team capabilities and the project visibility
// check. No I/O happens here.
package perms

import (
	"modhost/db"
)

// Team permissions.
const (
	PermUploadVersion = "UPLOAD_VERSION"
	PermDeleteVersion = "DELETE_VERSION"
	PermEditDetails   = "EDIT_DETAILS"
	PermManageInvites = "MANAGE_INVITES"
	PermDeleteProject = "DELETE_PROJECT"
)

// HasAccess reports whether a caller with the given team permission
// set may perform an action requiring the given permission. Owners and
// platform moderators/admins bypass the per-permission check.
func HasAccess(required string, memberPermissions []string, isOwner bool, globalRole string) bool {
	if isOwner {
		return true
	}
	if globalRole == db.RoleAdmin || globalRole == db.RoleModerator {
		return true
	}
	for _, p := range memberPermissions {
		if p == required {
			return true
		}
	}
	return false
}

// IsProjectAccessible reports whether the requesting user may see a
// project at all. Listed, unlisted and archived projects that passed
// review are public; everything else requires an accepted team
// membership.
func IsProjectAccessible(visibility, status, userID string, members []db.TeamMember) bool {
	public := visibility != db.VisibilityPrivate && status == db.StatusApproved
	if public {
		return true
	}
	if userID == "" {
		return false
	}
	for _, m := range members {
		if m.UserID == userID && m.Accepted {
			return true
		}
	}
	return false
}

// MemberOf returns the accepted team membership of userID, or nil.
func MemberOf(members []db.TeamMember, userID string) *db.TeamMember {
	for i := range members {
		if members[i].UserID == userID && members[i].Accepted {
			return &members[i]
		}
	}
	return nil
}
