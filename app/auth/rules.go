// Package auth holds the authorization rules as pure functions over
// primitive ids and role sets. No I/O, no state: the caller fetches roles
// (through the profile cache) and passes them in.
package auth

import "slices"

// AdminRole is the role name granting moderation rights.
const AdminRole = "ADMIN"

// Decision is the outcome of an authorization rule.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns a positive decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a negative decision with the given reason.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// IsAdmin reports whether the role set contains the admin role.
func IsAdmin(roles []string) bool {
	return slices.Contains(roles, AdminRole)
}

// CanEditPost allows only the post owner to edit.
func CanEditPost(ownerID, editorID string) Decision {
	if ownerID == "" || editorID == "" {
		return Deny("missing user id")
	}
	if ownerID != editorID {
		return Deny("only the post owner can edit the post")
	}
	return Allow()
}

// CanDeletePost allows the post owner or an admin to delete.
func CanDeletePost(ownerID, deleterID string, deleterRoles []string) Decision {
	if deleterID == "" {
		return Deny("missing user id")
	}
	if ownerID == deleterID || IsAdmin(deleterRoles) {
		return Allow()
	}
	return Deny("only the post owner or an admin can delete the post")
}

// CanEditComment allows only the comment author to edit.
func CanEditComment(commentAuthorID, editorID string) Decision {
	if commentAuthorID == "" || editorID == "" {
		return Deny("missing user id")
	}
	if commentAuthorID != editorID {
		return Deny("only the comment author can edit the comment")
	}
	return Allow()
}

// CanDeleteComment allows the comment author, the post owner, or an admin
// to delete.
func CanDeleteComment(postOwnerID, commentAuthorID, deleterID string, deleterRoles []string) Decision {
	if deleterID == "" {
		return Deny("missing user id")
	}
	if deleterID == commentAuthorID || deleterID == postOwnerID || IsAdmin(deleterRoles) {
		return Allow()
	}
	return Deny("only the comment author, the post owner, or an admin can delete the comment")
}
