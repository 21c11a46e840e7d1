package model

import "io/fs"

// PermissionPolicy decides which permission bits make a regular file count
// as a runnable program.
type PermissionPolicy string

const (
	// PolicyExecutable accepts files with any execute bit set.
	PolicyExecutable PermissionPolicy = "executable"
	// PolicyReadable accepts files whose owner-read bit is set, so plain
	// data files on the search path are listed too.
	PolicyReadable PermissionPolicy = "readable"
)

// Policies lists every supported policy, default first.
var Policies = []PermissionPolicy{PolicyExecutable, PolicyReadable}

// Valid reports whether p names a known policy.
func (p PermissionPolicy) Valid() bool {
	switch p {
	case PolicyExecutable, PolicyReadable:
		return true
	}
	return false
}

// Allows reports whether a file with the given mode passes the policy.
// Only regular files are ever allowed.
func (p PermissionPolicy) Allows(mode fs.FileMode) bool {
	if !mode.IsRegular() {
		return false
	}
	switch p {
	case PolicyReadable:
		return mode.Perm()&0o400 != 0
	default:
		return mode.Perm()&0o111 != 0
	}
}
