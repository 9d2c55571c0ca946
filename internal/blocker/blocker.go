// Package blocker provides the website-blocking collaborator used when a
// schedule is missed. Blocking is global to the machine, not to the
// session: the mechanism edits the OS hosts file.
package blocker

import "context"

// Result reports the outcome of a blocking operation. Permission
// problems are soft failures carried in the result, not errors, so the
// evaluation loop can retry on a later cycle.
type Result struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	BlockedSites  []string `json:"blocked_sites,omitempty"`
	RequiresAdmin bool     `json:"requires_admin,omitempty"`
}

// Blocker is the four-method contract the auto-block trigger depends on.
// The mechanism behind it (hosts file, firewall rule) is irrelevant to
// callers.
type Blocker interface {
	// HasElevatedPrivileges reports whether blocking can currently be
	// applied.
	HasElevatedPrivileges() bool

	// EnableBlocking redirects the given hostnames. Enabling while
	// already active succeeds without rewriting anything.
	EnableBlocking(ctx context.Context, sites []string) (*Result, error)

	// DisableBlocking removes every entry EnableBlocking added.
	DisableBlocking(ctx context.Context) (*Result, error)

	// IsActive reports whether blocking is currently in effect.
	IsActive() bool
}
