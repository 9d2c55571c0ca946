package blocker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Marker lines delimiting the section this blocker owns in the hosts
// file. Everything between them is removed on disable; nothing outside
// is ever touched.
const (
	markerStart = "# START FOCUS MODE BLOCKING"
	markerEnd   = "# END FOCUS MODE BLOCKING"
)

const windowsHostsPath = `C:\Windows\System32\drivers\etc\hosts`

// HostsBlocker blocks websites by appending redirect entries to the OS
// hosts file. Requires administrator/root privileges.
type HostsBlocker struct {
	hostsPath  string
	redirectIP string
	privileged func() bool
	flushDNS   func(ctx context.Context)
	now        func() time.Time
}

// Option customizes a HostsBlocker; used by tests to redirect it at a
// temp file and a fake privilege probe.
type Option func(*HostsBlocker)

// WithHostsPath overrides the hosts file location.
func WithHostsPath(path string) Option {
	return func(b *HostsBlocker) { b.hostsPath = path }
}

// WithRedirectIP overrides the redirect address (default 127.0.0.1).
func WithRedirectIP(ip string) Option {
	return func(b *HostsBlocker) { b.redirectIP = ip }
}

// WithPrivilegeCheck overrides the elevated-privileges probe.
func WithPrivilegeCheck(probe func() bool) Option {
	return func(b *HostsBlocker) { b.privileged = probe }
}

// WithDNSFlush overrides the DNS cache flush hook.
func WithDNSFlush(flush func(ctx context.Context)) Option {
	return func(b *HostsBlocker) { b.flushDNS = flush }
}

// WithClock overrides the timestamp source for the block header comment.
func WithClock(now func() time.Time) Option {
	return func(b *HostsBlocker) { b.now = now }
}

// NewHostsBlocker creates a hosts-file blocker with platform defaults.
func NewHostsBlocker(opts ...Option) *HostsBlocker {
	b := &HostsBlocker{
		hostsPath:  defaultHostsPath(),
		redirectIP: "127.0.0.1",
		flushDNS:   flushDNSCache,
		now:        time.Now,
	}
	b.privileged = func() bool { return writable(b.hostsPath) }
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// HasElevatedPrivileges reports whether the hosts file can be modified.
func (b *HostsBlocker) HasElevatedPrivileges() bool {
	return b.privileged()
}

// IsActive reports whether the managed blocking section is present.
func (b *HostsBlocker) IsActive() bool {
	content, err := os.ReadFile(b.hostsPath)
	if err != nil {
		return false
	}
	return strings.Contains(string(content), markerStart)
}

// EnableBlocking appends redirect entries for the given sites. Enabling
// while already active reports success without rewriting the file.
func (b *HostsBlocker) EnableBlocking(ctx context.Context, sites []string) (*Result, error) {
	if !b.HasElevatedPrivileges() {
		return &Result{
			Message:       "administrator/root privileges required",
			RequiresAdmin: true,
		}, nil
	}

	content, err := os.ReadFile(b.hostsPath)
	if err != nil {
		if permissionProblem(err) {
			return &Result{
				Message:       "cannot read hosts file (permission denied)",
				RequiresAdmin: true,
			}, nil
		}
		return nil, fmt.Errorf("reading hosts file: %w", err)
	}

	if strings.Contains(string(content), markerStart) {
		return &Result{
			Success:      true,
			Message:      "blocking is already active",
			BlockedSites: sites,
		}, nil
	}

	var block strings.Builder
	block.WriteString("\n" + markerStart + "\n")
	fmt.Fprintf(&block, "# Added by focusdeck on %s\n", b.now().Format("2006-01-02 15:04:05"))
	for _, site := range sites {
		fmt.Fprintf(&block, "%s %s\n", b.redirectIP, site)
	}
	block.WriteString(markerEnd + "\n")

	if err := b.writeHosts(append(content, []byte(block.String())...)); err != nil {
		if permissionProblem(err) {
			return &Result{
				Message:       "cannot write to hosts file (permission denied)",
				RequiresAdmin: true,
			}, nil
		}
		return nil, err
	}

	b.flushDNS(ctx)

	return &Result{
		Success:      true,
		Message:      fmt.Sprintf("blocked %d websites", len(sites)),
		BlockedSites: sites,
	}, nil
}

// DisableBlocking removes the managed section, leaving the rest of the
// hosts file untouched.
func (b *HostsBlocker) DisableBlocking(ctx context.Context) (*Result, error) {
	if !b.HasElevatedPrivileges() {
		return &Result{
			Message:       "administrator/root privileges required",
			RequiresAdmin: true,
		}, nil
	}

	content, err := os.ReadFile(b.hostsPath)
	if err != nil {
		if permissionProblem(err) {
			return &Result{
				Message:       "cannot read hosts file (permission denied)",
				RequiresAdmin: true,
			}, nil
		}
		return nil, fmt.Errorf("reading hosts file: %w", err)
	}

	var kept []string
	skip := false
	for _, line := range strings.Split(string(content), "\n") {
		switch {
		case strings.Contains(line, markerStart):
			skip = true
		case strings.Contains(line, markerEnd):
			skip = false
		case !skip:
			kept = append(kept, line)
		}
	}

	if err := b.writeHosts([]byte(strings.Join(kept, "\n"))); err != nil {
		if permissionProblem(err) {
			return &Result{
				Message:       "cannot write to hosts file (permission denied)",
				RequiresAdmin: true,
			}, nil
		}
		return nil, err
	}

	b.flushDNS(ctx)

	return &Result{Success: true, Message: "unblocked all websites"}, nil
}

func (b *HostsBlocker) writeHosts(content []byte) error {
	if err := os.WriteFile(b.hostsPath, content, 0o644); err != nil {
		return fmt.Errorf("writing hosts file: %w", err)
	}
	return nil
}

// NormalizeSites deduplicates a site list and adds the www variant of
// each bare hostname.
func NormalizeSites(sites []string) []string {
	seen := make(map[string]bool, len(sites)*2)
	var out []string
	add := func(site string) {
		if site != "" && !seen[site] {
			seen[site] = true
			out = append(out, site)
		}
	}
	for _, site := range sites {
		site = strings.TrimSpace(strings.ToLower(site))
		add(site)
		if site != "" && !strings.HasPrefix(site, "www.") {
			add("www." + site)
		}
	}
	return out
}

// AddSite adds a hostname to the list together with its www variant so
// both forms are blocked as a pair. The second return reports whether
// the list changed.
func AddSite(sites []string, site string) ([]string, bool) {
	site = strings.TrimSpace(strings.ToLower(site))
	if site == "" {
		return sites, false
	}
	bare := strings.TrimPrefix(site, "www.")
	out := append([]string(nil), sites...)
	changed := false
	for _, v := range []string{bare, "www." + bare} {
		if !containsSite(out, v) {
			out = append(out, v)
			changed = true
		}
	}
	return out, changed
}

// RemoveSite drops a hostname and its www variant from the list,
// whichever form was given. The second return reports whether the list
// changed.
func RemoveSite(sites []string, site string) ([]string, bool) {
	site = strings.TrimSpace(strings.ToLower(site))
	if site == "" {
		return sites, false
	}
	bare := strings.TrimPrefix(site, "www.")
	var out []string
	changed := false
	for _, s := range sites {
		if s == bare || s == "www."+bare {
			changed = true
			continue
		}
		out = append(out, s)
	}
	return out, changed
}

func containsSite(sites []string, site string) bool {
	for _, s := range sites {
		if s == site {
			return true
		}
	}
	return false
}

func defaultHostsPath() string {
	if runtime.GOOS == "windows" {
		return windowsHostsPath
	}
	return "/etc/hosts"
}

// writable probes whether the current process can open the file for
// writing; this stands in for an explicit admin/root check and behaves
// the same on every platform.
func writable(path string) bool {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

func permissionProblem(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}

// flushDNSCache applies hosts file changes immediately. Failures are
// ignored: a stale cache only delays the redirect.
func flushDNSCache(ctx context.Context) {
	var cmds [][]string
	switch runtime.GOOS {
	case "windows":
		cmds = [][]string{{"ipconfig", "/flushdns"}}
	case "darwin":
		cmds = [][]string{
			{"dscacheutil", "-flushcache"},
			{"killall", "-HUP", "mDNSResponder"},
		}
	default:
		cmds = [][]string{{"resolvectl", "flush-caches"}}
	}
	for _, argv := range cmds {
		_ = exec.CommandContext(ctx, argv[0], argv[1:]...).Run()
	}
}
