// Package archive writes and restores point-in-time zip snapshots of a
// service's working directory. Backups live in a flat directory: the current
// snapshot at a canonical name, older ones rotated aside under a timestamp
// stamp when preservation is requested.
package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrArchiveConflict reports a preserve rotation whose target name
	// already exists; the existing backup is never overwritten.
	ErrArchiveConflict = errors.New("backup rotation target already exists")

	// ErrRestoreIncomplete reports a restore that could not fully apply. The
	// working directory is left as it was.
	ErrRestoreIncomplete = errors.New("restore incomplete")

	// ErrNoArchive reports that no backup matched the restore request.
	ErrNoArchive = errors.New("no matching backup")
)

// canonicalStamp marks the current (unrotated) backup.
const canonicalStamp = "0"

var nowFunc = time.Now

// Manager operates on one backup directory.
type Manager struct {
	Dir string
}

// Name builds a backup file name from the service identity and a stamp.
func Name(service, version, stamp string) string {
	return fmt.Sprintf("%s-%s-%s.bak.zip", service, version, stamp)
}

// CanonicalName is the name the current backup is written under.
func CanonicalName(service, version string) string {
	return Name(service, version, canonicalStamp)
}

// Stamp derives a rotation stamp from the current time: the two-digit year,
// ISO week, and weekday concatenated and hex-encoded, suffixed with the hour.
// Practically monotonic; a collision surfaces as ErrArchiveConflict rather
// than an overwrite.
func Stamp() string {
	now := nowFunc()
	year, week := now.ISOWeek()
	weekday := (int(now.Weekday()) + 6) % 7 // Monday == 0
	n, _ := strconv.ParseInt(fmt.Sprintf("%02d%02d%02d", year%100, week, weekday), 10, 64)
	return fmt.Sprintf("%#x-%02d", n, now.Hour())
}

// findArchive locates the backup to restore. An empty stamp selects the
// canonical backup, falling back to the most recently modified rotation.
func (m *Manager) findArchive(service, version, stamp string) (string, error) {
	if stamp != "" {
		path := filepath.Join(m.Dir, Name(service, version, stamp))
		if ok, err := regularFile(path); err != nil {
			return "", err
		} else if ok {
			return path, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNoArchive, Name(service, version, stamp))
	}

	canonical := filepath.Join(m.Dir, CanonicalName(service, version))
	if ok, err := regularFile(canonical); err != nil {
		return "", err
	} else if ok {
		return canonical, nil
	}

	pattern := filepath.Join(m.Dir, Name(service, version, "*"))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("scan backups: %w", err)
	}
	sort.Slice(matches, func(i, j int) bool {
		return modTime(matches[i]).After(modTime(matches[j]))
	})
	for _, match := range matches {
		if ok, _ := regularFile(match); ok {
			return match, nil
		}
	}
	return "", fmt.Errorf("%w: %s-%s", ErrNoArchive, service, version)
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func regularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// relUnder returns path relative to root when path sits inside it.
func relUnder(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
