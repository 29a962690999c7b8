package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Write snapshots workDir into the backup directory under the canonical name
// for the service. Only paths on the include list (files or whole directory
// subtrees, absolute, inside workDir) land in the archive; entries that do
// not exist are skipped. With preserve set, an existing canonical backup is
// first renamed aside under a rotation stamp, never overwritten, and a
// collision on the rotated name fails with ErrArchiveConflict.
//
// Returns the path of the written archive.
func (m *Manager) Write(workDir string, include []string, service, version string, preserve bool) (string, error) {
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return "", fmt.Errorf("prepare backup dir: %w", err)
	}

	canonical := filepath.Join(m.Dir, CanonicalName(service, version))
	exists, err := regularFile(canonical)
	if err != nil {
		return "", err
	}
	if exists && preserve {
		rotated := filepath.Join(m.Dir, Name(service, version, Stamp()))
		if taken, err := regularFile(rotated); err != nil {
			return "", err
		} else if taken {
			return "", fmt.Errorf("%w: %s", ErrArchiveConflict, filepath.Base(rotated))
		}
		if err := os.Rename(canonical, rotated); err != nil {
			return "", fmt.Errorf("rotate backup: %w", err)
		}
	}

	tmp, err := os.CreateTemp(m.Dir, filepath.Base(canonical)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp backup: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := writeZip(tmp, workDir, include); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp backup: %w", err)
	}
	if err := os.Rename(tmpPath, canonical); err != nil {
		return "", fmt.Errorf("finalize backup: %w", err)
	}
	return canonical, nil
}

func writeZip(w io.Writer, workDir string, include []string) error {
	zw := zip.NewWriter(w)
	for _, path := range include {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if info.Mode().IsRegular() {
			if err := addFile(zw, workDir, path); err != nil {
				return err
			}
			continue
		}
		if !info.IsDir() {
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			return addFile(zw, workDir, p)
		})
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, workDir, path string) error {
	rel, ok := relUnder(workDir, path)
	if !ok {
		return fmt.Errorf("archive %s: outside working directory %s", path, workDir)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	entry, err := zw.Create(filepath.ToSlash(rel))
	if err != nil {
		return fmt.Errorf("create entry %s: %w", rel, err)
	}
	if _, err := io.Copy(entry, f); err != nil {
		return fmt.Errorf("archive %s: %w", rel, err)
	}
	return nil
}
