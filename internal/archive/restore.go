package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Restore extracts a backup over workDir without ever leaving it partially
// applied: the current directory contents are cloned into a staging
// directory, the archive extracts over the clone, and only then are the two
// swapped. Any failure before the swap discards the stage and leaves workDir
// untouched. An empty stamp restores the canonical backup, falling back to
// the most recent rotation.
func (m *Manager) Restore(workDir, service, version, stamp string) error {
	archivePath, err := m.findArchive(service, version, stamp)
	if err != nil {
		return err
	}

	parent := filepath.Dir(workDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("prepare restore parent: %w", err)
	}

	stage, err := os.MkdirTemp(parent, filepath.Base(workDir)+".restore-")
	if err != nil {
		return fmt.Errorf("create restore stage: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(stage)
		}
	}()

	if err := cloneTree(workDir, stage); err != nil {
		return fmt.Errorf("%w: stage working directory: %v", ErrRestoreIncomplete, err)
	}
	if err := extractZip(archivePath, stage); err != nil {
		return fmt.Errorf("%w: extract %s: %v", ErrRestoreIncomplete, filepath.Base(archivePath), err)
	}

	return m.swap(workDir, stage, &committed)
}

// swap replaces workDir with stage via two renames, rolling the first back
// if the second fails.
func (m *Manager) swap(workDir, stage string, committed *bool) error {
	previous := workDir + ".pre-restore"
	if err := os.RemoveAll(previous); err != nil {
		return fmt.Errorf("clear previous restore remnant: %w", err)
	}

	replaced := true
	if err := os.Rename(workDir, previous); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("%w: set aside working directory: %v", ErrRestoreIncomplete, err)
		}
		replaced = false
	}

	if err := os.Rename(stage, workDir); err != nil {
		if replaced {
			_ = os.Rename(previous, workDir)
		}
		return fmt.Errorf("%w: swap in restored directory: %v", ErrRestoreIncomplete, err)
	}
	*committed = true

	if replaced {
		if err := os.RemoveAll(previous); err != nil {
			return fmt.Errorf("remove pre-restore copy: %w", err)
		}
	}
	return nil
}

// cloneTree copies the regular files of src into dst, preserving layout. A
// missing src is an empty clone.
func cloneTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}

	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, ok := relUnder(src, p)
		if !ok || rel == "." {
			return nil
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyRegular(p, target)
	})
}

func copyRegular(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func extractZip(archivePath, dest string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		target := filepath.Join(dest, filepath.FromSlash(file.Name))
		if _, ok := relUnder(dest, target); !ok {
			return fmt.Errorf("entry %s escapes destination", file.Name)
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create dir %s: %w", file.Name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("prepare %s: %w", file.Name, err)
		}

		rc, err := file.Open()
		if err != nil {
			return fmt.Errorf("open entry %s: %w", file.Name, err)
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			rc.Close()
			return fmt.Errorf("create %s: %w", file.Name, err)
		}
		if _, err := io.Copy(out, rc); err != nil {
			rc.Close()
			out.Close()
			return fmt.Errorf("extract %s: %w", file.Name, err)
		}
		rc.Close()
		if err := out.Close(); err != nil {
			return fmt.Errorf("close %s: %w", file.Name, err)
		}
	}
	return nil
}
