// Package backup manages full-directory snapshots of savegames. A backup is
// a plain recursive copy under a sibling <save>_backups directory; nothing
// about it is incremental or deduplicated, which keeps restore trivially
// inspectable by the user.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// timestampLayout is embedded in backup names. It sorts lexicographically in
// chronological order, so string-descending sort equals newest-first.
const timestampLayout = "2006-01-02_15h04m05s"

const namePrefix = "backup_"

// Clock abstracts time retrieval so backup names are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// Info describes one backup on disk.
type Info struct {
	Name      string
	Path      string
	CreatedAt time.Time
	Size      int64
}

// Manager creates, lists, restores and deletes backups of save directories.
type Manager struct {
	clock Clock
}

func NewManager(clock Clock) *Manager {
	return &Manager{clock: clock}
}

// backupsDir returns the sibling directory holding all backups of saveDir.
func backupsDir(saveDir string) string {
	return filepath.Join(filepath.Dir(saveDir), filepath.Base(saveDir)+"_backups")
}

// Create copies the entire save directory into a new timestamped backup and
// returns its description.
func (m *Manager) Create(saveDir string) (*Info, error) {
	name := namePrefix + m.clock.Now().Format(timestampLayout)
	dest := filepath.Join(backupsDir(saveDir), name)

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}
	if err := copyDir(saveDir, dest); err != nil {
		// A half-written backup is worse than none.
		os.RemoveAll(dest)
		return nil, fmt.Errorf("copying save: %w", err)
	}
	size, err := dirSize(dest)
	if err != nil {
		return nil, fmt.Errorf("sizing backup: %w", err)
	}
	return &Info{
		Name:      name,
		Path:      dest,
		CreatedAt: m.clock.Now(),
		Size:      size,
	}, nil
}

// List returns all backups of saveDir, newest first. A save that has never
// been backed up yields an empty list.
func (m *Manager) List(saveDir string) ([]Info, error) {
	entries, err := os.ReadDir(backupsDir(saveDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading backups directory: %w", err)
	}

	var backups []Info
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), namePrefix) {
			continue
		}
		created, err := time.Parse(timestampLayout, strings.TrimPrefix(e.Name(), namePrefix))
		if err != nil {
			continue
		}
		path := filepath.Join(backupsDir(saveDir), e.Name())
		size, err := dirSize(path)
		if err != nil {
			return nil, fmt.Errorf("sizing backup %s: %w", e.Name(), err)
		}
		backups = append(backups, Info{
			Name:      e.Name(),
			Path:      path,
			CreatedAt: created,
			Size:      size,
		})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].Name > backups[j].Name })
	return backups, nil
}

// Restore replaces the save directory's contents with the named backup. A
// fresh safety backup of the current state is taken first, so a restore is
// itself recoverable. A failure mid-copy leaves the directory mixed; the
// safety backup is the recovery path.
func (m *Manager) Restore(saveDir, name string) error {
	src, err := m.resolve(saveDir, name)
	if err != nil {
		return err
	}

	if _, err := m.Create(saveDir); err != nil {
		return fmt.Errorf("taking safety backup: %w", err)
	}

	entries, err := os.ReadDir(saveDir)
	if err != nil {
		return fmt.Errorf("reading save directory: %w", err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(saveDir, e.Name())); err != nil {
			return fmt.Errorf("clearing save directory: %w", err)
		}
	}
	if err := copyDir(src, saveDir); err != nil {
		return fmt.Errorf("copying backup: %w", err)
	}
	return nil
}

// Delete removes the named backup wholesale.
func (m *Manager) Delete(saveDir, name string) error {
	path, err := m.resolve(saveDir, name)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("deleting backup: %w", err)
	}
	return nil
}

// Prune deletes all but the keep newest backups and returns the names of
// those removed.
func (m *Manager) Prune(saveDir string, keep int) ([]string, error) {
	if keep < 0 {
		return nil, fmt.Errorf("keep must be non-negative, got %d", keep)
	}
	backups, err := m.List(saveDir)
	if err != nil {
		return nil, err
	}
	if len(backups) <= keep {
		return nil, nil
	}
	var removed []string
	for _, b := range backups[keep:] {
		if err := os.RemoveAll(b.Path); err != nil {
			return removed, fmt.Errorf("deleting backup %s: %w", b.Name, err)
		}
		removed = append(removed, b.Name)
	}
	return removed, nil
}

// resolve validates a backup name and returns its path. Names come from user
// input, so anything that could escape the backups directory is rejected.
func (m *Manager) resolve(saveDir, name string) (string, error) {
	if !strings.HasPrefix(name, namePrefix) || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid backup name: %s", name)
	}
	path := filepath.Join(backupsDir(saveDir), name)
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("backup not found: %s", name)
	}
	return path, nil
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		from := filepath.Join(src, e.Name())
		to := filepath.Join(dest, e.Name())
		if e.IsDir() {
			if err := os.MkdirAll(to, 0o755); err != nil {
				return err
			}
			if err := copyDir(from, to); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(from, to); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func dirSize(path string) (int64, error) {
	var total int64
	err := filepath.WalkDir(path, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}
