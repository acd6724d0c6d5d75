package save

import (
	"fmt"
	"os"
)

// commitFile replaces path with data by writing a sibling temp file and
// renaming it into place. The rename is atomic on the same filesystem, so
// the target is never observed truncated. The temp file is removed on
// failure; no .tmp survives a writer call.
func commitFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
