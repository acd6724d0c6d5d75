package save

import (
	"fmt"
	"os"
	"path/filepath"

	"fsedit/internal/xmlpatch"
)

// applyCollectibleChanges rewrites collectibles.xml, flipping the collected
// flag of entries addressed by their index attribute.
func applyCollectibleChanges(dir string, changes []CollectibleChange) error {
	path := filepath.Join(dir, "collectibles.xml")
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	byID := make(map[string]*xmlpatch.Op, len(changes))
	for _, ch := range changes {
		byID[formatInt(ch.Index)] = &xmlpatch.Op{
			Set: xmlpatch.AttrPatch{"isCollected": formatBool(ch.Collected)},
		}
	}

	p := &xmlpatch.Patcher{
		Rules: []*xmlpatch.ElementRule{{Tag: "collectible", IDAttr: "index", ByID: byID}},
	}
	out, err := p.Apply(doc)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}
	return commitFile(path, out)
}
