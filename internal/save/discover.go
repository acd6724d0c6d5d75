package save

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// SavegameInfo is one discovered savegame with its headline career data.
type SavegameInfo struct {
	Dir      string
	Name     string
	MapTitle string
	Money    float64
	PlayTime float64
}

// ListSavegames scans base for savegame directories (anything holding a
// careerSavegame.xml) and returns their summaries sorted by directory name.
// A missing base directory yields an empty list; a directory whose career
// file cannot be parsed is skipped.
func ListSavegames(base string) ([]SavegameInfo, error) {
	entries, err := os.ReadDir(base)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", base, err)
	}

	var saves []SavegameInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(base, e.Name())
		sum, err := ReadCareer(dir)
		if err != nil {
			continue
		}
		saves = append(saves, SavegameInfo{
			Dir:      dir,
			Name:     sum.SavegameName,
			MapTitle: sum.MapTitle,
			Money:    sum.Money,
			PlayTime: sum.PlayTime,
		})
	}
	sort.Slice(saves, func(i, j int) bool { return saves[i].Dir < saves[j].Dir })
	return saves, nil
}
