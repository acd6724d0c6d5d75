package save

import (
	"os"
	"path/filepath"
	"strings"
)

// ValidateSaveDir cleans dir and confirms it looks like a real savegame:
// an existing directory holding a careerSavegame.xml. Paths containing
// traversal segments are rejected outright, since save paths ultimately come
// from user input.
func ValidateSaveDir(dir string) (string, error) {
	if strings.Contains(dir, "..") {
		return "", NewError(CodeSavegameNotFound, nil, "path", dir)
	}
	clean := filepath.Clean(dir)
	info, err := os.Stat(clean)
	if err != nil || !info.IsDir() {
		return "", NewError(CodeSavegameNotFound, err, "path", dir)
	}
	if _, err := os.Stat(filepath.Join(clean, "careerSavegame.xml")); err != nil {
		return "", NewError(CodeSavegameNotFound, err, "path", dir)
	}
	return clean, nil
}
