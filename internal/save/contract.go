package save

import (
	"fmt"
	"os"
	"path/filepath"

	"fsedit/internal/xmlpatch"
)

// applyContractSettings rewrites r_contracts.xml. Different versions of the
// contracts mod name the settings element differently, so both spellings are
// patched; each file only contains one of them.
func applyContractSettings(dir string, ch *ContractSettingsChange) error {
	path := filepath.Join(dir, "r_contracts.xml")
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	set := xmlpatch.AttrPatch{}
	if ch.LeaseVehicle != nil {
		set["leaseVehicle"] = formatFloat(*ch.LeaseVehicle)
	}
	if ch.MissionPerFarm != nil {
		set["missionPerFarm"] = formatFloat(*ch.MissionPerFarm)
	}
	if ch.AllowClearAdd != nil {
		set["allowClearAdd"] = formatFloat(*ch.AllowClearAdd)
	}

	p := &xmlpatch.Patcher{
		Rules: []*xmlpatch.ElementRule{
			{Tag: "settings", All: &xmlpatch.Op{Set: set}},
			{Tag: "contractSettings", All: &xmlpatch.Op{Set: set}},
		},
	}
	out, err := p.Apply(doc)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}
	return commitFile(path, out)
}
