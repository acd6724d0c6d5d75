package save

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"fsedit/internal/xmlpatch"
)

// Field is one entry in fields.xml.
type Field struct {
	ID          int    `xml:"id,attr"`
	FruitType   string `xml:"fruitType,attr"`
	GrowthState int    `xml:"growthState,attr"`
	WeedState   int    `xml:"weedState,attr"`
}

// ReadFields parses fields.xml.
func ReadFields(dir string) ([]Field, error) {
	path := filepath.Join(dir, "fields.xml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc struct {
		Fields []Field `xml:"field"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc.Fields, nil
}

// applyFieldChanges rewrites fields.xml. Fields are addressed by their id
// attribute.
func applyFieldChanges(dir string, changes []FieldChange) error {
	path := filepath.Join(dir, "fields.xml")
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	byID := make(map[string]*xmlpatch.Op, len(changes))
	for i := range changes {
		ch := &changes[i]
		set := xmlpatch.AttrPatch{}
		if ch.FruitType != nil {
			set["fruitType"] = *ch.FruitType
		}
		if ch.PlannedFruit != nil {
			set["plannedFruit"] = *ch.PlannedFruit
		}
		if ch.GrowthState != nil {
			set["growthState"] = formatInt(*ch.GrowthState)
		}
		if ch.GroundType != nil {
			set["groundType"] = *ch.GroundType
		}
		if ch.WeedState != nil {
			set["weedState"] = formatInt(*ch.WeedState)
		}
		if ch.StoneLevel != nil {
			set["stoneLevel"] = formatInt(*ch.StoneLevel)
		}
		if ch.SprayLevel != nil {
			set["sprayLevel"] = formatInt(*ch.SprayLevel)
		}
		if ch.SprayType != nil {
			set["sprayType"] = *ch.SprayType
		}
		if ch.LimeLevel != nil {
			set["limeLevel"] = formatInt(*ch.LimeLevel)
		}
		if ch.PlowLevel != nil {
			set["plowLevel"] = formatInt(*ch.PlowLevel)
		}
		if ch.RollerLevel != nil {
			set["rollerLevel"] = formatInt(*ch.RollerLevel)
		}
		if ch.StubbleShredLevel != nil {
			set["stubbleShredLevel"] = formatInt(*ch.StubbleShredLevel)
		}
		if ch.WaterLevel != nil {
			set["waterLevel"] = formatInt(*ch.WaterLevel)
		}
		byID[formatInt(ch.ID)] = &xmlpatch.Op{Set: set}
	}

	p := &xmlpatch.Patcher{
		Rules: []*xmlpatch.ElementRule{{Tag: "field", IDAttr: "id", ByID: byID}},
	}
	out, err := p.Apply(doc)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}
	return commitFile(path, out)
}

// applyFarmlandChanges rewrites farmland.xml, reassigning parcel ownership.
func applyFarmlandChanges(dir string, changes []FarmlandChange) error {
	path := filepath.Join(dir, "farmland.xml")
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	byID := make(map[string]*xmlpatch.Op, len(changes))
	for _, ch := range changes {
		byID[formatInt(ch.ID)] = &xmlpatch.Op{
			Set: xmlpatch.AttrPatch{"farmId": formatInt(ch.FarmID)},
		}
	}

	p := &xmlpatch.Patcher{
		Rules: []*xmlpatch.ElementRule{{Tag: "farmland", IDAttr: "id", ByID: byID}},
	}
	out, err := p.Apply(doc)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}
	return commitFile(path, out)
}
