package save

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"fsedit/internal/xmlpatch"
)

// Vehicle property states as they appear in change files. The document
// stores the numeric codes.
const (
	PropertyStateNone   = "None"
	PropertyStateOwned  = "Owned"
	PropertyStateRented = "Rented"
)

func propertyStateCode(state string) string {
	switch state {
	case PropertyStateOwned:
		return "1"
	case PropertyStateRented:
		return "2"
	default:
		return "0"
	}
}

// Vehicle is one entry in vehicles.xml.
type Vehicle struct {
	ID            string   `xml:"id,attr"`
	Filename      string   `xml:"filename,attr"`
	Age           float64  `xml:"age,attr"`
	Price         float64  `xml:"price,attr"`
	FarmID        int      `xml:"farmId,attr"`
	PropertyState int      `xml:"propertyState,attr"`
	OperatingTime float64  `xml:"operatingTime,attr"`
	FillUnits     fillUnit `xml:"fillUnit"`
}

type fillUnit struct {
	Units []FillUnitSlot `xml:"unit"`
}

// FillUnitSlot is one fill unit of a vehicle.
type FillUnitSlot struct {
	Index     int     `xml:"index,attr"`
	FillType  string  `xml:"fillType,attr"`
	FillLevel float64 `xml:"fillLevel,attr"`
}

// ReadVehicles parses vehicles.xml. Operating time is converted to minutes.
func ReadVehicles(dir string) ([]Vehicle, error) {
	path := filepath.Join(dir, "vehicles.xml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc struct {
		Vehicles []Vehicle `xml:"vehicle"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for i := range doc.Vehicles {
		doc.Vehicles[i].OperatingTime /= 60
	}
	return doc.Vehicles, nil
}

// applyVehicleChanges rewrites vehicles.xml. Vehicles are addressed by their
// id attribute; deletion removes the whole element. Fill unit levels are
// addressed by slot position inside the matched vehicle's fillUnit block.
func applyVehicleChanges(dir string, changes []VehicleChange) error {
	path := filepath.Join(dir, "vehicles.xml")
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	byID := make(map[string]*xmlpatch.Op, len(changes))
	for i := range changes {
		ch := &changes[i]
		if ch.Delete {
			byID[ch.ID] = &xmlpatch.Op{Delete: xmlpatch.DeleteRemove}
			continue
		}
		op := &xmlpatch.Op{Set: xmlpatch.AttrPatch{}}
		if ch.Age != nil {
			op.Set["age"] = formatFloat(*ch.Age)
		}
		if ch.Price != nil {
			op.Set["price"] = formatFloat(*ch.Price)
		}
		if ch.FarmID != nil {
			op.Set["farmId"] = formatInt(*ch.FarmID)
		}
		if ch.PropertyState != nil {
			op.Set["propertyState"] = propertyStateCode(*ch.PropertyState)
		}
		if ch.OperatingTime != nil {
			op.Set["operatingTime"] = formatMinutes(*ch.OperatingTime)
		}
		if len(ch.FillUnits) > 0 {
			byPos := make(map[int]*xmlpatch.Op, len(ch.FillUnits))
			for _, fu := range ch.FillUnits {
				byPos[fu.Index] = &xmlpatch.Op{
					Set: xmlpatch.AttrPatch{"fillLevel": formatFloat(fu.FillLevel)},
				}
			}
			op.Children = []*xmlpatch.ElementRule{{
				Tag:    "unit",
				Within: "fillUnit",
				ByPos:  byPos,
			}}
		}
		byID[ch.ID] = op
	}

	p := &xmlpatch.Patcher{
		Rules: []*xmlpatch.ElementRule{{Tag: "vehicle", IDAttr: "id", ByID: byID}},
	}
	out, err := p.Apply(doc)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}
	return commitFile(path, out)
}
