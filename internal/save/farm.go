package save

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"fsedit/internal/xmlpatch"
)

// Farm is one entry in the farms.xml ledger.
type Farm struct {
	FarmID int     `xml:"farmId,attr"`
	Name   string  `xml:"name,attr"`
	Money  float64 `xml:"money,attr"`
	Loan   float64 `xml:"loan,attr"`
}

type farmsDoc struct {
	Farms []Farm `xml:"farm"`
}

// ReadFarms parses farms.xml.
func ReadFarms(dir string) ([]Farm, error) {
	path := filepath.Join(dir, "farms.xml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc farmsDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc.Farms, nil
}

// applyFarmFinances rewrites the money and/or loan attributes of one farm,
// addressed by its farmId.
func applyFarmFinances(dir string, farmID int, money, loan *float64) error {
	path := filepath.Join(dir, "farms.xml")
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	set := xmlpatch.AttrPatch{}
	if money != nil {
		set["money"] = formatFloat(*money)
	}
	if loan != nil {
		set["loan"] = formatFloat(*loan)
	}

	p := &xmlpatch.Patcher{
		Rules: []*xmlpatch.ElementRule{{
			Tag:    "farm",
			IDAttr: "farmId",
			ByID:   map[string]*xmlpatch.Op{formatInt(farmID): {Set: set}},
		}},
	}
	out, err := p.Apply(doc)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}
	return commitFile(path, out)
}
