package save

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"fsedit/internal/xmlpatch"
)

// SaleItem is one listing in sales.xml.
type SaleItem struct {
	XMLFilename   string  `xml:"xmlFilename,attr"`
	Price         int     `xml:"price,attr"`
	Damage        float64 `xml:"damage,attr"`
	Wear          float64 `xml:"wear,attr"`
	Age           int     `xml:"age,attr"`
	OperatingTime float64 `xml:"operatingTime,attr"`
	TimeLeft      int     `xml:"timeLeft,attr"`
	IsGenerated   bool    `xml:"isGenerated,attr"`
}

// ReadSales parses sales.xml. A missing file is an empty market, not an
// error. Operating time is converted to minutes.
func ReadSales(dir string) ([]SaleItem, error) {
	path := filepath.Join(dir, "sales.xml")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc struct {
		Items []SaleItem `xml:"item"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for i := range doc.Items {
		doc.Items[i].OperatingTime /= 60
	}
	return doc.Items, nil
}

// applySaleChanges rewrites sales.xml. Items are addressed by their position
// (0-based count of <item> elements); deletion removes the whole element, so
// later indices shift down by one.
func applySaleChanges(dir string, changes []SaleChange) error {
	path := filepath.Join(dir, "sales.xml")
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	byPos := make(map[int]*xmlpatch.Op, len(changes))
	for i := range changes {
		ch := &changes[i]
		if ch.Delete {
			byPos[ch.Index] = &xmlpatch.Op{Delete: xmlpatch.DeleteRemove}
			continue
		}
		set := xmlpatch.AttrPatch{}
		if ch.Price != nil {
			set["price"] = formatInt(*ch.Price)
		}
		if ch.Damage != nil {
			set["damage"] = formatFloat(*ch.Damage)
		}
		if ch.Wear != nil {
			set["wear"] = formatFloat(*ch.Wear)
		}
		if ch.Age != nil {
			set["age"] = formatInt(*ch.Age)
		}
		if ch.OperatingTime != nil {
			set["operatingTime"] = formatMinutes(*ch.OperatingTime)
		}
		if ch.TimeLeft != nil {
			set["timeLeft"] = formatInt(*ch.TimeLeft)
		}
		byPos[ch.Index] = &xmlpatch.Op{Set: set}
	}

	p := &xmlpatch.Patcher{
		Rules: []*xmlpatch.ElementRule{{Tag: "item", ByPos: byPos}},
	}
	out, err := p.Apply(doc)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}
	return commitFile(path, out)
}

// applySaleAdditions appends new items before the closing sales tag. A
// missing sales.xml is synthesized from scratch.
func applySaleAdditions(dir string, additions []SaleAddition) error {
	path := filepath.Join(dir, "sales.xml")

	var frag bytes.Buffer
	for _, a := range additions {
		frag.Write(xmlpatch.EmptyElement("item", []xmlpatch.Attr{
			{Name: "xmlFilename", Value: a.XMLFilename},
			{Name: "price", Value: formatInt(a.Price)},
			{Name: "damage", Value: formatFloat(a.Damage)},
			{Name: "wear", Value: formatFloat(a.Wear)},
			{Name: "age", Value: formatInt(a.Age)},
			{Name: "operatingTime", Value: formatMinutes(a.OperatingTime)},
			{Name: "timeLeft", Value: formatInt(a.TimeLeft)},
			{Name: "isGenerated", Value: "false"},
		}))
		frag.WriteByte('\n')
	}

	doc, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return commitFile(path, xmlpatch.NewDocument("sales", frag.Bytes()))
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	out, err := xmlpatch.SpliceBeforeClose(doc, "sales", frag.Bytes())
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}
	return commitFile(path, out)
}
