package save

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"fsedit/internal/xmlpatch"
)

// CareerSummary is the headline data of a savegame.
type CareerSummary struct {
	SavegameName string
	MapTitle     string
	Money        float64
	PlayTime     float64
}

type careerDoc struct {
	Settings struct {
		SavegameName string `xml:"savegameName"`
		MapTitle     string `xml:"mapTitle"`
	} `xml:"settings"`
	Statistics struct {
		// The statistics block comes in two dialects: attributes on a
		// self-closing element, or one child element per field.
		MoneyAttr  *float64 `xml:"money,attr"`
		MoneyChild *float64 `xml:"money"`
		PlayTime   float64  `xml:"playTime"`
	} `xml:"statistics"`
}

// ReadCareer parses careerSavegame.xml into a summary.
func ReadCareer(dir string) (*CareerSummary, error) {
	path := filepath.Join(dir, "careerSavegame.xml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc careerDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	sum := &CareerSummary{
		SavegameName: doc.Settings.SavegameName,
		MapTitle:     doc.Settings.MapTitle,
		PlayTime:     doc.Statistics.PlayTime,
	}
	switch {
	case doc.Statistics.MoneyAttr != nil:
		sum.Money = *doc.Statistics.MoneyAttr
	case doc.Statistics.MoneyChild != nil:
		sum.Money = *doc.Statistics.MoneyChild
	}
	return sum, nil
}

// applyCareerMoney rewrites the money value in careerSavegame.xml. Rules for
// both statistics dialects are installed; only the shape actually present in
// the document fires. The attribute dialect stores a six-decimal float, the
// child-element dialect a whole number.
func applyCareerMoney(dir string, money float64) error {
	path := filepath.Join(dir, "careerSavegame.xml")
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	p := &xmlpatch.Patcher{
		Scalars: []*xmlpatch.ScalarRule{
			{Path: []string{"careerSavegame", "statistics"}, Attr: "money", Value: formatFloat(money)},
			{Path: []string{"careerSavegame", "statistics", "money"}, Value: strconv.FormatInt(int64(money), 10)},
		},
	}
	out, err := p.Apply(doc)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}
	return commitFile(path, out)
}
