package save

import (
	"fmt"
	"os"
	"path/filepath"

	"fsedit/internal/xmlpatch"
)

// applyPlaceableChanges rewrites placeables.xml. Placeables are addressed by
// position. Construction completion zeroes the remaining material amounts
// inside the matched placeable's construction block; production stock levels
// are addressed by fill type inside the input/output storage lists.
func applyPlaceableChanges(dir string, changes []PlaceableChange) error {
	path := filepath.Join(dir, "placeables.xml")
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	byPos := make(map[int]*xmlpatch.Op, len(changes))
	for i := range changes {
		ch := &changes[i]
		op := &xmlpatch.Op{Set: xmlpatch.AttrPatch{}}
		if ch.FarmID != nil {
			op.Set["farmId"] = formatInt(*ch.FarmID)
		}
		if ch.Price != nil {
			op.Set["price"] = formatFloat(*ch.Price)
		}
		if ch.CompleteConstruction {
			op.Children = append(op.Children, &xmlpatch.ElementRule{
				Tag:    "material",
				Within: "constructionPlaceable",
				All:    &xmlpatch.Op{Set: xmlpatch.AttrPatch{"amountRemaining": "0"}},
			})
		}
		if len(ch.ProductionInputs) > 0 {
			op.Children = append(op.Children, storageRule("input", ch.ProductionInputs))
		}
		if len(ch.ProductionOutputs) > 0 {
			op.Children = append(op.Children, storageRule("output", ch.ProductionOutputs))
		}
		byPos[ch.Index] = op
	}

	p := &xmlpatch.Patcher{
		Rules: []*xmlpatch.ElementRule{{Tag: "placeable", ByPos: byPos}},
	}
	out, err := p.Apply(doc)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}
	return commitFile(path, out)
}

func storageRule(within string, stocks []ProductionStockChange) *xmlpatch.ElementRule {
	byID := make(map[string]*xmlpatch.Op, len(stocks))
	for _, st := range stocks {
		byID[st.FillType] = &xmlpatch.Op{
			Set: xmlpatch.AttrPatch{"fillLevel": formatFloat(st.Amount)},
		}
	}
	return &xmlpatch.ElementRule{
		Tag:    "storage",
		Within: within,
		IDAttr: "fillType",
		ByID:   byID,
	}
}
