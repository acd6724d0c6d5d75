package save

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"fsedit/internal/xmlpatch"
)

// applyEconomyChanges rewrites economy.xml. Great demand slots are addressed
// by position inside the greatDemands block. Deleted slots are blanked to a
// bare marker element rather than removed, so the positional indices of
// later slots stay valid; new demands are appended before the block's
// closing tag.
func applyEconomyChanges(dir string, ch *EconomyChanges) error {
	path := filepath.Join(dir, "economy.xml")
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	byPos := make(map[int]*xmlpatch.Op)
	for i := range ch.GreatDemandChanges {
		gd := &ch.GreatDemandChanges[i]
		set := xmlpatch.AttrPatch{}
		if gd.FillTypeName != nil {
			set["fillTypeName"] = *gd.FillTypeName
		}
		if gd.DemandMultiplier != nil {
			set["demandMultiplier"] = formatFloat(*gd.DemandMultiplier)
		}
		if gd.DemandStartDay != nil {
			set["demandStartDay"] = formatInt(*gd.DemandStartDay)
		}
		if gd.DemandStartHour != nil {
			set["demandStartHour"] = formatInt(*gd.DemandStartHour)
		}
		if gd.DemandDuration != nil {
			set["demandDuration"] = formatInt(*gd.DemandDuration)
		}
		if gd.IsRunning != nil {
			set["isRunning"] = formatBool(*gd.IsRunning)
		}
		if gd.IsValid != nil {
			set["isValid"] = formatBool(*gd.IsValid)
		}
		byPos[gd.Index] = &xmlpatch.Op{Set: set}
	}
	for _, idx := range ch.GreatDemandDeletions {
		byPos[idx] = &xmlpatch.Op{Delete: xmlpatch.DeleteBlank}
	}

	p := &xmlpatch.Patcher{
		Rules: []*xmlpatch.ElementRule{{
			Tag:    "greatDemand",
			Within: "greatDemands",
			ByPos:  byPos,
		}},
	}
	out, err := p.Apply(doc)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}

	if len(ch.GreatDemandAdditions) > 0 {
		var frag bytes.Buffer
		for _, a := range ch.GreatDemandAdditions {
			frag.Write(xmlpatch.EmptyElement("greatDemand", []xmlpatch.Attr{
				{Name: "uniqueId", Value: a.UniqueID},
				{Name: "fillTypeName", Value: a.FillTypeName},
				{Name: "demandMultiplier", Value: formatFloat(a.DemandMultiplier)},
				{Name: "demandStartDay", Value: formatInt(a.DemandStartDay)},
				{Name: "demandStartHour", Value: formatInt(a.DemandStartHour)},
				{Name: "demandDuration", Value: formatInt(a.DemandDuration)},
				{Name: "isRunning", Value: "false"},
				{Name: "isValid", Value: "true"},
			}))
			frag.WriteByte('\n')
		}
		out, err = xmlpatch.SpliceBeforeClose(out, "greatDemands", frag.Bytes())
		if err != nil {
			return fmt.Errorf("patching %s: %w", path, err)
		}
	}

	return commitFile(path, out)
}
