package save

import (
	"fmt"
	"os"
	"path/filepath"

	"fsedit/internal/xmlpatch"
)

// Mission statuses as they appear in change files. The document stores the
// numeric codes on the mission element.
const (
	MissionStatusCreated   = "Created"
	MissionStatusRunning   = "Running"
	MissionStatusCompleted = "Completed"
)

func missionStatusCode(status string) string {
	switch status {
	case MissionStatusRunning:
		return "1"
	case MissionStatusCompleted:
		return "2"
	default:
		return "0"
	}
}

// applyMissionChanges rewrites missions.xml. The schema encodes the mission
// type in the element name (harvestMission, plowMission, ...), so elements
// are matched by tag suffix and addressed by their uniqueId attribute.
// Reward, completion and reimbursement live on the nested info element.
func applyMissionChanges(dir string, changes []MissionChange) error {
	path := filepath.Join(dir, "missions.xml")
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	byID := make(map[string]*xmlpatch.Op, len(changes))
	for i := range changes {
		ch := &changes[i]
		op := &xmlpatch.Op{Set: xmlpatch.AttrPatch{}}
		if ch.Status != nil {
			op.Set["status"] = missionStatusCode(*ch.Status)
		}
		info := xmlpatch.AttrPatch{}
		if ch.Reward != nil {
			info["reward"] = formatFloat(*ch.Reward)
		}
		if ch.Completion != nil {
			info["completion"] = formatFloat(*ch.Completion)
		}
		if ch.Reimbursement != nil {
			info["reimbursement"] = formatFloat(*ch.Reimbursement)
		}
		if len(info) > 0 {
			op.Children = []*xmlpatch.ElementRule{{
				Tag: "info",
				All: &xmlpatch.Op{Set: info},
			}}
		}
		byID[ch.UniqueID] = op
	}

	p := &xmlpatch.Patcher{
		Rules: []*xmlpatch.ElementRule{{
			TagSuffix: "Mission",
			IDAttr:    "uniqueId",
			ByID:      byID,
		}},
	}
	out, err := p.Apply(doc)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}
	return commitFile(path, out)
}
