package save

import (
	"strings"
	"testing"
)

func TestApplyMissionChanges(t *testing.T) {
	t.Run("status and info are patched on the addressed mission", func(t *testing.T) {
		dir := newSaveDir(t)

		changes := []MissionChange{{
			UniqueID: "m1",
			Status:   sptr(MissionStatusCompleted),
			Reward:   fptr(3000),
		}}
		if err := applyMissionChanges(dir, changes); err != nil {
			t.Fatalf("applyMissionChanges() error = %v", err)
		}

		content := readSaveFile(t, dir, "missions.xml")
		if !strings.Contains(content, `<harvestMission uniqueId="m1" status="2"`) {
			t.Errorf("status not mapped to its code:\n%s", content)
		}
		if !strings.Contains(content, `reward="3000.000000" completion="0.250000"`) {
			t.Error("info not patched, or a sibling attribute was touched")
		}
		if !strings.Contains(content, `<plowMission uniqueId="m2" status="0"`) {
			t.Error("other mission was touched")
		}
	})

	t.Run("info of an unaddressed mission stays verbatim", func(t *testing.T) {
		dir := newSaveDir(t)

		changes := []MissionChange{{UniqueID: "m1", Completion: fptr(1)}}
		if err := applyMissionChanges(dir, changes); err != nil {
			t.Fatalf("applyMissionChanges() error = %v", err)
		}

		content := readSaveFile(t, dir, "missions.xml")
		if !strings.Contains(content, `reward="1800.000000" completion="0.000000"`) {
			t.Errorf("m2 info was touched:\n%s", content)
		}
	})
}

func TestApplyCollectibleChanges(t *testing.T) {
	dir := newSaveDir(t)

	changes := []CollectibleChange{{Index: 1, Collected: true}}
	if err := applyCollectibleChanges(dir, changes); err != nil {
		t.Fatalf("applyCollectibleChanges() error = %v", err)
	}

	content := readSaveFile(t, dir, "collectibles.xml")
	if !strings.Contains(content, `<collectible index="1" isCollected="true"/>`) {
		t.Errorf("collectible 1 not flipped:\n%s", content)
	}
	if !strings.Contains(content, `<collectible index="2" isCollected="true"/>`) {
		t.Error("collectible 2 was touched")
	}
}

func TestApplyContractSettings(t *testing.T) {
	dir := newSaveDir(t)

	ch := &ContractSettingsChange{
		LeaseVehicle:  fptr(0),
		AllowClearAdd: fptr(1),
	}
	if err := applyContractSettings(dir, ch); err != nil {
		t.Fatalf("applyContractSettings() error = %v", err)
	}

	content := readSaveFile(t, dir, "r_contracts.xml")
	if !strings.Contains(content, `leaseVehicle="0.000000"`) ||
		!strings.Contains(content, `allowClearAdd="1.000000"`) {
		t.Errorf("settings not patched:\n%s", content)
	}
	if !strings.Contains(content, `missionPerFarm="5.000000"`) {
		t.Error("unaddressed setting was touched")
	}
}
