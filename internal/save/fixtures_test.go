package save

import (
	"os"
	"path/filepath"
	"testing"
)

const careerFixture = `<?xml version="1.0" encoding="utf-8" standalone="no"?>
<careerSavegame revision="9">
    <settings>
        <savegameName>Green Valley</savegameName>
        <mapTitle>Riverbend Springs</mapTitle>
    </settings>
    <statistics>
        <money>100000</money>
        <playTime>12.5</playTime>
    </statistics>
</careerSavegame>
`

const careerAttrFixture = `<?xml version="1.0" encoding="utf-8" standalone="no"?>
<careerSavegame revision="9">
    <settings>
        <savegameName>Green Valley</savegameName>
        <mapTitle>Riverbend Springs</mapTitle>
    </settings>
    <statistics money="100000.000000" playTime="12.5"/>
</careerSavegame>
`

const farmsFixture = `<?xml version="1.0" encoding="utf-8" standalone="no"?>
<farms>
    <farm farmId="1" name="My Farm" money="100000.000000" loan="0.000000">
        <players/>
    </farm>
    <farm farmId="2" name="Rival" money="5000.000000" loan="250.000000"/>
</farms>
`

const vehiclesFixture = `<?xml version="1.0" encoding="utf-8" standalone="no"?>
<vehicles>
    <vehicle id="1" filename="tractor.xml" age="4.000000" price="150000.000000" farmId="1" propertyState="1" operatingTime="7200.000000">
        <fillUnit>
            <unit index="0" fillType="DIESEL" fillLevel="80.000000"/>
            <unit index="1" fillType="DEF" fillLevel="10.000000"/>
        </fillUnit>
    </vehicle>
    <vehicle id="2" filename="plow.xml" age="1.000000" price="30000.000000" farmId="1" propertyState="1" operatingTime="600.000000"/>
</vehicles>
`

const salesFixture = `<?xml version="1.0" encoding="utf-8" standalone="no"?>
<sales>
    <item xmlFilename="data/vehicles/a.xml" price="1000" damage="0.300000" wear="0.500000" age="12" operatingTime="36000.000000" timeLeft="3" isGenerated="true"/>
    <item xmlFilename="data/vehicles/b.xml" price="2000" damage="0.100000" wear="0.200000" age="5" operatingTime="7200.000000" timeLeft="8" isGenerated="true"/>
</sales>
`

const fieldsFixture = `<?xml version="1.0" encoding="utf-8" standalone="no"?>
<fields>
    <field id="1" fruitType="WHEAT" growthState="3" weedState="2" sprayLevel="0" limeLevel="1" plowLevel="0"/>
    <field id="2" fruitType="BARLEY" growthState="5" weedState="0" sprayLevel="1" limeLevel="1" plowLevel="1"/>
</fields>
`

const farmlandFixture = `<?xml version="1.0" encoding="utf-8" standalone="no"?>
<farmlands>
    <farmland id="1" farmId="0" price="120000.000000"/>
    <farmland id="2" farmId="1" price="80000.000000"/>
</farmlands>
`

const collectiblesFixture = `<?xml version="1.0" encoding="utf-8" standalone="no"?>
<collectibles>
    <collectible index="1" isCollected="false"/>
    <collectible index="2" isCollected="true"/>
</collectibles>
`

const missionsFixture = `<?xml version="1.0" encoding="utf-8" standalone="no"?>
<missions>
    <harvestMission uniqueId="m1" status="1" fieldId="3">
        <info reward="2500.000000" completion="0.250000" reimbursement="0.000000"/>
    </harvestMission>
    <plowMission uniqueId="m2" status="0" fieldId="5">
        <info reward="1800.000000" completion="0.000000" reimbursement="0.000000"/>
    </plowMission>
</missions>
`

const contractsFixture = `<?xml version="1.0" encoding="utf-8" standalone="no"?>
<contracts>
    <settings leaseVehicle="1.000000" missionPerFarm="5.000000" allowClearAdd="0.000000"/>
</contracts>
`

const environmentFixture = `<?xml version="1.0" encoding="utf-8" standalone="no"?>
<environment>
    <currentDay>4</currentDay>
    <dayTime>717.500000</dayTime>
    <weather>
        <forecast>
            <instance typeName="SUN" season="0" variationIndex="1" startDay="4" startDayTime="0" duration="360"/>
        </forecast>
        <snow height="0.000000"/>
        <ground wetness="0.100000"/>
    </weather>
</environment>
`

const economyFixture = `<?xml version="1.0" encoding="utf-8" standalone="no"?>
<economy>
    <greatDemands>
        <greatDemand uniqueId="1" fillTypeName="WHEAT" demandMultiplier="1.800000" demandStartDay="2" demandStartHour="8" demandDuration="24" isRunning="true" isValid="true"/>
        <greatDemand uniqueId="2" fillTypeName="MILK" demandMultiplier="2.000000" demandStartDay="5" demandStartHour="10" demandDuration="12" isRunning="false" isValid="true"/>
    </greatDemands>
</economy>
`

const placeablesFixture = `<?xml version="1.0" encoding="utf-8" standalone="no"?>
<placeables>
    <placeable farmId="1" price="50000.000000" name="Barn">
        <constructionPlaceable>
            <material fillType="CEMENT" amountRemaining="20"/>
            <material fillType="PLANKS" amountRemaining="12"/>
        </constructionPlaceable>
    </placeable>
    <placeable farmId="1" price="90000.000000" name="Bakery">
        <productionPoint>
            <input>
                <storage fillType="FLOUR" fillLevel="120.000000"/>
                <storage fillType="WATER" fillLevel="40.000000"/>
            </input>
            <output>
                <storage fillType="BREAD" fillLevel="12.000000"/>
            </output>
        </productionPoint>
    </placeable>
</placeables>
`

var fixtureFiles = map[string]string{
	"careerSavegame.xml": careerFixture,
	"farms.xml":          farmsFixture,
	"vehicles.xml":       vehiclesFixture,
	"sales.xml":          salesFixture,
	"fields.xml":         fieldsFixture,
	"farmland.xml":       farmlandFixture,
	"collectibles.xml":   collectiblesFixture,
	"missions.xml":       missionsFixture,
	"r_contracts.xml":    contractsFixture,
	"environment.xml":    environmentFixture,
	"economy.xml":        economyFixture,
	"placeables.xml":     placeablesFixture,
}

// newSaveDir lays out a complete savegame fixture in a temp directory.
func newSaveDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range fixtureFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing fixture %s: %v", name, err)
		}
	}
	return dir
}

func readSaveFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

// assertNoTempFiles fails if any .tmp file survived a writer call.
func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if err != nil {
		t.Fatalf("globbing: %v", err)
	}
	if len(matches) > 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
func sptr(v string) *string   { return &v }
func bptr(v bool) *bool       { return &v }
