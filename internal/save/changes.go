package save

// Changes is one transactional bundle of edits across a savegame's files.
// Every field is optional: nil (or empty) means "leave that sub-domain
// alone". Pointer fields inside the per-item change structs follow the same
// rule, so a change never clears a value it was not asked to touch.
//
// The struct doubles as the schema of the TOML change files the CLI accepts.
type Changes struct {
	Finance          *FinanceChanges         `toml:"finance"`
	Vehicles         []VehicleChange         `toml:"vehicles"`
	Sales            []SaleChange            `toml:"sales"`
	SaleAdditions    []SaleAddition          `toml:"sale_additions"`
	Fields           []FieldChange           `toml:"fields"`
	Farmlands        []FarmlandChange        `toml:"farmlands"`
	Placeables       []PlaceableChange       `toml:"placeables"`
	Missions         []MissionChange         `toml:"missions"`
	Collectibles     []CollectibleChange     `toml:"collectibles"`
	ContractSettings *ContractSettingsChange `toml:"contract_settings"`
	Environment      *EnvironmentChanges     `toml:"environment"`
	Economy          *EconomyChanges         `toml:"economy"`
}

// Empty reports whether the bundle carries no edits at all. An empty bundle
// is a no-op: no backup, no writes.
func (c *Changes) Empty() bool {
	return c.Finance == nil &&
		len(c.Vehicles) == 0 &&
		len(c.Sales) == 0 &&
		len(c.SaleAdditions) == 0 &&
		len(c.Fields) == 0 &&
		len(c.Farmlands) == 0 &&
		len(c.Placeables) == 0 &&
		len(c.Missions) == 0 &&
		len(c.Collectibles) == 0 &&
		c.ContractSettings == nil &&
		c.Environment == nil &&
		c.Economy == nil
}

// FinanceChanges edits the money and loan balances. Money is written to both
// the career summary and the farm ledger.
type FinanceChanges struct {
	Money *float64 `toml:"money"`
	Loan  *float64 `toml:"loan"`
}

// VehicleChange targets one vehicle by its id attribute.
type VehicleChange struct {
	ID            string           `toml:"id"`
	Delete        bool             `toml:"delete"`
	Age           *float64         `toml:"age"`
	Price         *float64         `toml:"price"`
	FarmID        *int             `toml:"farm_id"`
	PropertyState *string          `toml:"property_state"`
	OperatingTime *float64         `toml:"operating_time"`
	FillUnits     []FillUnitChange `toml:"fill_units"`
}

// FillUnitChange sets the fill level of one fill unit slot, addressed by its
// position among the vehicle's units.
type FillUnitChange struct {
	Index     int     `toml:"index"`
	FillLevel float64 `toml:"fill_level"`
}

// SaleChange targets one sale listing by its position in the file.
type SaleChange struct {
	Index         int      `toml:"index"`
	Delete        bool     `toml:"delete"`
	Price         *int     `toml:"price"`
	Damage        *float64 `toml:"damage"`
	Wear          *float64 `toml:"wear"`
	Age           *int     `toml:"age"`
	OperatingTime *float64 `toml:"operating_time"`
	TimeLeft      *int     `toml:"time_left"`
}

// SaleAddition lists a brand-new item for sale.
type SaleAddition struct {
	XMLFilename   string  `toml:"xml_filename"`
	Price         int     `toml:"price"`
	Damage        float64 `toml:"damage"`
	Wear          float64 `toml:"wear"`
	Age           int     `toml:"age"`
	OperatingTime float64 `toml:"operating_time"`
	TimeLeft      int     `toml:"time_left"`
}

// FieldChange targets one field by id.
type FieldChange struct {
	ID                int     `toml:"id"`
	FruitType         *string `toml:"fruit_type"`
	PlannedFruit      *string `toml:"planned_fruit"`
	GrowthState       *int    `toml:"growth_state"`
	GroundType        *string `toml:"ground_type"`
	WeedState         *int    `toml:"weed_state"`
	StoneLevel        *int    `toml:"stone_level"`
	SprayLevel        *int    `toml:"spray_level"`
	SprayType         *string `toml:"spray_type"`
	LimeLevel         *int    `toml:"lime_level"`
	PlowLevel         *int    `toml:"plow_level"`
	RollerLevel       *int    `toml:"roller_level"`
	StubbleShredLevel *int    `toml:"stubble_shred_level"`
	WaterLevel        *int    `toml:"water_level"`
}

// FarmlandChange reassigns ownership of one farmland parcel.
type FarmlandChange struct {
	ID     int `toml:"id"`
	FarmID int `toml:"farm_id"`
}

// PlaceableChange targets one placeable by its position in the file.
type PlaceableChange struct {
	Index                int                     `toml:"index"`
	FarmID               *int                    `toml:"farm_id"`
	Price                *float64                `toml:"price"`
	CompleteConstruction bool                    `toml:"complete_construction"`
	ProductionInputs     []ProductionStockChange `toml:"production_inputs"`
	ProductionOutputs    []ProductionStockChange `toml:"production_outputs"`
}

// ProductionStockChange sets the stored amount for one fill type of a
// production point.
type ProductionStockChange struct {
	FillType string  `toml:"fill_type"`
	Amount   float64 `toml:"amount"`
}

// MissionChange targets one mission by its uniqueId attribute.
type MissionChange struct {
	UniqueID      string   `toml:"unique_id"`
	Reward        *float64 `toml:"reward"`
	Completion    *float64 `toml:"completion"`
	Status        *string  `toml:"status"`
	Reimbursement *float64 `toml:"reimbursement"`
}

// CollectibleChange flips the collected flag of one collectible.
type CollectibleChange struct {
	Index     int  `toml:"index"`
	Collected bool `toml:"collected"`
}

// ContractSettingsChange edits the contract mod's settings element.
type ContractSettingsChange struct {
	LeaseVehicle   *float64 `toml:"lease_vehicle"`
	MissionPerFarm *float64 `toml:"mission_per_farm"`
	AllowClearAdd  *float64 `toml:"allow_clear_add"`
}

// EnvironmentChanges edits weather and time state.
type EnvironmentChanges struct {
	DayTime         *float64       `toml:"day_time"`
	CurrentDay      *int           `toml:"current_day"`
	SnowHeight      *float64       `toml:"snow_height"`
	GroundWetness   *float64       `toml:"ground_wetness"`
	WeatherForecast []WeatherEvent `toml:"weather_forecast"`
}

// WeatherEvent is one forecast entry. A non-empty forecast in
// EnvironmentChanges replaces the document's forecast wholesale.
type WeatherEvent struct {
	TypeName       string `toml:"type_name"`
	Season         string `toml:"season"`
	VariationIndex int    `toml:"variation_index"`
	StartDay       int    `toml:"start_day"`
	StartDayTime   int    `toml:"start_day_time"`
	Duration       int    `toml:"duration"`
}

// EconomyChanges edits great demand events.
type EconomyChanges struct {
	GreatDemandChanges   []GreatDemandChange   `toml:"great_demand_changes"`
	GreatDemandAdditions []GreatDemandAddition `toml:"great_demand_additions"`
	GreatDemandDeletions []int                 `toml:"great_demand_deletions"`
}

// GreatDemandChange targets one demand slot by position. Deleted slots are
// blanked rather than removed so later indices keep their meaning.
type GreatDemandChange struct {
	Index            int      `toml:"index"`
	FillTypeName     *string  `toml:"fill_type_name"`
	DemandMultiplier *float64 `toml:"demand_multiplier"`
	DemandStartDay   *int     `toml:"demand_start_day"`
	DemandStartHour  *int     `toml:"demand_start_hour"`
	DemandDuration   *int     `toml:"demand_duration"`
	IsRunning        *bool    `toml:"is_running"`
	IsValid          *bool    `toml:"is_valid"`
}

// GreatDemandAddition appends a new demand event.
type GreatDemandAddition struct {
	UniqueID         string  `toml:"unique_id"`
	FillTypeName     string  `toml:"fill_type_name"`
	DemandMultiplier float64 `toml:"demand_multiplier"`
	DemandStartDay   int     `toml:"demand_start_day"`
	DemandStartHour  int     `toml:"demand_start_hour"`
	DemandDuration   int     `toml:"demand_duration"`
}
