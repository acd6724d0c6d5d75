package save

import (
	"strings"
	"testing"
)

func TestApplyEnvironmentChanges(t *testing.T) {
	t.Run("scalar leaves are substituted in place", func(t *testing.T) {
		dir := newSaveDir(t)

		ch := &EnvironmentChanges{
			DayTime:       fptr(480),
			CurrentDay:    iptr(7),
			SnowHeight:    fptr(0.25),
			GroundWetness: fptr(0.4),
		}
		if err := applyEnvironmentChanges(dir, ch); err != nil {
			t.Fatalf("applyEnvironmentChanges() error = %v", err)
		}

		content := readSaveFile(t, dir, "environment.xml")
		if !strings.Contains(content, "<dayTime>480.000000</dayTime>") {
			t.Errorf("dayTime not rewritten:\n%s", content)
		}
		if !strings.Contains(content, "<currentDay>7</currentDay>") {
			t.Error("currentDay not rewritten")
		}
		if !strings.Contains(content, `<snow height="0.250000"/>`) {
			t.Error("snow height not rewritten")
		}
		if !strings.Contains(content, `<ground wetness="0.400000"/>`) {
			t.Error("ground wetness not rewritten")
		}
		// The forecast was not part of the change and must survive verbatim.
		if !strings.Contains(content, `typeName="SUN"`) {
			t.Error("forecast was touched")
		}
	})

	t.Run("a new forecast replaces the subtree wholesale", func(t *testing.T) {
		dir := newSaveDir(t)

		ch := &EnvironmentChanges{
			WeatherForecast: []WeatherEvent{
				{TypeName: "RAIN", Season: "1", VariationIndex: 2, StartDay: 5, StartDayTime: 0, Duration: 180},
				{TypeName: "CLOUDY", Season: "1", VariationIndex: 1, StartDay: 5, StartDayTime: 180, Duration: 180},
			},
		}
		if err := applyEnvironmentChanges(dir, ch); err != nil {
			t.Fatalf("applyEnvironmentChanges() error = %v", err)
		}

		content := readSaveFile(t, dir, "environment.xml")
		if strings.Contains(content, `typeName="SUN"`) {
			t.Errorf("old forecast survived:\n%s", content)
		}
		if !strings.Contains(content, `<instance typeName="RAIN" season="1" variationIndex="2" startDay="5" startDayTime="0" duration="180"/>`) {
			t.Error("new forecast entry missing")
		}
		if strings.Count(content, "<instance") != 2 {
			t.Errorf("forecast entry count = %d, want 2", strings.Count(content, "<instance"))
		}
		// Untouched siblings of the forecast survive.
		if !strings.Contains(content, `<snow height="0.000000"/>`) {
			t.Error("snow sibling was touched")
		}
	})
}
