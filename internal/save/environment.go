package save

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"fsedit/internal/xmlpatch"
)

// applyEnvironmentChanges rewrites environment.xml. Day time and current day
// are text-content scalars under the document root; snow height and ground
// wetness are attribute scalars. A non-empty forecast replaces the whole
// forecast subtree with freshly built entries.
func applyEnvironmentChanges(dir string, ch *EnvironmentChanges) error {
	path := filepath.Join(dir, "environment.xml")
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	p := &xmlpatch.Patcher{}
	if ch.DayTime != nil {
		p.Scalars = append(p.Scalars, &xmlpatch.ScalarRule{
			Path:  []string{"environment", "dayTime"},
			Value: formatFloat(*ch.DayTime),
		})
	}
	if ch.CurrentDay != nil {
		p.Scalars = append(p.Scalars, &xmlpatch.ScalarRule{
			Path:  []string{"environment", "currentDay"},
			Value: formatInt(*ch.CurrentDay),
		})
	}
	if ch.SnowHeight != nil {
		p.Rules = append(p.Rules, &xmlpatch.ElementRule{
			Tag: "snow",
			All: &xmlpatch.Op{Set: xmlpatch.AttrPatch{"height": formatFloat(*ch.SnowHeight)}},
		})
	}
	if ch.GroundWetness != nil {
		p.Rules = append(p.Rules, &xmlpatch.ElementRule{
			Tag: "ground",
			All: &xmlpatch.Op{Set: xmlpatch.AttrPatch{"wetness": formatFloat(*ch.GroundWetness)}},
		})
	}
	if len(ch.WeatherForecast) > 0 {
		p.Rules = append(p.Rules, &xmlpatch.ElementRule{
			Tag: "forecast",
			All: &xmlpatch.Op{Replace: forecastFragment(ch.WeatherForecast)},
		})
	}

	out, err := p.Apply(doc)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}
	return commitFile(path, out)
}

func forecastFragment(events []WeatherEvent) []byte {
	var buf bytes.Buffer
	buf.WriteString("<forecast>\n")
	for _, ev := range events {
		buf.WriteString("            ")
		buf.Write(xmlpatch.EmptyElement("instance", []xmlpatch.Attr{
			{Name: "typeName", Value: ev.TypeName},
			{Name: "season", Value: ev.Season},
			{Name: "variationIndex", Value: formatInt(ev.VariationIndex)},
			{Name: "startDay", Value: formatInt(ev.StartDay)},
			{Name: "startDayTime", Value: formatInt(ev.StartDayTime)},
			{Name: "duration", Value: formatInt(ev.Duration)},
		}))
		buf.WriteByte('\n')
	}
	buf.WriteString("        </forecast>")
	return buf.Bytes()
}
