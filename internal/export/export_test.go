package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/framehold/internal/policy"
	"github.com/san-kum/framehold/internal/sim"
)

func testSamples() []sim.Sample {
	return []sim.Sample{
		{Tick: 0, Time: 0, Vessel: 1, Body: 1, Situation: policy.Landed, Icon: policy.IconAuto, Hold: true,
			Relative: mgl64.Vec3{600000, 0, 0}, Held: mgl64.QuatIdent()},
		{Tick: 1, Time: 0.02, Vessel: 1, Body: 1, Situation: policy.Landed, Icon: policy.IconAuto, Hold: true, Working: true,
			Relative: mgl64.Vec3{599999.5, 3.5, 0}, Held: mgl64.QuatIdent(), DriftDeg: 1e-7},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testSamples()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if len(records[0]) != len(csvHeader) || records[0][0] != "tick" {
		t.Errorf("unexpected header %v", records[0])
	}

	row := records[2]
	if row[4] != "landed" || row[5] != "AUTO" || row[8] != "true" {
		t.Errorf("unexpected row %v", row)
	}
	if row[9] != "599999.5" || row[16] != "1e-07" {
		t.Errorf("floats not round-trippable: %s %s", row[9], row[16])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("expected header only, got %d lines", got)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := Meta{ID: 3, Scenario: "landed-atmo", Mode: "auto", Dt: 0.02, Duration: 0.04,
		Metrics: map[string]float64{"max_drift_deg": 1e-7}}
	if err := WriteJSON(&buf, meta, testSamples()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if doc.ID != 3 || doc.Scenario != "landed-atmo" || doc.Steps != 2 {
		t.Errorf("unexpected meta %+v", doc.Meta)
	}
	if doc.Metrics["max_drift_deg"] != 1e-7 {
		t.Errorf("metrics lost: %v", doc.Metrics)
	}
	s := doc.Samples[1]
	if s.Situation != "landed" || !s.Working || s.Relative[1] != 3.5 || s.Held[0] != 1 {
		t.Errorf("unexpected sample %+v", s)
	}
	if !strings.Contains(buf.String(), `"drift_deg"`) {
		t.Error("expected snake_case sample fields")
	}
}

func TestPolylineSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := PolylineSVG(&buf, DriftPoints(testSamples()), 400, 200, "#00ff88"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<?xml") || !strings.Contains(out, "<path") || !strings.Contains(out, " L") {
		t.Errorf("unexpected svg:\n%s", out)
	}
	if !strings.Contains(out, `stroke="#00ff88"`) {
		t.Error("stroke colour missing")
	}
}

func TestPolylineSVGTooFewPoints(t *testing.T) {
	var buf bytes.Buffer
	if err := PolylineSVG(&buf, []Point{{1, 1}}, 100, 100, "#fff"); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Error("expected no output for a single point")
	}
}

func TestTrackPointsSkipsEmptyTicks(t *testing.T) {
	samples := append(testSamples(), sim.Sample{Tick: 2})
	if got := len(TrackPoints(samples)); got != 2 {
		t.Errorf("expected 2 track points, got %d", got)
	}
}
