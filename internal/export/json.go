package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/framehold/internal/sim"
)

// Meta describes the run a JSON document was produced from.
type Meta struct {
	ID       uint               `json:"id,omitempty"`
	Scenario string             `json:"scenario"`
	Mode     string             `json:"mode"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Metrics  map[string]float64 `json:"metrics"`
}

type Document struct {
	Meta
	Steps   int          `json:"steps"`
	Samples []SampleJSON `json:"samples"`
}

type SampleJSON struct {
	Tick      int        `json:"tick"`
	Time      float64    `json:"time"`
	Vessel    uint64     `json:"vessel"`
	Body      uint64     `json:"body"`
	Situation string     `json:"situation"`
	Mode      string     `json:"mode"`
	Hold      bool       `json:"hold"`
	Packed    bool       `json:"packed"`
	Working   bool       `json:"working"`
	Relative  [3]float64 `json:"relative"`
	Held      [4]float64 `json:"held"`
	DriftDeg  float64    `json:"drift_deg"`
}

func NewDocument(meta Meta, samples []sim.Sample) Document {
	doc := Document{
		Meta:    meta,
		Steps:   len(samples),
		Samples: make([]SampleJSON, len(samples)),
	}
	for i, s := range samples {
		doc.Samples[i] = SampleJSON{
			Tick:      s.Tick,
			Time:      s.Time,
			Vessel:    uint64(s.Vessel),
			Body:      uint64(s.Body),
			Situation: s.Situation.String(),
			Mode:      string(s.Icon),
			Hold:      s.Hold,
			Packed:    s.Packed,
			Working:   s.Working,
			Relative:  [3]float64(s.Relative),
			Held:      [4]float64{s.Held.W, s.Held.V.X(), s.Held.V.Y(), s.Held.V.Z()},
			DriftDeg:  s.DriftDeg,
		}
	}
	return doc
}

func WriteJSON(w io.Writer, meta Meta, samples []sim.Sample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(meta, samples))
}
