// Package export writes run samples in formats other tools can read.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/framehold/internal/sim"
)

var csvHeader = []string{
	"tick", "time", "vessel", "body", "situation", "mode",
	"hold", "packed", "working",
	"rel_x", "rel_y", "rel_z",
	"held_w", "held_x", "held_y", "held_z",
	"drift_deg",
}

func WriteCSV(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Tick),
			formatFloat(s.Time),
			strconv.FormatUint(uint64(s.Vessel), 10),
			strconv.FormatUint(uint64(s.Body), 10),
			s.Situation.String(),
			string(s.Icon),
			strconv.FormatBool(s.Hold),
			strconv.FormatBool(s.Packed),
			strconv.FormatBool(s.Working),
			formatFloat(s.Relative.X()),
			formatFloat(s.Relative.Y()),
			formatFloat(s.Relative.Z()),
			formatFloat(s.Held.W),
			formatFloat(s.Held.V.X()),
			formatFloat(s.Held.V.Y()),
			formatFloat(s.Held.V.Z()),
			formatFloat(s.DriftDeg),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
