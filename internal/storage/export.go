package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/galaxysim/internal/series"
)

type ExportFrame struct {
	Index     int          `json:"index"`
	Positions [][3]float64 `json:"positions"`
	AccMag    []float64    `json:"acc_mag"`
}

type ExportData struct {
	Bodies  int                `json:"bodies"`
	Frames  int                `json:"frames"`
	Unit    string             `json:"length_unit"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
	Data    []ExportFrame      `json:"data"`
}

// ExportJSON writes every recorded frame of ser to w.
func ExportJSON(w io.Writer, ser *series.Series, metrics map[string]float64) error {
	data := ExportData{
		Bodies:  ser.Bodies(),
		Frames:  ser.Len(),
		Unit:    ser.Unit(),
		Metrics: metrics,
		Data:    make([]ExportFrame, ser.Len()),
	}

	for t := range data.Data {
		pos, acc, err := ser.Frame(t)
		if err != nil {
			return err
		}
		f := ExportFrame{Index: t, Positions: make([][3]float64, len(pos)), AccMag: acc}
		for i, p := range pos {
			f.Positions[i] = [3]float64{p.X, p.Y, p.Z}
		}
		data.Data[t] = f
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
