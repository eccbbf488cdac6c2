package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
)

type ExportData struct {
	Run     RunMetadata          `json:"run"`
	Samples int                  `json:"samples"`
	Times   []float64            `json:"times"`
	Series  map[string][]float64 `json:"series"`
}

// ExportJSON writes a run's metadata and sampled series as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	times, series, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:     *meta,
		Samples: len(times),
		Times:   times,
		Series:  series,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV re-emits a run's samples with a stable column order.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	times, series, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	names := seriesNames(series)
	if err := cw.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}
	for i, t := range times {
		row := []string{formatFloat(t)}
		for _, name := range names {
			if i < len(series[name]) {
				row = append(row, formatFloat(series[name][i]))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
