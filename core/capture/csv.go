package capture

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
)

// CSV writes the records as comma separated values.
type CSV struct {
	W io.Writer
}

func (c *CSV) Write(ctx context.Context, records <-chan Record) error {
	w := csv.NewWriter(c.W)
	err := w.Write([]string{
		"ID",
		"UnixMilli",
		"SampleRate",
		"Length",
		"Channel",
		"LevelHigh",
		"LevelLow",
		"PeakMagnitude",
		"MeanMagnitude",
		"StdDevMagnitude",
	})
	if err != nil {
		return err
	}

	for {
		var r Record
		var ok bool
		select {
		case <-ctx.Done():
			w.Flush()
			return ctx.Err()
		case r, ok = <-records:
			if !ok {
				w.Flush()
				return w.Error()
			}
		}

		if err := w.Write([]string{
			r.ID,
			fmt.Sprintf("%d", r.Time.UnixMilli()),
			fmt.Sprintf("%d", r.SampleRate),
			fmt.Sprintf("%d", r.Length),
			r.Channel.String(),
			fmt.Sprintf("%f", r.LevelHigh),
			fmt.Sprintf("%f", r.LevelLow),
			fmt.Sprintf("%f", r.PeakMagnitude),
			fmt.Sprintf("%f", r.MeanMagnitude),
			fmt.Sprintf("%f", r.StdDevMagnitude),
		}); err != nil {
			log.Printf("[WARN] error while writing CSV line: %s", err)
		}

		w.Flush()
		if err := w.Error(); err != nil {
			log.Printf("[WARN] error flushing CSV: %s", err)
		}
	}
}
