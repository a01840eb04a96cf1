package fdm

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ExportConfig controls CSV streaming of tick snapshots (§6 output
// properties), mirroring the teacher's ExportConfig/StreamStates split: a
// small config struct plus a goroutine-driven writer fed by a channel so
// the executor never blocks on file I/O mid-tick.
type ExportConfig struct {
	Filename  string
	OutputDir string
	Timestamp bool
	Columns   []string // property names, in column order
}

// IsUseless reports whether this config would produce no output at all.
func (c ExportConfig) IsUseless() bool {
	return c.Filename == "" || len(c.Columns) == 0
}

// TickSnapshot is one exported sample: the tick time plus a property bus
// snapshot to pull Columns from.
type TickSnapshot struct {
	Time   time.Time
	Values map[string]float64
}

// StreamStates drains stateChan to a CSV file, following the teacher's
// StreamStates pattern: a long-lived goroutine owns the file handle so
// callers only ever send to a channel.
func StreamStates(conf ExportConfig, stateChan <-chan TickSnapshot) error {
	if conf.IsUseless() {
		for range stateChan {
		}
		return nil
	}

	filename := conf.Filename
	if conf.Timestamp {
		t := time.Now()
		filename = fmt.Sprintf("%s/%s-%d-%02d-%02dT%02d.%02d.%02d.csv", conf.OutputDir, conf.Filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	} else {
		filename = fmt.Sprintf("%s/%s.csv", conf.OutputDir, conf.Filename)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("fdm: could not create export file: %s", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := append([]string{"time"}, conf.Columns...)
	if err := w.Write(header); err != nil {
		return err
	}

	for snap := range stateChan {
		row := make([]string, 0, len(conf.Columns)+1)
		row = append(row, snap.Time.UTC().Format(time.RFC3339Nano))
		for _, col := range conf.Columns {
			v := snap.Values[col]
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
