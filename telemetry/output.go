package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/flipgrid/config"
)

// OutputManager handles structured run output: per-step frame and
// performance CSVs, plus a copy of the effective configuration (§4.9,
// added). A nil *OutputManager (returned when dir is empty) makes every
// method a no-op, so callers can unconditionally call through it without
// branching on whether output was requested.
type OutputManager struct {
	dir      string
	frameCSV *os.File
	perfCSV  *os.File

	frameHeaderWritten bool
	perfHeaderWritten  bool
}

// NewOutputManager creates the output directory and opens its CSV files.
// Returns (nil, nil) if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "frame_stats.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating frame_stats.csv: %w", err)
	}
	om.frameCSV = f

	f, err = os.Create(filepath.Join(dir, "perf_stats.csv"))
	if err != nil {
		om.frameCSV.Close()
		return nil, fmt.Errorf("creating perf_stats.csv: %w", err)
	}
	om.perfCSV = f

	return om, nil
}

// WriteConfig saves the effective configuration as YAML alongside the run.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteFrame appends one frame-stats record.
func (om *OutputManager) WriteFrame(stats FrameStats) error {
	if om == nil {
		return nil
	}
	records := []FrameStats{stats}
	if !om.frameHeaderWritten {
		if err := gocsv.Marshal(records, om.frameCSV); err != nil {
			return fmt.Errorf("writing frame stats: %w", err)
		}
		om.frameHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.frameCSV); err != nil {
		return fmt.Errorf("writing frame stats: %w", err)
	}
	return nil
}

// WritePerf appends one perf-stats record.
func (om *OutputManager) WritePerf(stats PerfStats, stepIndex int64) error {
	if om == nil {
		return nil
	}
	records := []PerfStatsCSV{stats.ToCSV(stepIndex)}
	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfCSV); err != nil {
			return fmt.Errorf("writing perf stats: %w", err)
		}
		om.perfHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.perfCSV); err != nil {
		return fmt.Errorf("writing perf stats: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes every open output file.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	if om.frameCSV != nil {
		if err := om.frameCSV.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if om.perfCSV != nil {
		if err := om.perfCSV.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
