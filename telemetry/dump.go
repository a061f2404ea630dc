package telemetry

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// BallisticParticle is one record of the ballistic-particle dump the core
// writes for the rendering collaborator (§6, §4.10). Z is ignored when the
// dump is written for a 2D grid.
type BallisticParticle struct {
	X, Y, Z float32
	Radius  float32
}

// WriteBallisticDump writes the little-endian "u32 count" + count ×
// "f32 x,y[,z],radius" records the spec's persisted state layout describes
// (§6). dims3 selects whether Z is emitted per record.
func WriteBallisticDump(path string, particles []BallisticParticle, dims3 bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating ballistic dump: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, uint32(len(particles))); err != nil {
		return fmt.Errorf("writing ballistic dump count: %w", err)
	}
	for _, p := range particles {
		if err := binary.Write(w, binary.LittleEndian, p.X); err != nil {
			return fmt.Errorf("writing ballistic dump record: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, p.Y); err != nil {
			return fmt.Errorf("writing ballistic dump record: %w", err)
		}
		if dims3 {
			if err := binary.Write(w, binary.LittleEndian, p.Z); err != nil {
				return fmt.Errorf("writing ballistic dump record: %w", err)
			}
		}
		if err := binary.Write(w, binary.LittleEndian, p.Radius); err != nil {
			return fmt.Errorf("writing ballistic dump record: %w", err)
		}
	}
	return w.Flush()
}

// ReadBallisticDump reads a dump written by WriteBallisticDump, for tests
// and for tooling that wants to verify what the rendering collaborator
// would see.
func ReadBallisticDump(path string, dims3 bool) ([]BallisticParticle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ballistic dump: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("reading ballistic dump count: %w", err)
	}

	out := make([]BallisticParticle, count)
	for i := range out {
		if err := binary.Read(r, binary.LittleEndian, &out[i].X); err != nil {
			return nil, fmt.Errorf("reading ballistic dump record %d: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &out[i].Y); err != nil {
			return nil, fmt.Errorf("reading ballistic dump record %d: %w", i, err)
		}
		if dims3 {
			if err := binary.Read(r, binary.LittleEndian, &out[i].Z); err != nil {
				return nil, fmt.Errorf("reading ballistic dump record %d: %w", i, err)
			}
		}
		if err := binary.Read(r, binary.LittleEndian, &out[i].Radius); err != nil {
			return nil, fmt.Errorf("reading ballistic dump record %d: %w", i, err)
		}
	}
	return out, nil
}
