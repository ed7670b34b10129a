package diff

import (
	"fmt"

	"github.com/gabstv/go-bsdiff/pkg/bsdiff"
	"github.com/gabstv/go-bsdiff/pkg/bspatch"
)

// Engine produces and applies compact binary patches for whole files, as
// opposed to the byte-level text patches above.
type Engine interface {
	// ComputeDiff computes a binary patch transforming oldData into newData.
	ComputeDiff(oldData, newData []byte) ([]byte, error)

	// ApplyPatch applies a patch to base data to reproduce the new data.
	ApplyPatch(baseData, patchData []byte) ([]byte, error)

	// Name returns the engine name.
	Name() string
}

// NewEngine creates an engine by name.
func NewEngine(name string) (Engine, error) {
	switch name {
	case "bsdiff":
		return NewBsdiffEngine(), nil
	default:
		return nil, fmt.Errorf("unsupported diff engine: %s (must be 'bsdiff')", name)
	}
}

// BsdiffEngine implements Engine using the bsdiff algorithm.
type BsdiffEngine struct{}

// NewBsdiffEngine creates a bsdiff-based engine.
func NewBsdiffEngine() *BsdiffEngine {
	return &BsdiffEngine{}
}

// Name returns the engine name.
func (e *BsdiffEngine) Name() string {
	return "bsdiff"
}

// ComputeDiff computes a bsdiff patch. An empty old input has no base to
// diff against, so the new data itself serves as the patch.
func (e *BsdiffEngine) ComputeDiff(oldData, newData []byte) ([]byte, error) {
	if len(oldData) == 0 && len(newData) == 0 {
		return []byte{}, nil
	}
	if len(oldData) == 0 {
		return newData, nil
	}

	patch, err := bsdiff.Bytes(oldData, newData)
	if err != nil {
		return nil, fmt.Errorf("bsdiff computation failed: %w", err)
	}
	return patch, nil
}

// ApplyPatch applies a bsdiff patch, mirroring the empty-base special
// case of ComputeDiff.
func (e *BsdiffEngine) ApplyPatch(baseData, patchData []byte) ([]byte, error) {
	if len(patchData) == 0 {
		return baseData, nil
	}
	if len(baseData) == 0 {
		return patchData, nil
	}

	newData, err := bspatch.Bytes(baseData, patchData)
	if err != nil {
		return nil, fmt.Errorf("bspatch application failed: %w", err)
	}
	return newData, nil
}

// EngineStats describes one binary patch computation.
type EngineStats struct {
	OldSize   int
	NewSize   int
	PatchSize int
	// CompressionRate is patch size over new size; lower is better.
	CompressionRate float64
}

// ComputeEngineStats calculates statistics for a patch.
func ComputeEngineStats(oldData, newData, patchData []byte) EngineStats {
	stats := EngineStats{
		OldSize:   len(oldData),
		NewSize:   len(newData),
		PatchSize: len(patchData),
	}
	if len(newData) > 0 {
		stats.CompressionRate = float64(len(patchData)) / float64(len(newData))
	}
	return stats
}
