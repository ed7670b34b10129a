// Package integrity fingerprints byte data: per-block content identifiers
// as multihashes plus a Merkle root over the block sequence, so two
// buffers can be compared block by block without holding both in memory.
package integrity

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/cbergoon/merkletree"
	"github.com/multiformats/go-multihash"

	"github.com/saworbit/binkit/pkg/binerr"
)

// DefaultBlockSize is the block granularity used when none is given.
const DefaultBlockSize = 64 << 10 // 64 KiB

// Config selects the hash algorithm and block granularity.
type Config struct {
	// HashAlgo is "sha256" or "blake3".
	HashAlgo string
	// BlockSize is the checksum block granularity; 0 hashes the whole
	// input as a single block.
	BlockSize int
}

// DefaultConfig returns sha256 over 64 KiB blocks.
func DefaultConfig() Config {
	return Config{HashAlgo: "sha256", BlockSize: DefaultBlockSize}
}

// BlockChecksum is one block's content identifier.
type BlockChecksum struct {
	Offset int
	Size   int
	// CID is the base58 multihash of the block contents.
	CID string
}

// Report is the full fingerprint of one input.
type Report struct {
	HashAlgo  string
	BlockSize int
	TotalSize int
	Blocks    []BlockChecksum
	// MerkleRoot is the hex root over the block CID sequence.
	MerkleRoot string
}

func hashType(algo string) (uint64, error) {
	switch algo {
	case "sha256":
		return multihash.SHA2_256, nil
	case "blake3":
		return multihash.BLAKE3, nil
	default:
		return 0, binerr.InvalidInputf("unsupported hash algorithm: %s (must be 'sha256' or 'blake3')", algo)
	}
}

// ComputeCID computes the content identifier of a byte block.
func ComputeCID(data []byte, algo string) (string, error) {
	ht, err := hashType(algo)
	if err != nil {
		return "", err
	}
	mh, err := multihash.Sum(data, ht, -1)
	if err != nil {
		return "", fmt.Errorf("failed to compute multihash: %w", err)
	}
	return mh.B58String(), nil
}

// Fingerprint checksums data block by block and builds the Merkle root
// over the block identifiers. Empty input yields a report with no blocks
// and an empty root.
func Fingerprint(data []byte, cfg Config) (*Report, error) {
	if cfg.HashAlgo == "" {
		cfg.HashAlgo = "sha256"
	}
	blockSize := cfg.BlockSize
	if blockSize <= 0 {
		blockSize = len(data)
	}

	report := &Report{
		HashAlgo:  cfg.HashAlgo,
		BlockSize: cfg.BlockSize,
		TotalSize: len(data),
	}
	if len(data) == 0 {
		return report, nil
	}

	var cids []string
	for offset := 0; offset < len(data); offset += blockSize {
		end := offset + blockSize
		if end > len(data) {
			end = len(data)
		}
		cid, err := ComputeCID(data[offset:end], cfg.HashAlgo)
		if err != nil {
			return nil, err
		}
		report.Blocks = append(report.Blocks, BlockChecksum{Offset: offset, Size: end - offset, CID: cid})
		cids = append(cids, cid)
	}

	root, err := merkleRoot(cids)
	if err != nil {
		return nil, err
	}
	report.MerkleRoot = fmt.Sprintf("%x", root)
	return report, nil
}

// cidContent adapts a CID string to the merkletree content interface.
type cidContent struct {
	cid string
}

// CalculateHash implements merkletree.Content.
func (c cidContent) CalculateHash() ([]byte, error) {
	h := sha256.New()
	if _, err := h.Write([]byte(c.cid)); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// Equals implements merkletree.Content.
func (c cidContent) Equals(other merkletree.Content) (bool, error) {
	o, ok := other.(cidContent)
	if !ok {
		return false, fmt.Errorf("type mismatch")
	}
	return c.cid == o.cid, nil
}

func merkleRoot(cids []string) ([]byte, error) {
	contents := make([]merkletree.Content, len(cids))
	for i, cid := range cids {
		contents[i] = cidContent{cid: cid}
	}
	tree, err := merkletree.NewTree(contents)
	if err != nil {
		return nil, fmt.Errorf("failed to build Merkle tree: %w", err)
	}
	return tree.MerkleRoot(), nil
}

// Verify re-fingerprints data and compares block identifiers against an
// earlier report. It returns the offsets of blocks that no longer match.
// A size change fails wholesale with no block detail.
func Verify(data []byte, report *Report) ([]int, error) {
	current, err := Fingerprint(data, Config{HashAlgo: report.HashAlgo, BlockSize: report.BlockSize})
	if err != nil {
		return nil, err
	}
	if current.TotalSize != report.TotalSize {
		return nil, binerr.InvalidInputf("size mismatch: expected %d bytes, got %d", report.TotalSize, current.TotalSize)
	}

	var changed []int
	for i := range report.Blocks {
		if current.Blocks[i].CID != report.Blocks[i].CID {
			changed = append(changed, report.Blocks[i].Offset)
		}
	}
	return changed, nil
}

// Format renders a report for display.
func (r *Report) Format(verbose bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Algorithm:   %s\n", r.HashAlgo)
	fmt.Fprintf(&sb, "Total size:  %d bytes\n", r.TotalSize)
	fmt.Fprintf(&sb, "Block size:  %d bytes\n", r.BlockSize)
	fmt.Fprintf(&sb, "Blocks:      %d\n", len(r.Blocks))
	fmt.Fprintf(&sb, "Merkle root: %s\n", r.MerkleRoot)

	if verbose {
		sb.WriteByte('\n')
		for _, b := range r.Blocks {
			fmt.Fprintf(&sb, "0x%08x  %6d  %s\n", b.Offset, b.Size, b.CID)
		}
	}
	return sb.String()
}
