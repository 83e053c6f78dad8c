// Package pipeline runs the complete load → assemble → render flow:
// read the track configuration and the contig or annotation inputs,
// assemble the circular coordinate space, expand the track list, and
// draw every track into one SVG document. CLI and HTTP entry points
// both go through a Runner so behavior stays identical.
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Default drawing values, shared by the CLI flags and the serve API.
const (
	// DefaultRadius is the drawing radius in canvas units.
	DefaultRadius = 600.0

	// DefaultPad is the canvas padding around the drawing circle.
	DefaultPad = 20.0
)

// Options configures one render. The struct serializes to JSON for the
// serve API; runtime-only fields are excluded.
type Options struct {
	// ConfigPath names the TOML track-configuration file. ConfigTOML
	// carries the same content inline and wins when both are set.
	ConfigPath string `json:"config_path,omitempty"`
	ConfigTOML string `json:"config_toml,omitempty"`

	// ContigList names a tab-delimited contig list file describing a
	// multi-contig assembly. Mutually exclusive with DataPath.
	ContigList string `json:"contig_list,omitempty"`

	// DataPath plus DataFormat name a single annotation file whose
	// sequence records become the contigs.
	DataPath   string `json:"data_path,omitempty"`
	DataFormat string `json:"data_format,omitempty"`

	// SeqPath names a FASTA file supplying residues for contigs that
	// lack them.
	SeqPath string `json:"seq_path,omitempty"`

	// Drawing settings. Zero values fall back to the configuration
	// file and then to the package defaults.
	Radius   float64 `json:"radius,omitempty"`
	Pad      float64 `json:"pad,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`
	GapSize  int     `json:"gap_size,omitempty"`
	Scale    string  `json:"scale,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks required fields. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.ConfigPath == "" && o.ConfigTOML == "" {
		return fmt.Errorf("a track configuration is required")
	}
	if o.ContigList == "" && o.DataPath == "" {
		return fmt.Errorf("either a contig list or an annotation file is required")
	}
	if o.ContigList != "" && o.DataPath != "" {
		return fmt.Errorf("contig list and annotation file are mutually exclusive")
	}
	if o.DataPath != "" && o.DataFormat == "" {
		return fmt.Errorf("annotation file %s needs a format", o.DataPath)
	}
	o.validated = true
	return nil
}

// Result contains the outputs of one render.
type Result struct {
	// SVG is the rendered document.
	SVG []byte

	// Stats contains sizes and timings.
	Stats Stats
}

// Stats describes one pipeline run.
type Stats struct {
	Length       int
	ContigCount  int
	FeatureCount int
	TrackCount   int

	LoadTime     time.Duration
	AssembleTime time.Duration
	RenderTime   time.Duration
}
