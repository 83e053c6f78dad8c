package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rajaldebnath/circleator/pkg/annot"
	"github.com/rajaldebnath/circleator/pkg/coord"
	"github.com/rajaldebnath/circleator/pkg/genome"
	"github.com/rajaldebnath/circleator/pkg/observability"
	"github.com/rajaldebnath/circleator/pkg/render"
	"github.com/rajaldebnath/circleator/pkg/render/canvas"
	"github.com/rajaldebnath/circleator/pkg/track"
)

// Runner executes renders. It holds the format registry and the
// process-lifetime annotation cache, so several renders (the serve
// path) share parsed files.
type Runner struct {
	Registry *annot.Registry
	Cache    *annot.Cache
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Registry: annot.NewRegistry(),
		Cache:    annot.NewCache(),
		Logger:   logger,
	}
}

// Execute runs the complete load → assemble → render flow.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	}
	result := &Result{}

	cfg, err := r.loadConfig(opts)
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx)
	loadStart := time.Now()
	entries, err := r.loadInputs(opts, logger)
	result.Stats.LoadTime = time.Since(loadStart)
	hooks.OnLoadComplete(ctx, len(entries), result.Stats.LoadTime, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	assembleStart := time.Now()
	gap := opts.GapSize
	if gap == 0 {
		gap = cfg.GapSize
	}
	seq, err := genome.Assemble(entries, genome.AssembleOptions{GapSize: gap, Logger: logger})
	result.Stats.AssembleTime = time.Since(assembleStart)
	if err != nil {
		hooks.OnAssembleComplete(ctx, 0, result.Stats.AssembleTime, err)
		return nil, fmt.Errorf("assemble: %w", err)
	}
	hooks.OnAssembleComplete(ctx, seq.Length, result.Stats.AssembleTime, nil)
	result.Stats.Length = seq.Length
	result.Stats.ContigCount = len(seq.Contigs)
	logger.Info("assembled sequence",
		"length", seq.Length,
		"contigs", len(seq.Contigs),
		"duration", result.Stats.AssembleTime)

	circle, err := r.buildCircle(opts, cfg, seq)
	if err != nil {
		return nil, err
	}

	tracks, err := track.Expand(cfg.Tracks)
	if err != nil {
		return nil, err
	}
	result.Stats.TrackCount = len(tracks)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks.OnRenderStart(ctx, len(tracks))
	renderStart := time.Now()
	cv := canvas.New(circle.Size())
	pipe := track.NewPipeline(seq, r.Registry, r.Cache, logger)
	rend := render.New(circle, seq, pipe, cv, logger)
	if err := rend.Render(tracks); err != nil {
		hooks.OnRenderComplete(ctx, 0, time.Since(renderStart), err)
		return nil, fmt.Errorf("render: %w", err)
	}
	result.SVG = cv.Bytes()
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, len(result.SVG), result.Stats.RenderTime, nil)
	result.Stats.FeatureCount = seq.Index.Len()
	logger.Info("rendered document",
		"tracks", len(tracks),
		"features", seq.Index.Len(),
		"bytes", len(result.SVG),
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) loadConfig(opts Options) (*track.Config, error) {
	if opts.ConfigTOML != "" {
		return track.ParseConfig(opts.ConfigTOML)
	}
	return track.LoadConfig(opts.ConfigPath)
}

func (r *Runner) buildCircle(opts Options, cfg *track.Config, seq *genome.Sequence) (coord.Circle, error) {
	pick := func(override, fromConfig, def float64) float64 {
		if override > 0 {
			return override
		}
		if fromConfig > 0 {
			return fromConfig
		}
		return def
	}
	circle := coord.Circle{
		Length:   float64(seq.Length),
		Radius:   pick(opts.Radius, cfg.Radius, DefaultRadius),
		Pad:      pick(opts.Pad, cfg.Pad, DefaultPad),
		Rotation: opts.Rotation + cfg.Rotation,
	}

	spec := opts.Scale
	if spec == "" {
		spec = cfg.Scale
	}
	if spec != "" {
		segs, err := coord.ParseScaleSpec(spec)
		if err != nil {
			return coord.Circle{}, err
		}
		tr, err := coord.NewPiecewise(circle.Length, segs)
		if err != nil {
			return coord.Circle{}, err
		}
		circle.Transform = tr
	}
	return circle, nil
}

// loadInputs turns the input options into assembler entries: either
// the rows of a contig list file, with per-contig annotation and
// sequence files resolved, or the records of a single annotation file.
func (r *Runner) loadInputs(opts Options, logger *log.Logger) ([]genome.Entry, error) {
	if opts.ContigList != "" {
		return r.loadContigList(opts, logger)
	}
	return r.loadSingleFile(opts, logger)
}

func (r *Runner) loadContigList(opts Options, logger *log.Logger) ([]genome.Entry, error) {
	entries, err := genome.ParseContigList(opts.ContigList)
	if err != nil {
		return nil, err
	}
	aopts := annot.Options{Logger: logger}
	for _, e := range entries {
		if e.Kind != genome.EntryContig {
			continue
		}
		c := e.Contig
		if c.AnnotPath != "" {
			rec, err := r.findRecord(c.AnnotPath, formatForPath(c.AnnotPath, c.AnnotFormat), c.ID, aopts, logger)
			if err != nil {
				return nil, err
			}
			if rec != nil {
				c.Features = append(c.Features, rec.Features...)
				if c.Residues == "" {
					c.Residues = rec.Residues
				}
				if c.Length == 0 {
					c.Length = rec.Length
				}
			}
		}
		if c.SeqPath != "" && c.Residues == "" {
			rec, err := r.findRecord(c.SeqPath, "fasta", c.ID, aopts, logger)
			if err != nil {
				return nil, err
			}
			if rec != nil {
				c.Residues = rec.Residues
			}
		}
	}
	if opts.SeqPath != "" {
		if err := r.fillResidues(entries, opts.SeqPath, aopts, logger); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// formatForPath resolves a file's format: an explicit declaration wins,
// otherwise the extension is used, which the registry accepts as an
// alias for the common cases (gff, gbk, fsa, vcf).
func formatForPath(path, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// findRecord picks the record for a contig out of a parsed file: an
// exact sequence-id match, or the file's only record.
func (r *Runner) findRecord(path, format, contigID string, aopts annot.Options, logger *log.Logger) (*annot.Record, error) {
	records, err := r.Cache.Records(r.Registry, path, format, aopts)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].SeqID == contigID {
			return &records[i], nil
		}
	}
	if len(records) == 1 {
		logger.Debugf("%s: no record named %q, using the file's only record %q",
			path, contigID, records[0].SeqID)
		return &records[0], nil
	}
	logger.Warnf("%s: no record for contig %q, skipping", path, contigID)
	return nil, nil
}

func (r *Runner) loadSingleFile(opts Options, logger *log.Logger) ([]genome.Entry, error) {
	records, err := r.Cache.Records(r.Registry, opts.DataPath, opts.DataFormat, annot.Options{Logger: logger})
	if err != nil {
		return nil, err
	}
	var entries []genome.Entry
	for _, rec := range records {
		length := rec.Length
		if length == 0 {
			length = len(rec.Residues)
		}
		entries = append(entries, genome.ContigEntry(&genome.Contig{
			ID:          rec.SeqID,
			Length:      length,
			Orientation: genome.Forward,
			Residues:    rec.Residues,
			Features:    rec.Features,
		}))
	}
	if opts.SeqPath != "" {
		if err := r.fillResidues(entries, opts.SeqPath, annot.Options{Logger: logger}, logger); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// fillResidues supplies residues from a FASTA file to contigs that
// still lack them, matched by sequence id.
func (r *Runner) fillResidues(entries []genome.Entry, path string, aopts annot.Options, logger *log.Logger) error {
	records, err := r.Cache.Records(r.Registry, path, "fasta", aopts)
	if err != nil {
		return err
	}
	byID := make(map[string]string, len(records))
	for _, rec := range records {
		byID[rec.SeqID] = rec.Residues
	}
	for _, e := range entries {
		if e.Kind != genome.EntryContig || e.Contig.Residues != "" {
			continue
		}
		res, ok := byID[e.Contig.ID]
		if !ok {
			logger.Warnf("%s: no sequence for contig %q", path, e.Contig.ID)
			continue
		}
		e.Contig.Residues = res
	}
	return nil
}
