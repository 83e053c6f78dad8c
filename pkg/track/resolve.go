package track

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/rajaldebnath/circleator/pkg/annot"
	"github.com/rajaldebnath/circleator/pkg/errors"
	"github.com/rajaldebnath/circleator/pkg/genome"
)

// Pipeline resolves and filters the feature set visible to each track.
// Resolution results are cached on the track itself; annotation files
// are parsed once per (path, format) and their remapped features are
// registered into the sequence's global index exactly once.
type Pipeline struct {
	seq    *genome.Sequence
	reg    *annot.Registry
	cache  *annot.Cache
	logger *log.Logger

	byName map[string]*Track
	loaded map[annot.Key][]*genome.Feature
}

// NewPipeline builds a pipeline over the assembled sequence. logger
// receives recoverable warnings; nil discards them.
func NewPipeline(seq *genome.Sequence, reg *annot.Registry, cache *annot.Cache, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Pipeline{
		seq:    seq,
		reg:    reg,
		cache:  cache,
		logger: logger,
		byName: make(map[string]*Track),
		loaded: make(map[annot.Key][]*genome.Feature),
	}
}

// ByName returns a previously resolved track.
func (p *Pipeline) ByName(name string) (*Track, bool) {
	t, ok := p.byName[name]
	return t, ok
}

// Resolve produces the track's feature list. Resolution precedence,
// first applicable wins: a reference to an earlier track's name, an
// inline literal feature list, an annotation file plus format, and
// finally the full global index. Option-driven filters and the clip
// range are applied afterwards, and the result is cached on the track.
func (p *Pipeline) Resolve(t *Track) ([]*genome.Feature, error) {
	if feats, ok := t.Features(); ok {
		return feats, nil
	}

	base, err := p.baseFeatures(t)
	if err != nil {
		return nil, err
	}

	preds, err := buildFilters(t, p.seq)
	if err != nil {
		return nil, err
	}
	if t.Predicate != nil {
		preds = append(preds, t.Predicate)
	}
	feats := applyFilters(base, preds)

	if t.Options.Has("clip-fmin") || t.Options.Has("clip-fmax") {
		lo := t.Options.Int("clip-fmin", 0)
		hi := t.Options.Int("clip-fmax", p.seq.Length)
		feats = clipRange(feats, lo, hi)
	}

	t.features = feats
	t.resolved = true
	if t.Name != "" {
		p.byName[t.Name] = t
	}
	return feats, nil
}

func (p *Pipeline) baseFeatures(t *Track) ([]*genome.Feature, error) {
	if ref := t.Options.String("feature-track", ""); ref != "" {
		src, ok := p.byName[ref]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownTrack,
				"track %q references unknown or later track %q", t.Name, ref)
		}
		feats, _ := src.Features()
		return feats, nil
	}

	if lits := t.Options.Strings("features"); len(lits) > 0 {
		return p.literalFeatures(t, lits)
	}

	if path := t.Options.String("data", ""); path != "" {
		format := t.Options.String("format", "")
		if format == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"track %q names data file %s without a format", t.Name, path)
		}
		return p.fileFeatures(t, path, format)
	}

	return p.seq.Index.All(), nil
}

// literalFeatures converts inline feature specs. A literal is
// "fmin-fmax", optionally prefixed with "contig/" and suffixed with
// "/strand"; coordinates are contig-local when a contig is named and
// assembled otherwise. Each literal is registered into the global
// index.
func (p *Pipeline) literalFeatures(t *Track, lits []string) ([]*genome.Feature, error) {
	typ := t.Options.String("feature-type", "misc_feature")
	var out []*genome.Feature
	for _, lit := range lits {
		f, contig, err := parseLiteral(lit, typ)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFeature, err,
				"track %q: literal feature %q", t.Name, lit)
		}
		if contig != "" {
			c, ok := p.seq.ContigByID(contig)
			if !ok {
				return nil, errors.New(errors.ErrCodeUnknownContig,
					"track %q: literal feature %q names unknown contig %q", t.Name, lit, contig)
			}
			f = c.Remap(f)
		}
		if err := f.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFeature, err,
				"track %q: literal feature %q", t.Name, lit)
		}
		if err := p.seq.Index.Add(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// looksLikeSpan reports whether s is an "int-int" coordinate pair, to
// disambiguate "ctg/100-200" from "100-200/+".
func looksLikeSpan(s string) bool {
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return false
	}
	_, err1 := strconv.Atoi(lo)
	_, err2 := strconv.Atoi(hi)
	return err1 == nil && err2 == nil
}

func parseLiteral(lit, typ string) (*genome.Feature, string, error) {
	contig := ""
	rest := lit
	if c, r, ok := strings.Cut(rest, "/"); ok && !looksLikeSpan(c) {
		contig, rest = c, r
	}
	span := rest
	strand := genome.None
	if s, tail, ok := strings.Cut(rest, "/"); ok {
		span = s
		switch tail {
		case "+", "1":
			strand = genome.Forward
		case "-", "-1":
			strand = genome.Reverse
		case ".", "0":
			strand = genome.None
		default:
			return nil, "", errors.New(errors.ErrCodeInvalidFeature, "bad strand %q", tail)
		}
	}
	lo, hi, ok := strings.Cut(span, "-")
	if !ok {
		return nil, "", errors.New(errors.ErrCodeInvalidFeature, "want fmin-fmax, got %q", span)
	}
	fmin, err1 := strconv.Atoi(lo)
	fmax, err2 := strconv.Atoi(hi)
	if err1 != nil || err2 != nil {
		return nil, "", errors.New(errors.ErrCodeInvalidFeature, "bad coordinates %q", span)
	}
	return &genome.Feature{
		Type:   typ,
		Fmin:   fmin,
		Fmax:   fmax,
		Strand: strand,
		Tags:   genome.Tags{},
	}, contig, nil
}

// fileFeatures parses an annotation file through the format registry,
// remaps each feature by its contig's offset and orientation, and
// registers the results into the global index. Parsed and remapped
// results are memoized so several tracks naming the same file share
// one copy.
func (p *Pipeline) fileFeatures(t *Track, path, format string) ([]*genome.Feature, error) {
	key := annot.Key{Path: path, Format: format}
	if feats, ok := p.loaded[key]; ok {
		return feats, nil
	}

	opts := annot.Options{
		FeatureType: t.Options.String("data-feature-type", ""),
		SeqColumn:   t.Options.String("data-seq-column", ""),
		PosColumn:   t.Options.String("data-pos-column", ""),
		EndColumn:   t.Options.String("data-end-column", ""),
		Logger:      p.logger,
	}
	records, err := p.cache.Records(p.reg, path, format, opts)
	if err != nil {
		return nil, err
	}

	var out []*genome.Feature
	for _, rec := range records {
		c, ok := p.seq.ContigByID(rec.SeqID)
		if !ok {
			p.logger.Warn("annotation sequence not in contig set, skipping",
				"file", path, "seq", rec.SeqID, "features", len(rec.Features))
			continue
		}
		for _, f := range rec.Features {
			r := c.Remap(f)
			if err := p.seq.Index.Add(r); err != nil {
				return nil, err
			}
			out = append(out, r)
		}
	}
	p.loaded[key] = out
	return out, nil
}
