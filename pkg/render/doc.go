// Package render draws resolved tracks onto the coordinate circle.
//
// # Overview
//
// The renderer walks the configured track list from the outside of the
// circle inward and emits one SVG group per track. Each glyph maps a
// track's features or data onto curved geometry:
//
//   - rectangle: curved bands for features, optionally with strand
//     direction arrows
//   - contigs, contig-gaps: the assembler's synthetic features
//   - label: packed feature labels, curved, spoked, or signposted
//   - graph: windowed sequence functions or tabular values as bars,
//     lines, or heat maps
//   - ruler: a coordinate axis with ticks and position labels
//
// # Geometry
//
// All drawing goes through the [canvas] subpackage, which builds SVG
// paths; angular positions come from the coord package so that
// piecewise scaling transforms apply uniformly. Label placement is
// delegated to the [label] subpackage, which packs labels into
// concentric tiers at a shared font size.
package render
