// Package pkg provides the core libraries for Circleator genome map rendering.
//
// # Overview
//
// Circleator draws circular maps of genomes and plasmids: annotated
// features, sequence graphs, rulers, and labels arranged in concentric
// tracks around an assembled coordinate circle. The pkg directory is
// organized into these areas:
//
//  1. [coord] - The coordinate circle: linear to angular conversion and
//     piecewise scaling transforms
//  2. [genome] - Contigs, features, and the pseudomolecule assembler
//  3. [annot] - Annotation and sequence file readers (GFF3, GenBank,
//     VCF, FASTA, tabular formats)
//  4. [graphdata] - Windowed sequence functions (GC content, GC skew)
//     and tabular value sources for graph tracks
//  5. [track] - Track configuration, loop expansion, and the feature
//     resolution pipeline
//  6. [render] - Curved geometry, labels, graphs, and SVG output
//  7. [pipeline] - Orchestration (load, assemble, render)
//
// # Architecture
//
// The typical data flow through Circleator:
//
//	Annotation files / contig list
//	         |
//	    [annot] package (parse into records)
//	         |
//	    [genome] package (assemble the pseudomolecule)
//	         |
//	    [track] package (resolve features per track)
//	         |
//	    [render] package (draw tracks onto the circle)
//	         |
//	    SVG output
//
// The [pipeline] package ties the stages together behind a single
// Runner, and internal/cli exposes them as commands.
package pkg
