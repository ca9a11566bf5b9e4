// Package pkg provides the libraries behind keywheel.
//
// # Overview
//
// keywheel draws the keys that are one diatonic step away from a root key,
// then the keys related to those, out to three rings. The pkg directory is
// organized bottom-up:
//
//  1. [theory] - Letters, accidentals, notes and keys
//  2. [related] - The related-key tables for major and minor
//  3. [radial] - Tree expansion, angular slices and ring growth
//  4. [render] - SVG, DOT, JSON and text sinks, plus PNG/PDF conversion
//  5. [pipeline] - Orchestration (topology → layout → render) with caching
//
// Supporting packages: [cache], [config], [errors], [observability] and
// [buildinfo].
//
// # Architecture
//
//	root key
//	   ↓
//	[related] (up to six keys per key)
//	   ↓
//	[radial] topology (deduplicated tree, angles and target radii)
//	   ↓
//	[radial] layout at tick t (current radius per ring)
//	   ↓
//	[render] SVG/PNG/PDF/DOT/JSON/TXT output
//
// # Quick Start
//
//	topo := radial.BuildTopology(theory.MustParseKey("C"), radial.DefaultConfig())
//	nodes := topo.Layout(topo.Config.SaturationTick())
//	svg := sink.RenderSVG(nodes)
//
// [theory]: github.com/matzehuels/keywheel/pkg/theory
// [related]: github.com/matzehuels/keywheel/pkg/related
// [radial]: github.com/matzehuels/keywheel/pkg/radial
// [render]: github.com/matzehuels/keywheel/pkg/render
// [pipeline]: github.com/matzehuels/keywheel/pkg/pipeline
// [cache]: github.com/matzehuels/keywheel/pkg/cache
// [config]: github.com/matzehuels/keywheel/pkg/config
// [errors]: github.com/matzehuels/keywheel/pkg/errors
// [observability]: github.com/matzehuels/keywheel/pkg/observability
// [buildinfo]: github.com/matzehuels/keywheel/pkg/buildinfo
package pkg
