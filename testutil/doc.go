// Package testutil provides testing utilities for shapeset.
//
// This package is intended for use in tests only. It provides a seeded,
// thread-safe RNG and helpers for generating canvas-like drawings encoded
// in the formats the feature extractor understands.
//
// # Drawings
//
//	rng := testutil.NewRNG(seed)
//	img := rng.Drawing(28, 28)       // transparent canvas with random strokes
//	raw := testutil.MustPNG(img)     // PNG bytes as uploaded by the browser
//
// # Known Alpha Patterns
//
//	raw := testutil.AlphaPNG([][]uint8{{0, 255}, {128, 64}})
package testutil
