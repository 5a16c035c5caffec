// Package feature turns one stored image into a flat numeric vector.
//
// The vector holds the 8-bit alpha value (0..255) of every pixel in row-major
// order. Images are never resized, so the vector length equals width*height and
// differs between images of different sizes. Decoders for PNG, GIF, JPEG, BMP,
// TIFF and WebP are registered.
package feature
