/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package bitwise provides a bit-granular MSB-first reader used by the
// sampled function evaluator and the mesh shading decoders.
package bitwise
