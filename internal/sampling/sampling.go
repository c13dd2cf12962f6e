/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package sampling resamples packed sample data at arbitrary bit depths, as
// used by the sampled (type 0) function tables.
package sampling
