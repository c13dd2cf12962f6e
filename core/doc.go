/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package core holds the primitive PDF object types and the typed accessors
// used across the rendering core. The object graph itself (tokenization,
// cross references, filter chains, encryption) is produced by an external
// collaborator; this package only defines the value types it hands over and
// the conventions for dereferencing them.
package core
