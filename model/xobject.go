/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/core"
)

// XObjectType represents the type of an XObject.
type XObjectType int

// XObject types.
const (
	XObjectTypeUndefined XObjectType = iota
	XObjectTypeImage
	XObjectTypeForm
	XObjectTypePS
	XObjectTypeUnknown
)

// XObjectForm (Table 95 in 8.10.2).
type XObjectForm struct {
	Formtype      core.PdfObject
	BBox          core.PdfObject
	Matrix        core.PdfObject
	Resources     *PdfPageResources
	Group         *core.PdfObjectDictionary
	StructParent  core.PdfObject
	StructParents core.PdfObject

	content []byte
	stream  *core.PdfObjectStream
}

// NewXObjectFormFromStream builds the XObjectForm model from a stream.
func NewXObjectFormFromStream(stream *core.PdfObjectStream) (*XObjectForm, error) {
	form := &XObjectForm{stream: stream}
	dict := stream.PdfObjectDictionary

	if name, ok := core.GetNameVal(dict.Get("Subtype")); ok && name != "Form" {
		common.Log.Debug("ERROR: XObject subtype != Form (%q)", name)
		return nil, core.ErrTypeError
	}

	form.Formtype = dict.Get("FormType")
	form.BBox = dict.Get("BBox")
	form.Matrix = dict.Get("Matrix")
	form.StructParent = dict.Get("StructParent")
	form.StructParents = dict.Get("StructParents")

	if group, ok := core.GetDict(dict.Get("Group")); ok {
		form.Group = group
	}

	if resDict, ok := core.GetDict(dict.Get("Resources")); ok {
		resources, err := NewPdfPageResourcesFromDict(resDict)
		if err != nil {
			return nil, err
		}
		form.Resources = resources
	}

	form.content = stream.Stream
	return form, nil
}

// GetContentStream returns the decoded XObject Form content stream data.
func (xform *XObjectForm) GetContentStream() ([]byte, error) {
	return xform.content, nil
}

// Stream returns the underlying stream object, used as the identity key for
// recursion detection.
func (xform *XObjectForm) Stream() *core.PdfObjectStream {
	return xform.stream
}
