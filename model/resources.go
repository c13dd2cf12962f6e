/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"errors"
	"sync"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/core"
)

// PdfPageResources is a model for the Resources dictionary of a page, form
// or pattern. Loaded objects (fonts, color spaces, shadings, patterns) are
// cached with publish-once semantics keyed by their defining object.
type PdfPageResources struct {
	ExtGState  core.PdfObject
	ColorSpace core.PdfObject
	Pattern    core.PdfObject
	Shading    core.PdfObject
	XObject    core.PdfObject
	Font       core.PdfObject
	ProcSet    core.PdfObject
	Properties core.PdfObject

	mu         sync.Mutex
	fontCache  map[core.PdfObject]*PdfFont
	csCache    map[core.PdfObject]PdfColorspace
	shadeCache map[core.PdfObject]*PdfShading
	patCache   map[core.PdfObject]*PdfPattern
}

// NewPdfPageResources returns an initialized PdfPageResources object.
func NewPdfPageResources() *PdfPageResources {
	return &PdfPageResources{}
}

// NewPdfPageResourcesFromDict creates and returns a new PdfPageResources object
// from the input dictionary.
func NewPdfPageResourcesFromDict(dict *core.PdfObjectDictionary) (*PdfPageResources, error) {
	r := NewPdfPageResources()

	if obj := dict.Get("ExtGState"); obj != nil {
		r.ExtGState = obj
	}
	if obj := dict.Get("ColorSpace"); obj != nil {
		r.ColorSpace = obj
	}
	if obj := dict.Get("Pattern"); obj != nil {
		r.Pattern = obj
	}
	if obj := dict.Get("Shading"); obj != nil {
		r.Shading = obj
	}
	if obj := dict.Get("XObject"); obj != nil {
		r.XObject = obj
	}
	if obj := dict.Get("Font"); obj != nil {
		r.Font = obj
	}
	if obj := dict.Get("ProcSet"); obj != nil {
		r.ProcSet = obj
	}
	if obj := dict.Get("Properties"); obj != nil {
		r.Properties = obj
	}

	return r, nil
}

func lookupEntry(container core.PdfObject, keyName core.PdfObjectName) (core.PdfObject, bool) {
	dict, ok := core.GetDict(container)
	if !ok {
		return nil, false
	}
	obj := dict.Get(keyName)
	if obj == nil {
		return nil, false
	}
	return obj, true
}

// GetFontByName loads (and caches) the font with the given name.
func (r *PdfPageResources) GetFontByName(keyName core.PdfObjectName) (*PdfFont, bool) {
	obj, found := lookupEntry(r.Font, keyName)
	if !found {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fontCache == nil {
		r.fontCache = make(map[core.PdfObject]*PdfFont)
	}
	if font, ok := r.fontCache[obj]; ok {
		return font, true
	}

	font, err := NewPdfFontFromPdfObject(obj)
	if err != nil {
		common.Log.Debug("ERROR: loading font %q: %v", keyName, err)
		return nil, false
	}
	r.fontCache[obj] = font
	return font, true
}

// GetColorspaceByName loads (and caches) the colorspace with the given name.
func (r *PdfPageResources) GetColorspaceByName(keyName core.PdfObjectName) (PdfColorspace, bool) {
	obj, found := lookupEntry(r.ColorSpace, keyName)
	if !found {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.csCache == nil {
		r.csCache = make(map[core.PdfObject]PdfColorspace)
	}
	if cs, ok := r.csCache[obj]; ok {
		return cs, true
	}

	cs, err := NewPdfColorspaceFromPdfObject(obj)
	if err != nil {
		common.Log.Debug("ERROR: loading colorspace %q: %v", keyName, err)
		return nil, false
	}
	r.csCache[obj] = cs
	return cs, true
}

// HasColorspaceByName checks if the colorspace with the specified name exists.
func (r *PdfPageResources) HasColorspaceByName(keyName core.PdfObjectName) bool {
	_, found := lookupEntry(r.ColorSpace, keyName)
	return found
}

// GetShadingByName loads (and caches) the shading with the given name.
func (r *PdfPageResources) GetShadingByName(keyName core.PdfObjectName) (*PdfShading, bool) {
	obj, found := lookupEntry(r.Shading, keyName)
	if !found {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.shadeCache == nil {
		r.shadeCache = make(map[core.PdfObject]*PdfShading)
	}
	if shading, ok := r.shadeCache[obj]; ok {
		return shading, true
	}

	shading, err := newPdfShadingFromPdfObject(obj)
	if err != nil {
		common.Log.Debug("ERROR: loading shading %q: %v", keyName, err)
		return nil, false
	}
	r.shadeCache[obj] = shading
	return shading, true
}

// GetPatternByName loads (and caches) the pattern with the given name.
func (r *PdfPageResources) GetPatternByName(keyName core.PdfObjectName) (*PdfPattern, bool) {
	obj, found := lookupEntry(r.Pattern, keyName)
	if !found {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.patCache == nil {
		r.patCache = make(map[core.PdfObject]*PdfPattern)
	}
	if pattern, ok := r.patCache[obj]; ok {
		return pattern, true
	}

	pattern, err := newPdfPatternFromPdfObject(obj)
	if err != nil {
		common.Log.Debug("ERROR: loading pattern %q: %v", keyName, err)
		return nil, false
	}
	r.patCache[obj] = pattern
	return pattern, true
}

// GetExtGState gets the ExtGState specified by keyName. Returns a bool
// indicating whether it was found or not.
func (r *PdfPageResources) GetExtGState(keyName core.PdfObjectName) (core.PdfObject, bool) {
	return lookupEntry(r.ExtGState, keyName)
}

// GetXObjectByName returns the XObject with the specified keyName and the object type.
func (r *PdfPageResources) GetXObjectByName(keyName core.PdfObjectName) (*core.PdfObjectStream, XObjectType) {
	obj, found := lookupEntry(r.XObject, keyName)
	if !found {
		return nil, XObjectTypeUndefined
	}

	stream, ok := core.GetStream(obj)
	if !ok {
		common.Log.Debug("XObject not pointing to a stream %T", obj)
		return nil, XObjectTypeUndefined
	}
	dict := stream.PdfObjectDictionary

	name, ok := core.GetNameVal(dict.Get("Subtype"))
	if !ok {
		common.Log.Debug("XObject Subtype not a Name, dict: %s", dict.String())
		return nil, XObjectTypeUndefined
	}

	switch name {
	case "Image":
		return stream, XObjectTypeImage
	case "Form":
		return stream, XObjectTypeForm
	case "PS":
		return stream, XObjectTypePS
	}
	common.Log.Debug("XObject Subtype not known (%q)", name)
	return nil, XObjectTypeUnknown
}

// GetXObjectImageByName returns the image XObject with the given name.
func (r *PdfPageResources) GetXObjectImageByName(keyName core.PdfObjectName) (*PdfImage, error) {
	stream, xtype := r.GetXObjectByName(keyName)
	if stream == nil {
		return nil, nil
	}
	if xtype != XObjectTypeImage {
		return nil, errors.New("not an image")
	}
	return NewPdfImageFromStream(stream, r)
}

// GetXObjectFormByName returns the form XObject with the given name.
func (r *PdfPageResources) GetXObjectFormByName(keyName core.PdfObjectName) (*XObjectForm, error) {
	stream, xtype := r.GetXObjectByName(keyName)
	if stream == nil {
		return nil, nil
	}
	if xtype != XObjectTypeForm {
		return nil, errors.New("not a form")
	}
	return NewXObjectFormFromStream(stream)
}
