/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package render

import (
	"bytes"
	"image"
	"io"
	gojpeg "image/jpeg"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/contentstream"
	"github.com/pdfrast/pdfrast/core"
	"github.com/pdfrast/pdfrast/internal/ccittfax"
	"github.com/pdfrast/pdfrast/internal/imageutil"
	"github.com/pdfrast/pdfrast/internal/jpeg"
	"github.com/pdfrast/pdfrast/internal/rawimage"
	"github.com/pdfrast/pdfrast/internal/transform"
	"github.com/pdfrast/pdfrast/model"
	"github.com/pdfrast/pdfrast/render/context"
)

// rowSource streams decoded rows at source bit depth and channel count.
type rowSource interface {
	// ReadRow returns the next row of packed samples, or io.EOF.
	ReadRow() ([]byte, error)
}

// drawImage decodes and draws an image in unit user space, letting the CTM
// scale it to the page target.
func (r *renderer) drawImage(ctx context.Context, gs *contentstream.GraphicsState, resources *model.PdfPageResources, state *renderState, img *model.PdfImage) {
	goImg, err := r.decodeImage(gs, state, img)
	if err != nil {
		common.Log.Debug("ERROR: decoding image: %v", err)
		return
	}
	if goImg == nil {
		return
	}

	r.withSoftMask(ctx, gs, resources, state, func() {
		if img.ImageMask {
			r.drawStencilImage(ctx, gs, resources, state, goImg)
			return
		}
		r.drawUnitImage(ctx, gs, goImg, img.Interpolate)
	})
}

// drawUnitImage draws the finished image into the 1x1 unit rectangle with
// inverted Y.
func (r *renderer) drawUnitImage(ctx context.Context, gs *contentstream.GraphicsState, goImg image.Image, interpolate bool) {
	bounds := goImg.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}

	ctx.Push()
	ctx.SetBlendMode(string(gs.BlendMode))
	ctx.SetSampling(interpolate)
	ctx.SetMatrix(ctx.Matrix().Mult(transform.ScaleMatrix(1.0/float64(bounds.Dx()), -1.0/float64(bounds.Dy()))))
	ctx.DrawImageAnchored(goImg, 0, 0, 0, 1)
	ctx.Pop()
}

// drawStencilImage paints the stencil mask shape with the current
// non-stroking paint: the mask goes into the layer first, then the filled
// rectangle composites source-in through it.
func (r *renderer) drawStencilImage(ctx context.Context, gs *contentstream.GraphicsState, resources *model.PdfPageResources, state *renderState, goImg image.Image) {
	alphaImg, ok := goImg.(*image.Alpha)
	if !ok {
		common.Log.Debug("ERROR: stencil mask did not decode to alpha")
		return
	}

	ctx.Push()
	ctx.SaveLayer(1.0, string(gs.BlendMode))

	bounds := alphaImg.Bounds()
	ctx.SetMatrix(ctx.Matrix().Mult(transform.ScaleMatrix(1.0/float64(bounds.Dx()), -1.0/float64(bounds.Dy()))))
	if err := ctx.SetMask(alphaImg); err != nil {
		common.Log.Debug("ERROR: setting stencil mask: %v", err)
	}
	if err := r.resolvePaint(ctx, gs, resources, state, false); err == nil {
		ctx.ClearPath()
		ctx.DrawRectangle(0, -float64(bounds.Dy()), float64(bounds.Dx()), float64(bounds.Dy()))
		ctx.SetFillRule(context.FillRuleWinding)
		ctx.Fill()
		ctx.ClearPath()
	}

	ctx.RestoreLayer()
	ctx.Pop()
}

// decodeImage runs the decoder factory and the row processor, producing the
// finished RGBA (or stencil alpha) image.
func (r *renderer) decodeImage(gs *contentstream.GraphicsState, state *renderState, img *model.PdfImage) (image.Image, error) {
	switch img.Type {
	case model.ImageTypeJPEG2000, model.ImageTypeJBIG2:
		common.Log.Info("Unsupported image codec %s - skipping", img.Type)
		return nil, nil
	case model.ImageTypeJPEG:
		return r.decodeJPEGImage(gs, state, img)
	case model.ImageTypeCCITT:
		return r.decodeCCITTImage(gs, state, img)
	default:
		if img.Type == model.ImageTypeRaw && len(img.Data) > 2 && filetype.IsType(img.Data, matchers.TypeJpeg) {
			// A DCT stream can hide behind a missing filter entry in
			// damaged files.
			common.Log.Debug("Raw image sniffs as JPEG, rerouting")
			return r.decodeJPEGImage(gs, state, img)
		}
		return r.decodeRawImage(gs, state, img)
	}
}

// decodeRawImage streams predictor-reversed rows through the row processor.
func (r *renderer) decodeRawImage(gs *contentstream.GraphicsState, state *renderState, img *model.PdfImage) (image.Image, error) {
	params := rawimage.Params{
		Columns:          img.Width,
		Colors:           img.NumComponents(),
		BitsPerComponent: img.BitsPerComponent,
	}
	if img.DecodeParms != nil {
		if predictor, ok := core.GetIntVal(img.DecodeParms.Get("Predictor")); ok {
			params.Predictor = predictor
		}
		if colors, ok := core.GetIntVal(img.DecodeParms.Get("Colors")); ok {
			params.Colors = colors
		}
		if columns, ok := core.GetIntVal(img.DecodeParms.Get("Columns")); ok {
			params.Columns = columns
		}
		if bpc, ok := core.GetIntVal(img.DecodeParms.Get("BitsPerComponent")); ok {
			params.BitsPerComponent = bpc
		}
	}

	reader, err := rawimage.NewReader(img.Data, params)
	if err != nil {
		return nil, err
	}
	return r.processRows(gs, state, img, reader)
}

// decodeCCITTImage decodes the fax stream and hands the packed rows to the
// row processor; polarity resolves through BlackIs1 and /Decode there.
func (r *renderer) decodeCCITTImage(gs *contentstream.GraphicsState, state *renderState, img *model.PdfImage) (image.Image, error) {
	decoder := &ccittfax.Decoder{
		Columns: img.Width,
		Rows:    img.Height,
		K:       0,
	}
	if img.DecodeParms != nil {
		if k, ok := core.GetIntVal(img.DecodeParms.Get("K")); ok {
			decoder.K = k
		}
		if columns, ok := core.GetIntVal(img.DecodeParms.Get("Columns")); ok {
			decoder.Columns = columns
		}
		if rows, ok := core.GetIntVal(img.DecodeParms.Get("Rows")); ok {
			decoder.Rows = rows
		}
		if eol, ok := core.GetBoolVal(img.DecodeParms.Get("EndOfLine")); ok {
			decoder.EndOfLine = eol
		}
		if eob, ok := core.GetBoolVal(img.DecodeParms.Get("EndOfBlock")); ok {
			decoder.EndOfBlock = eob
		}
		if align, ok := core.GetBoolVal(img.DecodeParms.Get("EncodedByteAlign")); ok {
			decoder.EncodedByteAlign = align
		}
		if blackIs1, ok := core.GetBoolVal(img.DecodeParms.Get("BlackIs1")); ok {
			decoder.BlackIs1 = blackIs1
		}
	}

	packed, err := decoder.DecodePacked(img.Data)
	if err != nil {
		return nil, err
	}

	bytesPerRow := (decoder.Columns + 7) / 8
	rows := packedRowSource{data: packed, rowLen: bytesPerRow}
	return r.processRows(gs, state, img, &rows)
}

type packedRowSource struct {
	data   []byte
	rowLen int
	pos    int
}

func (s *packedRowSource) ReadRow() ([]byte, error) {
	if s.pos+s.rowLen > len(s.data) {
		return nil, io.EOF
	}
	row := s.data[s.pos : s.pos+s.rowLen]
	s.pos += s.rowLen
	return row, nil
}

// decodeJPEGImage runs the streaming decoder, reconciling the declared
// color space with the stream and honoring an embedded ICC profile. Failed
// streams fall back to the library decoder once.
func (r *renderer) decodeJPEGImage(gs *contentstream.GraphicsState, state *renderState, img *model.PdfImage) (image.Image, error) {
	decoder, err := jpeg.NewDecoder(img.Data)
	if err != nil {
		common.Log.Debug("JPEG header parse failed (%v), trying library decode", err)
		return r.decodeJPEGFallback(img)
	}

	r.reconcileJPEGColorSpace(img, decoder)

	rows := &jpegRowSource{decoder: decoder, buf: make([]byte, decoder.Width*decoder.NumComponents)}
	out, err := r.processRows(gs, state, img, rows)
	if err != nil {
		common.Log.Debug("JPEG decode failed (%v), trying library decode", err)
		return r.decodeJPEGFallback(img)
	}
	return out, nil
}

type jpegRowSource struct {
	decoder *jpeg.Decoder
	buf     []byte
}

func (s *jpegRowSource) ReadRow() ([]byte, error) {
	if s.decoder.RowsRemaining() <= 0 {
		return nil, io.EOF
	}
	if err := s.decoder.ReadRow(s.buf); err != nil {
		return nil, err
	}
	return s.buf, nil
}

// reconcileJPEGColorSpace aligns the PDF-declared color space with the
// stream geometry: device spaces switch to the matching device space on a
// component count mismatch, non-device spaces are preserved; an assembled
// ICC profile replaces a device space.
func (r *renderer) reconcileJPEGColorSpace(img *model.PdfImage, decoder *jpeg.Decoder) {
	if decoder.Width != img.Width || decoder.Height != img.Height {
		common.Log.Debug("JPEG geometry %dx%d disagrees with dict %dx%d, using stream",
			decoder.Width, decoder.Height, img.Width, img.Height)
		img.Width = decoder.Width
		img.Height = decoder.Height
	}
	img.BitsPerComponent = 8

	isDevice := false
	switch img.ColorSpace.(type) {
	case *model.PdfColorspaceDeviceGray, *model.PdfColorspaceDeviceRGB, *model.PdfColorspaceDeviceCMYK, nil:
		isDevice = true
	}

	if decoder.NumComponents != img.NumComponents() {
		if isDevice {
			switch decoder.NumComponents {
			case 1:
				img.ColorSpace = model.NewPdfColorspaceDeviceGray()
			case 3:
				img.ColorSpace = model.NewPdfColorspaceDeviceRGB()
			case 4:
				img.ColorSpace = model.NewPdfColorspaceDeviceCMYK()
			}
		} else {
			common.Log.Debug("JPEG component count %d disagrees with %s, keeping declared space",
				decoder.NumComponents, img.ColorSpace.String())
		}
	}

	if decoder.ICCProfile != nil && isDevice {
		iccCS, err := model.NewPdfColorspaceICCBasedFromProfileData(decoder.ICCProfile)
		if err != nil {
			common.Log.Debug("Embedded JPEG ICC profile unusable: %v", err)
		} else if iccCS.N == decoder.NumComponents {
			img.ColorSpace = iccCS
		}
	}
}

// decodeJPEGFallback decodes the whole stream with the library decoder.
func (r *renderer) decodeJPEGFallback(img *model.PdfImage) (image.Image, error) {
	decoded, err := gojpeg.Decode(bytes.NewReader(img.Data))
	if err != nil {
		common.Log.Debug("ERROR: JPEG fallback decode failed: %v - skipping image", err)
		return nil, nil
	}
	return decoded, nil
}

// processRows is the row processor: expansion to 8 bit, /Decode, color-key
// masking, stencil alpha, and color conversion into the finished pixel
// buffer. Cancellation is honored at row boundaries.
func (r *renderer) processRows(gs *contentstream.GraphicsState, state *renderState, img *model.PdfImage, rows rowSource) (image.Image, error) {
	width, height := img.Width, img.Height
	if width <= 0 || height <= 0 {
		return nil, errRange
	}

	nComp := img.NumComponents()
	decode := img.DecodeOrDefault()
	maxVal := float64(uint64(1)<<uint(img.BitsPerComponent) - 1)

	// Color-key masking ranges on raw samples.
	var colorKey []int
	if maskArray, ok := core.GetArray(img.Mask); ok {
		if ranges, err := maskArray.ToIntegerArray(); err == nil && len(ranges) == 2*nComp {
			colorKey = ranges
		}
	}

	if img.ImageMask {
		return r.processStencilRows(state, img, rows, decode)
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))

	// Memoize conversions for low component counts at low bit depths; runs
	// of identical samples dominate scanned content.
	type colorKeyT [4]byte
	cache := map[colorKeyT][3]float64{}
	cacheable := nComp <= 4 && img.BitsPerComponent <= 8

	comps := make([]float64, nComp)
	for y := 0; y < height; y++ {
		if state != nil && state.cancelled() {
			return nil, contentstream.ErrCancelled
		}

		row, err := rows.ReadRow()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		samples := imageutil.ExpandRow(row, width, img.BitsPerComponent, nComp)
		for x := 0; x < width; x++ {
			transparent := colorKey != nil
			var key colorKeyT

			for c := 0; c < nComp; c++ {
				idx := x*nComp + c
				var raw byte
				if idx < len(samples) {
					raw = samples[idx]
				}
				if cacheable {
					key[c] = raw
				}

				if colorKey != nil {
					if int(raw) < colorKey[2*c] || int(raw) > colorKey[2*c+1] {
						transparent = false
					}
				}

				lo, hi := 0.0, 1.0
				if 2*c+1 < len(decode) {
					lo, hi = decode[2*c], decode[2*c+1]
				}
				comps[c] = lo + float64(raw)*(hi-lo)/maxValOr1(maxVal)
			}

			pos := out.PixOffset(x, y)
			if transparent {
				out.Pix[pos+3] = 0
				continue
			}

			var rgb [3]float64
			if cacheable {
				if cached, ok := cache[key]; ok {
					rgb = cached
				} else {
					converted, err := img.ColorSpace.ToSRGB(comps, img.Intent)
					if err != nil {
						return nil, err
					}
					rgb = converted
					cache[key] = converted
				}
			} else {
				converted, err := img.ColorSpace.ToSRGB(comps, img.Intent)
				if err != nil {
					return nil, err
				}
				rgb = converted
			}

			out.Pix[pos] = floatToByte(rgb[0])
			out.Pix[pos+1] = floatToByte(rgb[1])
			out.Pix[pos+2] = floatToByte(rgb[2])
			out.Pix[pos+3] = 255
		}
	}

	if img.SMask != nil {
		r.applySoftMaskImage(gs, state, img, out)
	}

	return out, nil
}

func maxValOr1(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	return maxVal
}

// processStencilRows produces the alpha-only stencil: after the default
// [1 0] decode inversion, sample 0 paints (opaque) and 1 is transparent.
func (r *renderer) processStencilRows(state *renderState, img *model.PdfImage, rows rowSource, decode []float64) (image.Image, error) {
	out := image.NewAlpha(image.Rect(0, 0, img.Width, img.Height))

	inverted := len(decode) >= 2 && decode[0] > decode[1]
	for y := 0; y < img.Height; y++ {
		if state != nil && state.cancelled() {
			return nil, contentstream.ErrCancelled
		}

		row, err := rows.ReadRow()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		samples := imageutil.ExpandRow(row, img.Width, img.BitsPerComponent, 1)
		for x := 0; x < img.Width && x < len(samples); x++ {
			// Under the default [1 0] decode, raw sample 0 paints (opaque)
			// and 1 is transparent; an explicit [0 1] decode flips that.
			painted := (samples[x]&1 == 0) == inverted
			if painted {
				out.Pix[out.PixOffset(x, y)] = 255
			}
		}
	}
	return out, nil
}

// applySoftMaskImage decodes the /SMask image and multiplies its luminance
// into the base image's alpha. /Matte premultiplication is recognized but
// not reversed.
func (r *renderer) applySoftMaskImage(gs *contentstream.GraphicsState, state *renderState, img *model.PdfImage, out *image.RGBA) {
	if img.SMaskMatte != nil {
		common.Log.Debug("SMask /Matte present - premultiplied samples are not dematted")
	}

	maskImg, err := r.decodeImage(gs, state, img.SMask)
	if err != nil || maskImg == nil {
		common.Log.Debug("ERROR: decoding SMask: %v", err)
		return
	}

	bounds := out.Bounds()
	maskBounds := maskImg.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		my := maskBounds.Min.Y + y*maskBounds.Dy()/bounds.Dy()
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			mx := maskBounds.Min.X + x*maskBounds.Dx()/bounds.Dx()
			mr, mg, mb, _ := maskImg.At(mx, my).RGBA()
			// Luminance to alpha.
			lum := (19595*mr + 38470*mg + 7471*mb) >> 16
			pos := out.PixOffset(x, y)
			out.Pix[pos+3] = uint8(uint32(out.Pix[pos+3]) * lum / 0xffff)
		}
	}
}

func floatToByte(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}
