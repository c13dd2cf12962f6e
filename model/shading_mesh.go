/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"errors"
	"io"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/internal/bitwise"
	"github.com/pdfrast/pdfrast/internal/transform"
)

// MeshVertex is a mesh vertex with its already converted sRGB color.
type MeshVertex struct {
	Point transform.Point
	Color [3]float64
}

// MeshTriangle is one Gouraud-shaded triangle.
type MeshTriangle [3]MeshVertex

// CoonsPatch is a Coons patch: 12 boundary control points in the PDF edge
// order (D1, C2, D2, C1) and 4 corner colors.
type CoonsPatch struct {
	Points [12]transform.Point
	Colors [4][3]float64
}

// TensorPatch is a tensor-product patch: a full 4x4 control point grid and 4
// corner colors.
type TensorPatch struct {
	Points [4][4]transform.Point
	Colors [4][3]float64
}

// tensorSpiral maps the PDF stream order of the 16 tensor control points to
// grid coordinates (row, col).
var tensorSpiral = [16][2]int{
	{0, 0}, {0, 1}, {0, 2}, {0, 3},
	{1, 3}, {2, 3}, {3, 3},
	{3, 2}, {3, 1}, {3, 0},
	{2, 0}, {1, 0},
	{1, 1}, {1, 2}, {2, 1}, {2, 2},
}

// meshReader unpacks coordinates, colors and edge flags from the bit-packed
// mesh stream.
type meshReader struct {
	r      *bitwise.Reader
	mesh   *meshShadingCommon
	intent RenderingIntent
	nColor int // color components in the stream
}

func newMeshReader(mesh *meshShadingCommon, intent RenderingIntent) *meshReader {
	nColor := mesh.ColorSpace.GetNumComponents()
	if len(mesh.Function) > 0 {
		// A function maps the single parametric value to full color.
		nColor = 1
	}
	return &meshReader{
		r:      bitwise.NewReader(mesh.Data),
		mesh:   mesh,
		intent: intent,
		nColor: nColor,
	}
}

// decodeRange maps a raw sample through the i-th /Decode pair.
func (mr *meshReader) decodeRange(raw uint64, bits int, i int) float64 {
	maxVal := float64(uint64(1)<<uint(bits) - 1)
	lo, hi := 0.0, 1.0
	if 2*i+1 < len(mr.mesh.Decode) {
		lo, hi = mr.mesh.Decode[2*i], mr.mesh.Decode[2*i+1]
	}
	if maxVal == 0 {
		return lo
	}
	return lo + float64(raw)*(hi-lo)/maxVal
}

func (mr *meshReader) readFlag() (int, error) {
	if mr.mesh.BitsPerFlag <= 0 {
		return 0, errors.New("mesh flag bits missing")
	}
	flag, err := mr.r.ReadBits(byte(mr.mesh.BitsPerFlag))
	if err != nil {
		return 0, err
	}
	return int(flag), nil
}

func (mr *meshReader) readPoint() (transform.Point, error) {
	bits := mr.mesh.BitsPerCoordinate
	xRaw, err := mr.r.ReadBits(byte(bits))
	if err != nil {
		return transform.Point{}, err
	}
	yRaw, err := mr.r.ReadBits(byte(bits))
	if err != nil {
		return transform.Point{}, err
	}
	return transform.Point{
		X: mr.decodeRange(xRaw, bits, 0),
		Y: mr.decodeRange(yRaw, bits, 1),
	}, nil
}

// readColor reads the color components and converts them to sRGB once.
func (mr *meshReader) readColor() ([3]float64, error) {
	bits := mr.mesh.BitsPerComponent
	comps := make([]float64, mr.nColor)
	for i := 0; i < mr.nColor; i++ {
		raw, err := mr.r.ReadBits(byte(bits))
		if err != nil {
			return [3]float64{}, err
		}
		comps[i] = mr.decodeRange(raw, bits, 2+i)
	}

	if len(mr.mesh.Function) > 0 {
		evaluated, err := evalShadingFunctions(mr.mesh.Function, comps[0])
		if err != nil {
			return [3]float64{}, err
		}
		comps = evaluated
	}
	if len(comps) > mr.mesh.ColorSpace.GetNumComponents() {
		comps = comps[:mr.mesh.ColorSpace.GetNumComponents()]
	}
	return mr.mesh.ColorSpace.ToSRGB(comps, mr.intent)
}

func (mr *meshReader) readVertex() (MeshVertex, error) {
	point, err := mr.readPoint()
	if err != nil {
		return MeshVertex{}, err
	}
	color, err := mr.readColor()
	if err != nil {
		return MeshVertex{}, err
	}
	return MeshVertex{Point: point, Color: color}, nil
}

// evalShadingFunctions runs the shading function(s) at the parametric value:
// one multi-output function or one single-output function per component.
func evalShadingFunctions(functions []PdfFunction, t float64) ([]float64, error) {
	if len(functions) == 1 {
		return functions[0].Evaluate([]float64{t})
	}
	out := make([]float64, 0, len(functions))
	for _, fn := range functions {
		vals, err := fn.Evaluate([]float64{t})
		if err != nil {
			return nil, err
		}
		out = append(out, vals...)
	}
	return out, nil
}

// Triangles decodes the free-form triangle mesh. Edge flags: 0 starts a
// fresh triangle of three vertices; 1 and 2 continue from the previous
// triangle's edges with one new vertex.
func (sh *PdfShadingType4) Triangles(intent RenderingIntent) ([]MeshTriangle, error) {
	mr := newMeshReader(&sh.meshShadingCommon, intent)

	var triangles []MeshTriangle
	var prev MeshTriangle
	havePrev := false

	for {
		flag, err := mr.readFlag()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch flag {
		case 0:
			var tri MeshTriangle
			tri[0], err = mr.readVertex()
			if err != nil {
				if err == io.EOF {
					return triangles, nil
				}
				return nil, err
			}
			for i := 1; i < 3; i++ {
				// Each vertex carries its own (ignored) flag.
				if _, err := mr.readFlag(); err != nil {
					return nil, err
				}
				tri[i], err = mr.readVertex()
				if err != nil {
					return nil, err
				}
			}
			triangles = append(triangles, tri)
			prev, havePrev = tri, true
		case 1, 2:
			if !havePrev {
				common.Log.Debug("ERROR: Mesh continuation flag with no previous triangle")
				return nil, errRangeError
			}
			vertex, err := mr.readVertex()
			if err != nil {
				return nil, err
			}
			var tri MeshTriangle
			if flag == 1 {
				tri = MeshTriangle{prev[1], prev[2], vertex}
			} else {
				tri = MeshTriangle{prev[0], prev[2], vertex}
			}
			triangles = append(triangles, tri)
			prev = tri
		default:
			common.Log.Debug("ERROR: Invalid mesh edge flag %d", flag)
			return triangles, nil
		}
	}

	return triangles, nil
}

// Triangles decodes the lattice mesh into triangles: each quad of adjacent
// rows splits into two.
func (sh *PdfShadingType5) Triangles(intent RenderingIntent) ([]MeshTriangle, error) {
	mr := newMeshReader(&sh.meshShadingCommon, intent)

	var rows [][]MeshVertex
	for {
		row := make([]MeshVertex, 0, sh.VerticesPerRow)
		done := false
		for i := 0; i < sh.VerticesPerRow; i++ {
			vertex, err := mr.readVertex()
			if err == io.EOF {
				done = true
				break
			}
			if err != nil {
				return nil, err
			}
			row = append(row, vertex)
		}
		if len(row) == sh.VerticesPerRow {
			rows = append(rows, row)
		}
		if done {
			break
		}
	}

	var triangles []MeshTriangle
	for y := 0; y+1 < len(rows); y++ {
		for x := 0; x+1 < sh.VerticesPerRow; x++ {
			triangles = append(triangles,
				MeshTriangle{rows[y][x], rows[y][x+1], rows[y+1][x]},
				MeshTriangle{rows[y][x+1], rows[y+1][x+1], rows[y+1][x]},
			)
		}
	}
	return triangles, nil
}

// Patches decodes the Coons patch mesh. Flags 1..3 reuse an edge (4 points,
// 2 colors) of the previous patch to keep continuity along the shared
// boundary.
func (sh *PdfShadingType6) Patches(intent RenderingIntent) ([]CoonsPatch, error) {
	mr := newMeshReader(&sh.meshShadingCommon, intent)

	var patches []CoonsPatch
	var prev CoonsPatch
	havePrev := false

	for {
		flag, err := mr.readFlag()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		var patch CoonsPatch
		pointStart, colorStart := 0, 0
		if flag != 0 {
			if !havePrev {
				common.Log.Debug("ERROR: Coons continuation flag with no previous patch")
				return nil, errRangeError
			}
			reusePatchEdge(&patch, &prev, flag)
			pointStart, colorStart = 4, 2
		}

		for i := pointStart; i < 12; i++ {
			patch.Points[i], err = mr.readPoint()
			if err != nil {
				if err == io.EOF && i == pointStart {
					return patches, nil
				}
				return nil, err
			}
		}
		for i := colorStart; i < 4; i++ {
			patch.Colors[i], err = mr.readColor()
			if err != nil {
				return nil, err
			}
		}

		patches = append(patches, patch)
		prev, havePrev = patch, true
	}

	return patches, nil
}

// reusePatchEdge fills the first 4 points and 2 colors of `patch` from the
// shared edge of `prev` selected by `flag`.
func reusePatchEdge(patch, prev *CoonsPatch, flag int) {
	switch flag {
	case 1:
		patch.Points[0] = prev.Points[3]
		patch.Points[1] = prev.Points[4]
		patch.Points[2] = prev.Points[5]
		patch.Points[3] = prev.Points[6]
		patch.Colors[0] = prev.Colors[1]
		patch.Colors[1] = prev.Colors[2]
	case 2:
		patch.Points[0] = prev.Points[6]
		patch.Points[1] = prev.Points[7]
		patch.Points[2] = prev.Points[8]
		patch.Points[3] = prev.Points[9]
		patch.Colors[0] = prev.Colors[2]
		patch.Colors[1] = prev.Colors[3]
	case 3:
		patch.Points[0] = prev.Points[9]
		patch.Points[1] = prev.Points[10]
		patch.Points[2] = prev.Points[11]
		patch.Points[3] = prev.Points[0]
		patch.Colors[0] = prev.Colors[3]
		patch.Colors[1] = prev.Colors[0]
	}
}

// Patches decodes the tensor-product patch mesh. Points arrive in the PDF
// spiral order and are stored as a 4x4 grid.
func (sh *PdfShadingType7) Patches(intent RenderingIntent) ([]TensorPatch, error) {
	mr := newMeshReader(&sh.meshShadingCommon, intent)

	var patches []TensorPatch
	var prevSpiral [16]transform.Point
	var prev TensorPatch
	havePrev := false

	for {
		flag, err := mr.readFlag()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		var spiral [16]transform.Point
		var colors [4][3]float64
		pointStart, colorStart := 0, 0
		if flag != 0 {
			if !havePrev {
				common.Log.Debug("ERROR: Tensor continuation flag with no previous patch")
				return nil, errRangeError
			}
			reuseTensorEdge(&spiral, &colors, &prevSpiral, &prev, flag)
			pointStart, colorStart = 4, 2
		}

		for i := pointStart; i < 16; i++ {
			spiral[i], err = mr.readPoint()
			if err != nil {
				if err == io.EOF && i == pointStart {
					return patches, nil
				}
				return nil, err
			}
		}
		for i := colorStart; i < 4; i++ {
			colors[i], err = mr.readColor()
			if err != nil {
				return nil, err
			}
		}

		var patch TensorPatch
		for i, rc := range tensorSpiral {
			patch.Points[rc[0]][rc[1]] = spiral[i]
		}
		patch.Colors = colors

		patches = append(patches, patch)
		prevSpiral, prev, havePrev = spiral, patch, true
	}

	return patches, nil
}

// reuseTensorEdge fills the first 4 spiral points and 2 colors from the
// shared edge of the previous patch selected by `flag`.
func reuseTensorEdge(spiral *[16]transform.Point, colors *[4][3]float64, prevSpiral *[16]transform.Point, prev *TensorPatch, flag int) {
	switch flag {
	case 1:
		spiral[0] = prevSpiral[3]
		spiral[1] = prevSpiral[4]
		spiral[2] = prevSpiral[5]
		spiral[3] = prevSpiral[6]
		colors[0] = prev.Colors[1]
		colors[1] = prev.Colors[2]
	case 2:
		spiral[0] = prevSpiral[6]
		spiral[1] = prevSpiral[7]
		spiral[2] = prevSpiral[8]
		spiral[3] = prevSpiral[9]
		colors[0] = prev.Colors[2]
		colors[1] = prev.Colors[3]
	case 3:
		spiral[0] = prevSpiral[9]
		spiral[1] = prevSpiral[10]
		spiral[2] = prevSpiral[11]
		spiral[3] = prevSpiral[0]
		colors[0] = prev.Colors[3]
		colors[1] = prev.Colors[0]
	}
}
