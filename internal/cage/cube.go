// Package cage provides a hand-built control cage with one level of
// subdivision tables, standing in for an external table builder. The cage
// is a unit cube: every vertex is smooth, every edge interior, which makes
// the refined positions easy to verify by hand.
package cage

import (
	"fmt"

	"github.com/martijnberger/OpenSubdiv/pkg/subdiv"
)

const (
	NumCorners = 8
	NumFaces   = 6
	NumEdges   = 12

	// Level-1 destination layout: face-points, then edge-points, then
	// vertex-points, appended after the 8 cage corners.
	FacePointBase   = NumCorners
	EdgePointBase   = FacePointBase + NumFaces
	VertexPointBase = EdgePointBase + NumEdges
	TotalVerts      = VertexPointBase + NumCorners
)

var corners = [NumCorners][3]float32{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

// faces lists each quad's corners in winding order.
var faces = [NumFaces][4]int32{
	{0, 1, 5, 4}, // bottom
	{3, 7, 6, 2}, // top
	{4, 5, 6, 7}, // front
	{0, 3, 2, 1}, // back
	{1, 2, 6, 5}, // right
	{0, 4, 7, 3}, // left
}

// edges lists each edge's endpoints and its two incident faces.
var edges = [NumEdges][4]int32{
	{0, 1, 0, 3}, {1, 5, 0, 4}, {5, 4, 0, 2}, {4, 0, 0, 5},
	{3, 7, 1, 5}, {7, 6, 1, 2}, {6, 2, 1, 4}, {2, 3, 1, 3},
	{0, 3, 3, 5}, {1, 2, 3, 4}, {5, 6, 4, 2}, {4, 7, 2, 5},
}

// Cage bundles the cube's subdivision tables with the kernel batches that
// compute refinement level 1.
type Cage struct {
	Tables  *subdiv.Tables
	Batches []subdiv.KernelBatch
}

// New builds the cube's table set.
func New() (*Cage, error) {
	d := subdiv.TableData{Scheme: subdiv.SchemeCatmark, MaxLevel: 1}

	for _, f := range faces {
		d.FaceITa = append(d.FaceITa, int32(len(d.FaceIT)), 4)
		d.FaceIT = append(d.FaceIT, f[:]...)
	}

	// Interior smooth edges: endpoints and both face-points at 1/4 each.
	for _, e := range edges {
		d.EdgeIT = append(d.EdgeIT, e[0], e[1], FacePointBase+e[2], FacePointBase+e[3])
		d.EdgeW = append(d.EdgeW, 0.25, 0.25)
	}

	// All cage corners are smooth valence-3 vertices, so only the
	// smooth/dart kernel runs, at full sharpness weight.
	for v := int32(0); v < NumCorners; v++ {
		adjVerts, adjFaces := adjacency(v)
		d.VertITa = append(d.VertITa, int32(len(d.VertIT)), int32(len(adjVerts)), v, -1, -1)
		for j := range adjVerts {
			d.VertIT = append(d.VertIT, adjVerts[j], FacePointBase+adjFaces[j])
		}
		d.VertW = append(d.VertW, 1.0)
	}

	tables, err := subdiv.NewTables(d)
	if err != nil {
		return nil, fmt.Errorf("building cube tables: %w", err)
	}

	batches := []subdiv.KernelBatch{
		{Kind: subdiv.KernelFacePoints, Level: 1, VertexOffset: FacePointBase, Start: 0, End: NumFaces},
		{Kind: subdiv.KernelEdgePoints, Level: 1, VertexOffset: EdgePointBase, Start: 0, End: NumEdges},
		{Kind: subdiv.KernelVertexPointsB, Level: 1, VertexOffset: VertexPointBase, Start: 0, End: NumCorners},
	}

	return &Cage{Tables: tables, Batches: batches}, nil
}

// adjacency returns the vertices and faces incident to cage corner v.
func adjacency(v int32) (adjVerts, adjFaces []int32) {
	for _, e := range edges {
		switch v {
		case e[0]:
			adjVerts = append(adjVerts, e[1])
		case e[1]:
			adjVerts = append(adjVerts, e[0])
		}
	}
	for i, f := range faces {
		for _, c := range f {
			if c == v {
				adjFaces = append(adjFaces, int32(i))
				break
			}
		}
	}
	return adjVerts, adjFaces
}

// Seed writes the cage corner positions into the first records of buf.
// Planes narrower than 3 elements receive a truncated position; the varying
// plane, if present, is seeded the same way.
func (c *Cage) Seed(buf *subdiv.AttrBuffer) {
	for i, pos := range corners {
		copy(buf.Vertex(i), pos[:])
		if buf.VaryingWidth() > 0 {
			copy(buf.Varying(i), pos[:])
		}
	}
}

// RefinedQuads returns the level-1 quad topology: each cage face splits
// into four quads joining a refined vertex-point, the two neighboring
// edge-points and the face-point. Indices are global buffer indices.
func (c *Cage) RefinedQuads() [][4]int {
	edgePoint := make(map[[2]int32]int, NumEdges)
	for i, e := range edges {
		key := [2]int32{e[0], e[1]}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		edgePoint[key] = EdgePointBase + i
	}
	ep := func(a, b int32) int {
		if a > b {
			a, b = b, a
		}
		return edgePoint[[2]int32{a, b}]
	}

	quads := make([][4]int, 0, 4*NumFaces)
	for fi, f := range faces {
		fp := FacePointBase + fi
		for j := 0; j < 4; j++ {
			a := f[j]
			prev := f[(j+3)%4]
			next := f[(j+1)%4]
			quads = append(quads, [4]int{
				VertexPointBase + int(a), ep(a, next), fp, ep(prev, a),
			})
		}
	}
	return quads
}
