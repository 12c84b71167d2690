package subdiv

import "fmt"

// KernelKind selects which compute kernel a batch runs.
type KernelKind int

const (
	KernelFacePoints KernelKind = iota
	KernelEdgePoints
	KernelVertexPointsA1 // crease/corner rule, clearing pass
	KernelVertexPointsB  // smooth/dart rule
	KernelVertexPointsA2 // crease/corner rule, accumulating pass
)

func (k KernelKind) String() string {
	switch k {
	case KernelFacePoints:
		return "face-points"
	case KernelEdgePoints:
		return "edge-points"
	case KernelVertexPointsA1:
		return "vertex-points-a1"
	case KernelVertexPointsB:
		return "vertex-points-b"
	case KernelVertexPointsA2:
		return "vertex-points-a2"
	}
	return fmt.Sprintf("kernel(%d)", int(k))
}

// Phase returns the ordering class of the kernel within one refinement
// level. Batches in the same phase write disjoint destinations and may run
// concurrently; a batch must not start before all lower phases of its level
// have completed. Face-points and edge-points share phase 0; the vertex
// rules are ordered A1 < B < A2 so the accumulating pass lands on records
// already cleared by A1 or B.
func (k KernelKind) Phase() int {
	switch k {
	case KernelFacePoints, KernelEdgePoints:
		return 0
	case KernelVertexPointsA1:
		return 1
	case KernelVertexPointsB:
		return 2
	default:
		return 3
	}
}

// KernelBatch describes one kernel application: table rows
// [Start+TableOffset, End+TableOffset) writing destination records
// [VertexOffset+Start, VertexOffset+End). Batches are produced by the
// external table builder alongside the tables themselves.
type KernelBatch struct {
	Kind         KernelKind
	Level        int
	VertexOffset int
	TableOffset  int
	Start        int
	End          int
}

// NumVerts returns the number of destination records the batch writes.
func (b KernelBatch) NumVerts() int { return b.End - b.Start }

// Run executes the batch's kernel over rows [from, to), a sub-range of
// [b.Start, b.End). Sub-ranges of one batch are independent and may run
// concurrently.
func (b KernelBatch) Run(t *Tables, buf Buffer, from, to int) {
	switch b.Kind {
	case KernelFacePoints:
		t.ComputeFacePoints(buf, b.VertexOffset, b.TableOffset, from, to)
	case KernelEdgePoints:
		t.ComputeEdgePoints(buf, b.VertexOffset, b.TableOffset, from, to)
	case KernelVertexPointsA1:
		t.ComputeVertexPointsA(buf, false, b.VertexOffset, b.TableOffset, from, to)
	case KernelVertexPointsB:
		t.ComputeVertexPointsB(buf, b.VertexOffset, b.TableOffset, from, to)
	case KernelVertexPointsA2:
		t.ComputeVertexPointsA(buf, true, b.VertexOffset, b.TableOffset, from, to)
	}
}

func (t *Tables) tableRows(kind KernelKind) int {
	switch kind {
	case KernelFacePoints:
		return t.NumFacePoints()
	case KernelEdgePoints:
		return t.NumEdgePoints()
	default:
		return t.NumVertexPoints()
	}
}
