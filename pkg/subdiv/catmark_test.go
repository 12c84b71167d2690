package subdiv

import (
	"math"
	"testing"
)

func approx(got, want, tol float32) bool {
	d := got - want
	return d < tol && d > -tol
}

// newScalarBuffer creates a width-1 buffer with the given per-vertex values
// in both the primary and varying planes, plus room for extra records.
func newScalarBuffer(values []float32, extra int) *AttrBuffer {
	buf := NewAttrBuffer(1, 1, len(values)+extra)
	for i, v := range values {
		buf.Vertex(i)[0] = v
		buf.Varying(i)[0] = v
	}
	return buf
}

func catmarkTables(t *testing.T, d TableData) *Tables {
	t.Helper()
	d.Scheme = SchemeCatmark
	tables, err := NewTables(d)
	if err != nil {
		t.Fatalf("NewTables() error: %v", err)
	}
	return tables
}

func TestFacePointAverage(t *testing.T) {
	tables := catmarkTables(t, TableData{
		FaceITa: []int32{0, 4},
		FaceIT:  []int32{0, 1, 2, 3},
	})

	buf := newScalarBuffer([]float32{1, 3, 5, 7}, 1)
	tables.ComputeFacePoints(buf, 4, 0, 0, 1)

	want := float32(4) // (1+3+5+7)/4
	if got := buf.Vertex(4)[0]; !approx(got, want, 1e-6) {
		t.Errorf("face point = %v, want %v", got, want)
	}
	if got := buf.Varying(4)[0]; !approx(got, want, 1e-6) {
		t.Errorf("face point varying = %v, want %v", got, want)
	}
}

func TestFacePointPartitionOfUnity(t *testing.T) {
	// One face row per valence 3..8, all sources at 1.0: the weighted sum
	// must come back as exactly one face's worth of unity.
	var d TableData
	numSrc := 0
	for n := int32(3); n <= 8; n++ {
		d.FaceITa = append(d.FaceITa, int32(len(d.FaceIT)), n)
		for j := int32(0); j < n; j++ {
			d.FaceIT = append(d.FaceIT, int32(numSrc))
			numSrc++
		}
	}
	tables := catmarkTables(t, d)

	ones := make([]float32, numSrc)
	for i := range ones {
		ones[i] = 1
	}
	buf := newScalarBuffer(ones, tables.NumFacePoints())
	tables.ComputeFacePoints(buf, numSrc, 0, 0, tables.NumFacePoints())

	for i := 0; i < tables.NumFacePoints(); i++ {
		if got := buf.Vertex(numSrc + i)[0]; !approx(got, 1, 1e-6) {
			t.Errorf("face point %d weight sum = %v, want 1", i, got)
		}
	}
}

func TestEdgePointSmooth(t *testing.T) {
	// Interior edge: endpoints A, B and adjacent face points F1, F2 all at
	// weight 1/4.
	tables := catmarkTables(t, TableData{
		EdgeIT: []int32{0, 1, 2, 3},
		EdgeW:  []float32{0.25, 0.25},
	})

	buf := newScalarBuffer([]float32{2, 4, 10, 20}, 1)
	tables.ComputeEdgePoints(buf, 4, 0, 0, 1)

	want := float32(0.25 * (2 + 4 + 10 + 20))
	if got := buf.Vertex(4)[0]; !approx(got, want, 1e-6) {
		t.Errorf("edge point = %v, want %v", got, want)
	}
	// Varying ignores the face points entirely.
	if got, want := buf.Varying(4)[0], float32(3); !approx(got, want, 1e-6) {
		t.Errorf("edge point varying = %v, want %v", got, want)
	}
}

func TestEdgePointBoundary(t *testing.T) {
	// e2 == -1 marks a boundary/fully-sharp edge; the face slots must not
	// be read at all, which the NaN poison vertex would expose.
	nan := float32(math.NaN())
	buf := newScalarBuffer([]float32{2, 4, nan, nan}, 2)

	tables := catmarkTables(t, TableData{
		EdgeIT: []int32{
			0, 1, -1, 2,
			0, 1, -1, 3,
		},
		EdgeW: []float32{
			0.5, 0,
			0.3, 0,
		},
	})
	tables.ComputeEdgePoints(buf, 4, 0, 0, 2)

	// Fully sharp: exact midpoint.
	if got, want := buf.Vertex(4)[0], float32(3); got != want {
		t.Errorf("sharp edge point = %v, want exactly %v", got, want)
	}
	// Fractional boundary weight: weight sum is 2*wVertex.
	if got, want := buf.Vertex(5)[0], float32(0.3*(2+4)); !approx(got, want, 1e-6) {
		t.Errorf("boundary edge point = %v, want %v", got, want)
	}
	// Varying is the plain midpoint in both cases.
	for _, i := range []int{4, 5} {
		if got, want := buf.Varying(i)[0], float32(3); !approx(got, want, 1e-6) {
			t.Errorf("edge point %d varying = %v, want %v", i, got, want)
		}
	}
}

func TestVertexPointsACorner(t *testing.T) {
	// creaseEdge0 == -1: corner rule, parent copied at full weight.
	tables := catmarkTables(t, TableData{
		VertITa: []int32{0, -1, 2, -1, -1},
		VertW:   []float32{0},
	})

	buf := newScalarBuffer([]float32{5, 6, 7}, 1)
	tables.ComputeVertexPointsA(buf, false, 3, 0, 0, 1)

	if got, want := buf.Vertex(3)[0], float32(7); got != want {
		t.Errorf("corner vertex point = %v, want %v", got, want)
	}
	if got, want := buf.Varying(3)[0], float32(7); got != want {
		t.Errorf("corner vertex varying = %v, want %v", got, want)
	}
}

func TestVertexPointsACrease(t *testing.T) {
	// Pure crease (sharpness weight 0, first pass): 3/4 parent plus 1/8 of
	// each crease edge vertex.
	tables := catmarkTables(t, TableData{
		VertITa: []int32{0, 4, 2, 0, 1},
		VertIT:  make([]int32, 8),
		VertW:   []float32{0},
	})

	buf := newScalarBuffer([]float32{8, 16, 4}, 1)
	tables.ComputeVertexPointsA(buf, false, 3, 0, 0, 1)

	want := float32(0.75*4 + 0.125*8 + 0.125*16)
	if got := buf.Vertex(3)[0]; !approx(got, want, 1e-6) {
		t.Errorf("crease vertex point = %v, want %v", got, want)
	}
}

// TestVertexPointsAFractionalWeightInversion locks the historical weight
// accounting: a fractional weight on a vertex with defined valence is
// re-inverted because the stored value is shared with the smooth kernel.
// The numbers below are the exact outputs of that behavior; a change here
// means the blending semantics changed.
func TestVertexPointsAFractionalWeightInversion(t *testing.T) {
	tables := catmarkTables(t, TableData{
		VertITa: []int32{0, 4, 2, 0, 1},
		VertIT:  make([]int32, 8),
		VertW:   []float32{0.25},
	})

	buf := newScalarBuffer([]float32{8, 16, 4}, 1)

	crease := float32(0.75*4 + 0.125*8 + 0.125*16) // 6

	// First pass: weight 1-0.25 = 0.75, inverted back to 0.25.
	tables.ComputeVertexPointsA(buf, false, 3, 0, 0, 1)
	if got, want := buf.Vertex(3)[0], 0.25*crease; !approx(got, want, 1e-6) {
		t.Errorf("first pass = %v, want %v", got, want)
	}

	// Second pass: weight 0.25, inverted to 0.75, accumulated on top.
	tables.ComputeVertexPointsA(buf, true, 3, 0, 0, 1)
	if got, want := buf.Vertex(3)[0], crease; !approx(got, want, 1e-6) {
		t.Errorf("both passes = %v, want %v", got, want)
	}

	// Without a defined valence the inversion must not apply, and the -1
	// valence forces the corner rule on the first pass even though the
	// crease edges are set.
	noValence := catmarkTables(t, TableData{
		VertITa: []int32{0, -1, 2, 0, 1},
		VertW:   []float32{0.25},
	})
	buf2 := newScalarBuffer([]float32{8, 16, 4}, 1)
	noValence.ComputeVertexPointsA(buf2, false, 3, 0, 0, 1)
	if got, want := buf2.Vertex(3)[0], float32(0.75*4); !approx(got, want, 1e-6) {
		t.Errorf("first pass without valence = %v, want %v", got, want)
	}
}

func TestVertexPointsBSmoothValence4(t *testing.T) {
	// Valence 4 at full sharpness: wp = 1/16, wv = 8/16.
	tables := catmarkTables(t, TableData{
		VertITa: []int32{0, 4, 8, -1, -1},
		VertIT:  []int32{0, 1, 2, 3, 4, 5, 6, 7},
		VertW:   []float32{1},
	})

	src := []float32{1, 2, 3, 4, 5, 6, 7, 8, 16}
	buf := newScalarBuffer(src, 1)
	tables.ComputeVertexPointsB(buf, 9, 0, 0, 1)

	var neighbors float32
	for _, v := range src[:8] {
		neighbors += v
	}
	want := 0.5*16 + neighbors/16
	if got := buf.Vertex(9)[0]; !approx(got, want, 1e-5) {
		t.Errorf("smooth vertex point = %v, want %v", got, want)
	}
	if got, want := buf.Varying(9)[0], float32(16); got != want {
		t.Errorf("smooth vertex varying = %v, want %v", got, want)
	}
}

// TestSharpnessBlendContinuity sweeps the sharpness weight across [0, 1]
// for one fractionally sharp vertex and checks the combined output of the
// crease and smooth kernels interpolates linearly between the pure crease
// and pure smooth positions, with matching endpoints.
func TestSharpnessBlendContinuity(t *testing.T) {
	src := []float32{10, 2, 6, 14, 3, 9, 1, 13, 4}
	const parent = 8

	build := func(s float32) *Tables {
		return catmarkTables(t, TableData{
			VertITa: []int32{0, 4, parent, 0, 1},
			VertIT:  []int32{0, 1, 2, 3, 4, 5, 6, 7},
			VertW:   []float32{s},
		})
	}

	var neighbors float32
	for _, v := range src[:8] {
		neighbors += v
	}
	smooth := 0.5*src[parent] + neighbors/16
	crease := 0.75*src[parent] + 0.125*src[0] + 0.125*src[1]

	eval := func(s float32) float32 {
		buf := newScalarBuffer(src, 1)
		tables := build(s)
		switch {
		case s == 0:
			// Pure crease: only the clearing pass of kernel A runs.
			tables.ComputeVertexPointsA(buf, false, 9, 0, 0, 1)
		case s == 1:
			// Pure smooth: only kernel B runs.
			tables.ComputeVertexPointsB(buf, 9, 0, 0, 1)
		default:
			// Blended: B clears and lays down the scaled smooth mask,
			// then A's accumulating pass adds the crease remainder.
			tables.ComputeVertexPointsB(buf, 9, 0, 0, 1)
			tables.ComputeVertexPointsA(buf, true, 9, 0, 0, 1)
		}
		return buf.Vertex(9)[0]
	}

	prev := eval(0)
	if !approx(prev, crease, 1e-5) {
		t.Fatalf("eval(0) = %v, want pure crease %v", prev, crease)
	}
	for i := 1; i <= 64; i++ {
		s := float32(i) / 64
		got := eval(s)
		want := s*smooth + (1-s)*crease
		if !approx(got, want, 1e-4) {
			t.Errorf("eval(%v) = %v, want %v", s, got, want)
		}
		// No jumps anywhere along the sweep.
		if step := got - prev; step > 0.2 || step < -0.2 {
			t.Errorf("discontinuity at s=%v: step %v", s, step)
		}
		prev = got
	}
	if !approx(eval(1), smooth, 1e-5) {
		t.Errorf("eval(1) = %v, want pure smooth %v", eval(1), smooth)
	}
}

// TestVertexPointVaryingParentExact checks that the varying attribute of a
// vertex-point equals the parent exactly no matter which kernel
// combination produced the record.
func TestVertexPointVaryingParentExact(t *testing.T) {
	src := []float32{10, 2, 6, 14, 3, 9, 1, 13, 4}
	const parent = 8

	tables := catmarkTables(t, TableData{
		VertITa: []int32{0, 4, parent, 0, 1},
		VertIT:  []int32{0, 1, 2, 3, 4, 5, 6, 7},
		VertW:   []float32{0.375},
	})

	// Crease/corner kernel, both passes.
	buf := newScalarBuffer(src, 1)
	tables.ComputeVertexPointsA(buf, false, 9, 0, 0, 1)
	tables.ComputeVertexPointsA(buf, true, 9, 0, 0, 1)
	if got, want := buf.Varying(9)[0], src[parent]; got != want {
		t.Errorf("varying after A1+A2 = %v, want exactly %v", got, want)
	}

	// Smooth kernel followed by the accumulating crease pass.
	buf = newScalarBuffer(src, 1)
	tables.ComputeVertexPointsB(buf, 9, 0, 0, 1)
	tables.ComputeVertexPointsA(buf, true, 9, 0, 0, 1)
	if got, want := buf.Varying(9)[0], src[parent]; got != want {
		t.Errorf("varying after B+A2 = %v, want exactly %v", got, want)
	}
}
