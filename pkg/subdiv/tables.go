// Package subdiv implements uniform Catmull-Clark subdivision driven by
// precomputed index/weight tables. The tables describe, per refined vertex,
// which source vertices contribute and with what blend weight, so refinement
// reduces to a handful of weighted-average kernels with no mesh traversal and
// no data dependencies inside a destination range. The same tables can drive
// a CPU worker pool or be uploaded as flat buffers to a GPU compute pipeline.
package subdiv

import (
	"errors"
	"fmt"
)

// ErrMalformedTable is returned when a table set violates its invariants.
var ErrMalformedTable = errors.New("malformed subdivision table")

// Scheme identifies the subdivision scheme a table set was built for.
type Scheme int

const (
	SchemeBilinear Scheme = iota
	SchemeCatmark
	SchemeLoop
)

// HasFaceTables reports whether the scheme refines faces into face-points.
// Triangle-based schemes carry 5 tables instead of 7.
func (s Scheme) HasFaceTables() bool {
	return s != SchemeLoop
}

// NumTables returns the number of flat arrays in a table set for the scheme.
func (s Scheme) NumTables() int {
	if s.HasFaceTables() {
		return 7
	}
	return 5
}

func (s Scheme) String() string {
	switch s {
	case SchemeBilinear:
		return "bilinear"
	case SchemeCatmark:
		return "catmark"
	case SchemeLoop:
		return "loop"
	}
	return fmt.Sprintf("scheme(%d)", int(s))
}

// TableData holds the flat index/weight arrays produced by an external table
// builder. All offsets are row-relative as documented per field; vertex
// indices are global indices into the shared vertex buffer.
type TableData struct {
	Scheme   Scheme
	MaxLevel int

	// FaceITa holds (offset, valence) pairs per face-point row. The valence
	// source indices for a row start at FaceIT[offset].
	FaceITa []int32
	FaceIT  []int32

	// EdgeIT holds (e0, e1, e2, e3) per edge-point row: the edge endpoints
	// and the two adjacent face-points. e2 == -1 marks a boundary or fully
	// sharp edge, in which case e3 is ignored.
	EdgeIT []int32

	// EdgeW holds (wVertex, wFace) pairs per edge-point row. wVertex is in
	// (0, 0.5]; 0.5 is the pure midpoint (fully sharp) rule.
	EdgeW []float32

	// VertITa holds (offset, valence, parent, creaseEdge0, creaseEdge1) per
	// vertex-point row. valence == -1 marks a pure corner; creaseEdge0 == -1
	// means no crease rule applies. The 2*valence neighbor indices for a row
	// start at VertIT[offset], stored as (adjacent vertex, face-point) pairs.
	VertITa []int32
	VertIT  []int32

	// VertW holds the per-vertex sharpness weight in [0, 1].
	VertW []float32
}

// Tables is an immutable subdivision table set. The kernels only ever read
// the tables; the caller must not mutate the arrays after construction.
type Tables struct {
	d TableData
}

// NewTables validates the table data and wraps it in an immutable table set.
// Violations of the documented invariants are reported as ErrMalformedTable;
// a rejected table set must never reach the kernels.
func NewTables(d TableData) (*Tables, error) {
	if err := validate(&d); err != nil {
		return nil, err
	}
	return &Tables{d: d}, nil
}

// Scheme returns the subdivision scheme the tables were built for.
func (t *Tables) Scheme() Scheme { return t.d.Scheme }

// MaxLevel returns the maximum refinement depth the tables cover.
func (t *Tables) MaxLevel() int { return t.d.MaxLevel }

// NumFacePoints returns the number of face-point rows.
func (t *Tables) NumFacePoints() int { return len(t.d.FaceITa) / 2 }

// NumEdgePoints returns the number of edge-point rows.
func (t *Tables) NumEdgePoints() int { return len(t.d.EdgeIT) / 4 }

// NumVertexPoints returns the number of vertex-point rows.
func (t *Tables) NumVertexPoints() int { return len(t.d.VertITa) / 5 }

// Flat read-only views for downstream consumers (GPU buffer upload). Callers
// must treat the returned slices as immutable.

func (t *Tables) FaceITa() []int32 { return t.d.FaceITa }
func (t *Tables) FaceIT() []int32  { return t.d.FaceIT }
func (t *Tables) EdgeIT() []int32  { return t.d.EdgeIT }
func (t *Tables) EdgeW() []float32 { return t.d.EdgeW }
func (t *Tables) VertITa() []int32 { return t.d.VertITa }
func (t *Tables) VertIT() []int32  { return t.d.VertIT }
func (t *Tables) VertW() []float32 { return t.d.VertW }

func validate(d *TableData) error {
	if !d.Scheme.HasFaceTables() && (len(d.FaceITa) > 0 || len(d.FaceIT) > 0) {
		return fmt.Errorf("%w: scheme %s carries no face tables", ErrMalformedTable, d.Scheme)
	}
	if err := validateFaceTables(d); err != nil {
		return err
	}
	if err := validateEdgeTables(d); err != nil {
		return err
	}
	return validateVertexTables(d)
}

func validateFaceTables(d *TableData) error {
	if len(d.FaceITa)%2 != 0 {
		return fmt.Errorf("%w: face table length %d not a multiple of 2", ErrMalformedTable, len(d.FaceITa))
	}
	for i := 0; i < len(d.FaceITa); i += 2 {
		offset, valence := d.FaceITa[i], d.FaceITa[i+1]
		if valence < 3 {
			return fmt.Errorf("%w: face row %d has valence %d", ErrMalformedTable, i/2, valence)
		}
		if offset < 0 || int(offset)+int(valence) > len(d.FaceIT) {
			return fmt.Errorf("%w: face row %d indices [%d,%d) outside source array of %d",
				ErrMalformedTable, i/2, offset, int(offset)+int(valence), len(d.FaceIT))
		}
	}
	for i, idx := range d.FaceIT {
		if idx < 0 {
			return fmt.Errorf("%w: negative face source index at %d", ErrMalformedTable, i)
		}
	}
	return nil
}

func validateEdgeTables(d *TableData) error {
	if len(d.EdgeIT)%4 != 0 {
		return fmt.Errorf("%w: edge table length %d not a multiple of 4", ErrMalformedTable, len(d.EdgeIT))
	}
	rows := len(d.EdgeIT) / 4
	if len(d.EdgeW) != rows*2 {
		return fmt.Errorf("%w: edge weight table has %d entries, want %d", ErrMalformedTable, len(d.EdgeW), rows*2)
	}
	for i := 0; i < rows; i++ {
		e := d.EdgeIT[4*i : 4*i+4]
		if e[0] < 0 || e[1] < 0 {
			return fmt.Errorf("%w: edge row %d has negative endpoint", ErrMalformedTable, i)
		}
		if e[2] < -1 || (e[2] != -1 && e[3] < 0) {
			return fmt.Errorf("%w: edge row %d has invalid face indices (%d, %d)", ErrMalformedTable, i, e[2], e[3])
		}
		wv := d.EdgeW[2*i]
		if wv <= 0 || wv > 0.5 {
			return fmt.Errorf("%w: edge row %d vertex weight %g outside (0, 0.5]", ErrMalformedTable, i, wv)
		}
		if e[2] != -1 && d.EdgeW[2*i+1] < 0 {
			return fmt.Errorf("%w: edge row %d has negative face weight", ErrMalformedTable, i)
		}
	}
	return nil
}

func validateVertexTables(d *TableData) error {
	if len(d.VertITa)%5 != 0 {
		return fmt.Errorf("%w: vertex table length %d not a multiple of 5", ErrMalformedTable, len(d.VertITa))
	}
	rows := len(d.VertITa) / 5
	if len(d.VertW) != rows {
		return fmt.Errorf("%w: vertex weight table has %d entries, want %d", ErrMalformedTable, len(d.VertW), rows)
	}
	for i := 0; i < rows; i++ {
		v := d.VertITa[5*i : 5*i+5]
		offset, valence, parent, crease0, crease1 := v[0], v[1], v[2], v[3], v[4]
		if valence == 0 || valence < -1 {
			return fmt.Errorf("%w: vertex row %d has valence %d", ErrMalformedTable, i, valence)
		}
		if parent < 0 {
			return fmt.Errorf("%w: vertex row %d has negative parent index", ErrMalformedTable, i)
		}
		if valence > 0 {
			if offset < 0 || int(offset)+2*int(valence) > len(d.VertIT) {
				return fmt.Errorf("%w: vertex row %d neighbors [%d,%d) outside source array of %d",
					ErrMalformedTable, i, offset, int(offset)+2*int(valence), len(d.VertIT))
			}
		}
		if crease0 < -1 || crease1 < -1 || (crease0 != -1 && crease1 < 0) {
			return fmt.Errorf("%w: vertex row %d has invalid crease edges (%d, %d)", ErrMalformedTable, i, crease0, crease1)
		}
		if s := d.VertW[i]; s < 0 || s > 1 {
			return fmt.Errorf("%w: vertex row %d sharpness weight %g outside [0, 1]", ErrMalformedTable, i, s)
		}
	}
	for i, idx := range d.VertIT {
		if idx < 0 {
			return fmt.Errorf("%w: negative vertex neighbor index at %d", ErrMalformedTable, i)
		}
	}
	return nil
}
