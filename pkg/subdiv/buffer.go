package subdiv

// Buffer is the capability contract the kernels require of vertex storage:
// reset a record, accumulate a weighted primary attribute, and accumulate a
// weighted varying attribute. Any attribute layout satisfying this contract
// (positions, arbitrary-width primvars) can be subdivided unchanged.
//
// Indices are global: level 0 holds the control cage, each refined level is
// appended after all prior levels. A kernel invocation only ever writes its
// own destination record and reads already-finalized earlier records.
type Buffer interface {
	Clear(i int)
	AddWithWeight(dst, src int, weight float32)
	AddVaryingWithWeight(dst, src int, weight float32)
}

// AttrBuffer is a flat float32 vertex buffer with a primary attribute plane
// of vertexWidth elements per vertex and an independently interpolated
// varying plane of varyingWidth elements per vertex. Either width may be
// zero, in which case the corresponding accumulation is a no-op.
type AttrBuffer struct {
	vertexWidth  int
	varyingWidth int
	vertex       []float32
	varying      []float32
}

// NewAttrBuffer allocates a buffer for numVerts vertex records.
func NewAttrBuffer(vertexWidth, varyingWidth, numVerts int) *AttrBuffer {
	return &AttrBuffer{
		vertexWidth:  vertexWidth,
		varyingWidth: varyingWidth,
		vertex:       make([]float32, vertexWidth*numVerts),
		varying:      make([]float32, varyingWidth*numVerts),
	}
}

// Len returns the number of allocated vertex records.
func (b *AttrBuffer) Len() int {
	if b.vertexWidth == 0 {
		if b.varyingWidth == 0 {
			return 0
		}
		return len(b.varying) / b.varyingWidth
	}
	return len(b.vertex) / b.vertexWidth
}

// Resize grows the buffer to numVerts records, preserving existing data.
// The caller grows the buffer before computing each refinement level.
func (b *AttrBuffer) Resize(numVerts int) {
	if n := b.vertexWidth * numVerts; n > len(b.vertex) {
		b.vertex = append(b.vertex, make([]float32, n-len(b.vertex))...)
	}
	if n := b.varyingWidth * numVerts; n > len(b.varying) {
		b.varying = append(b.varying, make([]float32, n-len(b.varying))...)
	}
}

// VertexWidth returns the number of primary elements per vertex.
func (b *AttrBuffer) VertexWidth() int { return b.vertexWidth }

// VaryingWidth returns the number of varying elements per vertex.
func (b *AttrBuffer) VaryingWidth() int { return b.varyingWidth }

// Vertex returns the primary attribute slice of record i.
func (b *AttrBuffer) Vertex(i int) []float32 {
	return b.vertex[i*b.vertexWidth : (i+1)*b.vertexWidth]
}

// Varying returns the varying attribute slice of record i.
func (b *AttrBuffer) Varying(i int) []float32 {
	return b.varying[i*b.varyingWidth : (i+1)*b.varyingWidth]
}

// Floats returns the flat primary plane. Downstream consumers (renderer,
// GPU upload) must treat it as read-only.
func (b *AttrBuffer) Floats() []float32 { return b.vertex }

// VaryingFloats returns the flat varying plane, read-only for consumers.
func (b *AttrBuffer) VaryingFloats() []float32 { return b.varying }

// Clear zeroes both attribute planes of record i.
func (b *AttrBuffer) Clear(i int) {
	clearSpan(b.vertex, i, b.vertexWidth)
	clearSpan(b.varying, i, b.varyingWidth)
}

// AddWithWeight accumulates src's primary attribute into dst.
func (b *AttrBuffer) AddWithWeight(dst, src int, weight float32) {
	d := b.vertex[dst*b.vertexWidth : (dst+1)*b.vertexWidth]
	s := b.vertex[src*b.vertexWidth : (src+1)*b.vertexWidth]
	for k := range d {
		d[k] += weight * s[k]
	}
}

// AddVaryingWithWeight accumulates src's varying attribute into dst.
func (b *AttrBuffer) AddVaryingWithWeight(dst, src int, weight float32) {
	d := b.varying[dst*b.varyingWidth : (dst+1)*b.varyingWidth]
	s := b.varying[src*b.varyingWidth : (src+1)*b.varyingWidth]
	for k := range d {
		d[k] += weight * s[k]
	}
}

func clearSpan(plane []float32, i, width int) {
	for k := i * width; k < (i+1)*width; k++ {
		plane[k] = 0
	}
}
