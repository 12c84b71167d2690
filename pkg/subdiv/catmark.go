package subdiv

// The four Catmull-Clark compute kernels. Each is a pure function of the
// tables, a source/destination buffer, and a contiguous row range: row i
// (start+tableOffset <= i < end+tableOffset) writes destination record
// vertexOffset + start + (i - start - tableOffset) and reads only records
// finalized before the range being produced. Every destination index is
// written by exactly one invocation, so rows may be processed in parallel
// and in any order with identical results.
//
// The kernels assume a validated table set (see NewTables); out-of-range
// indices are a caller contract violation, not a recoverable error.

// ComputeFacePoints computes refined face-points: the uniform average of
// each face's corner vertices, applied to both attribute planes.
func (t *Tables) ComputeFacePoints(buf Buffer, vertexOffset, tableOffset, start, end int) {
	dst := vertexOffset + start
	for i := start + tableOffset; i < end+tableOffset; i, dst = i+1, dst+1 {
		buf.Clear(dst)

		h := int(t.d.FaceITa[2*i])
		n := int(t.d.FaceITa[2*i+1])
		weight := 1.0 / float32(n)

		for j := 0; j < n; j++ {
			src := int(t.d.FaceIT[h+j])
			buf.AddWithWeight(dst, src, weight)
			buf.AddVaryingWithWeight(dst, src, weight)
		}
	}
}

// ComputeEdgePoints computes refined edge-points. The primary attribute
// gets both endpoints at wVertex plus, on interior edges, the two adjacent
// face-points at wFace; wVertex = 0.5 with e2 == -1 is the pure midpoint
// (fully sharp or boundary) rule. The varying attribute is always the plain
// midpoint of the endpoints, independent of sharpness.
func (t *Tables) ComputeEdgePoints(buf Buffer, vertexOffset, tableOffset, start, end int) {
	dst := vertexOffset + start
	for i := start + tableOffset; i < end+tableOffset; i, dst = i+1, dst+1 {
		buf.Clear(dst)

		e0 := int(t.d.EdgeIT[4*i+0])
		e1 := int(t.d.EdgeIT[4*i+1])
		e2 := int(t.d.EdgeIT[4*i+2])
		e3 := int(t.d.EdgeIT[4*i+3])

		vertWeight := t.d.EdgeW[2*i+0]
		buf.AddWithWeight(dst, e0, vertWeight)
		buf.AddWithWeight(dst, e1, vertWeight)

		if e2 != -1 {
			// Fractional sharpness pulls in the adjacent face-points.
			faceWeight := t.d.EdgeW[2*i+1]
			buf.AddWithWeight(dst, e2, faceWeight)
			buf.AddWithWeight(dst, e3, faceWeight)
		}

		buf.AddVaryingWithWeight(dst, e0, 0.5)
		buf.AddVaryingWithWeight(dst, e1, 0.5)
	}
}

// ComputeVertexPointsA computes refined vertex-points under the crease and
// corner rules. It may run twice over the same range: the first pass
// (pass == false) clears and accumulates at weight 1-s, the second pass
// (pass == true) accumulates additively at weight s, where s is the row's
// stored sharpness weight. The driver must complete the first pass before
// starting the second.
func (t *Tables) ComputeVertexPointsA(buf Buffer, pass bool, vertexOffset, tableOffset, start, end int) {
	dst := vertexOffset + start
	for i := start + tableOffset; i < end+tableOffset; i, dst = i+1, dst+1 {
		if !pass {
			buf.Clear(dst)
		}

		n := int(t.d.VertITa[5*i+1])
		p := int(t.d.VertITa[5*i+2])
		eidx0 := int(t.d.VertITa[5*i+3])
		eidx1 := int(t.d.VertITa[5*i+4])

		weight := t.d.VertW[i]
		if !pass {
			weight = 1 - weight
		}

		// A fractional weight must be inverted: the stored value is shared
		// with the smooth kernel, which statistically runs far more often.
		if weight > 0 && weight < 1 && n > 0 {
			weight = 1 - weight
		}

		// A corner/crease combination keeps non-null crease edges, so a -1
		// valence marks the corner case there.
		if eidx0 == -1 || (!pass && n == -1) {
			buf.AddWithWeight(dst, p, weight)
		} else {
			buf.AddWithWeight(dst, p, weight*0.75)
			buf.AddWithWeight(dst, eidx0, weight*0.125)
			buf.AddWithWeight(dst, eidx1, weight*0.125)
		}

		// Varying tracks the parent exactly; only the clearing pass
		// contributes so stacked passes cannot double it.
		if !pass {
			buf.AddVaryingWithWeight(dst, p, 1.0)
		}
	}
}

// ComputeVertexPointsB computes refined vertex-points under the smooth and
// dart rules: the standard Catmull-Clark vertex mask scaled by the row's
// sharpness weight s, so a driver can blend it against the crease rule by
// running the second pass of ComputeVertexPointsA on top of it.
func (t *Tables) ComputeVertexPointsB(buf Buffer, vertexOffset, tableOffset, start, end int) {
	dst := vertexOffset + start
	for i := start + tableOffset; i < end+tableOffset; i, dst = i+1, dst+1 {
		buf.Clear(dst)

		h := int(t.d.VertITa[5*i+0])
		n := int(t.d.VertITa[5*i+1])
		p := int(t.d.VertITa[5*i+2])

		weight := t.d.VertW[i]
		wp := 1.0 / float32(n*n)
		wv := float32(n-2) * float32(n) * wp

		buf.AddWithWeight(dst, p, weight*wv)

		for j := 0; j < n; j++ {
			buf.AddWithWeight(dst, int(t.d.VertIT[h+2*j+0]), weight*wp)
			buf.AddWithWeight(dst, int(t.d.VertIT[h+2*j+1]), weight*wp)
		}

		buf.AddVaryingWithWeight(dst, p, 1.0)
	}
}
