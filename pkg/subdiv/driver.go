package subdiv

import (
	"errors"
	"fmt"
)

var (
	// ErrBatchOrder is returned when a batch sequence violates the level
	// or phase ordering contract.
	ErrBatchOrder = errors.New("kernel batch out of order")

	// ErrRange is returned when a batch addresses rows or destination
	// records outside the tables or buffer.
	ErrRange = errors.New("kernel batch range out of bounds")
)

// CheckBatches verifies a batch sequence against the ordering contract and
// the table/buffer bounds before anything runs:
//
//   - levels must be non-decreasing: level L+1 reads level L's output;
//   - within a level, phases must be non-decreasing (face/edge, then the
//     crease/corner clearing pass, then smooth/dart, then the accumulating
//     pass), since the later vertex kernels land on records the earlier
//     ones cleared;
//   - an accumulating pass requires a clearing vertex batch earlier in the
//     same level;
//   - every batch must address valid table rows and allocated records.
//
// These are caller contract violations, not runtime-recoverable conditions.
func (t *Tables) CheckBatches(buf Buffer, batches []KernelBatch) error {
	bufLen := -1
	if sized, ok := buf.(interface{ Len() int }); ok {
		bufLen = sized.Len()
	}

	level := -1
	phase := 0
	cleared := false

	for i, b := range batches {
		if b.Kind == KernelFacePoints && !t.Scheme().HasFaceTables() {
			return fmt.Errorf("%w: batch %d runs %s under scheme %s", ErrRange, i, b.Kind, t.Scheme())
		}
		if b.Level < level {
			return fmt.Errorf("%w: batch %d regresses to level %d after level %d", ErrBatchOrder, i, b.Level, level)
		}
		if b.Level > level {
			level = b.Level
			phase = 0
			cleared = false
		}
		p := b.Kind.Phase()
		if p < phase {
			return fmt.Errorf("%w: batch %d (%s) after a later phase of level %d", ErrBatchOrder, i, b.Kind, level)
		}
		phase = p
		switch b.Kind {
		case KernelVertexPointsA1, KernelVertexPointsB:
			cleared = true
		case KernelVertexPointsA2:
			if !cleared {
				return fmt.Errorf("%w: batch %d accumulates vertex-points with no clearing pass in level %d", ErrBatchOrder, i, level)
			}
		}

		if b.Start < 0 || b.End < b.Start || b.TableOffset < 0 {
			return fmt.Errorf("%w: batch %d has range [%d,%d) offset %d", ErrRange, i, b.Start, b.End, b.TableOffset)
		}
		if rows := t.tableRows(b.Kind); b.End+b.TableOffset > rows {
			return fmt.Errorf("%w: batch %d rows [%d,%d) exceed %d %s rows",
				ErrRange, i, b.Start+b.TableOffset, b.End+b.TableOffset, rows, b.Kind)
		}
		if bufLen >= 0 && (b.VertexOffset+b.Start < 0 || b.VertexOffset+b.End > bufLen) {
			return fmt.Errorf("%w: batch %d writes records [%d,%d) in a buffer of %d",
				ErrRange, i, b.VertexOffset+b.Start, b.VertexOffset+b.End, bufLen)
		}
	}
	return nil
}

// Refine executes the batch sequence in order on buf, one kernel at a time.
// It is the sequential level driver: the batch order already encodes the
// required barriers, so running batches back to back on one goroutine
// satisfies the ordering contract trivially. Callers wanting parallel
// execution split batches across workers with barriers between phases and
// levels; results are identical either way because each destination record
// is written by exactly one row.
func (t *Tables) Refine(buf Buffer, batches []KernelBatch) error {
	if err := t.CheckBatches(buf, batches); err != nil {
		return err
	}
	for _, b := range batches {
		b.Run(t, buf, b.Start, b.End)
	}
	return nil
}
