package service

import (
	"context"
	"fmt"

	"github.com/mbolis/quick-contract/canvas"
	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/store"
)

// Builder is a blueprint authoring session: a list of fields on the A4
// canvas and the drag in progress, if any. It is not safe for concurrent
// use; Drafts serializes access to it.
type Builder struct {
	canvas canvas.Canvas
	fields []model.FormField
	drag   canvas.DragState
}

func NewBuilder() *Builder {
	return &Builder{canvas: canvas.A4}
}

// EditBuilder starts a session from the fields of an existing blueprint.
func EditBuilder(bp model.Blueprint) *Builder {
	b := NewBuilder()
	b.fields = bp.Clone().Fields
	return b
}

// Fields returns a copy of the fields in display order.
func (b *Builder) Fields() []model.FormField {
	out := make([]model.FormField, len(b.fields))
	for i, f := range b.fields {
		out[i] = f.Clone()
	}
	return out
}

// DragState is the current drag, Idle when nothing is being dragged.
func (b *Builder) DragState() canvas.DragState {
	return b.drag
}

// AddField appends a new field at the default origin and returns its
// index. Fields are not spread out: the author drags them apart.
func (b *Builder) AddField(t model.FieldType, text string) (int, error) {
	f, err := model.NewField(t, text)
	if err != nil {
		return -1, err
	}
	b.fields = append(b.fields, f)
	return len(b.fields) - 1, nil
}

// RemoveField deletes field i. A drag in progress is ended since indexes
// shift.
func (b *Builder) RemoveField(i int) error {
	if err := b.checkIndex(i); err != nil {
		return err
	}
	b.drag = canvas.EndDrag(b.drag)
	b.fields = append(b.fields[:i], b.fields[i+1:]...)
	return nil
}

func (b *Builder) checkIndex(i int) error {
	if i < 0 || i >= len(b.fields) {
		return fmt.Errorf("%w: no field at index %d", model.ErrInvalid, i)
	}
	return nil
}

func (b *Builder) rects() []canvas.Rect {
	rects := make([]canvas.Rect, len(b.fields))
	for i, f := range b.fields {
		rects[i] = f.Position
	}
	return rects
}

// PointerDown starts dragging field i from pointer p. Any drag in
// progress ends first, even when i names no field.
func (b *Builder) PointerDown(p canvas.Point, i int) error {
	if err := b.checkIndex(i); err != nil {
		b.drag = canvas.EndDrag(b.drag)
		return err
	}
	b.drag = b.canvas.BeginDrag(b.drag, p, i, b.rects())
	return nil
}

// PointerDownAt starts dragging the topmost field under p, if any.
func (b *Builder) PointerDownAt(p canvas.Point) (int, bool) {
	for i := len(b.fields) - 1; i >= 0; i-- {
		if b.fields[i].Position.Contains(p) {
			b.drag = b.canvas.BeginDrag(b.drag, p, i, b.rects())
			return i, true
		}
	}
	b.drag = canvas.EndDrag(b.drag)
	return -1, false
}

// PointerMove moves the dragged field after the pointer, clamped to the
// canvas. It reports false when nothing is being dragged.
func (b *Builder) PointerMove(p canvas.Point) (canvas.Move, bool) {
	move, ok := b.canvas.ContinueDrag(b.drag, p, b.rects())
	if !ok {
		return move, false
	}
	f := &b.fields[move.Index]
	f.Position = f.Position.MoveTo(move.To)
	return move, true
}

// PointerUp ends the drag.
func (b *Builder) PointerUp() {
	b.drag = canvas.EndDrag(b.drag)
}

// PointerLeave ends the drag like PointerUp so it cannot get stuck when
// the pointer leaves the canvas.
func (b *Builder) PointerLeave() {
	b.drag = canvas.EndDrag(b.drag)
}

// MoveField drags field i so its top-left corner lands as close to "to"
// as the canvas allows, and returns where it ended up.
func (b *Builder) MoveField(i int, to canvas.Point) (canvas.Point, error) {
	if err := b.checkIndex(i); err != nil {
		return canvas.Point{}, err
	}
	b.drag = b.canvas.BeginDrag(b.drag, b.fields[i].Position.Origin(), i, b.rects())
	defer b.PointerUp()
	move, _ := b.PointerMove(to)
	return move.To, nil
}

// Blueprint assembles and validates the blueprint the session describes.
func (b *Builder) Blueprint(name, description string) (model.Blueprint, error) {
	bp := model.Blueprint{
		Record: model.Record{
			Name:        name,
			Description: model.OptionalString(description),
		},
		TotalFields: len(b.fields),
		Fields:      b.Fields(),
	}
	if err := bp.Validate(); err != nil {
		return model.Blueprint{}, err
	}
	return bp, nil
}

// Save validates and stores the blueprint. The session is left untouched
// whether or not saving succeeds.
func (b *Builder) Save(ctx context.Context, st store.Store, name, description string) (model.Blueprint, error) {
	bp, err := b.Blueprint(name, description)
	if err != nil {
		return model.Blueprint{}, err
	}
	return st.SaveBlueprint(ctx, bp)
}
