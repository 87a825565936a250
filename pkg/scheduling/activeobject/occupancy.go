package activeobject

import (
	"context"

	"github.com/vnykmshr/activeflow/pkg/common/errors"
	"github.com/vnykmshr/activeflow/pkg/scheduling/task"
)

// ErrVacant is returned by Occupancy.Quit when nobody holds the resource.
var ErrVacant = errors.New("occupancy: already vacant")

// Occupancy is a single-holder gate whose state is owned by an engine.
// Enter never blocks waiting for the holder to leave; it reports whether the
// caller got in.
type Occupancy struct {
	engine   *Engine
	occupied bool
}

// NewOccupancy creates a vacant gate served by e.
func NewOccupancy(e *Engine) *Occupancy {
	return &Occupancy{engine: e}
}

// Enter takes the gate. It returns true if the gate was vacant and is now
// held by the caller, false if someone already holds it.
func (o *Occupancy) Enter(ctx context.Context) (bool, error) {
	return Call(ctx, o.engine, task.Func[bool](func(context.Context) (bool, error) {
		if o.occupied {
			return false, nil
		}
		o.occupied = true
		return true, nil
	}))
}

// Quit releases the gate. Releasing a vacant gate fails with an error
// matching ErrVacant.
func (o *Occupancy) Quit(ctx context.Context) error {
	_, err := Call(ctx, o.engine, task.Func[struct{}](func(context.Context) (struct{}, error) {
		if !o.occupied {
			return struct{}{}, ErrVacant
		}
		o.occupied = false
		return struct{}{}, nil
	}))
	return err
}

// Occupied reports whether the gate is currently held.
func (o *Occupancy) Occupied(ctx context.Context) (bool, error) {
	return Call(ctx, o.engine, task.Func[bool](func(context.Context) (bool, error) {
		return o.occupied, nil
	}))
}
