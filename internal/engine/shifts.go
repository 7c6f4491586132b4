package engine

import (
	"fmt"

	"github.com/chrisdamba/tablepos/internal/models"
)

// OpenShift starts a shift. Only one shift can be open at a time.
func (e *Engine) OpenShift() (models.Shift, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if open, ok := e.currentShift(); ok {
		return models.Shift{}, fmt.Errorf("open shift (%s is open): %w", open.ID, models.ErrShiftAlreadyOpen)
	}
	shift := models.Shift{ID: e.newID(), OpenedAt: e.now()}
	e.shifts = append([]models.Shift{shift}, e.shifts...)

	e.emit(models.EventShiftOpened, shift.Clone())
	e.changed("open_shift")
	return shift.Clone(), nil
}

func (e *Engine) CloseShift() (models.Shift, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.shifts {
		if e.shifts[i].IsOpen() {
			closedAt := e.now()
			e.shifts[i].ClosedAt = &closedAt
			shift := e.shifts[i].Clone()

			e.emit(models.EventShiftClosed, shift.Clone())
			e.changed("close_shift")
			return shift, nil
		}
	}
	return models.Shift{}, fmt.Errorf("close shift: %w", models.ErrNoOpenShift)
}

// CurrentShift returns the open shift, if any.
func (e *Engine) CurrentShift() (models.Shift, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentShift()
}

func (e *Engine) currentShift() (models.Shift, bool) {
	for _, s := range e.shifts {
		if s.IsOpen() {
			return s.Clone(), true
		}
	}
	return models.Shift{}, false
}

// Shifts returns the shift log, newest first.
func (e *Engine) Shifts() []models.Shift {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.Shift, len(e.shifts))
	for i, s := range e.shifts {
		out[i] = s.Clone()
	}
	return out
}
