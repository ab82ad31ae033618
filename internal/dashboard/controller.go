package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"platedash/internal/model"
)

// ErrNoEditSelection is returned by UpdatePlate when no plate has been picked for editing.
var ErrNoEditSelection = errors.New("no active edit selection")

type NotFoundError struct {
	ID int
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("plate not found: %d", e.ID)
}

// Store is the remote store of record for plates.
type Store interface {
	ListPlates(ctx context.Context) ([]model.Plate, error)
	CreatePlate(ctx context.Context, body model.NewPlateBody) (model.Plate, error)
	SetAvailability(ctx context.Context, id int, available bool) (model.Plate, error)
	ReplacePlate(ctx context.Context, id int, draft model.PlateDraft) (model.Plate, error)
	DeletePlate(ctx context.Context, id int) error
}

// Journal receives the outcome of every remote mutation. opErr is nil on success.
type Journal interface {
	Append(ctx context.Context, op string, plateID int, opErr error) error
}

// Journal op names.
const (
	OpCreate       = "plate.create"
	OpUpdate       = "plate.update"
	OpSetAvailable = "plate.set_available"
	OpDelete       = "plate.delete"
)

// Controller owns the plate collection shown by the dashboard and keeps it in step
// with the remote store.
//
// Every mutation makes one remote call and then splices only the affected record
// into the collection. The lock is held while splicing, never across a remote call,
// so when two responses race the later one wins.
type Controller struct {
	store   Store
	journal Journal
	logger  *log.Logger

	// editMu serializes SaveEdit so a selection cannot be swapped between
	// EditPlate and UpdatePlate by another caller.
	editMu sync.Mutex

	mu            sync.Mutex
	plates        []model.Plate
	loaded        bool
	editing       *model.Plate
	addModalOpen  bool
	editModalOpen bool
}

type Option func(*Controller)

func WithJournal(j Journal) Option {
	return func(c *Controller) { c.journal = j }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(store Store, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the full collection and replaces local state with it.
// Errors are returned to the caller untouched.
func (c *Controller) Load(ctx context.Context) error {
	plates, err := c.store.ListPlates(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.plates = append([]model.Plate(nil), plates...)
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// ToggleAvailability asks the store to set plate id's availability to available and
// replaces the local record with whatever the store returns. Nothing changes locally until the
// response arrives. Errors are returned to the caller.
func (c *Controller) ToggleAvailability(ctx context.Context, id int, available bool) error {
	updated, err := c.store.SetAvailability(ctx, id, available)
	c.record(ctx, OpSetAvailable, id, err)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.replaceLocked(updated.ID, updated)
	c.mu.Unlock()
	return nil
}

// AddPlate creates a plate from draft (always unavailable) and appends the stored
// record. A failed create is logged and otherwise ignored; the return value only
// reports whether the plate was appended.
func (c *Controller) AddPlate(ctx context.Context, draft model.PlateDraft) bool {
	created, err := c.store.CreatePlate(ctx, model.NewPlateFromDraft(draft))
	c.record(ctx, OpCreate, created.ID, err)
	if err != nil {
		c.logger.Printf("add plate %q: %v", draft.Name, err)
		return false
	}
	c.mu.Lock()
	c.plates = append(c.plates, created)
	c.mu.Unlock()
	return true
}

// UpdatePlate replaces the fields of the plate currently selected for editing.
// The target id comes from the edit selection, never from draft. A failed update is
// logged and ignored (false, nil); ErrNoEditSelection is returned without calling
// the store when nothing is selected.
func (c *Controller) UpdatePlate(ctx context.Context, draft model.PlateDraft) (bool, error) {
	c.mu.Lock()
	if c.editing == nil {
		c.mu.Unlock()
		return false, ErrNoEditSelection
	}
	targetID := c.editing.ID
	c.mu.Unlock()

	updated, err := c.store.ReplacePlate(ctx, targetID, draft)
	c.record(ctx, OpUpdate, targetID, err)
	if err != nil {
		c.logger.Printf("update plate %d: %v", targetID, err)
		return false, nil
	}
	c.mu.Lock()
	c.replaceLocked(targetID, updated)
	c.mu.Unlock()
	return true, nil
}

// SaveEdit selects p, replaces it with draft and closes the edit modal as one step.
// Callers sharing a controller across goroutines use it instead of EditPlate followed
// by UpdatePlate. The result is UpdatePlate's.
func (c *Controller) SaveEdit(ctx context.Context, p model.Plate, draft model.PlateDraft) (bool, error) {
	c.editMu.Lock()
	defer c.editMu.Unlock()

	c.EditPlate(p)
	applied, err := c.UpdatePlate(ctx, draft)
	c.mu.Lock()
	c.editModalOpen = false
	c.mu.Unlock()
	return applied, err
}

// DeletePlate deletes plate id remotely and then drops it from the collection.
// Errors are returned and the collection is left as it was.
func (c *Controller) DeletePlate(ctx context.Context, id int) error {
	err := c.store.DeletePlate(ctx, id)
	c.record(ctx, OpDelete, id, err)
	if err != nil {
		return err
	}
	c.mu.Lock()
	out := c.plates[:0:0]
	for _, p := range c.plates {
		if p.ID != id {
			out = append(out, p)
		}
	}
	c.plates = out
	c.mu.Unlock()
	return nil
}

func (c *Controller) ToggleAddModal() {
	c.mu.Lock()
	c.addModalOpen = !c.addModalOpen
	c.mu.Unlock()
}

func (c *Controller) ToggleEditModal() {
	c.mu.Lock()
	c.editModalOpen = !c.editModalOpen
	c.mu.Unlock()
}

// EditPlate selects p for editing and opens the edit modal. It is the only writer
// of the edit selection.
func (c *Controller) EditPlate(p model.Plate) {
	c.mu.Lock()
	sel := p
	c.editing = &sel
	c.editModalOpen = true
	c.mu.Unlock()
}

// Plates returns a copy of the collection in display order.
func (c *Controller) Plates() []model.Plate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Plate{}, c.plates...)
}

func (c *Controller) Plate(id int) (model.Plate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.plates {
		if p.ID == id {
			return p, true
		}
	}
	return model.Plate{}, false
}

// MustPlate is Plate with a typed not-found error, for command handlers.
func (c *Controller) MustPlate(id int) (model.Plate, error) {
	if p, ok := c.Plate(id); ok {
		return p, nil
	}
	return model.Plate{}, NotFoundError{ID: id}
}

func (c *Controller) EditingSelection() (model.Plate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editing == nil {
		return model.Plate{}, false
	}
	return *c.editing, true
}

func (c *Controller) AddModalOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addModalOpen
}

func (c *Controller) EditModalOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editModalOpen
}

// Loaded reports whether the initial fetch has completed.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// replaceLocked swaps the record with the given id for p, keeping its position.
func (c *Controller) replaceLocked(id int, p model.Plate) {
	out := make([]model.Plate, len(c.plates))
	for i, cur := range c.plates {
		if cur.ID == id {
			out[i] = p
		} else {
			out[i] = cur
		}
	}
	c.plates = out
}

func (c *Controller) record(ctx context.Context, op string, plateID int, opErr error) {
	if c.journal == nil {
		return
	}
	if err := c.journal.Append(ctx, op, plateID, opErr); err != nil {
		c.logger.Printf("journal %s: %v", op, err)
	}
}
