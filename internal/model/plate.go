package model

import (
	"strconv"
	"strings"
)

// Plate is one food-plate record as exchanged with the remote store.
//
// ID is assigned by the remote store and never changes; it is the only key used
// when reconciling local state with a server response.
type Plate struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

// PlateDraft is what the add/edit forms produce: a plate without id and availability.
type PlateDraft struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// NewPlateBody is the create request body: the draft fields plus availability.
type NewPlateBody struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

// AvailabilityBody is the partial-update request body.
type AvailabilityBody struct {
	Available bool `json:"available"`
}

// NewPlateFromDraft builds the outbound create body. New plates always start
// unavailable; the draft itself is left untouched.
func NewPlateFromDraft(d PlateDraft) NewPlateBody {
	return NewPlateBody{
		Name:        d.Name,
		Image:       d.Image,
		Price:       d.Price,
		Description: d.Description,
		Available:   false,
	}
}

// Draft returns the editable fields of p, e.g. to prefill the edit form.
func (p Plate) Draft() PlateDraft {
	return PlateDraft{
		Name:        p.Name,
		Image:       p.Image,
		Price:       p.Price,
		Description: p.Description,
	}
}

// Title is the one-line label used by list renderers.
func (p Plate) Title() string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "(unnamed)"
	}
	return name
}

// ParseID parses a plate id as typed on the command line.
func ParseID(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
