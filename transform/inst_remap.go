package transform

import (
	"github.com/pkg/errors"
)

// MaxInstruments is the registry capacity, the width of the XM instrument
// count as used by the driver's 8-bit sample ids.
const MaxInstruments = 256

var ErrTooManyInstruments = errors.New("too many instruments")

// Registry maps driver sample ids to dense 1-based XM instrument numbers in
// the order they are first referenced.
type Registry struct {
	ids []int
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Resolve returns the instrument number for id, assigning the next free one
// on first use. When the registry is full a new id is rejected and the
// existing assignments are left untouched.
func (r *Registry) Resolve(id int) (int, error) {
	for i, known := range r.ids {
		if known == id {
			return i + 1, nil
		}
	}
	if len(r.ids) >= MaxInstruments {
		return 0, errors.Wrapf(ErrTooManyInstruments, "sample id $%02X would be instrument %d", id, len(r.ids)+1)
	}
	r.ids = append(r.ids, id)
	return len(r.ids), nil
}

func (r *Registry) Len() int {
	return len(r.ids)
}

// IDs returns the sample ids in instrument order; IDs()[i] is instrument i+1.
func (r *Registry) IDs() []int {
	return append([]int(nil), r.ids...)
}
