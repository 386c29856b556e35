package broker

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-kit/log"

	"go-transfer-route/ledger"
)

// ID names an institution in route definitions
type ID string

// Deps collaborators institutions are built with
type Deps struct {
	// Rates quote source per convertible institution
	Rates map[ID]ledger.RateProvider

	// Fees network fee source for crypto transfers
	Fees ledger.FeeProvider

	Logger log.Logger
}

// Factory builds a fresh institution with no accounts
type Factory func(deps Deps) ledger.Institution

// Registry maps institution IDs to their constructors
type Registry struct {
	lock      sync.RWMutex
	factories map[ID]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[ID]Factory{}}
}

// Register adds a constructor for id. Registering an id twice is an error.
func (r *Registry) Register(id ID, factory Factory) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.factories[id]; ok {
		return fmt.Errorf("institution already registered: %q", id)
	}
	r.factories[id] = factory
	return nil
}

// New builds a fresh institution for id. Every call returns a new
// institution, so routes never share accounts.
func (r *Registry) New(id ID, deps Deps) (ledger.Institution, error) {
	r.lock.RLock()
	factory, ok := r.factories[id]
	r.lock.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown institution: %q", id)
	}
	if deps.Logger == nil {
		deps.Logger = log.NewNopLogger()
	}
	return factory(deps), nil
}

// IDs registered institution IDs, sorted
func (r *Registry) IDs() []ID {
	r.lock.RLock()
	defer r.lock.RUnlock()
	ids := make([]ID, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
