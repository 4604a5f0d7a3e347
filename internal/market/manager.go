package market

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"github.com/Kris2339/MEO-PayDay/internal/parsererror"
	"github.com/Kris2339/MEO-PayDay/internal/store"
)

// Store operations reported in PersistenceError.
const (
	OperationLoad = "load"
	OperationSave = "save"
)

// ErrIndexOutOfRange is returned by Remove for a position outside the list.
var ErrIndexOutOfRange = errors.New("index out of range")

// Manager owns the session copy of the market list and keeps it in sync with a Store.
//
// Every mutation that changes the list is saved immediately and followed by a
// re-fetch so the held revision matches what the store now has. When saving
// fails the in-memory change is kept and a *parsererror.PersistenceError is returned.
type Manager struct {
	mu       sync.Mutex
	store    store.Store
	products *ProductSet
	revision string
	logger   logging.Logger
}

// NewManager returns a Manager with an empty list. Call Load to fetch the stored list.
func NewManager(st store.Store, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Manager{
		store:    st,
		products: NewProductSet(),
		logger:   logger.WithField(logging.FieldBackend, st.Name()),
	}
}

// Load replaces the session list with the stored one.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetch(ctx)
}

// Refresh discards the session list and reloads it from the store.
func (m *Manager) Refresh(ctx context.Context) error {
	return m.Load(ctx)
}

// Products returns a snapshot of the list usable for classification.
func (m *Manager) Products() *ProductSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products.Clone()
}

// Items returns the names in order.
func (m *Manager) Items() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products.Items()
}

// Len returns the number of names.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products.Len()
}

// Revision returns the store revision the session list was last synced with.
func (m *Manager) Revision() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revision
}

// AddText adds one name per non-blank line of text.
func (m *Manager) AddText(ctx context.Context, text string) ([]string, error) {
	return m.Add(ctx, SplitLines(text)...)
}

// Add appends names that are not yet present. Nothing is saved when no name was added.
func (m *Manager) Add(ctx context.Context, names ...string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	added := m.products.Add(names...)
	if len(added) == 0 {
		return nil, nil
	}
	m.logger.WithField(logging.FieldCount, len(added)).Info("Added market products")
	return added, m.persist(ctx)
}

// Remove deletes the name at index and saves the list.
func (m *Manager) Remove(ctx context.Context, index int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name, ok := m.products.RemoveAt(index)
	if !ok {
		return "", fmt.Errorf("%w: %d (list has %d items)", ErrIndexOutOfRange, index, m.products.Len())
	}
	m.logger.WithField("product", name).Info("Removed market product")
	return name, m.persist(ctx)
}

// Clear empties the list and saves it.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.products.Clear()
	m.logger.Info("Cleared market products")
	return m.persist(ctx)
}

// fetch must be called with mu held.
func (m *Manager) fetch(ctx context.Context) error {
	items, rev, err := m.store.Load(ctx)
	if err != nil {
		return &parsererror.PersistenceError{Backend: m.store.Name(), Operation: OperationLoad, Err: err}
	}
	m.products = NewProductSet(items...)
	m.revision = rev
	m.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: m.products.Len()},
		logging.Field{Key: logging.FieldRevision, Value: rev},
	).Debug("Loaded market products")
	return nil
}

// persist must be called with mu held.
func (m *Manager) persist(ctx context.Context) error {
	items := m.products.Items()
	newRev, err := m.store.Save(ctx, items, m.revision)
	if err != nil {
		m.logger.WithError(err).Error("Failed to save market products")
		return &parsererror.PersistenceError{Backend: m.store.Name(), Operation: OperationSave, Err: err}
	}
	m.revision = newRev

	// Read back so the held list and revision reflect the stored state.
	if err := m.fetch(ctx); err != nil {
		m.logger.WithError(err).Warn("Saved market products but re-fetch failed")
	}
	return nil
}
