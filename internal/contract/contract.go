// Package contract exposes the ledger operations callers invoke. Each call
// is one invocation: it gets a transaction id and a fresh entity.Manager,
// so no cached entity outlives the call that loaded it.
package contract

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/assetledger/internal/entity"
	"github.com/mesh-intelligence/assetledger/pkg/types"
)

// Contract runs ledger operations against a StateStore. It holds no
// per-invocation state and is safe for concurrent use when the store is.
type Contract struct {
	store   types.StateStore
	log     *slog.Logger
	metrics *Metrics
	newID   func() (string, error)
}

// Option configures a Contract.
type Option func(*Contract)

// WithLogger sets the logger used for invocation records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Contract) { c.log = l }
}

// WithMetrics records invocation counts and latency in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Contract) { c.metrics = m }
}

// WithIDGenerator replaces the UUID v7 generator used for transaction ids
// and generated item ids.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(c *Contract) { c.newID = fn }
}

// New returns a Contract over store. Without WithLogger it logs nothing.
func New(store types.StateStore, opts ...Option) *Contract {
	c := &Contract{
		store: store,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID: newUUID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// invoke runs fn with a fresh Manager and records the outcome.
func (c *Contract) invoke(op string, fn func(m *entity.Manager) error) error {
	start := time.Now()
	txID, err := c.newID()
	if err != nil {
		return fmt.Errorf("%s: generate transaction id: %w", op, err)
	}
	log := c.log.With("op", op, "tx_id", txID)

	err = translate(fn(entity.NewManager(c.store)))
	elapsed := time.Since(start)
	outcome := outcomeOf(err)
	c.metrics.observe(op, outcome, elapsed)

	switch {
	case err == nil:
		log.Debug("invocation complete", "duration", elapsed)
	case outcome != "error":
		log.Info("invocation rejected", "outcome", outcome, "error", err, "duration", elapsed)
	default:
		log.Error("invocation failed", "error", err, "duration", elapsed)
		err = fmt.Errorf("%s: %w", op, err)
	}
	return err
}

// CreateOwner creates an owner holding no items.
func (c *Contract) CreateOwner(ownerID, firstName, lastName string) (*types.Owner, error) {
	var owner *types.Owner
	err := c.invoke("CreateOwner", func(m *entity.Manager) error {
		var err error
		owner, err = m.CreateOwner(ownerID, firstName, lastName)
		return err
	})
	return owner, err
}

// CreateItem creates an item under an existing owner. An empty itemID is
// replaced by a generated one.
func (c *Contract) CreateItem(itemID, color string, size int, ownerID string, appraisedValue int) (*types.Item, error) {
	if itemID == "" {
		id, err := c.newID()
		if err != nil {
			return nil, fmt.Errorf("CreateItem: generate item id: %w", err)
		}
		itemID = id
	}
	it := types.NewItem(itemID, color, size, appraisedValue)
	it.OwnerID = ownerID
	err := c.invoke("CreateItem", func(m *entity.Manager) error {
		return m.CreateItem(it)
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}

// ReadItem returns the item with the given id.
func (c *Contract) ReadItem(itemID string) (*types.Item, error) {
	var it *types.Item
	err := c.invoke("ReadItem", func(m *entity.Manager) error {
		var err error
		it, err = m.LoadItem(itemID)
		return err
	})
	return it, err
}

// ReadOwner returns the owner with the given id.
func (c *Contract) ReadOwner(ownerID string) (*types.Owner, error) {
	var o *types.Owner
	err := c.invoke("ReadOwner", func(m *entity.Manager) error {
		var err error
		o, err = m.LoadOwner(ownerID)
		return err
	})
	return o, err
}

// DeleteItem removes an item and deregisters it from its owner.
func (c *Contract) DeleteItem(itemID string) error {
	return c.invoke("DeleteItem", func(m *entity.Manager) error {
		return m.DeleteItem(itemID)
	})
}

// ItemExists reports whether an item record exists.
func (c *Contract) ItemExists(itemID string) (bool, error) {
	var ok bool
	err := c.invoke("ItemExists", func(m *entity.Manager) error {
		var err error
		ok, err = m.ItemExists(itemID)
		return err
	})
	return ok, err
}

// OwnerExists reports whether an owner record exists.
func (c *Contract) OwnerExists(ownerID string) (bool, error) {
	var ok bool
	err := c.invoke("OwnerExists", func(m *entity.Manager) error {
		var err error
		ok, err = m.OwnerExists(ownerID)
		return err
	})
	return ok, err
}

// TransferItem moves an item to newOwnerID and returns the previous owner id.
func (c *Contract) TransferItem(itemID, newOwnerID string) (string, error) {
	var previous string
	err := c.invoke("TransferItem", func(m *entity.Manager) error {
		var err error
		previous, err = m.TransferItem(itemID, newOwnerID)
		return err
	})
	return previous, err
}

// GetOwnerOfItem returns the owner holding the item.
func (c *Contract) GetOwnerOfItem(itemID string) (*types.Owner, error) {
	var o *types.Owner
	err := c.invoke("GetOwnerOfItem", func(m *entity.Manager) error {
		var err error
		o, err = m.OwnerOf(itemID)
		return err
	})
	return o, err
}

// GetAllItemsOfOwner returns every item the owner holds, in id order.
func (c *Contract) GetAllItemsOfOwner(ownerID string) ([]*types.Item, error) {
	var items []*types.Item
	err := c.invoke("GetAllItemsOfOwner", func(m *entity.Manager) error {
		var err error
		items, err = m.ItemsOf(ownerID)
		return err
	})
	return items, err
}

// GetAllOwners maps every owner id to the ids of the items it holds.
func (c *Contract) GetAllOwners() (map[string][]string, error) {
	out := make(map[string][]string)
	err := c.invoke("GetAllOwners", func(m *entity.Manager) error {
		owners, err := m.Owners()
		if err != nil {
			return err
		}
		for _, o := range owners {
			out[o.OwnerID] = o.ItemIDs()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetAllItems returns every item, in id order.
func (c *Contract) GetAllItems() ([]*types.Item, error) {
	var items []*types.Item
	err := c.invoke("GetAllItems", func(m *entity.Manager) error {
		var err error
		items, err = m.Items()
		return err
	})
	return items, err
}

// Audit reports every relationship violation in the store.
func (c *Contract) Audit() ([]entity.Violation, error) {
	var violations []entity.Violation
	err := c.invoke("Audit", func(m *entity.Manager) error {
		var err error
		violations, err = m.Audit()
		return err
	})
	return violations, err
}
