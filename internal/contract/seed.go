package contract

import (
	"github.com/mesh-intelligence/assetledger/internal/entity"
	"github.com/mesh-intelligence/assetledger/pkg/types"
)

type seedOwner struct {
	id, first, last string
	items           []*types.Item
}

// seedData is the sample ledger InitLedger writes.
var seedData = []seedOwner{
	{id: "Tomoko1", first: "Tomoko", last: "Roy", items: []*types.Item{
		types.NewItem("asset1", "blue", 5, 300),
		types.NewItem("asset2", "red", 5, 400),
	}},
	{id: "Brad1", first: "Brad", last: "Bits", items: []*types.Item{
		types.NewItem("asset3", "green", 10, 500),
	}},
	{id: "JinSoo1", first: "Jin Soo", last: "Kim", items: []*types.Item{
		types.NewItem("asset4", "yellow", 10, 600),
		types.NewItem("asset5", "black", 15, 700),
	}},
	{id: "Max1", first: "Max", last: "Müller"},
}

// InitLedger writes the sample owners and items. Entities that already
// exist are left alone, so running it twice is harmless.
func (c *Contract) InitLedger() error {
	return c.invoke("InitLedger", func(m *entity.Manager) error {
		for _, so := range seedData {
			ok, err := m.OwnerExists(so.id)
			if err != nil {
				return err
			}
			if !ok {
				if _, err := m.CreateOwner(so.id, so.first, so.last); err != nil {
					return err
				}
			}
			for _, proto := range so.items {
				ok, err := m.ItemExists(proto.ItemID)
				if err != nil {
					return err
				}
				if ok {
					continue
				}
				it := proto.Clone()
				it.OwnerID = so.id
				if err := m.CreateItem(it); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
