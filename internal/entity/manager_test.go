package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/assetledger/internal/state"
	"github.com/mesh-intelligence/assetledger/pkg/types"
)

func TestLoadNotFound(t *testing.T) {
	m := NewManager(state.NewMemoryStore())

	_, err := m.LoadItem("nope")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = m.LoadOwner("nope")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = m.Load(types.Kind(99), "nope")
	assert.ErrorIs(t, err, types.ErrInvalidKind)
}

func TestLoadReturnsCachedInstance(t *testing.T) {
	s := state.NewMemoryStore()
	m := seed(t, s, []string{"A"}, map[string]string{"x1": "A"})

	first, err := m.LoadItem("x1")
	require.NoError(t, err)
	second, err := m.LoadItem("x1")
	require.NoError(t, err)
	assert.Same(t, first, second)

	first.Color = "green"
	e, err := m.Load(types.KindItem, "x1")
	require.NoError(t, err)
	assert.Equal(t, "green", e.(*types.Item).Color, "mutations are visible to every holder in the invocation")

	owner, err := m.LoadOwner("A")
	require.NoError(t, err)
	again, err := m.LoadOwner("A")
	require.NoError(t, err)
	assert.Same(t, owner, again)
}

func TestLoadCorruptRecords(t *testing.T) {
	tests := []struct {
		name  string
		kind  types.Kind
		id    string
		key   string
		value string
	}{
		{name: "item not json", kind: types.KindItem, id: "x1", key: itemKey("x1"), value: "{broken"},
		{name: "item id mismatch", kind: types.KindItem, id: "x1", key: itemKey("x1"), value: `{"item_id":"x2","owner_id":"A"}`},
		{name: "item without owner", kind: types.KindItem, id: "x1", key: itemKey("x1"), value: `{"item_id":"x1"}`},
		{name: "owner not json", kind: types.KindOwner, id: "A", key: ownerKey("A"), value: "[]"},
		{name: "owner id mismatch", kind: types.KindOwner, id: "A", key: ownerKey("A"), value: `{"owner_id":"B"}`},
		{name: "owner duplicate items", kind: types.KindOwner, id: "A", key: ownerKey("A"), value: `{"owner_id":"A","owned_item_ids":["x1","x1"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := state.NewMemoryStore()
			require.NoError(t, s.Put(tt.key, []byte(tt.value)))
			m := NewManager(s)

			_, err := m.Load(tt.kind, tt.id)
			assert.ErrorIs(t, err, types.ErrInvalidState)
			assert.NotErrorIs(t, err, types.ErrNotFound)

			exists, err := m.Exists(tt.kind, tt.id)
			assert.ErrorIs(t, err, types.ErrInvalidState, "corruption must not read as absence")
			assert.False(t, exists)
		})
	}
}

func TestLoadOwnerNormalizesOrder(t *testing.T) {
	s := state.NewMemoryStore()
	require.NoError(t, s.Put(ownerKey("A"), []byte(`{"owner_id":"A","owned_item_ids":["x2","x1"]}`)))

	o, err := NewManager(s).LoadOwner("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"x1", "x2"}, o.OwnedItemIDs)
}

func TestExists(t *testing.T) {
	s := state.NewMemoryStore()
	m := seed(t, s, []string{"A"}, map[string]string{"x1": "A"})

	for range 3 {
		ok, err := m.ItemExists("x1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = m.ItemExists("x9")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = m.OwnerExists("A")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = m.OwnerExists("A-not")
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestExistsPropagatesStoreFailure(t *testing.T) {
	fs := newFaultyStore()
	fs.failGet = true
	m := NewManager(fs)

	ok, err := m.ItemExists("x1")
	assert.ErrorIs(t, err, errInjected)
	assert.False(t, ok)
}

func TestSaveRoundTrip(t *testing.T) {
	s := state.NewMemoryStore()

	owner := types.NewOwner("A", "Ada", "Lovelace")
	require.NoError(t, owner.AddItem("x1"))
	item := &types.Item{ItemID: "x1", Color: "blue", Size: 5, AppraisedValue: 300, OwnerID: "A"}

	m := NewManager(s)
	require.NoError(t, m.Save(owner))
	require.NoError(t, m.Save(item))

	fresh := NewManager(s)
	gotOwner, err := fresh.LoadOwner("A")
	require.NoError(t, err)
	assert.Equal(t, owner, gotOwner)
	gotItem, err := fresh.LoadItem("x1")
	require.NoError(t, err)
	assert.Equal(t, item, gotItem)
}

func TestSaveRefreshesCache(t *testing.T) {
	s := state.NewMemoryStore()
	m := seed(t, s, []string{"A"}, map[string]string{"x1": "A"})

	_, err := m.LoadItem("x1")
	require.NoError(t, err)

	replacement := &types.Item{ItemID: "x1", Color: "red", Size: 1, AppraisedValue: 2, OwnerID: "A"}
	require.NoError(t, m.SaveItem(replacement))

	got, err := m.LoadItem("x1")
	require.NoError(t, err)
	assert.Same(t, replacement, got)
}

func TestSaveDoesNotCascade(t *testing.T) {
	fs := newFaultyStore()
	m := NewManager(fs)

	item := &types.Item{ItemID: "x1", Color: "blue", OwnerID: "A"}
	require.NoError(t, m.SaveItem(item))

	assert.Equal(t, []string{itemKey("x1")}, fs.puts, "saving an item writes only the item")
	_, found, err := fs.Get(ownerKey("A"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveRejects(t *testing.T) {
	m := NewManager(state.NewMemoryStore())

	assert.ErrorIs(t, m.SaveItem(&types.Item{OwnerID: "A"}), types.ErrInvalidID)
	assert.ErrorIs(t, m.SaveItem(types.NewItem("x1", "blue", 1, 1)), types.ErrInvalidState)
	assert.ErrorIs(t, m.SaveOwner(&types.Owner{}), types.ErrInvalidID)
	assert.ErrorIs(t, m.SaveOwner(&types.Owner{OwnerID: "A", OwnedItemIDs: []string{"x", "x"}}), types.ErrInvalidState)
}

func TestSaveNilEntity(t *testing.T) {
	s := state.NewMemoryStore()
	m := NewManager(s)

	assert.ErrorIs(t, m.Save((*types.Item)(nil)), types.ErrInvalidID)
	assert.ErrorIs(t, m.Save((*types.Owner)(nil)), types.ErrInvalidID)
	assert.ErrorIs(t, m.Save(nil), types.ErrInvalidKind)
	assert.ErrorIs(t, m.SaveItem(nil), types.ErrInvalidID)
	assert.ErrorIs(t, m.SaveOwner(nil), types.ErrInvalidID)
	assert.Empty(t, snapshot(t, s))
}

func TestSaveStoreFailureLeavesCacheAlone(t *testing.T) {
	fs := newFaultyStore()
	fs.failPut[itemKey("x1")] = true
	m := NewManager(fs)

	err := m.SaveItem(&types.Item{ItemID: "x1", OwnerID: "A"})
	assert.ErrorIs(t, err, errInjected)
	assert.NotContains(t, m.items, "x1")
}

func TestCreateOwner(t *testing.T) {
	s := state.NewMemoryStore()
	m := NewManager(s)

	o, err := m.CreateOwner("A", "Ada", "Lovelace")
	require.NoError(t, err)
	assert.Empty(t, o.OwnedItemIDs)

	_, err = m.CreateOwner("A", "Other", "Person")
	assert.ErrorIs(t, err, types.ErrAlreadyExists)

	_, err = NewManager(s).CreateOwner("A", "Other", "Person")
	assert.ErrorIs(t, err, types.ErrAlreadyExists, "detected from the store as well as the cache")

	_, err = m.CreateOwner("", "No", "Id")
	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestCreateItem(t *testing.T) {
	t.Run("registers with owner", func(t *testing.T) {
		s := state.NewMemoryStore()
		m := seed(t, s, []string{"A"}, nil)

		it := &types.Item{ItemID: "x1", Color: "blue", Size: 5, AppraisedValue: 300, OwnerID: "A"}
		require.NoError(t, m.CreateItem(it))

		fresh := NewManager(s)
		owner, err := fresh.LoadOwner("A")
		require.NoError(t, err)
		assert.Equal(t, []string{"x1"}, owner.OwnedItemIDs)
		got, err := fresh.LoadItem("x1")
		require.NoError(t, err)
		assert.Equal(t, "A", got.OwnerID)
	})

	t.Run("writes owner before item", func(t *testing.T) {
		fs := newFaultyStore()
		m := seed(t, fs, []string{"A"}, nil)
		fs.puts = nil

		require.NoError(t, m.CreateItem(&types.Item{ItemID: "x1", OwnerID: "A"}))
		assert.Equal(t, []string{ownerKey("A"), itemKey("x1")}, fs.puts)
	})

	t.Run("owner must exist", func(t *testing.T) {
		s := state.NewMemoryStore()
		m := NewManager(s)
		err := m.CreateItem(&types.Item{ItemID: "x1", OwnerID: "ghost"})
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Empty(t, snapshot(t, s))
	})

	t.Run("item must not exist", func(t *testing.T) {
		s := state.NewMemoryStore()
		m := seed(t, s, []string{"A", "B"}, map[string]string{"x1": "A"})
		before := snapshot(t, s)

		err := m.CreateItem(&types.Item{ItemID: "x1", OwnerID: "B"})
		assert.ErrorIs(t, err, types.ErrAlreadyExists)
		assert.Equal(t, before, snapshot(t, s))
	})

	t.Run("ids required", func(t *testing.T) {
		m := NewManager(state.NewMemoryStore())
		assert.ErrorIs(t, m.CreateItem(&types.Item{OwnerID: "A"}), types.ErrInvalidID)
		assert.ErrorIs(t, m.CreateItem(&types.Item{ItemID: "x1"}), types.ErrInvalidID)
	})
}

func TestDeleteItem(t *testing.T) {
	t.Run("removes record and membership", func(t *testing.T) {
		s := state.NewMemoryStore()
		m := seed(t, s, []string{"A"}, map[string]string{"x1": "A", "x2": "A"})

		require.NoError(t, m.DeleteItem("x1"))

		ok, err := m.ItemExists("x1")
		require.NoError(t, err)
		assert.False(t, ok)

		fresh := NewManager(s)
		ok, err = fresh.ItemExists("x1")
		require.NoError(t, err)
		assert.False(t, ok)
		owner, err := fresh.LoadOwner("A")
		require.NoError(t, err)
		assert.Equal(t, []string{"x2"}, owner.OwnedItemIDs)
	})

	t.Run("missing item", func(t *testing.T) {
		s := state.NewMemoryStore()
		m := seed(t, s, []string{"A"}, nil)
		assert.ErrorIs(t, m.DeleteItem("x1"), types.ErrNotFound)
	})

	t.Run("dangling owner reference writes nothing", func(t *testing.T) {
		s := state.NewMemoryStore()
		require.NoError(t, s.Put(itemKey("x1"), []byte(`{"item_id":"x1","owner_id":"ghost"}`)))
		before := snapshot(t, s)

		err := NewManager(s).DeleteItem("x1")
		assert.ErrorIs(t, err, types.ErrInvalidState)
		assert.Equal(t, before, snapshot(t, s))
	})

	t.Run("owner not listing the item writes nothing", func(t *testing.T) {
		s := state.NewMemoryStore()
		m := seed(t, s, []string{"A"}, nil)
		require.NoError(t, s.Put(itemKey("x1"), []byte(`{"item_id":"x1","owner_id":"A"}`)))
		before := snapshot(t, s)

		assert.ErrorIs(t, m.DeleteItem("x1"), types.ErrInvalidState)
		assert.Equal(t, before, snapshot(t, s))
	})
}

func TestTransferItem(t *testing.T) {
	t.Run("moves item between owners", func(t *testing.T) {
		s := state.NewMemoryStore()
		m := seed(t, s, []string{"A", "B"}, map[string]string{"x1": "A", "x2": "A"})

		prev, err := m.TransferItem("x1", "B")
		require.NoError(t, err)
		assert.Equal(t, "A", prev)

		fresh := NewManager(s)
		it, err := fresh.LoadItem("x1")
		require.NoError(t, err)
		assert.Equal(t, "B", it.OwnerID)
		a, err := fresh.LoadOwner("A")
		require.NoError(t, err)
		assert.Equal(t, []string{"x2"}, a.OwnedItemIDs)
		b, err := fresh.LoadOwner("B")
		require.NoError(t, err)
		assert.Equal(t, []string{"x1"}, b.OwnedItemIDs)
	})

	t.Run("writes current owner, new owner, item in order", func(t *testing.T) {
		fs := newFaultyStore()
		m := seed(t, fs, []string{"A", "B"}, map[string]string{"x1": "A"})
		fs.puts = nil

		_, err := m.TransferItem("x1", "B")
		require.NoError(t, err)
		assert.Equal(t, []string{ownerKey("A"), ownerKey("B"), itemKey("x1")}, fs.puts)
	})

	t.Run("already owned leaves everything unchanged", func(t *testing.T) {
		fs := newFaultyStore()
		m := seed(t, fs, []string{"A", "B"}, map[string]string{"x1": "A"})
		before := snapshot(t, fs)
		fs.puts = nil

		_, err := m.TransferItem("x1", "A")
		assert.ErrorIs(t, err, types.ErrAlreadyOwned)
		assert.Empty(t, fs.puts)
		assert.Equal(t, before, snapshot(t, fs))

		a, err := m.LoadOwner("A")
		require.NoError(t, err)
		assert.Equal(t, []string{"x1"}, a.OwnedItemIDs, "cached owner untouched")
	})

	t.Run("missing item", func(t *testing.T) {
		s := state.NewMemoryStore()
		m := seed(t, s, []string{"A"}, nil)
		_, err := m.TransferItem("x1", "A")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("missing new owner", func(t *testing.T) {
		s := state.NewMemoryStore()
		m := seed(t, s, []string{"A"}, map[string]string{"x1": "A"})
		before := snapshot(t, s)

		_, err := m.TransferItem("x1", "ghost")
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Equal(t, before, snapshot(t, s))
	})

	t.Run("diverged current owner writes nothing", func(t *testing.T) {
		s := state.NewMemoryStore()
		m := seed(t, s, []string{"A", "B"}, nil)
		require.NoError(t, s.Put(itemKey("x1"), []byte(`{"item_id":"x1","owner_id":"A"}`)))
		before := snapshot(t, s)

		_, err := m.TransferItem("x1", "B")
		assert.ErrorIs(t, err, types.ErrInvalidState)
		assert.Equal(t, before, snapshot(t, s))

		b, err := m.LoadOwner("B")
		require.NoError(t, err)
		assert.Empty(t, b.OwnedItemIDs)
	})

	t.Run("interrupted before item write leaves documented window", func(t *testing.T) {
		fs := newFaultyStore()
		m := seed(t, fs, []string{"A", "B"}, map[string]string{"x1": "A"})
		fs.failPut[itemKey("x1")] = true

		_, err := m.TransferItem("x1", "B")
		assert.ErrorIs(t, err, errInjected)

		fresh := NewManager(fs)
		a, err := fresh.LoadOwner("A")
		require.NoError(t, err)
		assert.Empty(t, a.OwnedItemIDs)
		b, err := fresh.LoadOwner("B")
		require.NoError(t, err)
		assert.Equal(t, []string{"x1"}, b.OwnedItemIDs)
		it, err := fresh.LoadItem("x1")
		require.NoError(t, err)
		assert.Equal(t, "A", it.OwnerID, "item record is stale")

		assert.NotContains(t, m.items, "x1", "failed transfer evicts what it touched")
		assert.NotContains(t, m.owners, "A")
		assert.NotContains(t, m.owners, "B")
	})

	t.Run("interrupted at first write changes nothing", func(t *testing.T) {
		fs := newFaultyStore()
		m := seed(t, fs, []string{"A", "B"}, map[string]string{"x1": "A"})
		before := snapshot(t, fs)
		fs.failPut[ownerKey("A")] = true

		_, err := m.TransferItem("x1", "B")
		assert.ErrorIs(t, err, errInjected)
		assert.Equal(t, before, snapshot(t, fs))

		it, err := m.LoadItem("x1")
		require.NoError(t, err)
		assert.Equal(t, "A", it.OwnerID, "reload after eviction sees the store")
	})
}

func TestOwnerScenario(t *testing.T) {
	s := state.NewMemoryStore()
	m := NewManager(s)

	_, err := m.CreateOwner("A", "Ada", "Lovelace")
	require.NoError(t, err)
	require.NoError(t, m.CreateItem(&types.Item{ItemID: "x1", Color: "blue", Size: 5, AppraisedValue: 300, OwnerID: "A"}))

	a, err := m.LoadOwner("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"x1"}, a.OwnedItemIDs)
	x1, err := m.LoadItem("x1")
	require.NoError(t, err)
	assert.Equal(t, "A", x1.OwnerID)

	_, err = m.CreateOwner("B", "Brad", "Bits")
	require.NoError(t, err)
	_, err = m.TransferItem("x1", "B")
	require.NoError(t, err)

	m = NewManager(s)
	a, err = m.LoadOwner("A")
	require.NoError(t, err)
	assert.Empty(t, a.OwnedItemIDs)
	b, err := m.LoadOwner("B")
	require.NoError(t, err)
	assert.Equal(t, []string{"x1"}, b.OwnedItemIDs)
	x1, err = m.LoadItem("x1")
	require.NoError(t, err)
	assert.Equal(t, "B", x1.OwnerID)

	require.NoError(t, m.DeleteItem("x1"))
	ok, err := m.ItemExists("x1")
	require.NoError(t, err)
	assert.False(t, ok)

	b, err = NewManager(s).LoadOwner("B")
	require.NoError(t, err)
	assert.Empty(t, b.OwnedItemIDs)
}

func TestOwnerOf(t *testing.T) {
	s := state.NewMemoryStore()
	m := seed(t, s, []string{"A"}, map[string]string{"x1": "A"})

	o, err := m.OwnerOf("x1")
	require.NoError(t, err)
	assert.Equal(t, "A", o.OwnerID)

	_, err = m.OwnerOf("x9")
	assert.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, s.Put(itemKey("x2"), []byte(`{"item_id":"x2","owner_id":"A"}`)))
	_, err = m.OwnerOf("x2")
	assert.ErrorIs(t, err, types.ErrInvalidState)
}

func TestItemsOf(t *testing.T) {
	s := state.NewMemoryStore()
	m := seed(t, s, []string{"A", "B"}, map[string]string{"x2": "A", "x1": "A", "y1": "B"})

	items, err := m.ItemsOf("A")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "x1", items[0].ItemID)
	assert.Equal(t, "x2", items[1].ItemID)

	_, err = m.ItemsOf("ghost")
	assert.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, s.Delete(itemKey("y1")))
	_, err = NewManager(s).ItemsOf("B")
	assert.ErrorIs(t, err, types.ErrInvalidState)
}

func TestCollections(t *testing.T) {
	s := state.NewMemoryStore()
	m := seed(t, s, []string{"B", "A"}, map[string]string{"x1": "A", "x2": "B"})

	owners, err := m.Owners()
	require.NoError(t, err)
	require.Len(t, owners, 2)
	assert.Equal(t, "A", owners[0].OwnerID)
	assert.Equal(t, "B", owners[1].OwnerID)

	items, err := m.Items()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "x1", items[0].ItemID)

	again, err := m.LoadOwner("A")
	require.NoError(t, err)
	assert.Same(t, owners[0], again, "scanned entities join the cache")
}

func TestCollectionsStoreFailure(t *testing.T) {
	fs := newFaultyStore()
	fs.failScan = true
	m := NewManager(fs)

	_, err := m.Owners()
	assert.ErrorIs(t, err, errInjected)
	_, err = m.Items()
	assert.ErrorIs(t, err, errInjected)
}
