package store

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	Name    string
	Balance int64
}

type accountKey struct {
	Owner string
	Nonce uint32
}

func (k accountKey) String() string {
	return fmt.Sprintf("%s-%d", k.Owner, k.Nonce)
}

func TestCollectionSaveLoadDelete(t *testing.T) {
	c := NewCollection[account]()
	key := accountKey{Owner: "alice", Nonce: 1}

	assert.Nil(t, c.Load(key))
	assert.False(t, c.Has(key))

	c.Save(key, &account{Name: "alice", Balance: 10})
	require.True(t, c.Has(key))
	assert.Equal(t, int64(10), c.Load(key).Balance)
	// Key and canonical id address the same slot.
	assert.Equal(t, c.Load(key), c.LoadID("alice-1"))
	assert.Equal(t, 1, c.Len())

	c.Delete(key)
	assert.Nil(t, c.Load(key))
	assert.Equal(t, 0, c.Len())
}

func TestCollectionMutationThroughPointer(t *testing.T) {
	c := NewCollection[account]()
	key := accountKey{Owner: "alice", Nonce: 1}
	c.Save(key, &account{Name: "alice"})

	c.Load(key).Balance = 42

	assert.Equal(t, int64(42), c.Load(key).Balance)
}

func TestCollectionMustLoadPanicsWhenAbsent(t *testing.T) {
	c := NewCollection[account]()
	c.Save(accountKey{Owner: "alice", Nonce: 1}, &account{Name: "alice"})

	assert.NotPanics(t, func() { c.MustLoad(accountKey{Owner: "alice", Nonce: 1}) })
	assert.Panics(t, func() { c.MustLoad(accountKey{Owner: "bob", Nonce: 1}) })
	assert.Panics(t, func() { c.MustLoadID("missing") })
}

func TestCollectionRangeVisitsAll(t *testing.T) {
	c := NewCollection[account]()
	for i := uint32(0); i < 5; i++ {
		c.Save(accountKey{Owner: "acct", Nonce: i}, &account{Balance: int64(i)})
	}

	var ids []string
	c.Range(func(id string, v *account) bool {
		ids = append(ids, id)
		return true
	})
	sort.Strings(ids)

	assert.Equal(t, []string{"acct-0", "acct-1", "acct-2", "acct-3", "acct-4"}, ids)
}

func TestCollectionRangeStopsEarly(t *testing.T) {
	c := NewCollection[account]()
	for i := uint32(0); i < 5; i++ {
		c.Save(accountKey{Owner: "acct", Nonce: i}, &account{})
	}

	visited := 0
	c.Range(func(id string, v *account) bool {
		visited++
		return false
	})

	assert.Equal(t, 1, visited)
}

func TestStringIDIsItsOwnSerialization(t *testing.T) {
	c := NewCollection[account]()
	c.Save(StringID("raw-7"), &account{Balance: 7})

	got := c.LoadID("raw-7")
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.Balance)
}
