package greetseed

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPendingTxPool(t *testing.T) {
	s, err := NewBoltStore(t.TempDir())
	assert.NoError(t, err)
	defer s.Close()

	hashes := []string{"0xaaa", "0xbbb", "0xccc"}
	for _, h := range hashes {
		assert.NoError(t, s.PutPendingTx(h))
	}
	assert.True(t, s.IsPendingTx("0xaaa"))
	assert.False(t, s.IsPendingTx("0xzzz"))

	got, err := s.LoadPendingTxHashes()
	assert.NoError(t, err)
	sort.Strings(got)
	assert.Equal(t, hashes, got)

	for _, h := range hashes {
		assert.NoError(t, s.DelPendingTx(h))
	}
	got, err = s.LoadPendingTxHashes()
	assert.NoError(t, err)
	assert.Len(t, got, 0)

	// deleting an absent hash is a no-op
	assert.NoError(t, s.DelPendingTx("0xzzz"))
}
