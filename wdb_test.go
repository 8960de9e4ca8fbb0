package greetseed

import (
	"testing"
	"time"

	"github.com/permadao/greetseed/schema"
	"github.com/stretchr/testify/assert"
)

func testWdb(t *testing.T) *Wdb {
	db := NewSqliteDb(t.TempDir())
	err := db.Migrate()
	assert.NoError(t, err)
	return db
}

func TestCreateTransactionConflict(t *testing.T) {
	db := testWdb(t)

	tx := &schema.Transaction{
		TxHash:      "0xaaa",
		UserAddress: "0x111",
		Kind:        schema.TxKindGreeting,
		Status:      schema.TxStatusPending,
		Amount:      "0.0001",
	}
	assert.NoError(t, tx.SetMeta(schema.TxMeta{Message: "gm"}))
	assert.NoError(t, db.CreateTransaction(tx))
	assert.NotZero(t, tx.ID)

	// duplicate txHash, store unchanged
	dup := &schema.Transaction{TxHash: "0xaaa", UserAddress: "0x222", Kind: schema.TxKindMint, Status: schema.TxStatusPending, Amount: "0.001"}
	assert.Equal(t, ErrExistTx, db.CreateTransaction(dup))

	txs, err := db.GetTransactionsByAddress("0x111")
	assert.NoError(t, err)
	assert.Len(t, txs, 1)
	meta, err := txs[0].Meta()
	assert.NoError(t, err)
	assert.Equal(t, "gm", meta.Message)
}

func TestListTransactionsEmpty(t *testing.T) {
	db := testWdb(t)
	txs, err := db.GetTransactionsByAddress("0xnobody")
	assert.NoError(t, err)
	assert.NotNil(t, txs)
	assert.Len(t, txs, 0)
}

func TestUpdateTxStatus(t *testing.T) {
	db := testWdb(t)

	tx := &schema.Transaction{TxHash: "0xbbb", UserAddress: "0x111", Kind: schema.TxKindGreeting, Status: schema.TxStatusPending, Amount: "0.0001"}
	assert.NoError(t, db.CreateTransaction(tx))

	updated, err := db.UpdateTxStatus("0xbbb", schema.TxStatusConfirmed)
	assert.NoError(t, err)
	assert.Equal(t, schema.TxStatusConfirmed, updated.Status)

	got, err := db.GetTransactionByHash("0xbbb")
	assert.NoError(t, err)
	assert.Equal(t, schema.TxStatusConfirmed, got.Status)

	_, err = db.UpdateTxStatus("0xmissing", schema.TxStatusFailed)
	assert.Equal(t, ErrNotExist, err)
}

func TestGetPendingTxs(t *testing.T) {
	db := testWdb(t)

	old := &schema.Transaction{TxHash: "0xold", UserAddress: "0x111", Kind: schema.TxKindGreeting, Status: schema.TxStatusPending, Amount: "0.0001", Timestamp: time.Now().Add(-time.Hour)}
	fresh := &schema.Transaction{TxHash: "0xfresh", UserAddress: "0x111", Kind: schema.TxKindGreeting, Status: schema.TxStatusPending, Amount: "0.0001", Timestamp: time.Now()}
	settled := &schema.Transaction{TxHash: "0xdone", UserAddress: "0x111", Kind: schema.TxKindGreeting, Status: schema.TxStatusConfirmed, Amount: "0.0001", Timestamp: time.Now().Add(-time.Hour)}
	assert.NoError(t, db.CreateTransaction(old))
	assert.NoError(t, db.CreateTransaction(fresh))
	assert.NoError(t, db.CreateTransaction(settled))

	stuck, err := db.GetPendingTxs(time.Now().Add(-2 * time.Minute))
	assert.NoError(t, err)
	assert.Len(t, stuck, 1)
	assert.Equal(t, "0xold", stuck[0].TxHash)
}

func TestCreateNftConflict(t *testing.T) {
	db := testWdb(t)

	nft := &schema.Nft{TokenId: "7", OwnerAddress: "0x111", Title: "T", Content: "C", TxHash: "0xccc"}
	assert.NoError(t, db.CreateNft(nft))
	assert.NotZero(t, nft.ID)

	dup := &schema.Nft{TokenId: "7", OwnerAddress: "0x222", Content: "other", TxHash: "0xddd"}
	assert.Equal(t, ErrExistToken, db.CreateNft(dup))

	nfts, err := db.GetNftsByOwner("0x111")
	assert.NoError(t, err)
	assert.Len(t, nfts, 1)
	assert.Equal(t, "C", nfts[0].Content)
}

func TestUpdateNftTokenURI(t *testing.T) {
	db := testWdb(t)

	nft := &schema.Nft{TokenId: "9", OwnerAddress: "0x111", Content: "C", TxHash: "0xeee"}
	assert.NoError(t, db.CreateNft(nft))

	updated, err := db.UpdateNftTokenURI("9", "ipfs://meta")
	assert.NoError(t, err)
	assert.Equal(t, "ipfs://meta", updated.TokenURI)

	got, err := db.GetNftByTokenId("9")
	assert.NoError(t, err)
	assert.Equal(t, "ipfs://meta", got.TokenURI)

	_, err = db.UpdateNftTokenURI("404", "ipfs://meta")
	assert.Equal(t, ErrNotExist, err)
}

func TestExistNftByTxHash(t *testing.T) {
	db := testWdb(t)

	exist, err := db.ExistNftByTxHash("0xfff")
	assert.NoError(t, err)
	assert.False(t, exist)

	assert.NoError(t, db.CreateNft(&schema.Nft{TokenId: "11", OwnerAddress: "0x111", Content: "C", TxHash: "0xfff"}))
	exist, err = db.ExistNftByTxHash("0xfff")
	assert.NoError(t, err)
	assert.True(t, exist)
}
