package greetseed

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/permadao/greetseed/config"
	"github.com/permadao/greetseed/schema"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

// stubChain simulates submission and mining without a node.
type stubChain struct {
	mu sync.Mutex

	lastDay   int64
	submitErr error
	minedErr  error
	mintEvent bool
	tokenId   int64

	nonce     uint64
	greetings []string
	minted    []string // tokenURIs
	receipts  map[common.Hash]*types.Receipt
}

func newStubChain() *stubChain {
	return &stubChain{receipts: make(map[common.Hash]*types.Receipt)}
}

func (m *stubChain) makeTx(fee *big.Int) *types.Transaction {
	to := common.Address{}
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    m.nonce,
		To:       &to,
		Value:    fee,
		Gas:      21000,
		GasPrice: big.NewInt(1),
	})
	m.nonce++
	return tx
}

func (m *stubChain) mintReceipt(owner common.Address) *types.Receipt {
	receipt := &types.Receipt{Status: types.ReceiptStatusSuccessful}
	if m.mintEvent {
		receipt.Logs = []*types.Log{
			{
				Topics: []common.Hash{
					nftMintedTopic,
					common.BigToHash(big.NewInt(m.tokenId)),
					common.BytesToHash(owner.Bytes()),
				},
			},
		}
	}
	return receipt
}

func (m *stubChain) LastGreetingDay(ctx context.Context, owner common.Address) (int64, error) {
	return m.lastDay, nil
}

func (m *stubChain) SubmitGreeting(ctx context.Context, opts *bind.TransactOpts, message string, fee *big.Int) (*types.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	m.greetings = append(m.greetings, message)
	tx := m.makeTx(fee)
	m.receipts[tx.Hash()] = &types.Receipt{Status: types.ReceiptStatusSuccessful}
	return tx, nil
}

func (m *stubChain) MintNft(ctx context.Context, opts *bind.TransactOpts, owner common.Address, tokenURI string, fee *big.Int) (*types.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	m.minted = append(m.minted, tokenURI)
	tx := m.makeTx(fee)
	m.receipts[tx.Hash()] = m.mintReceipt(owner)
	return tx, nil
}

func (m *stubChain) AwaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.minedErr != nil {
		return nil, m.minedErr
	}
	return m.receipts[tx.Hash()], nil
}

func (m *stubChain) TxReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	receipt, ok := m.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (m *stubChain) LatestBlock(ctx context.Context) (uint64, error) {
	return 100, nil
}

func testWallet(t *testing.T) *Wallet {
	key, err := crypto.GenerateKey()
	assert.NoError(t, err)
	return &Wallet{
		expectedChainId: 1,
		key: &keystore.Key{
			PrivateKey: key,
			Address:    crypto.PubkeyToAddress(key.PublicKey),
		},
		chainId: big.NewInt(1),
		status:  schema.NetworkConnected,
	}
}

func newTestGreetseed(t *testing.T, chain ChainCaller) *Greetseed {
	gin.SetMode(gin.TestMode)
	wdb := NewSqliteDb(t.TempDir())
	assert.NoError(t, wdb.Migrate())
	store, err := NewBoltStore(t.TempDir())
	assert.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return &Greetseed{
		wdb:       wdb,
		store:     store,
		cache:     NewCache(),
		engine:    gin.New(),
		wallet:    testWallet(t),
		chain:     chain,
		config:    config.New("", t.TempDir(), true),
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

func TestSendGreetingFlow(t *testing.T) {
	chain := newStubChain()
	s := newTestGreetseed(t, chain)

	record, err := s.SendGreeting(context.Background(), "hello")
	assert.NoError(t, err)
	assert.Equal(t, schema.TxKindGreeting, record.Kind)
	assert.Equal(t, schema.TxStatusPending, record.Status)
	assert.Equal(t, schema.DefaultGreetingFee, record.Amount)
	assert.Equal(t, []string{"hello"}, chain.greetings)

	// mining simulation settles the stored record
	got, err := s.wdb.GetTransactionByHash(record.TxHash)
	assert.NoError(t, err)
	assert.Equal(t, schema.TxStatusConfirmed, got.Status)
	meta, err := got.Meta()
	assert.NoError(t, err)
	assert.Equal(t, "hello", meta.Message)

	assert.False(t, s.store.IsPendingTx(record.TxHash))
}

func TestSendGreetingValidation(t *testing.T) {
	chain := newStubChain()
	s := newTestGreetseed(t, chain)

	_, err := s.SendGreeting(context.Background(), "")
	assert.Equal(t, ErrNullPayload, err)

	_, err = s.SendGreeting(context.Background(), "123456789012345678901") // 21 chars
	assert.Equal(t, ErrGreetingTooLong, err)

	// rejected locally, nothing reached the chain or the store
	assert.Len(t, chain.greetings, 0)
	txs, err := s.wdb.GetTransactionsByAddress(s.wallet.Address().Hex())
	assert.NoError(t, err)
	assert.Len(t, txs, 0)
}

func TestSendGreetingAlreadyToday(t *testing.T) {
	chain := newStubChain()
	chain.lastDay = time.Now().UnixMilli() / schema.DayMillis
	s := newTestGreetseed(t, chain)

	_, err := s.SendGreeting(context.Background(), "gm")
	assert.Equal(t, ErrGreetedToday, err)
	assert.Len(t, chain.greetings, 0)
}

func TestSendGreetingDisconnected(t *testing.T) {
	chain := newStubChain()
	s := newTestGreetseed(t, chain)
	s.wallet.status = schema.NetworkDisconnected

	_, err := s.SendGreeting(context.Background(), "gm")
	assert.Equal(t, ErrWalletDisconnected, err)
}

func TestMintFlow(t *testing.T) {
	chain := newStubChain()
	chain.mintEvent = true
	chain.tokenId = 42
	s := newTestGreetseed(t, chain)

	record, err := s.MintTextNft(context.Background(), "T", "C")
	assert.NoError(t, err)
	assert.Equal(t, schema.TxKindMint, record.Kind)
	assert.Equal(t, schema.DefaultMintFee, record.Amount)

	got, err := s.wdb.GetTransactionByHash(record.TxHash)
	assert.NoError(t, err)
	assert.Equal(t, schema.TxStatusConfirmed, got.Status)

	nfts, err := s.wdb.GetNftsByOwner(s.wallet.Address().Hex())
	assert.NoError(t, err)
	assert.Len(t, nfts, 1)
	assert.Equal(t, "42", nfts[0].TokenId)
	assert.Equal(t, "T", nfts[0].Title)
	assert.Equal(t, "C", nfts[0].Content)
	assert.Equal(t, record.TxHash, nfts[0].TxHash)

	// the token uri carries the nft metadata document
	assert.Equal(t, "T", gjson.Get(nfts[0].TokenURI, "name").String())
	assert.Equal(t, "C", gjson.Get(nfts[0].TokenURI, "description").String())
}

func TestMintFlowNoEvent(t *testing.T) {
	chain := newStubChain()
	chain.mintEvent = false
	s := newTestGreetseed(t, chain)

	record, err := s.MintTextNft(context.Background(), "T", "C")
	assert.NoError(t, err)

	// missing mint event is tolerated: tx confirms, nft record is skipped
	got, err := s.wdb.GetTransactionByHash(record.TxHash)
	assert.NoError(t, err)
	assert.Equal(t, schema.TxStatusConfirmed, got.Status)

	nfts, err := s.wdb.GetNftsByOwner(s.wallet.Address().Hex())
	assert.NoError(t, err)
	assert.Len(t, nfts, 0)
}

func TestMintMissingContent(t *testing.T) {
	s := newTestGreetseed(t, newStubChain())
	_, err := s.MintTextNft(context.Background(), "T", "")
	assert.Equal(t, ErrNullPayload, err)
}

func TestConfirmFailureMarksFailed(t *testing.T) {
	chain := newStubChain()
	chain.minedErr = ErrTxReverted
	s := newTestGreetseed(t, chain)

	record, err := s.SendGreeting(context.Background(), "gm")
	assert.Equal(t, ErrTxReverted, err)
	assert.NotNil(t, record)

	got, err := s.wdb.GetTransactionByHash(record.TxHash)
	assert.NoError(t, err)
	assert.Equal(t, schema.TxStatusFailed, got.Status)
	assert.False(t, s.store.IsPendingTx(record.TxHash))
}

func TestInterruptedConfirmSettledBySweep(t *testing.T) {
	chain := newStubChain()
	chain.minedErr = ErrRpc
	s := newTestGreetseed(t, chain)

	record, err := s.SendGreeting(context.Background(), "gm")
	assert.Equal(t, ErrRpc, err)
	assert.NotNil(t, record)

	// outcome not observed: the record stays pending, the pool entry stays
	got, err := s.wdb.GetTransactionByHash(record.TxHash)
	assert.NoError(t, err)
	assert.Equal(t, schema.TxStatusPending, got.Status)
	assert.True(t, s.store.IsPendingTx(record.TxHash))

	// the sweep reads the real receipt and confirms
	s.reconcilePendingTxs()

	got, err = s.wdb.GetTransactionByHash(record.TxHash)
	assert.NoError(t, err)
	assert.Equal(t, schema.TxStatusConfirmed, got.Status)
	assert.False(t, s.store.IsPendingTx(record.TxHash))
}

func TestSubmitFailureLeavesNoRecord(t *testing.T) {
	chain := newStubChain()
	chain.submitErr = ErrInsufficientFunds
	s := newTestGreetseed(t, chain)

	_, err := s.SendGreeting(context.Background(), "gm")
	assert.Equal(t, ErrInsufficientFunds, err)

	txs, err := s.wdb.GetTransactionsByAddress(s.wallet.Address().Hex())
	assert.NoError(t, err)
	assert.Len(t, txs, 0)
}
