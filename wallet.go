package greetseed

import (
	"context"
	"math/big"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/permadao/greetseed/schema"
)

// Wallet is the keystore-backed session signing the value-bearing calls.
// The session carries no persistence of its own; status is re-derived from
// the node on every check.
type Wallet struct {
	client          *ethclient.Client
	keyPath         string
	passphrase      string
	expectedChainId int64

	locker  sync.RWMutex
	key     *keystore.Key
	chainId *big.Int
	status  schema.NetworkStatus
}

func NewWallet(client *ethclient.Client, keyPath, passphrase string, expectedChainId int64) *Wallet {
	return &Wallet{
		client:          client,
		keyPath:         keyPath,
		passphrase:      passphrase,
		expectedChainId: expectedChainId,
		status:          schema.NetworkDisconnected,
	}
}

// Connect loads the keystore account and checks the node's chain id against
// the expected one. A chain-id mismatch is advisory: the session ends up in
// wrong_network and signing is refused, but no error is returned.
func (w *Wallet) Connect(ctx context.Context) error {
	if w.client == nil {
		return ErrProviderUnavailable
	}

	w.locker.Lock()
	defer w.locker.Unlock()

	if w.key == nil {
		keyJson, err := os.ReadFile(w.keyPath)
		if err != nil {
			log.Error("read wallet keyfile", "err", err, "path", w.keyPath)
			return ErrSigningUnavailable
		}
		key, err := keystore.DecryptKey(keyJson, w.passphrase)
		if err != nil {
			log.Error("keystore.DecryptKey(keyJson)", "err", err)
			return ErrSigningUnavailable
		}
		w.key = key
	}

	return w.checkNetwork(ctx)
}

// CheckConnection re-derives the network status without loading the key; a
// session that never connected stays disconnected.
func (w *Wallet) CheckConnection(ctx context.Context) schema.NetworkStatus {
	w.locker.Lock()
	defer w.locker.Unlock()

	if w.client == nil || w.key == nil {
		w.status = schema.NetworkDisconnected
		return w.status
	}
	if err := w.checkNetwork(ctx); err != nil {
		w.status = schema.NetworkDisconnected
	}
	return w.status
}

// caller must hold locker
func (w *Wallet) checkNetwork(ctx context.Context) error {
	chainId, err := w.client.ChainID(ctx)
	if err != nil {
		log.Error("client.ChainID(ctx)", "err", err)
		return ErrRpc
	}
	w.chainId = chainId
	if chainId.Int64() == w.expectedChainId {
		w.status = schema.NetworkConnected
	} else {
		w.status = schema.NetworkWrongNetwork
		log.Warn("wallet on wrong network", "chainId", chainId.Int64(), "expected", w.expectedChainId)
	}
	return nil
}

func (w *Wallet) Status() schema.NetworkStatus {
	w.locker.RLock()
	defer w.locker.RUnlock()
	return w.status
}

func (w *Wallet) ChainId() int64 {
	w.locker.RLock()
	defer w.locker.RUnlock()
	if w.chainId == nil {
		return 0
	}
	return w.chainId.Int64()
}

func (w *Wallet) Address() common.Address {
	w.locker.RLock()
	defer w.locker.RUnlock()
	if w.key == nil {
		return common.Address{}
	}
	return w.key.Address
}

// Signer returns transact opts bound to the session account.
// ErrSigningUnavailable when there is no connected account, ErrWrongNetwork
// when the node answers with an unexpected chain id.
func (w *Wallet) Signer() (*bind.TransactOpts, error) {
	w.locker.RLock()
	defer w.locker.RUnlock()
	if w.key == nil || w.status == schema.NetworkDisconnected {
		return nil, ErrSigningUnavailable
	}
	if w.status != schema.NetworkConnected {
		return nil, ErrWrongNetwork
	}
	opts, err := bind.NewKeyedTransactorWithChainID(w.key.PrivateKey, w.chainId)
	if err != nil {
		log.Error("bind.NewKeyedTransactorWithChainID", "err", err)
		return nil, ErrSigningUnavailable
	}
	return opts, nil
}
