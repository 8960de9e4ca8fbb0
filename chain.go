package greetseed

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/permadao/greetseed/schema"
)

var (
	greeterAbi abi.ABI
	minterAbi  abi.ABI

	nftMintedTopic common.Hash
)

func init() {
	var err error
	greeterAbi, err = abi.JSON(strings.NewReader(schema.GreeterABI))
	if err != nil {
		panic(err)
	}
	minterAbi, err = abi.JSON(strings.NewReader(schema.MinterABI))
	if err != nil {
		panic(err)
	}
	nftMintedTopic = minterAbi.Events["NFTMinted"].ID
}

// ChainCaller is the contract surface the lifecycle flows consume. The live
// implementation is EthChain; tests substitute a stub that simulates mining.
type ChainCaller interface {
	LastGreetingDay(ctx context.Context, owner common.Address) (int64, error)
	SubmitGreeting(ctx context.Context, opts *bind.TransactOpts, message string, fee *big.Int) (*types.Transaction, error)
	MintNft(ctx context.Context, opts *bind.TransactOpts, owner common.Address, tokenURI string, fee *big.Int) (*types.Transaction, error)
	AwaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
	TxReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	LatestBlock(ctx context.Context) (uint64, error)
}

// EthChain wraps the greeting registry and the NFT minter contracts.
type EthChain struct {
	client  *ethclient.Client
	greeter *bind.BoundContract
	minter  *bind.BoundContract
}

func NewEthChain(ctx context.Context, rpcUrl string, greeterAddr, minterAddr common.Address) (*EthChain, *ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcUrl)
	if err != nil {
		log.Error("ethclient.DialContext(rpcUrl)", "err", err, "rpcUrl", rpcUrl)
		return nil, nil, ErrProviderUnavailable
	}
	c := &EthChain{
		client:  client,
		greeter: bind.NewBoundContract(greeterAddr, greeterAbi, client, client, client),
		minter:  bind.NewBoundContract(minterAddr, minterAbi, client, client, client),
	}
	return c, client, nil
}

// LastGreetingDay reads the registry; 0 means the owner never greeted.
func (c *EthChain) LastGreetingDay(ctx context.Context, owner common.Address) (int64, error) {
	out := make([]interface{}, 0)
	err := c.greeter.Call(&bind.CallOpts{Context: ctx}, &out, "getLastGreetingDay", owner)
	if err != nil {
		log.Error("greeter.Call(getLastGreetingDay)", "err", err, "owner", owner.Hex())
		return 0, ErrRpc
	}
	day := abi.ConvertType(out[0], new(big.Int)).(*big.Int)
	return day.Int64(), nil
}

func (c *EthChain) SubmitGreeting(ctx context.Context, opts *bind.TransactOpts, message string, fee *big.Int) (*types.Transaction, error) {
	callOpts := *opts
	callOpts.Context = ctx
	callOpts.Value = fee
	tx, err := c.greeter.Transact(&callOpts, "greet", message)
	if err != nil {
		log.Error("greeter.Transact(greet)", "err", err)
		return nil, mapProviderErr(err)
	}
	return tx, nil
}

func (c *EthChain) MintNft(ctx context.Context, opts *bind.TransactOpts, owner common.Address, tokenURI string, fee *big.Int) (*types.Transaction, error) {
	callOpts := *opts
	callOpts.Context = ctx
	callOpts.Value = fee
	tx, err := c.minter.Transact(&callOpts, "mintNFT", owner, tokenURI)
	if err != nil {
		log.Error("minter.Transact(mintNFT)", "err", err)
		return nil, mapProviderErr(err)
	}
	return tx, nil
}

// AwaitMined blocks until the transaction is included in a block; no timeout
// of its own, bound the wait through ctx.
func (c *EthChain) AwaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.client, tx)
	if err != nil {
		log.Error("bind.WaitMined(tx)", "err", err, "txHash", tx.Hash().Hex())
		return nil, ErrRpc
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, ErrTxReverted
	}
	return receipt, nil
}

func (c *EthChain) TxReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return c.client.TransactionReceipt(ctx, txHash)
}

func (c *EthChain) LatestBlock(ctx context.Context) (uint64, error) {
	return c.client.BlockNumber(ctx)
}

// MintedTokenId scans receipt logs for the first NFTMinted event and returns
// its token id argument. ErrEventNotFound when no matching log is present;
// callers tolerate that by skipping NFT record creation.
func MintedTokenId(receipt *types.Receipt) (string, error) {
	for _, lg := range receipt.Logs {
		if lg == nil || len(lg.Topics) < 2 {
			continue
		}
		if lg.Topics[0] == nftMintedTopic {
			tokenId := new(big.Int).SetBytes(lg.Topics[1].Bytes())
			return tokenId.String(), nil
		}
	}
	return "", ErrEventNotFound
}

// CanGreetToday applies the once-per-UTC-day rule: eligible when the owner
// never greeted or the recorded day bucket is strictly behind today's.
// day = floor(unix-millis / 86,400,000)
func CanGreetToday(lastDay int64, now time.Time) bool {
	if lastDay == 0 {
		return true
	}
	today := now.UnixMilli() / schema.DayMillis
	return today > lastDay
}

func mapProviderErr(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient funds"):
		return ErrInsufficientFunds
	case strings.Contains(msg, "denied"), strings.Contains(msg, "reject"):
		return ErrTxRejected
	default:
		return ErrRpc
	}
}
