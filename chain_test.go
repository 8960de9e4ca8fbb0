package greetseed

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/permadao/greetseed/schema"
	"github.com/stretchr/testify/assert"
)

func TestCanGreetToday(t *testing.T) {
	now := time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)
	today := now.UnixMilli() / schema.DayMillis

	// never greeted
	assert.True(t, CanGreetToday(0, now))

	// greeted on an earlier day
	assert.True(t, CanGreetToday(today-1, now))

	// already greeted today
	assert.False(t, CanGreetToday(today, now))

	// clock skew: recorded day ahead of the local clock
	assert.False(t, CanGreetToday(today+1, now))
}

func TestCanGreetTodayBoundary(t *testing.T) {
	// one millisecond before midnight UTC vs one after
	beforeMidnight := time.Date(2023, 6, 15, 23, 59, 59, 999*1e6, time.UTC)
	afterMidnight := time.Date(2023, 6, 16, 0, 0, 0, 0, time.UTC)
	day := beforeMidnight.UnixMilli() / schema.DayMillis

	assert.False(t, CanGreetToday(day, beforeMidnight))
	assert.True(t, CanGreetToday(day, afterMidnight))
}

func TestMintedTokenId(t *testing.T) {
	owner := common.HexToAddress("0x71C7656EC7ab88b098defB751B7401B5f6d8976F")
	receipt := &types.Receipt{
		Status: types.ReceiptStatusSuccessful,
		Logs: []*types.Log{
			{
				Topics: []common.Hash{
					nftMintedTopic,
					common.BigToHash(big.NewInt(42)),
					common.BytesToHash(owner.Bytes()),
				},
			},
		},
	}
	tokenId, err := MintedTokenId(receipt)
	assert.NoError(t, err)
	assert.Equal(t, "42", tokenId)
}

func TestMintedTokenIdNotFound(t *testing.T) {
	// unrelated event topic
	receipt := &types.Receipt{
		Status: types.ReceiptStatusSuccessful,
		Logs: []*types.Log{
			{
				Topics: []common.Hash{
					common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"),
					common.BigToHash(big.NewInt(42)),
				},
			},
		},
	}
	_, err := MintedTokenId(receipt)
	assert.Equal(t, ErrEventNotFound, err)

	// no logs at all
	_, err = MintedTokenId(&types.Receipt{Status: types.ReceiptStatusSuccessful})
	assert.Equal(t, ErrEventNotFound, err)
}

func TestMapProviderErr(t *testing.T) {
	assert.Equal(t, ErrInsufficientFunds, mapProviderErr(errors.New("insufficient funds for gas * price + value")))
	assert.Equal(t, ErrTxRejected, mapProviderErr(errors.New("user denied transaction signature")))
	assert.Equal(t, ErrTxRejected, mapProviderErr(errors.New("request rejected")))
	assert.Equal(t, ErrRpc, mapProviderErr(errors.New("connection refused")))
}
