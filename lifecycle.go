package greetseed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/permadao/greetseed/schema"
	"github.com/tidwall/gjson"
)

// SendGreeting runs the once-per-day greeting flow with the service wallet.
func (s *Greetseed) SendGreeting(ctx context.Context, message string) (*schema.Transaction, error) {
	if len(message) == 0 {
		return nil, ErrNullPayload
	}
	if len(message) > schema.MaxGreetingLen {
		return nil, ErrGreetingTooLong
	}
	lastDay, err := s.chain.LastGreetingDay(ctx, s.wallet.Address())
	if err != nil {
		return nil, err
	}
	if !CanGreetToday(lastDay, time.Now()) {
		return nil, ErrGreetedToday
	}
	return s.execute(ctx, schema.TxKindGreeting, schema.TxMeta{Message: message})
}

// MintTextNft runs the mint flow; title is optional, content is the NFT body.
func (s *Greetseed) MintTextNft(ctx context.Context, title, content string) (*schema.Transaction, error) {
	if len(content) == 0 {
		return nil, ErrNullPayload
	}
	meta := schema.TxMeta{
		Title:    title,
		Content:  content,
		TokenURI: buildTokenURI(title, content),
	}
	return s.execute(ctx, schema.TxKindMint, meta)
}

// Eligibility reports the greeting rate-limit state for an address.
func (s *Greetseed) Eligibility(ctx context.Context, address string) (schema.RespEligibility, error) {
	lastDay, err := s.chain.LastGreetingDay(ctx, common.HexToAddress(address))
	if err != nil {
		return schema.RespEligibility{}, err
	}
	return schema.RespEligibility{
		LastGreetingDay:      lastDay,
		CanSendGreetingToday: CanGreetToday(lastDay, time.Now()),
	}, nil
}

// execute is the submit -> persist-pending -> await-mined -> persist-final
// lifecycle shared by both flows. A failed submit leaves no record; an
// observed revert marks the record failed; an await error with no observed
// outcome leaves the record pending for the reconciliation sweep. The
// returned record is the one persisted at submit time, status pending.
func (s *Greetseed) execute(ctx context.Context, kind string, meta schema.TxMeta) (*schema.Transaction, error) {
	switch s.wallet.Status() {
	case schema.NetworkDisconnected:
		return nil, ErrWalletDisconnected
	case schema.NetworkWrongNetwork:
		return nil, ErrWrongNetwork
	}
	opts, err := s.wallet.Signer()
	if err != nil {
		return nil, err
	}

	fee := s.config.GetGreetingFee()
	if kind == schema.TxKindMint {
		fee = s.config.GetMintFee()
	}
	feeWei, err := EthToWei(fee.String())
	if err != nil {
		return nil, err
	}

	owner := s.wallet.Address()
	var tx *types.Transaction
	switch kind {
	case schema.TxKindGreeting:
		tx, err = s.chain.SubmitGreeting(ctx, opts, meta.Message, feeWei)
	case schema.TxKindMint:
		tx, err = s.chain.MintNft(ctx, opts, owner, meta.TokenURI, feeWei)
	default:
		return nil, ErrNullPayload
	}
	if err != nil {
		return nil, err
	}

	txHash := tx.Hash().Hex()
	record := &schema.Transaction{
		TxHash:      txHash,
		UserAddress: owner.Hex(),
		Kind:        kind,
		Status:      schema.TxStatusPending,
		Amount:      WeiToEth(feeWei),
		Timestamp:   time.Now(),
	}
	if err := record.SetMeta(meta); err != nil {
		return nil, err
	}
	if err := s.wdb.CreateTransaction(record); err != nil {
		log.Error("s.wdb.CreateTransaction(record)", "err", err, "txHash", txHash)
		return nil, err
	}
	if err := s.store.PutPendingTx(txHash); err != nil {
		log.Error("s.store.PutPendingTx(txHash)", "err", err, "txHash", txHash)
	}
	metricTxSubmitted(kind)
	s.cache.InvalidateAddress(record.UserAddress)

	receipt, err := s.chain.AwaitMined(ctx, tx)
	if err != nil {
		if err == ErrTxReverted {
			s.finishTx(record, schema.TxStatusFailed, "")
			return record, err
		}
		// the outcome was not observed (rpc trouble, cancelled request):
		// keep the record pending and the pool entry in place so the
		// reconciliation sweep settles it from the real receipt
		log.Warn("confirmation interrupted, left to the sweep", "err", err, "txHash", txHash)
		return record, err
	}

	tokenId := ""
	if kind == schema.TxKindMint {
		tokenId = s.recordMintedNft(record, meta, receipt)
	}
	s.finishTx(record, schema.TxStatusConfirmed, tokenId)
	return record, nil
}

// finishTx settles a pending record: status write, pool removal, cache drop,
// metrics and the optional event publish.
func (s *Greetseed) finishTx(record *schema.Transaction, status, tokenId string) {
	if _, err := s.wdb.UpdateTxStatus(record.TxHash, status); err != nil {
		log.Error("s.wdb.UpdateTxStatus(record.TxHash,status)", "err", err, "txHash", record.TxHash, "status", status)
	}
	if err := s.store.DelPendingTx(record.TxHash); err != nil {
		log.Error("s.store.DelPendingTx(record.TxHash)", "err", err, "txHash", record.TxHash)
	}
	s.cache.InvalidateAddress(record.UserAddress)
	if status == schema.TxStatusConfirmed {
		metricTxConfirmed(record.Kind)
	} else {
		metricTxFailed(record.Kind)
	}
	s.publishTxEvent(record, status, tokenId)
}

// recordMintedNft creates the NFT record out of the mint receipt. A receipt
// without the mint event is tolerated: the transaction still confirms, only
// the NFT record is skipped.
func (s *Greetseed) recordMintedNft(record *schema.Transaction, meta schema.TxMeta, receipt *types.Receipt) string {
	tokenId, err := MintedTokenId(receipt)
	if err != nil {
		log.Warn("mint event not found in receipt", "txHash", record.TxHash)
		return ""
	}

	title := meta.Title
	if title == "" {
		title = gjson.Get(meta.TokenURI, "name").String()
	}
	nft := &schema.Nft{
		TokenId:      tokenId,
		OwnerAddress: record.UserAddress,
		Title:        title,
		Content:      meta.Content,
		TxHash:       record.TxHash,
		CreatedAt:    time.Now(),
		TokenURI:     meta.TokenURI,
	}
	if err := s.wdb.CreateNft(nft); err != nil {
		if err == ErrExistToken {
			log.Warn("nft already recorded", "tokenId", tokenId)
		} else {
			log.Error("s.wdb.CreateNft(nft)", "err", err, "tokenId", tokenId)
		}
		return tokenId
	}
	metricNftMinted()
	return tokenId
}

func buildTokenURI(title, content string) string {
	meta := map[string]interface{}{
		"name":        title,
		"description": content,
		"created":     time.Now().UTC().Format(time.RFC3339),
		"attributes": []map[string]string{
			{"trait_type": "Type", "value": "Text"},
		},
	}
	by, _ := json.Marshal(meta)
	return string(by)
}
