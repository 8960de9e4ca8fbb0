package greetseed

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/panjf2000/ants/v2"
	"github.com/permadao/greetseed/schema"
)

// a pending record younger than this is assumed to still be inside a
// live submit-and-confirm flow
const pendingTxGrace = 2 * time.Minute

func (s *Greetseed) runJobs() {
	s.scheduler.Every(30).Seconds().SingletonMode().Do(s.reconcilePendingTxs)
	s.scheduler.Every(1).Minute().SingletonMode().Do(s.refreshChainStatus)
	s.scheduler.Every(1).Minute().SingletonMode().Do(s.checkWalletConnection)

	s.scheduler.StartAsync()
}

func (s *Greetseed) refreshChainStatus() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	block, err := s.chain.LatestBlock(ctx)
	if err != nil {
		log.Error("s.chain.LatestBlock(ctx)", "err", err)
		return
	}
	s.cache.UpdateChainStatus(s.wallet.ChainId(), block)
}

func (s *Greetseed) checkWalletConnection() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.wallet.CheckConnection(ctx)
}

// reconcilePendingTxs settles transactions whose confirmation was missed:
// pool entries left over from interrupted flows plus any record stuck in
// pending beyond the grace window.
func (s *Greetseed) reconcilePendingTxs() {
	hashes, err := s.store.LoadPendingTxHashes()
	if err != nil {
		log.Error("s.store.LoadPendingTxHashes()", "err", err)
		return
	}
	pendingSet := make(map[string]struct{}, len(hashes))
	for _, h := range hashes {
		pendingSet[h] = struct{}{}
	}
	stuck, err := s.wdb.GetPendingTxs(time.Now().Add(-pendingTxGrace))
	if err != nil {
		log.Error("s.wdb.GetPendingTxs(cutoff)", "err", err)
		return
	}
	for _, tx := range stuck {
		pendingSet[tx.TxHash] = struct{}{}
	}
	if len(pendingSet) == 0 {
		return
	}

	var wg sync.WaitGroup
	p, err := ants.NewPoolWithFunc(s.config.GetSweepConcurrent(), func(i interface{}) {
		defer wg.Done()
		s.reconcileTx(i.(string))
	})
	if err != nil {
		log.Error("ants.NewPoolWithFunc(sweepConcurrent)", "err", err)
		return
	}
	defer p.Release()

	for txHash := range pendingSet {
		wg.Add(1)
		if err := p.Invoke(txHash); err != nil {
			wg.Done()
			log.Error("p.Invoke(txHash)", "err", err, "txHash", txHash)
		}
	}
	wg.Wait()
}

func (s *Greetseed) reconcileTx(txHash string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	receipt, err := s.chain.TxReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		if err == ethereum.NotFound {
			// not mined yet, keep waiting
			return
		}
		log.Error("s.chain.TxReceipt(ctx,txHash)", "err", err, "txHash", txHash)
		return
	}

	record, err := s.wdb.GetTransactionByHash(txHash)
	if err != nil {
		if err == ErrNotExist {
			// pool entry without a record, nothing left to settle
			if derr := s.store.DelPendingTx(txHash); derr != nil {
				log.Error("s.store.DelPendingTx(txHash)", "err", derr, "txHash", txHash)
			}
			return
		}
		log.Error("s.wdb.GetTransactionByHash(txHash)", "err", err, "txHash", txHash)
		return
	}
	if record.Status != schema.TxStatusPending {
		if derr := s.store.DelPendingTx(txHash); derr != nil {
			log.Error("s.store.DelPendingTx(txHash)", "err", derr, "txHash", txHash)
		}
		return
	}

	status := schema.TxStatusConfirmed
	if receipt.Status == types.ReceiptStatusFailed {
		status = schema.TxStatusFailed
	}

	tokenId := ""
	if record.Kind == schema.TxKindMint && status == schema.TxStatusConfirmed {
		exist, err := s.wdb.ExistNftByTxHash(txHash)
		if err != nil {
			log.Error("s.wdb.ExistNftByTxHash(txHash)", "err", err, "txHash", txHash)
		} else if !exist {
			meta, err := record.Meta()
			if err != nil {
				log.Error("record.Meta()", "err", err, "txHash", txHash)
			} else {
				tokenId = s.recordMintedNft(&record, meta, receipt)
			}
		}
	}
	s.finishTx(&record, status, tokenId)
	log.Info("reconciled pending tx", "txHash", txHash, "status", status)
}
