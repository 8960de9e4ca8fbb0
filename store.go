package greetseed

import (
	"errors"
	"os"
	"path"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	boltAllocSize = 8 * 1024 * 1024
	boltName      = "greetseed.db"
)

var pendingTxBucket = []byte("pending-tx-pool")

// Store is the bolt-backed pool of txHashes whose confirmation is still
// outstanding. The pool survives restarts so the reconciliation sweep can
// pick up flows interrupted mid-confirmation.
type Store struct {
	BoltDb *bolt.DB
}

func NewBoltStore(boltDirPath string) (*Store, error) {
	if len(boltDirPath) == 0 {
		return nil, errors.New("boltDb dir path can not null")
	}
	if err := os.MkdirAll(boltDirPath, os.ModePerm); err != nil {
		return nil, err
	}

	boltDB, err := bolt.Open(path.Join(boltDirPath, boltName), 0660, &bolt.Options{Timeout: 2 * time.Second, InitialMmapSize: 10e6})
	if err != nil {
		if err == bolt.ErrTimeout {
			return nil, errors.New("cannot obtain database lock, database may be in use by another process")
		}
		return nil, err
	}
	boltDB.AllocSize = boltAllocSize

	kv := &Store{BoltDb: boltDB}
	if err := kv.BoltDb.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(pendingTxBucket)
		return err
	}); err != nil {
		return nil, err
	}
	return kv, nil
}

func (s *Store) Close() error {
	return s.BoltDb.Close()
}

func (s *Store) PutPendingTx(txHash string) error {
	return s.BoltDb.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(pendingTxBucket).Put([]byte(txHash), []byte("0x01"))
	})
}

func (s *Store) DelPendingTx(txHash string) error {
	return s.BoltDb.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(pendingTxBucket).Delete([]byte(txHash))
	})
}

func (s *Store) IsPendingTx(txHash string) bool {
	exist := false
	_ = s.BoltDb.View(func(tx *bolt.Tx) error {
		exist = tx.Bucket(pendingTxBucket).Get([]byte(txHash)) != nil
		return nil
	})
	return exist
}

func (s *Store) LoadPendingTxHashes() ([]string, error) {
	hashes := make([]string, 0)
	err := s.BoltDb.View(func(tx *bolt.Tx) error {
		return tx.Bucket(pendingTxBucket).ForEach(func(k, v []byte) error {
			hashes = append(hashes, string(k))
			return nil
		})
	})
	return hashes, err
}
