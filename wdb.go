package greetseed

import (
	"os"
	"path"
	"time"

	"github.com/permadao/greetseed/schema"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteName = "greetseed.sqlite"

type Wdb struct {
	Db *gorm.DB
}

func NewMysqlDb(dsn string) *Wdb {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Error),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect mysql db success")
	return &Wdb{Db: db}
}

func NewSqliteDb(dbDir string) *Wdb {
	if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
		panic(err)
	}
	db, err := gorm.Open(sqlite.Open(path.Join(dbDir, sqliteName)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect sqlite db success")
	return &Wdb{Db: db}
}

func (w *Wdb) Migrate() error {
	return w.Db.AutoMigrate(&schema.Transaction{}, &schema.Nft{})
}

func (w *Wdb) Close() {
	sql, err := w.Db.DB()
	if err == nil {
		sql.Close()
	}
}

// CreateTransaction inserts a new record, ErrExistTx when the txHash is taken.
func (w *Wdb) CreateTransaction(tx *schema.Transaction) error {
	var count int64
	if err := w.Db.Model(&schema.Transaction{}).Where("tx_hash = ?", tx.TxHash).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrExistTx
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now()
	}
	return w.Db.Create(tx).Error
}

// GetTransactionsByAddress returns records in insertion order; empty slice
// when the address has none.
func (w *Wdb) GetTransactionsByAddress(address string) ([]schema.Transaction, error) {
	res := make([]schema.Transaction, 0)
	err := w.Db.Where("user_address = ?", address).Order("id asc").Find(&res).Error
	return res, err
}

func (w *Wdb) GetTransactionByHash(txHash string) (tx schema.Transaction, err error) {
	err = w.Db.Where("tx_hash = ?", txHash).First(&tx).Error
	if err == gorm.ErrRecordNotFound {
		err = ErrNotExist
	}
	return
}

func (w *Wdb) UpdateTxStatus(txHash, status string) (schema.Transaction, error) {
	tx, err := w.GetTransactionByHash(txHash)
	if err != nil {
		return tx, err
	}
	err = w.Db.Model(&schema.Transaction{}).Where("tx_hash = ?", txHash).Update("status", status).Error
	if err == nil {
		tx.Status = status
	}
	return tx, err
}

// GetPendingTxs lists transactions stuck in pending submitted before cutoff,
// used by the reconciliation sweep.
func (w *Wdb) GetPendingTxs(cutoff time.Time) ([]schema.Transaction, error) {
	res := make([]schema.Transaction, 0)
	err := w.Db.Where("status = ? and timestamp < ?", schema.TxStatusPending, cutoff).Find(&res).Error
	return res, err
}

// CreateNft inserts a new record, ErrExistToken when the tokenId is taken.
func (w *Wdb) CreateNft(nft *schema.Nft) error {
	var count int64
	if err := w.Db.Model(&schema.Nft{}).Where("token_id = ?", nft.TokenId).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrExistToken
	}
	if nft.CreatedAt.IsZero() {
		nft.CreatedAt = time.Now()
	}
	return w.Db.Create(nft).Error
}

func (w *Wdb) GetNftsByOwner(ownerAddress string) ([]schema.Nft, error) {
	res := make([]schema.Nft, 0)
	err := w.Db.Where("owner_address = ?", ownerAddress).Order("id asc").Find(&res).Error
	return res, err
}

func (w *Wdb) GetNftByTokenId(tokenId string) (nft schema.Nft, err error) {
	err = w.Db.Where("token_id = ?", tokenId).First(&nft).Error
	if err == gorm.ErrRecordNotFound {
		err = ErrNotExist
	}
	return
}

func (w *Wdb) ExistNftByTxHash(txHash string) (bool, error) {
	var count int64
	err := w.Db.Model(&schema.Nft{}).Where("tx_hash = ?", txHash).Count(&count).Error
	return count > 0, err
}

func (w *Wdb) UpdateNftTokenURI(tokenId, tokenURI string) (schema.Nft, error) {
	nft, err := w.GetNftByTokenId(tokenId)
	if err != nil {
		return nft, err
	}
	err = w.Db.Model(&schema.Nft{}).Where("token_id = ?", tokenId).Update("token_uri", tokenURI).Error
	if err == nil {
		nft.TokenURI = tokenURI
	}
	return nft, err
}
