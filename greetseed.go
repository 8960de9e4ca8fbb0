package greetseed

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/permadao/greetseed/config"
)

type Greetseed struct {
	wdb    *Wdb
	store  *Store
	cache  *Cache
	engine *gin.Engine

	wallet *Wallet
	chain  ChainCaller

	config    *config.Config
	scheduler *gocron.Scheduler
	kwriter   *KWriter // nil means eventing disabled
}

func New(
	boltDirPath, mySqlDsn string, sqliteDir string, useSqlite bool,
	rpcUrl string, chainId int64, greeterAddr, minterAddr string,
	walletKeyPath, walletPassphrase string,
	kafkaUri string,
) *Greetseed {
	KVDb, err := NewBoltStore(boltDirPath)
	if err != nil {
		panic(err)
	}

	var wdb *Wdb
	if useSqlite {
		wdb = NewSqliteDb(sqliteDir)
	} else {
		wdb = NewMysqlDb(mySqlDsn)
	}
	if err = wdb.Migrate(); err != nil {
		panic(err)
	}

	chain, ethCli, err := NewEthChain(context.Background(), rpcUrl,
		common.HexToAddress(greeterAddr), common.HexToAddress(minterAddr))
	if err != nil {
		panic(err)
	}

	var kwriter *KWriter
	if kafkaUri != "" {
		kwriter, err = NewKWriter(TxTopic, kafkaUri)
		if err != nil {
			panic(err)
		}
	}

	return &Greetseed{
		wdb:       wdb,
		store:     KVDb,
		cache:     NewCache(),
		engine:    gin.Default(),
		wallet:    NewWallet(ethCli, walletKeyPath, walletPassphrase, chainId),
		chain:     chain,
		config:    config.New(mySqlDsn, sqliteDir, useSqlite),
		scheduler: gocron.NewScheduler(time.UTC),
		kwriter:   kwriter,
	}
}

func (s *Greetseed) Run(port string) {
	s.config.Run()

	// a missing or locked wallet only disables the signing flows, the CRUD
	// api still serves
	if err := s.wallet.Connect(context.Background()); err != nil {
		log.Warn("wallet connect failed, signing flows disabled", "err", err)
	}

	go s.runAPI(port)
	go s.runJobs()
}

func (s *Greetseed) Close() {
	s.scheduler.Stop()
	s.config.Close()
	if s.kwriter != nil {
		s.kwriter.Close()
	}
	if err := s.store.Close(); err != nil {
		log.Error("s.store.Close()", "err", err)
	}
	s.wdb.Close()
}
