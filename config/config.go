package config

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/permadao/greetseed/schema"
	"github.com/shopspring/decimal"
)

type Config struct {
	wdb       *Wdb
	scheduler *gocron.Scheduler

	locker          sync.RWMutex
	greetingFee     decimal.Decimal
	mintFee         decimal.Decimal
	sweepConcurrent int
	ipWhiteList     map[string]struct{}
}

// sweep pool size used until the param table says otherwise
const defaultSweepConcurrent = 5

func New(dsn string, sqliteDir string, useSqlite bool) *Config {
	var wdb *Wdb
	if useSqlite {
		wdb = NewSqliteWdb(sqliteDir)
	} else {
		wdb = NewMysqlWdb(dsn)
	}
	if err := wdb.Migrate(); err != nil {
		panic(err)
	}

	c := &Config{
		wdb:         wdb,
		scheduler:   gocron.NewScheduler(time.UTC),
		ipWhiteList: make(map[string]struct{}),
	}
	c.updateFee()
	c.updateParam()
	c.updateIPWhiteList()
	return c
}

func (c *Config) Run() {
	go c.runJobs()
}

func (c *Config) Close() {
	c.scheduler.Stop()
	c.wdb.Close()
}

func (c *Config) GetGreetingFee() decimal.Decimal {
	c.locker.RLock()
	defer c.locker.RUnlock()
	return c.greetingFee
}

func (c *Config) GetMintFee() decimal.Decimal {
	c.locker.RLock()
	defer c.locker.RUnlock()
	return c.mintFee
}

func (c *Config) GetSweepConcurrent() int {
	c.locker.RLock()
	defer c.locker.RUnlock()
	return c.sweepConcurrent
}

func (c *Config) GetIPWhiteList() *map[string]struct{} {
	c.locker.RLock()
	defer c.locker.RUnlock()
	ipWhiteList := make(map[string]struct{}, len(c.ipWhiteList))
	for ip := range c.ipWhiteList {
		ipWhiteList[ip] = struct{}{}
	}
	return &ipWhiteList
}

func (c *Config) updateFee() {
	fee, err := c.wdb.GetFee()
	if err != nil {
		return
	}
	c.locker.Lock()
	defer c.locker.Unlock()
	c.greetingFee = parseFee(fee.GreetingFee, schema.DefaultGreetingFee)
	c.mintFee = parseFee(fee.MintFee, schema.DefaultMintFee)
}

func (c *Config) updateParam() {
	param, err := c.wdb.GetParam()
	if err != nil {
		return
	}
	if param.SweepConcurrentNum <= 0 {
		param.SweepConcurrentNum = defaultSweepConcurrent
	}
	c.locker.Lock()
	defer c.locker.Unlock()
	c.sweepConcurrent = param.SweepConcurrentNum
}

func (c *Config) updateIPWhiteList() {
	ips, err := c.wdb.GetAllAvailableIpRateWhitelist()
	if err != nil {
		return
	}
	ipWhiteList := make(map[string]struct{})
	for _, ip := range ips {
		ipWhiteList[ip.OriginOrIP] = struct{}{}
	}
	c.locker.Lock()
	defer c.locker.Unlock()
	c.ipWhiteList = ipWhiteList
}

func parseFee(val, dflt string) decimal.Decimal {
	if val == "" {
		val = dflt
	}
	d, err := decimal.NewFromString(val)
	if err != nil {
		d, _ = decimal.NewFromString(dflt)
	}
	return d
}
