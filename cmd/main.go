package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/permadao/greetseed"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name: "greetseed",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db_dir", Value: "./data/bolt", Usage: "bolt db dir path", EnvVars: []string{"DB_DIR"}},
			&cli.StringFlag{Name: "mysql", Value: "root@tcp(127.0.0.1:3306)/greetseed?charset=utf8mb4&parseTime=True&loc=Local", Usage: "mysql dsn", EnvVars: []string{"MYSQL"}},
			&cli.StringFlag{Name: "sqlite_dir", Value: "./data/sqlite", Usage: "sqlite db dir path", EnvVars: []string{"SQLITE_DIR"}},
			&cli.BoolFlag{Name: "use_sqlite", Value: false, Usage: "run with sqlite instead of mysql", EnvVars: []string{"USE_SQLITE"}},

			&cli.StringFlag{Name: "rpc_url", Value: "https://eth.llamarpc.com", Usage: "ethereum node rpc url", EnvVars: []string{"RPC_URL"}},
			&cli.Int64Flag{Name: "chain_id", Value: 1, Usage: "expected chain id", EnvVars: []string{"CHAIN_ID"}},
			&cli.StringFlag{Name: "greeter_addr", Value: "", Usage: "greeting registry contract address", EnvVars: []string{"GREETER_ADDR"}},
			&cli.StringFlag{Name: "minter_addr", Value: "", Usage: "nft minter contract address", EnvVars: []string{"MINTER_ADDR"}},

			&cli.StringFlag{Name: "key_path", Value: "./data/wallet-keyfile.json", Usage: "wallet keystore file path", EnvVars: []string{"KEY_PATH"}},
			&cli.StringFlag{Name: "key_pass", Value: "", Usage: "wallet keystore passphrase", EnvVars: []string{"KEY_PASS"}},

			&cli.StringFlag{Name: "kafka_uri", Value: "", Usage: "kafka broker, empty disables eventing", EnvVars: []string{"KAFKA_URI"}},
			&cli.StringFlag{Name: "port", Value: ":8080", EnvVars: []string{"PORT"}},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	s := greetseed.New(
		c.String("db_dir"), c.String("mysql"), c.String("sqlite_dir"), c.Bool("use_sqlite"),
		c.String("rpc_url"), c.Int64("chain_id"), c.String("greeter_addr"), c.String("minter_addr"),
		c.String("key_path"), c.String("key_pass"),
		c.String("kafka_uri"),
	)
	greetseed.NewMetricServer()
	s.Run(c.String("port"))

	<-signals
	s.Close()

	return nil
}
