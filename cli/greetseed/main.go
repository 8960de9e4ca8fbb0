package main

import (
	"fmt"
	"log"
	"os"

	"github.com/permadao/greetseed"
	"github.com/permadao/greetseed/schema"
	"github.com/permadao/greetseed/sdk"
	"github.com/urfave/cli/v2"
)

// pageSize matches the transaction history table of the web client
const pageSize = 5

func main() {
	app := &cli.App{
		Name:  "greetseed-cli",
		Usage: "client for a greetseed service",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://127.0.0.1:8080", Usage: "greetseed service url", EnvVars: []string{"GREETSEED_URL"}},
		},
		Commands: []*cli.Command{
			{
				Name:   "info",
				Usage:  "show service wallet and chain status",
				Action: runInfo,
			},
			{
				Name:      "greet",
				Usage:     "send the daily greeting",
				ArgsUsage: "<message>",
				Action:    runGreet,
			},
			{
				Name:      "mint",
				Usage:     "mint a text nft",
				ArgsUsage: "<content>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "optional nft title"},
				},
				Action: runMint,
			},
			{
				Name:      "txs",
				Usage:     "list transactions for an address",
				ArgsUsage: "<address>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 1, Usage: "result page, newest first"},
				},
				Action: runTxs,
			},
			{
				Name:      "nfts",
				Usage:     "list nfts owned by an address",
				ArgsUsage: "<address>",
				Action:    runNfts,
			},
			{
				Name:      "eligibility",
				Usage:     "check whether an address can greet today",
				ArgsUsage: "<address>",
				Action:    runEligibility,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func client(c *cli.Context) *sdk.Client {
	return sdk.New(c.String("url"))
}

func runInfo(c *cli.Context) error {
	info, err := client(c).Info()
	if err != nil {
		return err
	}
	fmt.Printf("version:  %s\n", info.Version)
	fmt.Printf("wallet:   %s\n", greetseed.FormatAddress(info.Address))
	fmt.Printf("network:  %s (chain %d)\n", info.NetworkStatus, info.ChainId)
	fmt.Printf("block:    %d\n", info.LatestBlock)
	return nil
}

func runGreet(c *cli.Context) error {
	message := c.Args().First()
	if message == "" {
		return cli.Exit("message is required", 1)
	}
	if len(message) > schema.MaxGreetingLen {
		return cli.Exit(fmt.Sprintf("message longer than %d chars", schema.MaxGreetingLen), 1)
	}
	tx, err := client(c).SendGreeting(message)
	if err != nil {
		return err
	}
	printTxSummary(tx)
	return nil
}

func runMint(c *cli.Context) error {
	content := c.Args().First()
	if content == "" {
		return cli.Exit("content is required", 1)
	}
	tx, err := client(c).MintNft(c.String("title"), content)
	if err != nil {
		return err
	}
	printTxSummary(tx)
	return nil
}

func runTxs(c *cli.Context) error {
	address := c.Args().First()
	if address == "" {
		return cli.Exit("address is required", 1)
	}
	txs, err := client(c).ListTransactions(address)
	if err != nil {
		return err
	}
	// newest first
	for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
		txs[i], txs[j] = txs[j], txs[i]
	}

	page := c.Int("page")
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(txs) {
		fmt.Printf("no transactions on page %d (%d total)\n", page, len(txs))
		return nil
	}
	end := start + pageSize
	if end > len(txs) {
		end = len(txs)
	}

	for _, tx := range txs[start:end] {
		fmt.Printf("%-10s %-9s %-10s %s ETH  %s\n",
			tx.Kind, tx.Status, greetseed.FormatAddress(tx.TxHash), tx.Amount,
			tx.Timestamp.Format("2006-01-02 15:04"))
	}
	totalPages := (len(txs) + pageSize - 1) / pageSize
	fmt.Printf("page %d/%d, %d transactions\n", page, totalPages, len(txs))
	return nil
}

func runNfts(c *cli.Context) error {
	address := c.Args().First()
	if address == "" {
		return cli.Exit("address is required", 1)
	}
	nfts, err := client(c).ListNfts(address)
	if err != nil {
		return err
	}
	if len(nfts) == 0 {
		fmt.Println("no nfts")
		return nil
	}
	for _, nft := range nfts {
		title := nft.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("#%-8s %-20s %s\n", nft.TokenId, title, nft.Content)
	}
	return nil
}

func runEligibility(c *cli.Context) error {
	address := c.Args().First()
	if address == "" {
		return cli.Exit("address is required", 1)
	}
	elig, err := client(c).Eligibility(address)
	if err != nil {
		return err
	}
	if elig.CanSendGreetingToday {
		fmt.Println("can greet today")
	} else {
		fmt.Printf("already greeted on day %d\n", elig.LastGreetingDay)
	}
	return nil
}

func printTxSummary(tx schema.Transaction) {
	fmt.Printf("hash:    %s\n", tx.TxHash)
	fmt.Printf("kind:    %s\n", tx.Kind)
	fmt.Printf("status:  %s\n", tx.Status)
	fmt.Printf("amount:  %s ETH\n", tx.Amount)
	fmt.Printf("time:    %s\n", tx.Timestamp.Format("2006-01-02 15:04:05"))
}
