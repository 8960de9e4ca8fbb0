package sdk

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/permadao/greetseed/schema"
	"github.com/tidwall/gjson"
	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/body"
)

// Client talks to a running greetseed service over its REST surface.
type Client struct {
	SCli *gentleman.Client
}

func New(seedUrl string) *Client {
	return &Client{
		SCli: gentleman.New().URL(seedUrl),
	}
}

func (c *Client) ListTransactions(address string) ([]schema.Transaction, error) {
	req := c.SCli.Get()
	req.AddPath(fmt.Sprintf("/api/transactions/%s", address))
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if !resp.Ok {
		return nil, respErr(resp.String())
	}
	txs := make([]schema.Transaction, 0)
	err = json.Unmarshal(resp.Bytes(), &txs)
	return txs, err
}

func (c *Client) ListNfts(address string) ([]schema.Nft, error) {
	req := c.SCli.Get()
	req.AddPath(fmt.Sprintf("/api/nfts/%s", address))
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if !resp.Ok {
		return nil, respErr(resp.String())
	}
	nfts := make([]schema.Nft, 0)
	err = json.Unmarshal(resp.Bytes(), &nfts)
	return nfts, err
}

func (c *Client) Eligibility(address string) (elig schema.RespEligibility, err error) {
	req := c.SCli.Get()
	req.AddPath(fmt.Sprintf("/api/greetings/eligibility/%s", address))
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return elig, respErr(resp.String())
	}
	err = json.Unmarshal(resp.Bytes(), &elig)
	return
}

// SendGreeting submits the daily greeting flow; the service wallet signs.
func (c *Client) SendGreeting(message string) (tx schema.Transaction, err error) {
	req := c.SCli.Post()
	req.AddPath("/api/greetings")
	req.Use(body.JSON(schema.ReqSendGreeting{Message: message}))
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return tx, respErr(resp.String())
	}
	err = json.Unmarshal(resp.Bytes(), &tx)
	return
}

// MintNft submits the text NFT mint flow; the service wallet signs and pays.
func (c *Client) MintNft(title, content string) (tx schema.Transaction, err error) {
	req := c.SCli.Post()
	req.AddPath("/api/mints")
	req.Use(body.JSON(schema.ReqMintNft{Title: title, Content: content}))
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return tx, respErr(resp.String())
	}
	err = json.Unmarshal(resp.Bytes(), &tx)
	return
}

func (c *Client) UpdateNftTokenURI(tokenId, tokenURI string) (nft schema.Nft, err error) {
	req := c.SCli.Patch()
	req.AddPath(fmt.Sprintf("/api/nfts/%s", tokenId))
	req.Use(body.JSON(schema.ReqUpdateNftURI{TokenURI: tokenURI}))
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return nft, respErr(resp.String())
	}
	err = json.Unmarshal(resp.Bytes(), &nft)
	return
}

func (c *Client) Info() (info schema.RespInfo, err error) {
	req := c.SCli.Get()
	req.AddPath("/info")
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return info, respErr(resp.String())
	}
	err = json.Unmarshal(resp.Bytes(), &info)
	return
}

func respErr(respBody string) error {
	if msg := gjson.Get(respBody, "error").String(); msg != "" {
		return errors.New(msg)
	}
	return fmt.Errorf("resp failed: %s", respBody)
}
