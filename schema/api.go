package schema

type RespErr struct {
	Err string `json:"error"`
}

// ReqCreateTx is the POST /api/transactions body, a Transaction minus id.
type ReqCreateTx struct {
	TxHash      string `json:"txHash" binding:"required"`
	UserAddress string `json:"userAddress" binding:"required"`
	Kind        string `json:"kind" binding:"required,oneof=greeting mint"`
	Status      string `json:"status" binding:"required,oneof=pending confirmed failed"`
	Amount      string `json:"amount" binding:"required"`
	Metadata    TxMeta `json:"metadata"`
}

type ReqCreateNft struct {
	TokenId      string `json:"tokenId" binding:"required"`
	OwnerAddress string `json:"ownerAddress" binding:"required"`
	Title        string `json:"title"`
	Content      string `json:"content" binding:"required"`
	TxHash       string `json:"txHash" binding:"required"`
	TokenURI     string `json:"tokenURI"`
}

type ReqUpdateTxStatus struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed failed"`
}

type ReqUpdateNftURI struct {
	TokenURI string `json:"tokenURI" binding:"required"`
}

type ReqSendGreeting struct {
	Message string `json:"message" binding:"required"`
}

type ReqMintNft struct {
	Title   string `json:"title"`
	Content string `json:"content" binding:"required"`
}

type RespEligibility struct {
	LastGreetingDay      int64 `json:"lastGreetingDay"` // 0 means never greeted
	CanSendGreetingToday bool  `json:"canSendGreetingToday"`
}

type RespInfo struct {
	Version       string `json:"version"`
	Address       string `json:"address"`
	NetworkStatus string `json:"networkStatus"`
	ChainId       int64  `json:"chainId"`
	LatestBlock   uint64 `json:"latestBlock"`
}
