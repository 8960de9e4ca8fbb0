package greetseed

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/permadao/greetseed/schema"
)

const apiVersion = "v1.0.0"

func (s *Greetseed) runAPI(port string) {
	s.registerRoutes()
	if err := s.engine.Run(port); err != nil {
		panic(err)
	}
}

func (s *Greetseed) registerRoutes() {
	r := s.engine
	r.Use(CORSMiddleware())
	r.Use(LimiterMiddleware(600, "M", s.config.GetIPWhiteList()))

	v1 := r.Group("/api")
	{
		v1.GET("/transactions/:address", s.getTransactions)
		v1.POST("/transactions", s.createTransaction)
		v1.PATCH("/transactions/:txHash", s.updateTransactionStatus)

		v1.GET("/nfts/:address", s.getNfts)
		v1.POST("/nfts", s.createNft)
		v1.PATCH("/nfts/:tokenId", s.updateNftTokenURI)

		// orchestrated flows signed by the service wallet
		v1.POST("/greetings", s.sendGreeting)
		v1.POST("/mints", s.mintNft)
		v1.GET("/greetings/eligibility/:address", s.getEligibility)
	}
	r.GET("/info", s.getInfo)
}

func (s *Greetseed) getTransactions(c *gin.Context) {
	address := c.Param("address")
	if len(address) == 0 {
		errorResponse(c, "address is required")
		return
	}
	if txs, ok := s.cache.GetTransactions(address); ok {
		c.JSON(http.StatusOK, txs)
		return
	}
	txs, err := s.wdb.GetTransactionsByAddress(address)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	s.cache.SetTransactions(address, txs)
	c.JSON(http.StatusOK, txs)
}

func (s *Greetseed) createTransaction(c *gin.Context) {
	req := schema.ReqCreateTx{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	record := &schema.Transaction{
		TxHash:      req.TxHash,
		UserAddress: req.UserAddress,
		Kind:        req.Kind,
		Status:      req.Status,
		Amount:      req.Amount,
	}
	if err := record.SetMeta(req.Metadata); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := s.wdb.CreateTransaction(record); err != nil {
		if err == ErrExistTx {
			conflictResponse(c, err.Error())
			return
		}
		internalErrorResponse(c, err.Error())
		return
	}
	s.cache.InvalidateAddress(record.UserAddress)
	c.JSON(http.StatusCreated, record)
}

func (s *Greetseed) updateTransactionStatus(c *gin.Context) {
	txHash := c.Param("txHash")
	req := schema.ReqUpdateTxStatus{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	record, err := s.wdb.UpdateTxStatus(txHash, req.Status)
	if err != nil {
		if err == ErrNotExist {
			notFoundResponse(c, err.Error())
			return
		}
		internalErrorResponse(c, err.Error())
		return
	}
	s.cache.InvalidateAddress(record.UserAddress)
	c.JSON(http.StatusOK, record)
}

func (s *Greetseed) getNfts(c *gin.Context) {
	address := c.Param("address")
	if len(address) == 0 {
		errorResponse(c, "address is required")
		return
	}
	if nfts, ok := s.cache.GetNfts(address); ok {
		c.JSON(http.StatusOK, nfts)
		return
	}
	nfts, err := s.wdb.GetNftsByOwner(address)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	s.cache.SetNfts(address, nfts)
	c.JSON(http.StatusOK, nfts)
}

func (s *Greetseed) createNft(c *gin.Context) {
	req := schema.ReqCreateNft{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	nft := &schema.Nft{
		TokenId:      req.TokenId,
		OwnerAddress: req.OwnerAddress,
		Title:        req.Title,
		Content:      req.Content,
		TxHash:       req.TxHash,
		TokenURI:     req.TokenURI,
	}
	if err := s.wdb.CreateNft(nft); err != nil {
		if err == ErrExistToken {
			conflictResponse(c, err.Error())
			return
		}
		internalErrorResponse(c, err.Error())
		return
	}
	s.cache.InvalidateAddress(nft.OwnerAddress)
	c.JSON(http.StatusCreated, nft)
}

func (s *Greetseed) updateNftTokenURI(c *gin.Context) {
	tokenId := c.Param("tokenId")
	req := schema.ReqUpdateNftURI{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	nft, err := s.wdb.UpdateNftTokenURI(tokenId, req.TokenURI)
	if err != nil {
		if err == ErrNotExist {
			notFoundResponse(c, err.Error())
			return
		}
		internalErrorResponse(c, err.Error())
		return
	}
	s.cache.InvalidateAddress(nft.OwnerAddress)
	c.JSON(http.StatusOK, nft)
}

func (s *Greetseed) sendGreeting(c *gin.Context) {
	req := schema.ReqSendGreeting{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	record, err := s.SendGreeting(c.Request.Context(), req.Message)
	if err != nil {
		flowErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (s *Greetseed) mintNft(c *gin.Context) {
	req := schema.ReqMintNft{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	record, err := s.MintTextNft(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		flowErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (s *Greetseed) getEligibility(c *gin.Context) {
	address := c.Param("address")
	if len(address) == 0 {
		errorResponse(c, "address is required")
		return
	}
	resp, err := s.Eligibility(c.Request.Context(), address)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Greetseed) getInfo(c *gin.Context) {
	chainId, latestBlock := s.cache.GetChainStatus()
	c.JSON(http.StatusOK, schema.RespInfo{
		Version:       apiVersion,
		Address:       s.wallet.Address().Hex(),
		NetworkStatus: string(s.wallet.Status()),
		ChainId:       chainId,
		LatestBlock:   latestBlock,
	})
}

// flowErrorResponse maps lifecycle errors onto the http surface: payload and
// rate-limit violations are the caller's fault, wallet problems mean the
// signing side is down, everything else is opaque server trouble.
func flowErrorResponse(c *gin.Context, err error) {
	switch err {
	case ErrNullPayload, ErrGreetingTooLong, ErrGreetedToday:
		errorResponse(c, err.Error())
	case ErrWalletDisconnected, ErrWrongNetwork, ErrSigningUnavailable, ErrProviderUnavailable:
		c.JSON(http.StatusServiceUnavailable, schema.RespErr{Err: err.Error()})
	default:
		internalErrorResponse(c, err.Error())
	}
}

func errorResponse(c *gin.Context, err string) {
	// client error
	c.JSON(http.StatusBadRequest, schema.RespErr{
		Err: err,
	})
}

func notFoundResponse(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, schema.RespErr{
		Err: err,
	})
}

func conflictResponse(c *gin.Context, err string) {
	c.JSON(http.StatusConflict, schema.RespErr{
		Err: err,
	})
}

func internalErrorResponse(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, schema.RespErr{
		Err: err,
	})
}
