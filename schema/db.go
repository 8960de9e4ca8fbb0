package schema

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	TxKindGreeting = "greeting"
	TxKindMint     = "mint"

	TxStatusPending   = "pending"
	TxStatusConfirmed = "confirmed"
	TxStatusFailed    = "failed"

	// greeting message hard limit, the stricter of the two historical variants
	MaxGreetingLen = 20
)

// TxMeta is the kind-tagged metadata carried by a transaction record.
// greeting fills Message; mint fills Title/Content/TokenURI.
type TxMeta struct {
	Message  string `json:"message,omitempty"`
	Title    string `json:"title,omitempty"`
	Content  string `json:"content,omitempty"`
	TokenURI string `json:"tokenURI,omitempty"`
}

type Transaction struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	TxHash      string         `gorm:"uniqueIndex" json:"txHash"`
	UserAddress string         `gorm:"index:idx_tx_user" json:"userAddress"`
	Kind        string         `json:"kind"`   // "greeting" or "mint"
	Status      string         `json:"status"` // "pending", "confirmed", "failed"
	Amount      string         `json:"amount"` // value attached to the call, ETH decimal string
	Timestamp   time.Time      `json:"timestamp"`
	Metadata    datatypes.JSON `json:"metadata"`
}

func (t *Transaction) Meta() (meta TxMeta, err error) {
	if len(t.Metadata) == 0 {
		return
	}
	err = json.Unmarshal(t.Metadata, &meta)
	return
}

func (t *Transaction) SetMeta(meta TxMeta) error {
	by, err := json.Marshal(&meta)
	if err != nil {
		return err
	}
	t.Metadata = datatypes.JSON(by)
	return nil
}

type Nft struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	TokenId      string    `gorm:"uniqueIndex" json:"tokenId"` // assigned by the minter contract
	OwnerAddress string    `gorm:"index:idx_nft_owner" json:"ownerAddress"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	TxHash       string    `json:"txHash"` // minting transaction
	CreatedAt    time.Time `json:"createdAt"`
	TokenURI     string    `json:"tokenURI"`
}
