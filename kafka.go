package greetseed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/permadao/greetseed/schema"
	"github.com/segmentio/kafka-go"
)

const TxTopic = "greetseed_transaction"

type KWriter struct {
	w *kafka.Writer
}

func NewKWriter(topic string, uri string) (*KWriter, error) {
	w := &kafka.Writer{
		Addr:     kafka.TCP(uri),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &KWriter{
		w: w,
	}, nil
}

func (kw *KWriter) Write(body []byte) error {
	err := kw.w.WriteMessages(
		context.Background(),
		kafka.Message{
			Value: body,
		},
	)
	return err
}

func (kw *KWriter) Close() {
	kw.w.Close()
}

// TxEvent is the lifecycle message published per settled transaction.
type TxEvent struct {
	ID          string    `json:"id"`
	TxHash      string    `json:"txHash"`
	UserAddress string    `json:"userAddress"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	TokenId     string    `json:"tokenId,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// publishTxEvent is best-effort; eventing is disabled when no broker is
// configured and a write failure never fails the flow.
func (s *Greetseed) publishTxEvent(record *schema.Transaction, status, tokenId string) {
	if s.kwriter == nil {
		return
	}
	ev := TxEvent{
		ID:          uuid.NewString(),
		TxHash:      record.TxHash,
		UserAddress: record.UserAddress,
		Kind:        record.Kind,
		Status:      status,
		TokenId:     tokenId,
		Timestamp:   time.Now(),
	}
	body, err := json.Marshal(&ev)
	if err != nil {
		return
	}
	if err := s.kwriter.Write(body); err != nil {
		log.Error("kwriter.Write(body)", "err", err, "txHash", record.TxHash)
	}
}
