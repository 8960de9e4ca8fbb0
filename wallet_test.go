package greetseed

import (
	"context"
	"testing"

	"github.com/permadao/greetseed/schema"
	"github.com/stretchr/testify/assert"
)

func TestSignerRefusals(t *testing.T) {
	w := testWallet(t)

	opts, err := w.Signer()
	assert.NoError(t, err)
	assert.Equal(t, w.Address(), opts.From)

	w.status = schema.NetworkWrongNetwork
	_, err = w.Signer()
	assert.Equal(t, ErrWrongNetwork, err)

	w.status = schema.NetworkDisconnected
	_, err = w.Signer()
	assert.Equal(t, ErrSigningUnavailable, err)
}

func TestSendGreetingWrongNetwork(t *testing.T) {
	s := newTestGreetseed(t, newStubChain())
	s.wallet.status = schema.NetworkWrongNetwork

	_, err := s.SendGreeting(context.Background(), "gm")
	assert.Equal(t, ErrWrongNetwork, err)
}
