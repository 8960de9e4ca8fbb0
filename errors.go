package greetseed

import (
	"errors"
)

var (
	ErrNotExist = errors.New("not_exist_record")

	ErrExistTx    = errors.New("tx_exist")
	ErrExistToken = errors.New("token_exist")

	ErrProviderUnavailable = errors.New("provider_unavailable")
	ErrWrongNetwork        = errors.New("wrong_network")
	ErrWalletDisconnected  = errors.New("wallet_disconnected")
	ErrSigningUnavailable  = errors.New("signing_unavailable")

	ErrTxRejected        = errors.New("tx_rejected")
	ErrTxReverted        = errors.New("tx_reverted")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrRpc               = errors.New("rpc_error")
	ErrEventNotFound     = errors.New("mint_event_not_found")

	ErrNullPayload     = errors.New("null_payload")
	ErrGreetingTooLong = errors.New("greeting_too_long")
	ErrGreetedToday    = errors.New("already_greeted_today")
)
