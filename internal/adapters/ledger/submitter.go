package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"

	swapcommon "github.com/lumidex/swap-engine/internal/common"
	"github.com/lumidex/swap-engine/internal/domain"
)

const receiptPollInterval = 2 * time.Second

// SignerFunc asks the holder to sign a prepared transaction. Returning
// (nil, nil) is a voluntary decline; the plan is abandoned without
// treating it as a fault.
type SignerFunc func(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)

type txClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Submitter turns planned calls into signed transactions and awaits their
// receipts. It satisfies the executor's Submitter contract.
type Submitter struct {
	client         txClient
	from           common.Address
	sign           SignerFunc
	receiptTimeout time.Duration
}

func NewSubmitter(client *ethclient.Client, from common.Address, sign SignerFunc, receiptTimeout time.Duration) *Submitter {
	return &Submitter{client: client, from: from, sign: sign, receiptTimeout: receiptTimeout}
}

func newSubmitterWithClient(client txClient, from common.Address, sign SignerFunc, receiptTimeout time.Duration) *Submitter {
	return &Submitter{client: client, from: from, sign: sign, receiptTimeout: receiptTimeout}
}

func (s *Submitter) Submit(ctx context.Context, call domain.Call) (common.Hash, error) {
	chainID, err := s.client.ChainID(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	nonce, err := s.client.PendingNonceAt(ctx, s.from)
	if err != nil {
		return common.Hash{}, err
	}
	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	value := new(big.Int)
	if call.Value != nil {
		value = call.Value.ToBig()
	}
	gasLimit, err := s.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  s.from,
		To:    &call.Target,
		Value: value,
		Data:  call.Payload,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("estimate %s call: %w", call.Kind, err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &call.Target,
		Value:    value,
		Data:     call.Payload,
	})

	signed, err := s.sign(ctx, tx, chainID)
	if err != nil {
		return common.Hash{}, err
	}
	if signed == nil {
		return common.Hash{}, swapcommon.ErrSubmissionRejected
	}

	if err := s.client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, err
	}
	log.Debug().
		Str("kind", call.Kind.String()).
		Str("tx", signed.Hash().Hex()).
		Msg("[ledger] call submitted")
	return signed.Hash(), nil
}

// Await polls for the receipt until the call finalizes or the timeout
// elapses. A mined-but-failed receipt maps to ErrExecutionReverted.
func (s *Submitter) Await(ctx context.Context, txHash common.Hash) error {
	ctx, cancel := context.WithTimeout(ctx, s.receiptTimeout)
	defer cancel()

	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := s.client.TransactionReceipt(ctx, txHash)
		switch {
		case err == nil:
			if receipt.Status == types.ReceiptStatusFailed {
				return fmt.Errorf("%w: %s", swapcommon.ErrExecutionReverted, txHash.Hex())
			}
			return nil
		case !errors.Is(err, ethereum.NotFound):
			return err
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("awaiting %s: %w", txHash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}
