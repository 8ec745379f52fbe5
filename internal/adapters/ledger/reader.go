// Package ledger adapts the on-chain JSON-RPC surface to what the engine
// needs: reserve snapshots, approval state reads, and sequential call
// submission. All reads go through eth_call against latest state.
package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/holiman/uint256"

	"github.com/lumidex/swap-engine/internal/domain"
)

const (
	sigGetReserves = "getReserves(bytes32)"
	sigAllowance   = "allowance(address,address)"
	sigIsOperator  = "isOperator(address,address)"
)

var (
	typeAddress = mustType("address", nil)
	typeBytes32 = mustType("bytes32", nil)
	typeUint256 = mustType("uint256", nil)
	typeBool    = mustType("bool", nil)

	argsGetReserves    = abi.Arguments{{Type: typeBytes32}}
	argsAddressPair    = abi.Arguments{{Type: typeAddress}, {Type: typeAddress}}
	returnsReservePair = abi.Arguments{{Type: typeUint256}, {Type: typeUint256}}
	returnsUint256     = abi.Arguments{{Type: typeUint256}}
	returnsBool        = abi.Arguments{{Type: typeBool}}
)

func mustType(t string, components []abi.ArgumentMarshaling) abi.Type {
	typ, err := abi.NewType(t, "", components)
	if err != nil {
		panic(err)
	}
	return typ
}

func calldata(sig string, args abi.Arguments, values ...interface{}) ([]byte, error) {
	data, err := args.Pack(values...)
	if err != nil {
		return nil, err
	}
	return append(crypto.Keccak256([]byte(sig))[:4], data...), nil
}

// ethCaller is the slice of ethclient.Client the reader needs; tests swap
// in a canned implementation.
type ethCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Reader resolves reserves and approval state from the exchange and token
// contracts.
type Reader struct {
	client   ethCaller
	exchange common.Address
}

func NewReader(client *ethclient.Client, exchange common.Address) *Reader {
	return &Reader{client: client, exchange: exchange}
}

func newReaderWithCaller(client ethCaller, exchange common.Address) *Reader {
	return &Reader{client: client, exchange: exchange}
}

// Reserves reads the pool's current balances from the exchange contract.
func (r *Reader) Reserves(ctx context.Context, poolID common.Hash) (domain.Reserves, error) {
	data, err := calldata(sigGetReserves, argsGetReserves, poolID)
	if err != nil {
		return domain.Reserves{}, err
	}
	out, err := r.call(ctx, r.exchange, data)
	if err != nil {
		return domain.Reserves{}, fmt.Errorf("getReserves %s: %w", poolID.Hex(), err)
	}
	values, err := returnsReservePair.Unpack(out)
	if err != nil {
		return domain.Reserves{}, fmt.Errorf("getReserves %s: %w", poolID.Hex(), err)
	}
	reserve0, overflow0 := uint256.FromBig(values[0].(*big.Int))
	reserve1, overflow1 := uint256.FromBig(values[1].(*big.Int))
	if overflow0 || overflow1 {
		return domain.Reserves{}, fmt.Errorf("getReserves %s: reserve exceeds 256 bits", poolID.Hex())
	}
	return domain.Reserves{Reserve0: reserve0, Reserve1: reserve1}, nil
}

// Allowance reads the external-standard spending allowance owner has
// granted spender on the token contract.
func (r *Reader) Allowance(ctx context.Context, token, owner, spender common.Address) (*uint256.Int, error) {
	data, err := calldata(sigAllowance, argsAddressPair, owner, spender)
	if err != nil {
		return nil, err
	}
	out, err := r.call(ctx, token, data)
	if err != nil {
		return nil, fmt.Errorf("allowance on %s: %w", token.Hex(), err)
	}
	values, err := returnsUint256.Unpack(out)
	if err != nil {
		return nil, fmt.Errorf("allowance on %s: %w", token.Hex(), err)
	}
	allowance, overflow := uint256.FromBig(values[0].(*big.Int))
	if overflow {
		return nil, fmt.Errorf("allowance on %s: exceeds 256 bits", token.Hex())
	}
	return allowance, nil
}

// IsOperator reads the holder-level operator flag on a multi-token
// contract.
func (r *Reader) IsOperator(ctx context.Context, token, owner, operator common.Address) (bool, error) {
	data, err := calldata(sigIsOperator, argsAddressPair, owner, operator)
	if err != nil {
		return false, err
	}
	out, err := r.call(ctx, token, data)
	if err != nil {
		return false, fmt.Errorf("isOperator on %s: %w", token.Hex(), err)
	}
	values, err := returnsBool.Unpack(out)
	if err != nil {
		return false, fmt.Errorf("isOperator on %s: %w", token.Hex(), err)
	}
	return values[0].(bool), nil
}

// ApprovalState combines the two approval reads for the sell token's class.
// Only the read relevant to the class is issued.
func (r *Reader) ApprovalState(ctx context.Context, sell domain.Token, owner common.Address) (domain.ApprovalState, error) {
	if sell.IsNative() {
		return domain.ApprovalState{}, nil
	}
	if sell.Class == domain.ClassExternal {
		allowance, err := r.Allowance(ctx, sell.Origin, owner, r.exchange)
		if err != nil {
			return domain.ApprovalState{}, err
		}
		return domain.ApprovalState{Allowance: allowance}, nil
	}
	approved, err := r.IsOperator(ctx, sell.Origin, owner, r.exchange)
	if err != nil {
		return domain.ApprovalState{}, err
	}
	return domain.ApprovalState{OperatorApproved: approved}, nil
}

func (r *Reader) call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return r.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
}
