// Package builder turns a resolved, bounded quote into the ordered call
// plan a wallet submits: conditional approval calls first, then exactly one
// swap call. Payload encoding is bit-exact 4-byte-selector ABI data.
package builder

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/lumidex/swap-engine/internal/domain"
)

// Canonical signatures of the calls this planner produces. Selectors are
// keccak-derived from these strings, so they must match the executing
// contracts byte for byte.
const (
	sigApprove          = "approve(address,uint256)"
	sigSetOperator      = "setOperator(address,bool)"
	sigSwapExactIn      = "swapExactIn((uint256,uint256,address,address,uint256),uint256,uint256,bool,address,uint256)"
	sigSwapExactOut     = "swapExactOut((uint256,uint256,address,address,uint256),uint256,uint256,bool,address,uint256)"
	sigSwapPathExactIn  = "swapPathExactIn((uint256,uint256,address,address,uint256)[],uint256,uint256,address,uint256)"
	sigSwapPathExactOut = "swapPathExactOut((uint256,uint256,address,address,uint256)[],uint256,uint256,address,uint256)"
)

var poolKeyComponents = []abi.ArgumentMarshaling{
	{Name: "id0", Type: "uint256"},
	{Name: "id1", Type: "uint256"},
	{Name: "token0", Type: "address"},
	{Name: "token1", Type: "address"},
	{Name: "feeOrHook", Type: "uint256"},
}

var (
	typeAddress     = mustType("address", nil)
	typeUint256     = mustType("uint256", nil)
	typeBool        = mustType("bool", nil)
	typePoolKey     = mustType("tuple", poolKeyComponents)
	typePoolKeyList = mustType("tuple[]", poolKeyComponents)
)

var (
	argsApprove     = abi.Arguments{{Type: typeAddress}, {Type: typeUint256}}
	argsSetOperator = abi.Arguments{{Type: typeAddress}, {Type: typeBool}}
	argsSwapSingle  = abi.Arguments{
		{Type: typePoolKey}, {Type: typeUint256}, {Type: typeUint256},
		{Type: typeBool}, {Type: typeAddress}, {Type: typeUint256},
	}
	argsSwapPath = abi.Arguments{
		{Type: typePoolKeyList}, {Type: typeUint256}, {Type: typeUint256},
		{Type: typeAddress}, {Type: typeUint256},
	}
)

func mustType(t string, components []abi.ArgumentMarshaling) abi.Type {
	typ, err := abi.NewType(t, "", components)
	if err != nil {
		panic(err)
	}
	return typ
}

// poolKeyArg mirrors the pool key tuple for the ABI encoder.
type poolKeyArg struct {
	Id0       *big.Int
	Id1       *big.Int
	Token0    common.Address
	Token1    common.Address
	FeeOrHook *big.Int
}

func keyArg(k domain.PoolKey) poolKeyArg {
	return poolKeyArg{
		Id0:       k.ID0.ToBig(),
		Id1:       k.ID1.ToBig(),
		Token0:    k.Token0,
		Token1:    k.Token1,
		FeeOrHook: k.FeeOrHook.ToBig(),
	}
}

func keyArgs(keys []domain.PoolKey) []poolKeyArg {
	out := make([]poolKeyArg, len(keys))
	for i, k := range keys {
		out[i] = keyArg(k)
	}
	return out
}

// Selector returns the 4-byte function selector for a canonical signature.
func Selector(sig string) [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(sig))[:4])
	return sel
}

func pack(sig string, args abi.Arguments, values ...interface{}) ([]byte, error) {
	data, err := args.Pack(values...)
	if err != nil {
		return nil, err
	}
	sel := Selector(sig)
	return append(sel[:], data...), nil
}

// EncodeApprove builds approve(spender, amount) calldata for an
// external-standard token contract.
func EncodeApprove(spender common.Address, amount *uint256.Int) ([]byte, error) {
	return pack(sigApprove, argsApprove, spender, amount.ToBig())
}

// EncodeSetOperator builds setOperator(operator, approved) calldata for a
// multi-token contract.
func EncodeSetOperator(operator common.Address, approved bool) ([]byte, error) {
	return pack(sigSetOperator, argsSetOperator, operator, approved)
}

// EncodeSwapExactIn builds the single-hop exact-input swap call.
func EncodeSwapExactIn(key domain.PoolKey, amountIn, minAmountOut *uint256.Int, zeroForOne bool, recipient common.Address, deadline uint64) ([]byte, error) {
	return pack(sigSwapExactIn, argsSwapSingle,
		keyArg(key), amountIn.ToBig(), minAmountOut.ToBig(),
		zeroForOne, recipient, new(big.Int).SetUint64(deadline))
}

// EncodeSwapExactOut builds the single-hop exact-output swap call.
func EncodeSwapExactOut(key domain.PoolKey, amountOut, maxAmountIn *uint256.Int, zeroForOne bool, recipient common.Address, deadline uint64) ([]byte, error) {
	return pack(sigSwapExactOut, argsSwapSingle,
		keyArg(key), amountOut.ToBig(), maxAmountIn.ToBig(),
		zeroForOne, recipient, new(big.Int).SetUint64(deadline))
}

// EncodeSwapPathExactIn builds the batched multi-hop exact-input call. Both
// hops settle atomically inside one submission, so the intermediate base
// amount can never be extracted or front-run between them.
func EncodeSwapPathExactIn(keys []domain.PoolKey, amountIn, minAmountOut *uint256.Int, recipient common.Address, deadline uint64) ([]byte, error) {
	return pack(sigSwapPathExactIn, argsSwapPath,
		keyArgs(keys), amountIn.ToBig(), minAmountOut.ToBig(),
		recipient, new(big.Int).SetUint64(deadline))
}

// EncodeSwapPathExactOut builds the batched multi-hop exact-output call.
func EncodeSwapPathExactOut(keys []domain.PoolKey, amountOut, maxAmountIn *uint256.Int, recipient common.Address, deadline uint64) ([]byte, error) {
	return pack(sigSwapPathExactOut, argsSwapPath,
		keyArgs(keys), amountOut.ToBig(), maxAmountIn.ToBig(),
		recipient, new(big.Int).SetUint64(deadline))
}
