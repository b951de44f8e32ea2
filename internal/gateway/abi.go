package gateway

import (
	"bytes"
	"embed"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/feral-file/marketplace-indexer/internal/domain"
)

//go:embed abi/*.json
var abiFS embed.FS

var (
	abisOnce sync.Once
	abis     map[domain.ContractType]*abi.ABI
	abisErr  error
)

func loadABIs() {
	abis = make(map[domain.ContractType]*abi.ABI)
	for _, ct := range []domain.ContractType{
		domain.ContractTypeERC721,
		domain.ContractTypeERC1155,
		domain.ContractTypeERC20,
		domain.ContractTypeExchange,
		domain.ContractTypeFabric721,
		domain.ContractTypeFabric1155,
	} {
		raw, err := abiFS.ReadFile(fmt.Sprintf("abi/%s.json", ct))
		if err != nil {
			abisErr = fmt.Errorf("failed to read %s abi: %w", ct, err)
			return
		}
		parsed, err := abi.JSON(bytes.NewReader(raw))
		if err != nil {
			abisErr = fmt.Errorf("failed to parse %s abi: %w", ct, err)
			return
		}
		abis[ct] = &parsed
	}
}

// ABI returns the parsed ABI of a contract type
func ABI(contractType domain.ContractType) (*abi.ABI, error) {
	abisOnce.Do(loadABIs)
	if abisErr != nil {
		return nil, abisErr
	}

	parsed, ok := abis[contractType]
	if !ok {
		return nil, fmt.Errorf("no abi for contract type %s", contractType)
	}
	return parsed, nil
}

// MustABI returns the parsed ABI of a contract type and panics if it is missing
// Only used for the embedded ABIs, which are known at compile time
func MustABI(contractType domain.ContractType) *abi.ABI {
	parsed, err := ABI(contractType)
	if err != nil {
		panic(err)
	}
	return parsed
}

// addressParser turns a family-specific address string into its 20-byte ABI form
type addressParser func(string) (common.Address, error)

func evmAddressParser(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %s", domain.ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

func tronAddressParser(s string) (common.Address, error) {
	if strings.HasPrefix(s, "T") {
		return domain.TronToEVMAddress(s)
	}
	b58, err := domain.TronHexToBase58(s)
	if err != nil {
		return common.Address{}, err
	}
	return domain.TronToEVMAddress(b58)
}

// coerceInputs converts loosely-typed call inputs (address strings, decimal strings, ints)
// into the Go types the ABI packer expects for the method arguments
func coerceInputs(args abi.Arguments, inputs []interface{}, parseAddress addressParser) ([]interface{}, error) {
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("expected %d inputs, got %d", len(args), len(inputs))
	}

	out := make([]interface{}, len(inputs))
	for i, arg := range args {
		v := inputs[i]
		switch arg.Type.T {
		case abi.AddressTy:
			if s, ok := v.(string); ok {
				addr, err := parseAddress(s)
				if err != nil {
					return nil, fmt.Errorf("input %s: %w", arg.Name, err)
				}
				v = addr
			}
		case abi.UintTy, abi.IntTy:
			if arg.Type.Size > 64 {
				n, err := toBigInt(v)
				if err != nil {
					return nil, fmt.Errorf("input %s: %w", arg.Name, err)
				}
				v = n
			}
		}
		out[i] = v
	}
	return out, nil
}

func toBigInt(v interface{}) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case int:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case string:
		b, ok := new(big.Int).SetString(n, 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", n)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported integer type %T", v)
	}
}

// outputArguments builds the arguments to decode a call result with
// Explicit output types take precedence over the method's declared outputs
func outputArguments(method abi.Method, outputTypes []string) (abi.Arguments, error) {
	if len(outputTypes) == 0 {
		return method.Outputs, nil
	}

	args := make(abi.Arguments, 0, len(outputTypes))
	for _, t := range outputTypes {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			return nil, fmt.Errorf("invalid output type %s: %w", t, err)
		}
		args = append(args, abi.Argument{Type: typ})
	}
	return args, nil
}
