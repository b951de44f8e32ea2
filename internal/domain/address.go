package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"
)

// TronAddressPrefix is the version byte of a Tron mainnet address
const TronAddressPrefix = byte(0x41)

// NormalizeEVMAddress returns the EIP-55 checksummed form of an EVM address
func NormalizeEVMAddress(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}
	return common.HexToAddress(address).Hex(), nil
}

// NormalizeTronAddress accepts a base58check address, a 41-prefixed hex address
// or a 0x-prefixed 20-byte hex address and returns the base58check form
func NormalizeTronAddress(address string) (string, error) {
	if strings.HasPrefix(address, "T") {
		if _, err := TronBase58ToHex(address); err != nil {
			return "", err
		}
		return address, nil
	}
	return TronHexToBase58(address)
}

// NormalizeAddress normalizes an address according to the chain family
func NormalizeAddress(family ChainFamily, address string) (string, error) {
	switch family {
	case ChainFamilyEVM:
		return NormalizeEVMAddress(address)
	case ChainFamilyTron:
		return NormalizeTronAddress(address)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedChainFamily, family)
	}
}

// TronHexToBase58 converts a hex Tron address (41-prefixed, or 20-byte 0x form) into base58check
func TronHexToBase58(address string) (string, error) {
	raw := strings.TrimPrefix(strings.TrimPrefix(address, "0x"), "0X")
	b, err := hex.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}

	switch len(b) {
	case common.AddressLength:
		b = append([]byte{TronAddressPrefix}, b...)
	case common.AddressLength + 1:
		if b[0] != TronAddressPrefix {
			return "", fmt.Errorf("%w: unexpected prefix %x", ErrInvalidAddress, b[0])
		}
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}

	checksum := tronChecksum(b)
	return base58.Encode(append(b, checksum...)), nil
}

// TronBase58ToHex decodes a base58check Tron address into its 41-prefixed hex form
func TronBase58ToHex(address string) (string, error) {
	decoded, err := base58.Decode(address)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}
	if len(decoded) != common.AddressLength+5 {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}

	payload, checksum := decoded[:len(decoded)-4], decoded[len(decoded)-4:]
	if !bytes.Equal(tronChecksum(payload), checksum) {
		return "", fmt.Errorf("%w: bad checksum %s", ErrInvalidAddress, address)
	}
	if payload[0] != TronAddressPrefix {
		return "", fmt.Errorf("%w: unexpected prefix %x", ErrInvalidAddress, payload[0])
	}

	return hex.EncodeToString(payload), nil
}

// TronToEVMAddress returns the 20-byte account of a Tron address as a go-ethereum address,
// which is how the address is ABI-encoded
func TronToEVMAddress(address string) (common.Address, error) {
	h, err := TronBase58ToHex(address)
	if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(h[2:]), nil
}

// EVMToTronAddress renders an ABI-decoded address as a Tron base58check address
func EVMToTronAddress(address common.Address) string {
	b := append([]byte{TronAddressPrefix}, address.Bytes()...)
	return base58.Encode(append(b, tronChecksum(b)...))
}

func tronChecksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:4]
}
