package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"repledger/crypto"
)

// GenesisAllocation is a single initial balance grant.
type GenesisAllocation struct {
	Address string `yaml:"address"`
	Balance uint64 `yaml:"balance"`
}

// GenesisSpec is the YAML document applied once at first boot.
type GenesisSpec struct {
	Allocations []GenesisAllocation `yaml:"allocations"`
}

// LoadGenesis reads and validates the allocation file. A missing path yields
// an empty allocation set so nodes can boot with no pre-funded accounts.
func LoadGenesis(path string) (map[[20]byte]uint64, error) {
	if strings.TrimSpace(path) == "" {
		return map[[20]byte]uint64{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[[20]byte]uint64{}, nil
		}
		return nil, err
	}
	spec := &GenesisSpec{}
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("genesis: parse %s: %w", path, err)
	}
	allocations := make(map[[20]byte]uint64, len(spec.Allocations))
	for i, alloc := range spec.Allocations {
		decoded, err := crypto.DecodeAddress(strings.TrimSpace(alloc.Address))
		if err != nil {
			return nil, fmt.Errorf("genesis: allocation %d: %w", i, err)
		}
		raw := decoded.Raw()
		if _, exists := allocations[raw]; exists {
			return nil, fmt.Errorf("genesis: duplicate allocation for %s", alloc.Address)
		}
		allocations[raw] = alloc.Balance
	}
	return allocations, nil
}
