package wallet

import (
	"fmt"

	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"
)

// Network selects the version bytes used when an extended key is encoded.
type Network struct {
	Name string

	params *chaincfg.Params
}

// Predefined networks. MainNet encodes keys as "xprv...", the test networks
// as "tprv...".
var (
	MainNet = Network{Name: "mainnet", params: &chaincfg.MainNet}
	TestNet = Network{Name: "testnet", params: &chaincfg.TestNet}
	RegTest = Network{Name: "regtest", params: &chaincfg.TestNet}
)

var predefined = map[string]*Network{
	"mainnet": &MainNet,
	"testnet": &TestNet,
	"regtest": &RegTest,
}

// GetNetwork returns a predefined network by name.
func GetNetwork(name string) (*Network, error) {
	if net, ok := predefined[name]; ok {
		return net, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidNetwork, name)
}

// chainParams returns the go-sdk chain parameters, defaulting to mainnet.
func (n *Network) chainParams() *chaincfg.Params {
	if n == nil || n.params == nil {
		return &chaincfg.MainNet
	}
	return n.params
}
