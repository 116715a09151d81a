// Package stellartx implements the horizon.EnvelopeBuilder interface using
// the Stellar SDK's transaction builder. It is the only place the relay
// touches ledger cryptography: envelopes are built, signed, and base64-encoded
// here and treated as opaque strings everywhere else.
package stellartx

import (
	"fmt"
	"strconv"

	"github.com/gabapcia/stakebridge/internal/infra/ledger/horizon"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
)

const (
	// baseFee is the per-operation fee in stroops.
	baseFee = 100000

	// envelopeTimeout bounds how long a submitted envelope stays valid.
	envelopeTimeout = 180 // seconds

	// publicNetworkName selects the public network passphrase; anything else
	// selects testnet.
	publicNetworkName = "public"
)

// Builder signs envelopes with one issuer keypair on one network.
type Builder struct {
	keypair    *keypair.Full
	passphrase string
}

// Compile-time assertion that Builder satisfies the horizon.EnvelopeBuilder interface.
var _ horizon.EnvelopeBuilder = (*Builder)(nil)

// NewBuilder parses the issuer signing credential and selects the network
// passphrase ("public" or anything else for testnet).
func NewBuilder(issuerSecret, networkName string) (*Builder, error) {
	kp, err := keypair.ParseFull(issuerSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid issuer signing credential: %w", err)
	}

	passphrase := network.TestNetworkPassphrase
	if networkName == publicNetworkName {
		passphrase = network.PublicNetworkPassphrase
	}

	return &Builder{
		keypair:    kp,
		passphrase: passphrase,
	}, nil
}

// buildAndSign assembles a single-operation transaction from the source
// account, signs it, and renders the base64 envelope.
func (b *Builder) buildAndSign(source horizon.Account, op txnbuild.Operation) (string, error) {
	sequence, err := strconv.ParseInt(source.Sequence, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid account sequence %q: %w", source.Sequence, err)
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount: &txnbuild.SimpleAccount{
			AccountID: source.ID,
			Sequence:  sequence,
		},
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              baseFee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(envelopeTimeout),
		},
	})
	if err != nil {
		return "", err
	}

	tx, err = tx.Sign(b.passphrase, b.keypair)
	if err != nil {
		return "", err
	}

	return tx.Base64()
}

// Payment builds a signed native-asset payment envelope.
func (b *Builder) Payment(source horizon.Account, destination, amount string) (string, error) {
	return b.buildAndSign(source, &txnbuild.Payment{
		Destination: destination,
		Amount:      amount,
		Asset:       txnbuild.NativeAsset{},
	})
}

// CreateAccount builds a signed create-account envelope.
func (b *Builder) CreateAccount(source horizon.Account, destination, startingBalance string) (string, error) {
	return b.buildAndSign(source, &txnbuild.CreateAccount{
		Destination: destination,
		Amount:      startingBalance,
	})
}
