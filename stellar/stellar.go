// Package stellar contains the Stellar address utilities, syntactic strkey
// validation and account existence lookups against a Horizon instance
package stellar

import (
	"net/http"
	"time"

	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/strkey"
)

// IsValidAddress reports wether the given string is a syntactically valid
// Stellar account address (an ed25519 public key strkey, "G...")
func IsValidAddress(address string) bool {
	return strkey.IsValidEd25519PublicKey(address)
}

// Ledger is the account existence check against the Stellar network
type Ledger interface {
	WalletExists(address string) (bool, error)
}

// Horizon checks account existence against a Horizon instance
type Horizon struct {
	Client *horizonclient.Client
}

// NewHorizon creates a Horizon ledger client for the given Horizon URL
func NewHorizon(horizonURL string) *Horizon {
	return &Horizon{
		Client: &horizonclient.Client{
			HorizonURL: horizonURL,
			HTTP: &http.Client{
				Timeout: 30 * time.Second,
			},
		},
	}
}

// WalletExists reports wether an account with the given address exists on the
// ledger, a Horizon 404 means the account was never funded
func (h *Horizon) WalletExists(address string) (bool, error) {
	_, err := h.Client.AccountDetail(horizonclient.AccountRequest{
		AccountID: address,
	})
	if err != nil {
		if herr := horizonclient.GetError(err); herr != nil && herr.Problem.Status == http.StatusNotFound {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
