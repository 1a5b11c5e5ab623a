package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// DefaultDecimals is the ERC-20 decimals value used when none is given.
const DefaultDecimals = 18

// LoginType is the only login channel this tool drives.
const LoginType = "email"

// SendCodeResponse is the response from requesting a login code.
type SendCodeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// VerifyCodeResponse is the response from verifying a login code.
type VerifyCodeResponse struct {
	IsNewUser     bool   `json:"isNewUser"`
	Token         string `json:"token"`
	Type          string `json:"type"`
	WalletAddress string `json:"walletAddress"`
	Error         string `json:"error,omitempty"`
}

// WalletInfo describes an authenticated user wallet.
type WalletInfo struct {
	Address            string     `json:"address"`
	Email              string     `json:"email"`
	CreatedAt          *time.Time `json:"created_at,omitempty"`
	ChainID            int64      `json:"chain_id,omitempty"`
	IsNewUser          bool       `json:"isNewUser"`
	Token              string     `json:"token,omitempty"`
	EcosystemID        string     `json:"ecosystemId,omitempty"`
	EcosystemPartnerID string     `json:"ecosystemPartnerId,omitempty"`
}

// TokenMetadata holds the user-supplied ERC-20 parameters.
type TokenMetadata struct {
	Name          string `json:"name" yaml:"name"`
	Symbol        string `json:"symbol" yaml:"symbol"`
	Description   string `json:"description" yaml:"description"`
	Decimals      int    `json:"decimals" yaml:"decimals"`
	InitialSupply string `json:"initialSupply" yaml:"initial_supply"`
}

// ContractInfo describes a deployed token contract.
type ContractInfo struct {
	ContractAddress  string    `json:"contractAddress"`
	TransactionID    string    `json:"transactionId,omitempty"`
	ChainID          int64     `json:"chainId"`
	Deployer         string    `json:"deployer"`
	TokenName        string    `json:"tokenName"`
	TokenSymbol      string    `json:"tokenSymbol"`
	TokenDescription string    `json:"tokenDescription"`
	DeployedAt       time.Time `json:"deployed_at"`
}

// Transaction is the status record returned by the transactions endpoint.
type Transaction struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	ChainID         Value  `json:"chainId,omitempty"`
	From            string `json:"from,omitempty"`
	To              string `json:"to,omitempty"`
	TransactionHash string `json:"transactionHash,omitempty"`
	BlockNumber     Value  `json:"blockNumber,omitempty"`
	GasUsed         Value  `json:"gasUsed,omitempty"`
	GasPrice        Value  `json:"gasPrice,omitempty"`
	CreatedAt       string `json:"createdAt,omitempty"`
	ConfirmedAt     string `json:"confirmedAt,omitempty"`
	ErrorMessage    string `json:"errorMessage,omitempty"`

	// Raw is the undecoded response body.
	Raw json.RawMessage `json:"-"`
}

// Value is a scalar the API sends either as a JSON string or a JSON number.
type Value string

// UnmarshalJSON accepts strings, numbers, and null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}
	*v = Value(strings.TrimSpace(string(data)))
	return nil
}

// String returns the raw textual value.
func (v Value) String() string {
	return string(v)
}

type deployRequest struct {
	ChainID           int64                  `json:"chainId"`
	ContractURL       string                 `json:"contractUrl"`
	From              string                 `json:"from"`
	ConstructorParams map[string]interface{} `json:"constructorParams"`
}

type deployResult struct {
	Address       string `json:"address"`
	ChainID       Value  `json:"chainId"`
	TransactionID string `json:"transactionId"`
}

// API response wrappers

type deployResponse struct {
	Result *deployResult `json:"result"`
}

type transactionResponse struct {
	Result *Transaction `json:"result"`
}

type detailsResponse struct {
	Result map[string]interface{} `json:"result"`
}
