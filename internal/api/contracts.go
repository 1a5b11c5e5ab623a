package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
)

// TokenERC20TemplateURL is the prebuilt ERC-20 template deployed by
// DeployERC20Contract.
const TokenERC20TemplateURL = "https://thirdweb.com/thirdweb.eth/TokenERC20"

// ChainID returns the chain used when an operation is not given one.
func (c *Client) ChainID() int64 {
	return c.chainID
}

// DeployERC20Contract deploys the ERC-20 template from walletAddress.
// A zero chainID selects the client's default chain.
func (c *Client) DeployERC20Contract(ctx context.Context, walletAddress string, meta TokenMetadata, chainID int64) (*ContractInfo, error) {
	if chainID == 0 {
		chainID = c.chainID
	}
	symbol := strings.ToUpper(strings.TrimSpace(meta.Symbol))

	params := map[string]interface{}{
		"name":                 meta.Name,
		"symbol":               symbol,
		"primarySaleRecipient": walletAddress,
	}
	supply, err := NormalizeSupply(meta.InitialSupply)
	if err != nil {
		return nil, err
	}
	if supply != "" {
		params["initialSupply"] = supply
	}

	req := deployRequest{
		ChainID:           chainID,
		ContractURL:       TokenERC20TemplateURL,
		From:              walletAddress,
		ConstructorParams: params,
	}

	var resp deployResponse
	if err := c.Post(ctx, "/v1/contracts", req, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil || resp.Result.Address == "" {
		return nil, newAPIError("deploy_failed", "contract deployment returned no result")
	}

	c.logger.Debug("contract deployed",
		slog.String("address", resp.Result.Address),
		slog.String("transaction_id", resp.Result.TransactionID),
	)

	deployedChain := chainID
	if n, err := strconv.ParseInt(resp.Result.ChainID.String(), 10, 64); err == nil && n != 0 {
		deployedChain = n
	}

	return &ContractInfo{
		ContractAddress:  checksumAddress(resp.Result.Address),
		TransactionID:    resp.Result.TransactionID,
		ChainID:          deployedChain,
		Deployer:         walletAddress,
		TokenName:        meta.Name,
		TokenSymbol:      symbol,
		TokenDescription: meta.Description,
		DeployedAt:       time.Now().UTC(),
	}, nil
}

// GetContractInfo looks up a deployed contract. Lookup failures are logged
// and reported as nil. A zero chainID selects the client's default chain.
func (c *Client) GetContractInfo(ctx context.Context, address string, chainID int64) map[string]interface{} {
	if chainID == 0 {
		chainID = c.chainID
	}
	path := fmt.Sprintf("/v1/contracts/%s?chainId=%d", url.PathEscape(address), chainID)

	var resp detailsResponse
	if err := c.Get(ctx, path, &resp); err != nil {
		c.logger.Debug("contract lookup failed", slog.String("address", address), slog.String("error", err.Error()))
		return nil
	}
	return resp.Result
}

// NormalizeSupply returns the initial supply to send, or "" when it is zero
// or unset. Anything other than a non-negative integer is a validation error.
func NormalizeSupply(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	n, ok := math.ParseBig256(s)
	if !ok || n.Sign() < 0 {
		return "", NewValidationError("initial supply %q is not a valid non-negative integer", s)
	}
	if n.Sign() == 0 {
		return "", nil
	}
	return n.String(), nil
}
