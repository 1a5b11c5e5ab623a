package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// CodeSource supplies the one-time code emailed to the user. Code blocks
// until a code is available or ctx is done.
type CodeSource interface {
	Code(ctx context.Context, email string) (string, error)
}

// CodeSourceFunc adapts a function to CodeSource.
type CodeSourceFunc func(ctx context.Context, email string) (string, error)

// Code implements CodeSource.
func (f CodeSourceFunc) Code(ctx context.Context, email string) (string, error) {
	return f(ctx, email)
}

// SendLoginCode asks the provider to email a login code.
func (c *Client) SendLoginCode(ctx context.Context, email string) (*SendCodeResponse, error) {
	body := map[string]interface{}{
		"email": email,
		"type":  LoginType,
	}

	var resp SendCodeResponse
	if err := c.Post(ctx, "/v1/wallets/login/code", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyLoginCode exchanges an emailed code for a wallet and bearer token.
func (c *Client) VerifyLoginCode(ctx context.Context, email, code string) (*VerifyCodeResponse, error) {
	body := map[string]interface{}{
		"email": email,
		"code":  code,
		"type":  LoginType,
	}

	var resp VerifyCodeResponse
	if err := c.Post(ctx, "/v1/wallets/login/code/verify", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateWalletWithEmail runs the full email login: it sends a code, waits
// on src for the user to supply it, and verifies it. On success the bearer
// token is attached to all later requests made by c.
func (c *Client) CreateWalletWithEmail(ctx context.Context, email string, src CodeSource, eco Ecosystem) (*WalletInfo, error) {
	if eco.ID != "" {
		c.ecosystem = eco
	}

	sent, err := c.SendLoginCode(ctx, email)
	if err != nil {
		return nil, err
	}
	if !sent.Success {
		reason := sent.Error
		if reason == "" {
			reason = "provider did not confirm delivery"
		}
		return nil, newAPIError("send_code_failed", "failed to send login code to %s: %s", email, reason)
	}

	code, err := src.Code(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to read login code: %w", err)
	}

	verified, err := c.VerifyLoginCode(ctx, email, code)
	if err != nil {
		return nil, err
	}
	if verified.WalletAddress == "" {
		reason := verified.Error
		if reason == "" {
			reason = "no wallet address returned"
		}
		return nil, newAPIError("verify_failed", "failed to verify login code: %s", reason)
	}

	c.SetAuthToken(verified.Token)
	c.logger.Debug("authenticated", slog.Bool("new_user", verified.IsNewUser))

	now := time.Now().UTC()
	return &WalletInfo{
		Address:            checksumAddress(verified.WalletAddress),
		Email:              email,
		CreatedAt:          &now,
		ChainID:            c.chainID,
		IsNewUser:          verified.IsNewUser,
		Token:              verified.Token,
		EcosystemID:        c.ecosystem.ID,
		EcosystemPartnerID: c.ecosystem.PartnerID,
	}, nil
}

// GetWalletInfo looks up provider-side details for a wallet. Lookup failures
// are logged and reported as nil.
func (c *Client) GetWalletInfo(ctx context.Context, address string) map[string]interface{} {
	var resp detailsResponse
	if err := c.Get(ctx, "/v1/wallets/"+url.PathEscape(address), &resp); err != nil {
		c.logger.Debug("wallet lookup failed", slog.String("address", address), slog.String("error", err.Error()))
		return nil
	}
	return resp.Result
}

// checksumAddress returns the EIP-55 form of a hex address and leaves
// anything else untouched.
func checksumAddress(addr string) string {
	if !common.IsHexAddress(addr) {
		return addr
	}
	return common.HexToAddress(addr).Hex()
}
