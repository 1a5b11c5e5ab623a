package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// GetTransaction retrieves a transaction by its provider id.
func (c *Client) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, NewValidationError("transaction id is required")
	}

	body, err := c.GetRaw(ctx, "/v1/transactions/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return DecodeTransaction(body)
}

// DecodeTransaction parses a transactions endpoint body. Both the wrapped
// {"result": {...}} form and a bare object are accepted.
func DecodeTransaction(body []byte) (*Transaction, error) {
	var wrapped transactionResponse
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	tx := wrapped.Result
	if tx == nil {
		tx = &Transaction{}
		if err := json.Unmarshal(body, tx); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	tx.Raw = json.RawMessage(body)
	return tx, nil
}
