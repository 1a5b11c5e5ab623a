package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testContract = "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"

func TestClient_DeployERC20Contract(t *testing.T) {
	tests := []struct {
		name       string
		meta       TokenMetadata
		chainID    int64
		wantChain  float64
		wantSupply interface{}
	}{
		{
			name:       "zero supply omitted",
			meta:       TokenMetadata{Name: "My Token", Symbol: "mtk", Description: "d", Decimals: 18, InitialSupply: "0"},
			chainID:    137,
			wantChain:  137,
			wantSupply: nil,
		},
		{
			name:       "empty supply omitted, default chain",
			meta:       TokenMetadata{Name: "My Token", Symbol: "Mtk"},
			wantChain:  11155111,
			wantSupply: nil,
		},
		{
			name:       "non-zero supply included",
			meta:       TokenMetadata{Name: "My Token", Symbol: "MTK", InitialSupply: "1000000"},
			chainID:    1,
			wantChain:  1,
			wantSupply: "1000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v1/contracts", r.URL.Path)

				var body map[string]interface{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, tt.wantChain, body["chainId"])
				assert.Equal(t, TokenERC20TemplateURL, body["contractUrl"])
				assert.Equal(t, testAddress, body["from"])

				params := body["constructorParams"].(map[string]interface{})
				assert.Equal(t, "My Token", params["name"])
				assert.Equal(t, "MTK", params["symbol"])
				assert.Equal(t, testAddress, params["primarySaleRecipient"])
				supply, ok := params["initialSupply"]
				if tt.wantSupply == nil {
					assert.False(t, ok, "initialSupply should be omitted")
				} else {
					assert.Equal(t, tt.wantSupply, supply)
				}

				_, _ = w.Write([]byte(`{"result":{"address":"` + testContract + `","chainId":` + jsonNumber(tt.wantChain) + `,"transactionId":"tx-1"}}`))
			}, WithChainID(11155111))

			info, err := c.DeployERC20Contract(context.Background(), testAddress, tt.meta, tt.chainID)
			require.NoError(t, err)
			assert.Equal(t, "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359", info.ContractAddress)
			assert.Equal(t, "tx-1", info.TransactionID)
			assert.Equal(t, int64(tt.wantChain), info.ChainID)
			assert.Equal(t, testAddress, info.Deployer)
			assert.Equal(t, "MTK", info.TokenSymbol)
			assert.Equal(t, tt.meta.Name, info.TokenName)
			assert.False(t, info.DeployedAt.IsZero())
		})
	}
}

func jsonNumber(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}

func TestClient_DeployERC20Contract_MissingResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"queued"}`))
	})

	info, err := c.DeployERC20Contract(context.Background(), testAddress, TokenMetadata{Name: "T", Symbol: "t"}, 1)
	require.Error(t, err)
	assert.Nil(t, info)
	assert.True(t, IsKind(err, KindAPI))
}

func TestClient_DeployERC20Contract_InvalidSupply(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for invalid supply")
	})

	for _, supply := range []string{"lots", "-5", "1.5"} {
		_, err := c.DeployERC20Contract(context.Background(), testAddress, TokenMetadata{Name: "T", Symbol: "T", InitialSupply: supply}, 1)
		require.Error(t, err, supply)
		assert.True(t, IsKind(err, KindValidation), supply)
	}
}

func TestClient_GetContractInfo(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/contracts/"+testContract, r.URL.Path)
			assert.Equal(t, "137", r.URL.Query().Get("chainId"))
			_, _ = w.Write([]byte(`{"result":{"name":"My Token","symbol":"MTK"}}`))
		})
		info := c.GetContractInfo(context.Background(), testContract, 137)
		require.NotNil(t, info)
		assert.Equal(t, "MTK", info["symbol"])
	})

	t.Run("default chain", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "42161", r.URL.Query().Get("chainId"))
			_, _ = w.Write([]byte(`{"result":{}}`))
		}, WithChainID(42161))
		assert.NotNil(t, c.GetContractInfo(context.Background(), testContract, 0))
	})

	t.Run("error swallowed", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not_found"}`))
		})
		assert.Nil(t, c.GetContractInfo(context.Background(), testContract, 1))
	})
}
