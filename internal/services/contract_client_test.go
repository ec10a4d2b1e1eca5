// internal/services/contract_client_test.go
package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftchain/artisan-marketplace/internal/models"
)

func newFakeGateway(t *testing.T, handler func(method string, params []interface{}) (interface{}, *rpcError)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req.JSONRPC)

		result, rpcErr := handler(req.Method, req.Params)
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestContractClientCall(t *testing.T) {
	gateway := newFakeGateway(t, func(method string, params []interface{}) (interface{}, *rpcError) {
		assert.Equal(t, "purchaseProduct", method)
		require.Len(t, params, 3)
		assert.Equal(t, "2", params[0])
		return txResult{TransactionHash: "0xabc123"}, nil
	})
	defer gateway.Close()

	client := NewContractClient(gateway.URL, "0xMarketplace")
	hash, err := client.PurchaseProduct(context.Background(), "2", "0xBuyer", WeiFromEth(1))
	require.NoError(t, err)
	assert.Equal(t, "0xabc123", hash)
}

func TestContractClientRevert(t *testing.T) {
	gateway := newFakeGateway(t, func(method string, params []interface{}) (interface{}, *rpcError) {
		return nil, &rpcError{Code: rpcCodeExecution, Message: "execution reverted: already sold"}
	})
	defer gateway.Close()

	client := NewContractClient(gateway.URL, "0xMarketplace")
	_, err := client.PurchaseProduct(context.Background(), "2", "0xBuyer", WeiFromEth(1))
	assert.ErrorIs(t, err, ErrReverted)
}

func TestContractClientUserRejected(t *testing.T) {
	gateway := newFakeGateway(t, func(method string, params []interface{}) (interface{}, *rpcError) {
		return nil, &rpcError{Code: rpcCodeUserRejected, Message: "User rejected the request"}
	})
	defer gateway.Close()

	client := NewContractClient(gateway.URL, "0xMarketplace")
	_, err := client.RegisterArtisan(context.Background(), &models.Artisan{
		ID:            "artisan-9",
		Name:          "Kumar Woodworks",
		WalletAddress: "0xNewArtisanWallet",
	})
	assert.ErrorIs(t, err, ErrUserRejected)
}

func TestContractClientProviderError(t *testing.T) {
	gateway := newFakeGateway(t, func(method string, params []interface{}) (interface{}, *rpcError) {
		return nil, &rpcError{Code: -32000, Message: "header not found"}
	})
	defer gateway.Close()

	client := NewContractClient(gateway.URL, "0xMarketplace")
	_, err := client.VerifyProduct(context.Background(), "2")
	assert.ErrorIs(t, err, ErrProvider)
}

func TestContractClientUnreachableGateway(t *testing.T) {
	client := NewContractClient("http://127.0.0.1:1", "0xMarketplace")
	_, err := client.VerifyProduct(context.Background(), "2")
	assert.ErrorIs(t, err, ErrProvider)
}

func TestContractClientConcurrentCalls(t *testing.T) {
	const callers = 16

	var mu sync.Mutex
	seen := make(map[int64]int)
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		seen[req.ID]++
		mu.Unlock()
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  txResult{TransactionHash: "0xabc123"},
		})
	}))
	defer gateway.Close()

	client := NewContractClient(gateway.URL, "0xMarketplace")

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.VerifyProduct(context.Background(), "2")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, seen, callers)
	for id, count := range seen {
		assert.Equal(t, 1, count, "request id %d reused", id)
	}
}

func TestContractClientGetArtisan(t *testing.T) {
	gateway := newFakeGateway(t, func(method string, params []interface{}) (interface{}, *rpcError) {
		assert.Equal(t, "getArtisanByAddress", method)
		return map[string]string{"id": "artisan-7", "name": "Chain Artisan", "walletAddress": "0xOnChain"}, nil
	})
	defer gateway.Close()

	client := NewContractClient(gateway.URL, "0xMarketplace")
	artisan, err := client.GetArtisanByAddress(context.Background(), "0xOnChain")
	require.NoError(t, err)
	assert.Equal(t, "artisan-7", artisan.ID)
}

func TestContractClientGetArtisanEmptyResult(t *testing.T) {
	gateway := newFakeGateway(t, func(method string, params []interface{}) (interface{}, *rpcError) {
		return map[string]string{}, nil
	})
	defer gateway.Close()

	client := NewContractClient(gateway.URL, "0xMarketplace")
	_, err := client.GetArtisanByAddress(context.Background(), "0xUnknown")
	assert.ErrorIs(t, err, ErrArtisanNotRegistered)
}
