// internal/services/contract_client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/craftchain/artisan-marketplace/internal/models"
)

// ContractClient talks to the single deployed marketplace contract through an
// RPC-style gateway: method name plus positional arguments in, decoded result
// out, reverts surfaced as errors. When a client is configured, the services
// call the contract first and mirror every effect into the local JSON store
// for caching and fallback reads.
type ContractClient struct {
	httpClient      *http.Client
	endpoint        string
	contractAddress string
	log             *logrus.Entry
	nextID          atomic.Int64
}

func NewContractClient(endpoint, contractAddress string) *ContractClient {
	return &ContractClient{
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		endpoint:        endpoint,
		contractAddress: contractAddress,
		log:             logrus.WithField("component", "contract"),
	}
}

func (c *ContractClient) ContractAddress() string { return c.contractAddress }

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int64         `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Call performs one request/response round trip. result may be nil for
// calls whose return value is unused.
func (c *ContractClient) Call(ctx context.Context, method string, result interface{}, args ...interface{}) error {
	id := c.nextID.Add(1)
	if args == nil {
		args = []interface{}{}
	}
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  args,
		ID:      id,
	})
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrProvider, method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrProvider, method, err)
	}
	defer httpResp.Body.Close()

	var resp rpcResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrProvider, method, err)
	}

	if resp.Error != nil {
		if isRevert(resp.Error) {
			return fmt.Errorf("%w: %s: %s", ErrReverted, method, resp.Error.Message)
		}
		if resp.Error.Code == rpcCodeUserRejected {
			return ErrUserRejected
		}
		return fmt.Errorf("%w: %s: %s", ErrProvider, method, resp.Error.Message)
	}

	if result != nil {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("%w: decode result of %s: %v", ErrProvider, method, err)
		}
	}
	return nil
}

// EIP-1193 user rejection and the JSON-RPC execution error code reverts ride
// on.
const (
	rpcCodeUserRejected = 4001
	rpcCodeExecution    = 3
)

func isRevert(e *rpcError) bool {
	return e.Code == rpcCodeExecution || strings.Contains(strings.ToLower(e.Message), "revert")
}

// Typed wrappers over the contract surface.

type txResult struct {
	TransactionHash string `json:"transactionHash"`
	TokenID         string `json:"tokenId,omitempty"`
}

func (c *ContractClient) RegisterArtisan(ctx context.Context, artisan *models.Artisan) (string, error) {
	var res txResult
	err := c.Call(ctx, "registerArtisan", &res,
		artisan.WalletAddress, artisan.ID, artisan.Name, artisan.Bio, artisan.ProfileImage)
	if err != nil {
		return "", err
	}
	return res.TransactionHash, nil
}

func (c *ContractClient) CreateProduct(ctx context.Context, product *models.Product, artisanWallet string) (string, string, error) {
	var res txResult
	err := c.Call(ctx, "createProduct", &res,
		artisanWallet, product.Name, product.Description, []string(product.Materials),
		product.ImageURL, WeiFromEth(product.Price).String())
	if err != nil {
		return "", "", err
	}
	return res.TokenID, res.TransactionHash, nil
}

func (c *ContractClient) PurchaseProduct(ctx context.Context, tokenID, buyer string, valueWei *big.Int) (string, error) {
	var res txResult
	err := c.Call(ctx, "purchaseProduct", &res, tokenID, buyer, valueWei.String())
	if err != nil {
		return "", err
	}
	return res.TransactionHash, nil
}

func (c *ContractClient) VerifyProduct(ctx context.Context, tokenID string) (string, error) {
	var res txResult
	if err := c.Call(ctx, "verifyProduct", &res, tokenID); err != nil {
		return "", err
	}
	return res.TransactionHash, nil
}

func (c *ContractClient) GetArtisanByAddress(ctx context.Context, address string) (*models.Artisan, error) {
	var artisan models.Artisan
	if err := c.Call(ctx, "getArtisanByAddress", &artisan, address); err != nil {
		return nil, err
	}
	if artisan.Name == "" {
		return nil, ErrArtisanNotRegistered
	}
	return &artisan, nil
}

func (c *ContractClient) GetProductProvenance(ctx context.Context, tokenID string) ([]models.ProvenanceEvent, error) {
	var history []models.ProvenanceEvent
	if err := c.Call(ctx, "getProductProvenance", &history, tokenID); err != nil {
		return nil, err
	}
	return history, nil
}
