// internal/services/transaction_simulator.go
package services

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/craftchain/artisan-marketplace/internal/utils"
)

// TxRequest describes a wallet-signed transaction to be submitted.
type TxRequest struct {
	From     string
	To       string
	ValueWei *big.Int
	Data     string
}

// TxReceipt is the confirmed outcome of a submitted transaction.
type TxReceipt struct {
	Hash        string    `json:"transactionHash"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	ValueWei    *big.Int  `json:"valueWei"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

// WalletProvider abstracts the signing wallet. The production variant would
// prompt a real wallet; the simulated one signs unconditionally after a delay.
type WalletProvider interface {
	SendTransaction(ctx context.Context, req TxRequest) (string, error)
}

// SimulatedWallet stands in for a browser wallet. Outcomes are scriptable:
// RejectNext models the user cancelling the signing prompt, FailNext models a
// provider/network fault. Either way the submission is terminal; there are no
// retries at this layer.
type SimulatedWallet struct {
	mu         sync.Mutex
	delay      time.Duration
	nonce      uint64
	rejectNext bool
	failNext   bool
}

func NewSimulatedWallet(delay time.Duration) *SimulatedWallet {
	return &SimulatedWallet{delay: delay}
}

// RejectNext makes the next SendTransaction fail with ErrUserRejected.
func (w *SimulatedWallet) RejectNext() {
	w.mu.Lock()
	w.rejectNext = true
	w.mu.Unlock()
}

// FailNext makes the next SendTransaction fail with ErrProvider.
func (w *SimulatedWallet) FailNext() {
	w.mu.Lock()
	w.failNext = true
	w.mu.Unlock()
}

func (w *SimulatedWallet) SendTransaction(ctx context.Context, req TxRequest) (string, error) {
	if err := sleepCtx(ctx, w.delay); err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}

	w.mu.Lock()
	rejected, failed := w.rejectNext, w.failNext
	w.rejectNext, w.failNext = false, false
	w.nonce++
	nonce := w.nonce
	w.mu.Unlock()

	if rejected {
		return "", ErrUserRejected
	}
	if failed {
		return "", fmt.Errorf("%w: provider unavailable", ErrProvider)
	}

	value := "0"
	if req.ValueWei != nil {
		value = req.ValueWei.String()
	}
	seed := fmt.Sprintf("%s|%s|%s|%d|%d", req.From, req.To, value, nonce, time.Now().UnixNano())
	return "0x" + utils.HashString(seed), nil
}

// TransactionSimulator models the lifecycle of a wallet transaction: submit,
// wait out a synthetic mining delay, return a receipt. A failed submission
// never yields a receipt and the caller must re-invoke the whole operation.
type TransactionSimulator struct {
	wallet       WalletProvider
	confirmDelay time.Duration
	log          *logrus.Entry
}

func NewTransactionSimulator(wallet WalletProvider, confirmDelay time.Duration) *TransactionSimulator {
	return &TransactionSimulator{
		wallet:       wallet,
		confirmDelay: confirmDelay,
		log:          logrus.WithField("component", "txsim"),
	}
}

func (s *TransactionSimulator) Submit(ctx context.Context, req TxRequest) (*TxReceipt, error) {
	hash, err := s.wallet.SendTransaction(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := sleepCtx(ctx, s.confirmDelay); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	s.log.WithFields(logrus.Fields{
		"hash": hash,
		"from": req.From,
		"to":   req.To,
	}).Debug("Transaction confirmed")

	return &TxReceipt{
		Hash:        hash,
		From:        req.From,
		To:          req.To,
		ValueWei:    req.ValueWei,
		ConfirmedAt: time.Now(),
	}, nil
}

// WeiFromEth converts a decimal ETH price into wei.
func WeiFromEth(eth float64) *big.Int {
	wei, _ := new(big.Float).Mul(big.NewFloat(eth), big.NewFloat(1e18)).Int(nil)
	return wei
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
