package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultDelay is how long the simulated processor takes to answer.
const DefaultDelay = 2 * time.Second

var ErrChargeDeclined = errors.New("payment declined")

type ChargeStatus string

const (
	ChargeStatusSuccess ChargeStatus = "success"
	ChargeStatusFailed  ChargeStatus = "failed"
)

type ChargeRequest struct {
	OrderID    string
	Amount     float64
	CardHolder string
	// Last4 is the only card detail handed to the gateway.
	Last4 string
}

type ChargeResult struct {
	Status        ChargeStatus
	TransactionID string
	Reason        string
}

// Gateway charges a card.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// Decider decides the outcome of a simulated charge.
type Decider interface {
	Decide(req ChargeRequest) (ChargeStatus, string)
}

// AlwaysApprove accepts every charge.
type AlwaysApprove struct{}

func (AlwaysApprove) Decide(ChargeRequest) (ChargeStatus, string) {
	return ChargeStatusSuccess, ""
}

// SimulatedGateway stands in for a real processor. It waits Delay and then
// answers with the Decider's verdict.
type SimulatedGateway struct {
	delay   time.Duration
	decider Decider
}

func NewSimulatedGateway(delay time.Duration, decider Decider) *SimulatedGateway {
	if decider == nil {
		decider = AlwaysApprove{}
	}
	return &SimulatedGateway{
		delay:   delay,
		decider: decider,
	}
}

func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	timer := time.NewTimer(g.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	status, reason := g.decider.Decide(req)
	result := &ChargeResult{
		Status:        status,
		TransactionID: "TXN-" + uuid.NewString(),
		Reason:        reason,
	}

	log.Info().
		Str("order_id", req.OrderID).
		Str("transaction_id", result.TransactionID).
		Str("status", string(status)).
		Msg("Charge processed")

	if status != ChargeStatusSuccess {
		return result, fmt.Errorf("%w: %s", ErrChargeDeclined, reason)
	}
	return result, nil
}
