package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meltyfi/domain/entities"
)

// Subjects served by the external custody, reward and payment services
const (
	subjectCustodyTransfer = "custody.prize.transfer"
	subjectChocoChipMint   = "rewards.chocochip.mint"
	subjectPaymentTransfer = "payments.transfer"

	collaboratorTimeout = 5 * time.Second
)

// collaboratorReply is the common response shape of all collaborator services
type collaboratorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (c *NATSClient) requestCollaborator(ctx context.Context, subject string, request any) error {
	ctx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
	defer cancel()

	data, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", subject, err)
	}

	replyData, err := c.Request(ctx, subject, data)
	if err != nil {
		return err
	}

	var reply collaboratorReply
	if err := json.Unmarshal(replyData, &reply); err != nil {
		return fmt.Errorf("failed to unmarshal %s reply: %w", subject, err)
	}
	if !reply.OK {
		return fmt.Errorf("%s denied: %s", subject, reply.Error)
	}

	return nil
}

// NATSPrizeCustodian moves prize assets through the external custody service
type NATSPrizeCustodian struct {
	client *NATSClient
}

// NewNATSPrizeCustodian creates a custodian backed by NATS request-reply
func NewNATSPrizeCustodian(client *NATSClient) *NATSPrizeCustodian {
	return &NATSPrizeCustodian{client: client}
}

// TransferPrize asks the custody service to move a prize asset. A denial maps
// to ErrCustodyTransferFailed so callers can abort their transition.
func (c *NATSPrizeCustodian) TransferPrize(ctx context.Context, prizeContract string, prizeTokenID int64, from, to string) error {
	request := struct {
		PrizeContract string `json:"prize_contract"`
		PrizeTokenID  int64  `json:"prize_token_id"`
		From          string `json:"from"`
		To            string `json:"to"`
	}{prizeContract, prizeTokenID, from, to}

	if err := c.client.requestCollaborator(ctx, subjectCustodyTransfer, request); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrCustodyTransferFailed, err)
	}

	return nil
}

// NATSChocoChipMinter mints reward tokens through the external reward ledger
type NATSChocoChipMinter struct {
	client *NATSClient
}

// NewNATSChocoChipMinter creates a minter backed by NATS request-reply
func NewNATSChocoChipMinter(client *NATSClient) *NATSChocoChipMinter {
	return &NATSChocoChipMinter{client: client}
}

// Mint credits reward tokens to an address
func (m *NATSChocoChipMinter) Mint(ctx context.Context, to string, amount int64) error {
	request := struct {
		To     string `json:"to"`
		Amount int64  `json:"amount"`
	}{to, amount}

	return m.client.requestCollaborator(ctx, subjectChocoChipMint, request)
}

// NATSPaymentGateway pays currency out through the external payment service
type NATSPaymentGateway struct {
	client *NATSClient
}

// NewNATSPaymentGateway creates a gateway backed by NATS request-reply
func NewNATSPaymentGateway(client *NATSClient) *NATSPaymentGateway {
	return &NATSPaymentGateway{client: client}
}

// Transfer sends payment currency to an address
func (g *NATSPaymentGateway) Transfer(ctx context.Context, to string, amount int64) error {
	request := struct {
		To     string `json:"to"`
		Amount int64  `json:"amount"`
	}{to, amount}

	return g.client.requestCollaborator(ctx, subjectPaymentTransfer, request)
}
