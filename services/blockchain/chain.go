package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"mayhouse/metrics"
	"mayhouse/models"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

const gasLimit = 500000

// ErrChainDisabled is returned by every chain call when no client is configured.
var ErrChainDisabled = errors.New("blockchain integration is disabled")

const contractABI = `[
 {"type":"function","name":"createEventRun","stateMutability":"payable","inputs":[
   {"name":"experienceRunId","type":"string"},{"name":"pricePerSeat","type":"uint256"},
   {"name":"maxSeats","type":"uint256"},{"name":"eventTimestamp","type":"uint256"}],
  "outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"bookEvent","stateMutability":"payable","inputs":[
   {"name":"eventRunId","type":"uint256"},{"name":"seatCount","type":"uint256"}],
  "outputs":[{"name":"","type":"uint256"}]},
 {"type":"function","name":"completeEvent","stateMutability":"nonpayable","inputs":[
   {"name":"eventRunId","type":"uint256"},{"name":"attendedBookingIds","type":"uint256[]"}],"outputs":[]},
 {"type":"function","name":"cancelEvent","stateMutability":"nonpayable","inputs":[
   {"name":"eventRunId","type":"uint256"}],"outputs":[]},
 {"type":"function","name":"getEventRun","stateMutability":"view","inputs":[
   {"name":"eventRunId","type":"uint256"}],
  "outputs":[{"name":"","type":"tuple","components":[
   {"name":"id","type":"uint256"},{"name":"experienceRunId","type":"string"},
   {"name":"host","type":"address"},{"name":"pricePerSeat","type":"uint256"},
   {"name":"maxSeats","type":"uint256"},{"name":"seatsBooked","type":"uint256"},
   {"name":"eventTimestamp","type":"uint256"},{"name":"hostStake","type":"uint256"},
   {"name":"status","type":"uint8"}]}]},
 {"type":"function","name":"calculateBookingCost","stateMutability":"view","inputs":[
   {"name":"eventRunId","type":"uint256"},{"name":"seatCount","type":"uint256"}],
  "outputs":[{"name":"payment","type":"uint256"},{"name":"stake","type":"uint256"},{"name":"total","type":"uint256"}]},
 {"type":"function","name":"getHostEvents","stateMutability":"view","inputs":[
   {"name":"host","type":"address"}],"outputs":[{"name":"","type":"uint256[]"}]},
 {"type":"function","name":"getUserBookings","stateMutability":"view","inputs":[
   {"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256[]"}]},
 {"type":"event","name":"EventRunCreated","anonymous":false,"inputs":[
   {"name":"eventRunId","type":"uint256","indexed":true},{"name":"host","type":"address","indexed":true},
   {"name":"experienceRunId","type":"string","indexed":false}]}
]`

// ChainReceipt identifies a mined transaction.
type ChainReceipt struct {
	ChainID int64
	TxHash  string
}

// ChainClient talks to the booking contract.
type ChainClient interface {
	CreateEventRun(ctx context.Context, eventRunID string, priceWei *big.Int, maxSeats int, start time.Time) (*ChainReceipt, error)
	CompleteEvent(ctx context.Context, chainID int64, attended []int64) (string, error)
	CancelEvent(ctx context.Context, chainID int64) (string, error)
	GetEventRun(ctx context.Context, chainID int64) (*models.OnChainEventRun, error)
	CalculateBookingCost(ctx context.Context, chainID int64, seats int) (*models.OnChainCost, error)
	HostEvents(ctx context.Context, host string) []int64
	UserBookings(ctx context.Context, user string) []int64
}

// EthChainClient is the go-ethereum implementation; transactions are signed with the platform key.
type EthChainClient struct {
	client   *ethclient.Client
	abi      abi.ABI
	contract common.Address
	key      *ecdsa.PrivateKey
	from     common.Address
	chainID  *big.Int
	logger   *zap.Logger
}

func NewEthChainClient(ctx context.Context, rpcURL, contract, privateKeyHex string, chainID int64, logger *zap.Logger) (*EthChainClient, error) {
	if !common.IsHexAddress(contract) {
		return nil, fmt.Errorf("invalid contract address %q", contract)
	}
	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid platform private key: %w", err)
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	return &EthChainClient{
		client:   client,
		abi:      parsed,
		contract: common.HexToAddress(contract),
		key:      key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
		chainID:  big.NewInt(chainID),
		logger:   logger,
	}, nil
}

func (c *EthChainClient) Close() {
	c.client.Close()
}

func (c *EthChainClient) transact(ctx context.Context, value *big.Int, method string, args ...interface{}) (receipt *types.Receipt, err error) {
	defer func() { metrics.RecordChainTx(method, err) }()

	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	nonce, err := c.client.PendingNonceAt(ctx, c.from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}
	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest gas price: %w", err)
	}
	if value == nil {
		value = big.NewInt(0)
	}

	tx := types.NewTransaction(nonce, c.contract, value, gasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign %s: %w", method, err)
	}
	if err := c.client.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", method, err)
	}
	c.logger.Info("Chain transaction sent", zap.String("method", method), zap.String("tx", signed.Hash().Hex()))

	receipt, err = bind.WaitMined(ctx, c.client, signed)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s: %w", method, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%s reverted in tx %s", method, signed.Hash().Hex())
	}
	return receipt, nil
}

func (c *EthChainClient) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	out, err := c.client.CallContract(ctx, ethereum.CallMsg{From: c.from, To: &c.contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}
	return c.abi.Unpack(method, out)
}

// HostStake is the 20% deposit the platform posts for a run.
func HostStake(priceWei *big.Int, maxSeats int) *big.Int {
	stake := new(big.Int).Mul(priceWei, big.NewInt(int64(maxSeats)))
	stake.Mul(stake, big.NewInt(20))
	return stake.Quo(stake, big.NewInt(100))
}

func (c *EthChainClient) CreateEventRun(ctx context.Context, eventRunID string, priceWei *big.Int, maxSeats int, start time.Time) (*ChainReceipt, error) {
	receipt, err := c.transact(ctx, HostStake(priceWei, maxSeats), "createEventRun",
		eventRunID, priceWei, big.NewInt(int64(maxSeats)), big.NewInt(start.Unix()))
	if err != nil {
		return nil, err
	}
	topic := c.abi.Events["EventRunCreated"].ID
	for _, lg := range receipt.Logs {
		if len(lg.Topics) > 1 && lg.Topics[0] == topic {
			return &ChainReceipt{ChainID: lg.Topics[1].Big().Int64(), TxHash: receipt.TxHash.Hex()}, nil
		}
	}
	return nil, fmt.Errorf("EventRunCreated log missing from tx %s", receipt.TxHash.Hex())
}

func toBigInts(ids []int64) []*big.Int {
	out := make([]*big.Int, 0, len(ids))
	for _, id := range ids {
		out = append(out, big.NewInt(id))
	}
	return out
}

func (c *EthChainClient) CompleteEvent(ctx context.Context, chainID int64, attended []int64) (string, error) {
	receipt, err := c.transact(ctx, nil, "completeEvent", big.NewInt(chainID), toBigInts(attended))
	if err != nil {
		return "", err
	}
	return receipt.TxHash.Hex(), nil
}

func (c *EthChainClient) CancelEvent(ctx context.Context, chainID int64) (string, error) {
	receipt, err := c.transact(ctx, nil, "cancelEvent", big.NewInt(chainID))
	if err != nil {
		return "", err
	}
	return receipt.TxHash.Hex(), nil
}

type eventRunTuple struct {
	Id              *big.Int
	ExperienceRunId string
	Host            common.Address
	PricePerSeat    *big.Int
	MaxSeats        *big.Int
	SeatsBooked     *big.Int
	EventTimestamp  *big.Int
	HostStake       *big.Int
	Status          uint8
}

func (c *EthChainClient) GetEventRun(ctx context.Context, chainID int64) (*models.OnChainEventRun, error) {
	out, err := c.call(ctx, "getEventRun", big.NewInt(chainID))
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("getEventRun returned nothing")
	}
	t, ok := abi.ConvertType(out[0], new(eventRunTuple)).(*eventRunTuple)
	if !ok {
		return nil, errors.New("unexpected getEventRun result")
	}
	return &models.OnChainEventRun{
		ID:             t.Id.Int64(),
		ExperienceRef:  t.ExperienceRunId,
		Host:           t.Host.Hex(),
		PricePerSeat:   t.PricePerSeat.String(),
		MaxSeats:       t.MaxSeats.Int64(),
		SeatsBooked:    t.SeatsBooked.Int64(),
		EventTimestamp: t.EventTimestamp.Int64(),
		HostStake:      t.HostStake.String(),
		Status:         t.Status,
	}, nil
}

func (c *EthChainClient) CalculateBookingCost(ctx context.Context, chainID int64, seats int) (*models.OnChainCost, error) {
	out, err := c.call(ctx, "calculateBookingCost", big.NewInt(chainID), big.NewInt(int64(seats)))
	if err != nil {
		return nil, err
	}
	if len(out) != 3 {
		return nil, fmt.Errorf("calculateBookingCost returned %d values", len(out))
	}
	amounts := make([]string, 3)
	for i, v := range out {
		n, ok := v.(*big.Int)
		if !ok {
			return nil, errors.New("unexpected calculateBookingCost result")
		}
		amounts[i] = n.String()
	}
	return &models.OnChainCost{Payment: amounts[0], Stake: amounts[1], Total: amounts[2]}, nil
}

func (c *EthChainClient) idList(ctx context.Context, method, address string) []int64 {
	if !common.IsHexAddress(address) {
		return []int64{}
	}
	out, err := c.call(ctx, method, common.HexToAddress(address))
	if err != nil || len(out) == 0 {
		if err != nil {
			c.logger.Warn("Chain lookup failed", zap.String("method", method), zap.Error(err))
		}
		return []int64{}
	}
	ids, ok := out[0].([]*big.Int)
	if !ok {
		return []int64{}
	}
	res := make([]int64, 0, len(ids))
	for _, id := range ids {
		res = append(res, id.Int64())
	}
	return res
}

func (c *EthChainClient) HostEvents(ctx context.Context, host string) []int64 {
	return c.idList(ctx, "getHostEvents", host)
}

func (c *EthChainClient) UserBookings(ctx context.Context, user string) []int64 {
	return c.idList(ctx, "getUserBookings", user)
}
