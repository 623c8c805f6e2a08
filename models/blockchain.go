package models

import "time"

const (
	PriceSourceLive     = "coingecko"
	PriceSourceCached   = "coingecko_cached"
	PriceSourceFallback = "fallback_hardcoded"
)

// EthPrice is the current ETH/INR quote.
type EthPrice struct {
	EthPriceINR     float64   `json:"eth_price_inr"`
	Currency        string    `json:"currency"`
	LastUpdated     time.Time `json:"last_updated"`
	Source          string    `json:"source"`
	CacheTTLSeconds int       `json:"cache_ttl_seconds"`
}

// Conversion is an INR/Wei conversion at a given ETH price.
type Conversion struct {
	AmountINR   float64 `json:"amount_inr"`
	AmountWei   string  `json:"amount_wei"`
	AmountETH   float64 `json:"amount_eth"`
	EthPriceINR float64 `json:"eth_price_inr"`
}

// OnChainEventRun mirrors the contract's EventRun tuple, with amounts as decimal strings.
type OnChainEventRun struct {
	ID             int64  `json:"id"`
	ExperienceRef  string `json:"experience_run_id"`
	Host           string `json:"host"`
	PricePerSeat   string `json:"price_per_seat_wei"`
	MaxSeats       int64  `json:"max_seats"`
	SeatsBooked    int64  `json:"seats_booked"`
	EventTimestamp int64  `json:"event_timestamp"`
	HostStake      string `json:"host_stake_wei"`
	Status         uint8  `json:"status"`
}

// OnChainCost is the contract's own booking cost figure in Wei.
type OnChainCost struct {
	Payment string `json:"payment_wei"`
	Stake   string `json:"stake_wei"`
	Total   string `json:"total_wei"`
}

// ChainCostResponse is the blockchain flavour of the booking cost.
type ChainCostResponse struct {
	BookingCost
	TotalCostWei string       `json:"total_cost_wei"`
	EthPriceINR  float64      `json:"eth_price_inr"`
	OnChain      *OnChainCost `json:"on_chain,omitempty"`
}

type ChainStatusResponse struct {
	EventRunID           string           `json:"event_run_id"`
	BlockchainEventRunID *int64           `json:"blockchain_event_run_id"`
	BlockchainTxHash     string           `json:"blockchain_tx_hash,omitempty"`
	BlockchainStatus     string           `json:"blockchain_status,omitempty"`
	OnChainData          *OnChainEventRun `json:"on_chain_data,omitempty"`
}

// ChainEventList is a list of on-chain ids for an address.
type ChainEventList struct {
	Address string  `json:"address"`
	IDs     []int64 `json:"ids"`
}
