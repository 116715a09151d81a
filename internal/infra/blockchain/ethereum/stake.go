package ethereum

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gabapcia/stakebridge/internal/pkg/types"
	"github.com/gabapcia/stakebridge/internal/pkg/x/chflow"
	"github.com/gabapcia/stakebridge/internal/stakewatch"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// stakedEventSignature is the canonical signature of the staking contract's
// deposit event; its keccak hash is the log's first topic.
const stakedEventSignature = "Staked(address,uint256)"

// stakedEventTopic identifies Staked logs in eth_getLogs filters.
var stakedEventTopic = crypto.Keccak256Hash([]byte(stakedEventSignature))

// notificationChannelBufferSize absorbs bursts of logs found in one poll.
const notificationChannelBufferSize = 32

// LogResponse represents a raw log object returned by the Ethereum JSON-RPC API.
type LogResponse struct {
	Address          string    `json:"address"`
	Topics           []string  `json:"topics"`
	Data             string    `json:"data"`
	BlockNumber      types.Hex `json:"blockNumber"`
	TransactionHash  string    `json:"transactionHash"`
	TransactionIndex types.Hex `json:"transactionIndex"`
	BlockHash        string    `json:"blockHash"`
	LogIndex         types.Hex `json:"logIndex"`
	Removed          bool      `json:"removed"`
}

// toStakeNotification decodes a Staked log into a stake notification. The
// depositor comes from the first indexed topic, the amount from the 32-byte
// data word, still in base units.
func (l LogResponse) toStakeNotification() stakewatch.StakeNotification {
	ref := stakewatch.EventRef{
		BlockNumber: l.BlockNumber,
		TxHash:      l.TransactionHash,
		LogIndex:    l.LogIndex,
	}

	if len(l.Topics) < 2 {
		return stakewatch.StakeNotification{
			Ref: ref,
			Err: fmt.Errorf("staked log %s is missing the depositor topic", ref.Key()),
		}
	}

	amount, err := types.HexFromString(l.Data)
	if err != nil {
		return stakewatch.StakeNotification{
			Ref: ref,
			Err: fmt.Errorf("staked log %s carries a malformed amount: %w", ref.Key(), err),
		}
	}

	// Indexed address topics are left-padded to 32 bytes.
	depositor := common.HexToAddress(l.Topics[1])

	return stakewatch.StakeNotification{
		Depositor:      strings.ToLower(depositor.Hex()),
		AmountBaseUnit: amount,
		Ref:            ref,
	}
}

// getChainID probes the node, verifying the RPC endpoint is reachable before
// a subscription is considered established.
func (c *client) getChainID(ctx context.Context) (types.Hex, error) {
	data, err := c.conn.Fetch(ctx, "eth_chainId")
	if err != nil {
		return "", err
	}

	var chainID types.Hex
	return chainID, json.Unmarshal(data, &chainID)
}

// getLatestBlockNumber fetches the latest block number from the node.
func (c *client) getLatestBlockNumber(ctx context.Context) (types.Hex, error) {
	data, err := c.conn.Fetch(ctx, "eth_blockNumber")
	if err != nil {
		return "", err
	}

	var blockNumber types.Hex
	return blockNumber, json.Unmarshal(data, &blockNumber)
}

// getStakedLogs retrieves the contract's Staked logs in the inclusive block
// range [fromBlock, toBlock].
func (c *client) getStakedLogs(ctx context.Context, fromBlock, toBlock types.Hex) ([]LogResponse, error) {
	filter := map[string]any{
		"fromBlock": fromBlock,
		"toBlock":   toBlock,
		"address":   c.contract.Hex(),
		"topics":    []string{stakedEventTopic.Hex()},
	}

	data, err := c.conn.Fetch(ctx, "eth_getLogs", filter)
	if err != nil {
		return nil, err
	}

	var logs []LogResponse
	return logs, json.Unmarshal(data, &logs)
}

// pollStakedLogs fetches all Staked logs between nextBlock and the latest
// known block, emits one notification per log, and returns the next block to
// poll from. Poll-level failures are emitted as error notifications and leave
// nextBlock unchanged so the range is retried on the next tick.
func (c *client) pollStakedLogs(ctx context.Context, nextBlock types.Hex, notificationsCh chan<- stakewatch.StakeNotification) types.Hex {
	latest, err := c.getLatestBlockNumber(ctx)
	if err != nil {
		chflow.Send(ctx, notificationsCh, stakewatch.StakeNotification{Err: err})
		return nextBlock
	}

	if latest.Int() < nextBlock.Int() {
		return nextBlock
	}

	logs, err := c.getStakedLogs(ctx, nextBlock, latest)
	if err != nil {
		chflow.Send(ctx, notificationsCh, stakewatch.StakeNotification{Err: err})
		return nextBlock
	}

	for _, log := range logs {
		if log.Removed {
			continue
		}

		if ok := chflow.Send(ctx, notificationsCh, log.toStakeNotification()); !ok {
			return nextBlock
		}
	}

	return latest.Add(1)
}

// Subscribe begins streaming stake notifications from fromBlock (inclusive).
// If fromBlock is the zero value, streaming starts right after the latest
// known block. The returned channel is closed when ctx is canceled.
//
// Subscribe fails immediately when the node is unreachable, so the process
// can fail fast instead of running with a dead ingestion path.
func (c *client) Subscribe(ctx context.Context, fromBlock types.Hex) (<-chan stakewatch.StakeNotification, error) {
	if _, err := c.getChainID(ctx); err != nil {
		return nil, fmt.Errorf("chain subscription probe failed: %w", err)
	}

	if fromBlock.IsEmpty() {
		latest, err := c.getLatestBlockNumber(ctx)
		if err != nil {
			return nil, err
		}
		fromBlock = latest.Add(1)
	}

	notificationsCh := make(chan stakewatch.StakeNotification, notificationChannelBufferSize)

	go func() {
		defer close(notificationsCh)

		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()

		nextBlock := fromBlock
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				nextBlock = c.pollStakedLogs(ctx, nextBlock, notificationsCh)
			}
		}
	}()

	return notificationsCh, nil
}
