package main

import (
	"context"
	"log"
	"time"

	"github.com/gabapcia/stakebridge/internal/addressbook"
	"github.com/gabapcia/stakebridge/internal/bridge"
	"github.com/gabapcia/stakebridge/internal/config"
	"github.com/gabapcia/stakebridge/internal/handlers/cli"
	"github.com/gabapcia/stakebridge/internal/infra/blockchain/ethereum"
	"github.com/gabapcia/stakebridge/internal/infra/ledger/horizon"
	"github.com/gabapcia/stakebridge/internal/infra/ledger/stellartx"
	"github.com/gabapcia/stakebridge/internal/infra/session/websocket"
	"github.com/gabapcia/stakebridge/internal/infra/storage/redis"
	"github.com/gabapcia/stakebridge/internal/pkg/logger"
	"github.com/gabapcia/stakebridge/internal/pkg/telemetry"
	transporthttp "github.com/gabapcia/stakebridge/internal/pkg/transport/http"
	"github.com/gabapcia/stakebridge/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/stakebridge/internal/pkg/validator"
	"github.com/gabapcia/stakebridge/internal/rewardissuer"
	"github.com/gabapcia/stakebridge/internal/sessionhub"
	"github.com/gabapcia/stakebridge/internal/stakewatch"
)

const serviceName = "stakebridge"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, serviceName)
		if err != nil {
			log.Fatalf("init telemetry: %v", err)
		}
		defer shutdown(ctx)
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	validator.Init()

	var storage addressbook.Storage = addressbook.NewMemoryStorage()
	if cfg.RedisAddress != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal(ctx, "failed to connect to redis", "error", err)
		}
		defer redisClient.Close()

		storage = redisClient
	}
	registry := addressbook.New(storage)

	rpcConn := jsonrpc.NewClient(
		transporthttp.NewClient(transporthttp.WithTimeout(30*time.Second)).StandardClient(),
		cfg.ChainRPCEndpoint,
	)
	chain := ethereum.NewClient(rpcConn, cfg.StakeContractAddress, ethereum.WithPollInterval(cfg.ChainPollInterval))
	stakes := stakewatch.New(chain)

	envelopes, err := stellartx.NewBuilder(cfg.IssuerSecret, cfg.Network)
	if err != nil {
		logger.Fatal(ctx, "failed to build envelope signer", "error", err)
	}

	// Submission retries are owned by the rewardissuer retry policy, so the
	// ledger HTTP client must not retry on its own.
	ledger := horizon.NewClient(
		transporthttp.NewClient(transporthttp.WithTimeout(30*time.Second), transporthttp.WithRetryMax(0)),
		cfg.HorizonEndpoint,
		cfg.IssuerAccount,
		envelopes,
	)

	issuerOpts := make([]rewardissuer.Option, 0, 1)
	if cfg.SyntheticFallback {
		issuerOpts = append(issuerOpts, rewardissuer.WithSyntheticFallback())
	}
	issuer := rewardissuer.New(ledger, issuerOpts...)

	gateway := bridge.NewIssuerGateway(issuer)
	hub := sessionhub.New(registry, gateway, gateway)
	relay := bridge.New(stakes, registry, issuer, hub, cfg.RewardMultiplier)
	sessions := websocket.NewServer(hub)

	if err := cli.Run(ctx, cfg.ListenAddress, relay, sessions, issuer, registry); err != nil {
		logger.Fatal(ctx, "application error", "error", err)
	}
}
