package bootstrap_test

import (
	"context"
	"errors"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crazycube/graveyard-api/internal/bootstrap"
	"github.com/crazycube/graveyard-api/internal/config"
	"github.com/crazycube/graveyard-api/internal/domain"
	"github.com/crazycube/graveyard-api/internal/logger"
	"github.com/crazycube/graveyard-api/internal/mocks"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func testConfig() *config.GraveyardConfig {
	return &config.GraveyardConfig{
		Chain: config.ChainConfig{
			RPCURL:     "http://localhost:8545",
			ChainID:    domain.CHAIN_ID_MONAD_TESTNET,
			StartBlock: 100,
		},
		Contracts: config.ContractsConfig{
			Reader:    "0x0000000000000000000000000000000000000001",
			Game:      "0x0000000000000000000000000000000000000002",
			Multicall: domain.DEFAULT_MULTICALL3_ADDRESS,
		},
		Scan: config.ScanConfig{
			ChunkSize:            1000,
			WindowPageSize:       100,
			MaxPages:             10,
			MulticallBatchSize:   50,
			MulticallConcurrency: 2,
		},
		Cache: config.CacheConfig{TTL: time.Minute, MaxEntries: 100},
		RPC:   config.RPCConfig{RequestsPerSecond: 10},
	}
}

func TestBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("wires the service", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		dialer := mocks.NewMockEthClientDialer(ctrl)
		eth := mocks.NewMockEthClient(ctrl)
		st := mocks.NewMockStore(ctrl)

		dialer.EXPECT().Dial(gomock.Any(), "http://localhost:8545").Return(eth, nil)
		eth.EXPECT().ChainID(gomock.Any()).Return(big.NewInt(domain.CHAIN_ID_MONAD_TESTNET), nil)
		eth.EXPECT().Close().Times(1)

		rt, err := bootstrap.Build(ctx, testConfig(), bootstrap.Options{
			Dialer: dialer,
			Clock:  mocks.NewMockClock(ctrl),
			Store:  st,
		})
		require.NoError(t, err)
		require.NotNil(t, rt.Service)
		assert.Equal(t, 0, rt.Service.PurgeCache())

		rt.Close()
		// closing twice is a no-op
		rt.Close()
	})

	t.Run("dial failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		dialer := mocks.NewMockEthClientDialer(ctrl)
		dialer.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

		rt, err := bootstrap.Build(ctx, testConfig(), bootstrap.Options{Dialer: dialer})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to dial RPC")
		assert.Nil(t, rt)
	})

	t.Run("chain id mismatch closes the client", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		dialer := mocks.NewMockEthClientDialer(ctrl)
		eth := mocks.NewMockEthClient(ctrl)

		dialer.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(eth, nil)
		eth.EXPECT().ChainID(gomock.Any()).Return(big.NewInt(1), nil)
		eth.EXPECT().Close().Times(1)

		rt, err := bootstrap.Build(ctx, testConfig(), bootstrap.Options{Dialer: dialer})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected chain id")
		assert.Nil(t, rt)
	})
}
