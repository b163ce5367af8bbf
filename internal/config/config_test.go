package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testReader = "0x1111111111111111111111111111111111111111"
	testGame   = "0x2222222222222222222222222222222222222222"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0600))
	return configFile
}

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
chain:
  rpc_url: "http://localhost:8545"
  chain_id: 10143
  start_block: 1200000
  block_head_ttl: 5s
contracts:
  reader: "` + testReader + `"
  game: "` + testGame + `"
scan:
  chunk_size: 1000
  window_page_size: 50
  multicall_batch_size: 75
cache:
  ttl: 30s
  max_entries: 100
rpc:
  requests_per_second: 5
  burst: 2
server:
  port: 9090
auth:
  api_keys: ["k1", "k2"]
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "http://localhost:8545", cfg.Chain.RPCURL)
				assert.Equal(t, uint64(10143), cfg.Chain.ChainID)
				assert.Equal(t, uint64(1200000), cfg.Chain.StartBlock)
				assert.Equal(t, 5*time.Second, cfg.Chain.BlockHeadTTL)
				assert.Equal(t, testReader, cfg.Contracts.Reader)
				assert.Equal(t, testGame, cfg.Contracts.Game)
				assert.Equal(t, uint64(1000), cfg.Scan.ChunkSize)
				assert.Equal(t, uint64(50), cfg.Scan.WindowPageSize)
				assert.Equal(t, 75, cfg.Scan.MulticallBatchSize)
				assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
				assert.Equal(t, 100, cfg.Cache.MaxEntries)
				assert.Equal(t, 5.0, cfg.RPC.RequestsPerSecond)
				assert.Equal(t, 2, cfg.RPC.Burst)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, []string{"k1", "k2"}, cfg.Auth.APIKeys)
				assert.False(t, cfg.DatabaseEnabled())
			},
		},
		{
			name: "config with defaults",
			configFile: `
contracts:
  reader: "` + testReader + `"
  game: "` + testGame + `"
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.False(t, cfg.Debug)
				assert.Equal(t, "https://testnet-rpc.monad.xyz", cfg.Chain.RPCURL)
				assert.Equal(t, uint64(10143), cfg.Chain.ChainID)
				assert.Equal(t, 2*time.Second, cfg.Chain.BlockHeadTTL)
				assert.Equal(t, 30*time.Second, cfg.Chain.BlockHeadStaleWindow)
				assert.Equal(t, "0xcA11bde05977b3631167028862bE2a173976CA11", cfg.Contracts.Multicall)
				assert.Equal(t, uint64(5000), cfg.Scan.ChunkSize)
				assert.Equal(t, uint64(200), cfg.Scan.WindowPageSize)
				assert.Equal(t, 500, cfg.Scan.MaxPages)
				assert.Equal(t, 150, cfg.Scan.MulticallBatchSize)
				assert.Equal(t, 4, cfg.Scan.MulticallConcurrency)
				assert.Equal(t, 60*time.Second, cfg.Cache.TTL)
				assert.Equal(t, 10000, cfg.Cache.MaxEntries)
				assert.Equal(t, 20*time.Second, cfg.RPC.MaxRetryElapsed)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
			},
		},
		{
			name: "database enabled",
			configFile: `
contracts:
  reader: "` + testReader + `"
  game: "` + testGame + `"
database:
  host: db.internal
  user: cube
  password: secret
  dbname: graveyard
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.DatabaseEnabled())
				assert.Equal(t, "host=db.internal port=5432 user=cube password=secret dbname=graveyard sslmode=disable", cfg.Database.DSN())
			},
		},
		{
			name: "missing reader address",
			configFile: `
contracts:
  game: "` + testGame + `"
`,
			expectError: true,
		},
		{
			name: "invalid game address",
			configFile: `
contracts:
  reader: "` + testReader + `"
  game: "not-an-address"
`,
			expectError: true,
		},
		{
			name: "zero chunk size",
			configFile: `
contracts:
  reader: "` + testReader + `"
  game: "` + testGame + `"
scan:
  chunk_size: 0
`,
			expectError: true,
		},
		{
			name: "invalid yaml",
			configFile: `
				server:
				  port: invalid
			`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadAPIConfig(writeConfig(t, tt.configFile), "")

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadCLIConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CRAZYCUBE_CONTRACTS_READER", testReader)
	t.Setenv("CRAZYCUBE_CONTRACTS_GAME", testGame)
	t.Setenv("CRAZYCUBE_CHAIN_RPC_URL", "http://rpc.example:8545")
	t.Setenv("CRAZYCUBE_SCAN_CHUNK_SIZE", "2500")

	cfg, err := LoadCLIConfig(writeConfig(t, "debug: false\n"), "")
	require.NoError(t, err)

	assert.Equal(t, testReader, cfg.Contracts.Reader)
	assert.Equal(t, testGame, cfg.Contracts.Game)
	assert.Equal(t, "http://rpc.example:8545", cfg.Chain.RPCURL)
	assert.Equal(t, uint64(2500), cfg.Scan.ChunkSize)
}

func TestLoadEnv_DotEnvFiles(t *testing.T) {
	envDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(envDir, ".env"), []byte("CRAZYCUBE_CONTRACTS_READER="+testReader+"\nCRAZYCUBE_CONTRACTS_GAME="+testGame+"\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(envDir, ".env.graveyardctl.local"), []byte("CRAZYCUBE_CACHE_MAX_ENTRIES=42\n"), 0600))
	t.Cleanup(func() {
		_ = os.Unsetenv("CRAZYCUBE_CONTRACTS_READER")
		_ = os.Unsetenv("CRAZYCUBE_CONTRACTS_GAME")
		_ = os.Unsetenv("CRAZYCUBE_CACHE_MAX_ENTRIES")
	})

	cfg, err := LoadCLIConfig(writeConfig(t, "debug: true\n"), envDir)
	require.NoError(t, err)

	assert.Equal(t, testReader, cfg.Contracts.Reader)
	assert.Equal(t, 42, cfg.Cache.MaxEntries)
}
