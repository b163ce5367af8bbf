package monad

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const (
	// readerABIJSON covers the view functions of the CrazyCube reader contract
	readerABIJSON = `[
  {"type":"function","name":"viewGraveWindow","stateMutability":"view",
   "inputs":[{"name":"cursor","type":"uint256"},{"name":"limit","type":"uint256"}],
   "outputs":[{"name":"ids","type":"uint256[]"},{"name":"nextCursor","type":"uint256"},{"name":"total","type":"uint256"}]},
  {"type":"function","name":"getBurnInfo","stateMutability":"view",
   "inputs":[{"name":"tokenId","type":"uint256"}],
   "outputs":[{"name":"owner","type":"address"},{"name":"totalAmount","type":"uint256"},{"name":"claimAmount","type":"uint256"},
              {"name":"claimAvailableTime","type":"uint256"},{"name":"graveReleaseTime","type":"uint256"},
              {"name":"claimed","type":"bool"},{"name":"waitMinutes","type":"uint8"}]}
]`

	// gameABIJSON covers the events of the game contract the API scans
	gameABIJSON = `[
  {"type":"event","name":"BurnScheduled","anonymous":false,
   "inputs":[{"name":"owner","type":"address","indexed":true},{"name":"tokenId","type":"uint256","indexed":true},
             {"name":"amount","type":"uint256","indexed":false},{"name":"claimAvailableTime","type":"uint256","indexed":false},
             {"name":"waitMinutes","type":"uint8","indexed":false}]}
]`

	// multicall3ABIJSON is the aggregate3 entry point of Multicall3
	multicall3ABIJSON = `[
  {"type":"function","name":"aggregate3","stateMutability":"payable",
   "inputs":[{"name":"calls","type":"tuple[]","components":[
     {"name":"target","type":"address"},{"name":"allowFailure","type":"bool"},{"name":"callData","type":"bytes"}]}],
   "outputs":[{"name":"returnData","type":"tuple[]","components":[
     {"name":"success","type":"bool"},{"name":"returnData","type":"bytes"}]}]}
]`
)

const (
	methodViewGraveWindow = "viewGraveWindow"
	methodGetBurnInfo     = "getBurnInfo"
	methodAggregate3      = "aggregate3"
	eventBurnScheduled    = "BurnScheduled"
)

var (
	readerABI     = mustParseABI(readerABIJSON)
	gameABI       = mustParseABI(gameABIJSON)
	multicall3ABI = mustParseABI(multicall3ABIJSON)

	// BurnScheduled(address indexed owner, uint256 indexed tokenId, uint256 amount, uint256 claimAvailableTime, uint8 waitMinutes)
	burnScheduledEventSignature = gameABI.Events[eventBurnScheduled].ID
)

// call3 mirrors Multicall3.Call3
type call3 struct {
	Target       common.Address
	AllowFailure bool
	CallData     []byte
}

// call3Result mirrors Multicall3.Result
type call3Result struct {
	Success    bool
	ReturnData []byte
}

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
