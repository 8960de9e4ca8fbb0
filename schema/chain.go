package schema

type NetworkStatus string

const (
	NetworkConnected    NetworkStatus = "connected"
	NetworkDisconnected NetworkStatus = "disconnected"
	NetworkWrongNetwork NetworkStatus = "wrong_network"
)

const (
	// day buckets are raw epoch division, UTC by construction
	DayMillis = 24 * 60 * 60 * 1000

	DefaultChainId = int64(1)

	// fixed call values, ETH decimal strings
	DefaultGreetingFee = "0.0001"
	DefaultMintFee     = "0.001"
)

// GreeterABI is the greeting registry surface this service invokes.
const GreeterABI = `[
	{"name":"getLastGreetingDay","type":"function","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"greet","type":"function","stateMutability":"payable","inputs":[{"name":"message","type":"string"}],"outputs":[]}
]`

// MinterABI is the NFT minter surface plus the mint event whose first
// argument carries the assigned token id.
const MinterABI = `[
	{"name":"mintNFT","type":"function","stateMutability":"payable","inputs":[{"name":"owner","type":"address"},{"name":"tokenURI","type":"string"}],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"NFTMinted","type":"event","anonymous":false,"inputs":[{"name":"tokenId","type":"uint256","indexed":true},{"name":"owner","type":"address","indexed":true},{"name":"tokenURI","type":"string","indexed":false}]}
]`
