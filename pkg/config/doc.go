// Configuration can be built in code:
//
//	cfg := &config.Config{
//		RPCAddr: "https://eth.llamarpc.com",
//		Cache:   300,
//		IPFS:    "https://cloudflare-ipfs.com",
//		APIKey:  map[string]string{"opensea": "YOUR_KEY"},
//	}
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
//
// or loaded from a file, with ENS_AVATAR_* environment overrides:
//
//	cfg, err := config.Load("ens-avatar.yaml")
//
// A YAML file looks like:
//
//	rpc_addr: https://eth.llamarpc.com
//	cache: 300
//	ipfs: https://cloudflare-ipfs.com
//	api_key:
//	  opensea: YOUR_KEY
//	url_deny_list:
//	  - tracker.example
//	timeouts:
//	  http: 10s
//	  chain_read: 5s
//
// Validate applies these defaults:
//   - CacheSize: 512
//   - MaxContentLength: 50 MiB
//
// and Timeouts.WithDefaults fills Dial (5s), HTTP (30s) and ChainRead (12s).
package config
