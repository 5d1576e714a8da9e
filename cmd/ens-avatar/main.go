// Command ens-avatar resolves the avatar and header media of ENS names.
//
//	ens-avatar --rpc https://eth.example.org avatar nick.eth
//	ens-avatar header nick.eth --key banner
//	ens-avatar metadata nick.eth
//
// Settings are read from ens-avatar.yaml (see config.Load) and ENS_AVATAR_*
// environment variables; flags override both.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
