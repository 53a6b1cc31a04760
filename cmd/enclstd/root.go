package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deernetwork/enclstd/boundary"
	"github.com/deernetwork/enclstd/env"
	"github.com/deernetwork/enclstd/gnet"
	"github.com/deernetwork/enclstd/hostbridge"
)

var rootCmd = &cobra.Command{
	Use:   "enclstd",
	Short: "Exercise the enclave standard-library shim against a simulated host",
	Long: `enclstd - issue environment and network operations through the
marshalled enclave/host boundary.

Every operation crosses the shared arena exactly the way enclave code
would: request copied out, one synchronous crossing, response copied back
and validated. The host side is the in-process simulation bridge.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Int("arena-size", boundary.DefaultArenaSize, "Shared arena capacity in bytes")
}

// runtime bundles one arena/gate/bridge setup with the adapters over it.
type runtime struct {
	gate  *boundary.Gate
	env   *env.Env
	stack *gnet.Stack
}

func newRuntime(cmd *cobra.Command) *runtime {
	size, _ := cmd.Root().PersistentFlags().GetInt("arena-size")
	arena := boundary.NewArena(size)
	gate := boundary.NewGate(arena, hostbridge.New())
	return &runtime{
		gate:  gate,
		env:   env.New(gate),
		stack: gnet.NewStack(gate),
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
