package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/deernetwork/enclstd/gnet"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve HOST",
	Short: "Resolve a hostname through the boundary",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime(cmd)
		addrs, err := rt.stack.Resolve(cmd.Context(), args[0], 0)
		if err != nil {
			fatalf("%v", err)
		}
		for _, a := range addrs {
			fmt.Println(a.Addr)
		}
	},
}

var dialCmd = &cobra.Command{
	Use:   "dial HOST:PORT",
	Short: "Connect over TCP through the boundary",
	Long: `Connect to an address, trying each resolved candidate in order.

With --send, writes the given bytes, shuts down the write side, and
streams whatever the peer answers to stdout.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime(cmd)
		send, _ := cmd.Flags().GetString("send")

		conn, err := rt.stack.Dial(cmd.Context(), args[0])
		if err != nil {
			fatalf("%v", err)
		}
		defer conn.Close()

		fmt.Fprintf(os.Stderr, "connected to %s\n", conn.RemoteAddr())
		if send == "" {
			return
		}

		if _, err := conn.Write([]byte(send)); err != nil {
			fatalf("%v", err)
		}
		if err := conn.Shutdown(gnet.ShutdownWrite); err != nil {
			fatalf("%v", err)
		}
		if _, err := io.Copy(os.Stdout, conn); err != nil {
			fatalf("%v", err)
		}
	},
}

func init() {
	dialCmd.Flags().String("send", "", "Bytes to send after connecting")
	rootCmd.AddCommand(resolveCmd, dialCmd)
}
