package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deernetwork/enclstd/env"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Environment variables through the boundary",
}

var envGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Read one variable",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime(cmd)
		raw, _ := cmd.Flags().GetBool("raw")

		if raw {
			val, err := rt.env.VarOs(cmd.Context(), args[0])
			if err != nil {
				reportEnvErr(args[0], err)
			}
			os.Stdout.Write(append(val, '\n'))
			return
		}
		val, err := rt.env.Var(cmd.Context(), args[0])
		if err != nil {
			reportEnvErr(args[0], err)
		}
		fmt.Println(val)
	},
}

var envSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Write one variable",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime(cmd)
		if err := rt.env.Set(cmd.Context(), args[0], args[1]); err != nil {
			fatalf("%v", err)
		}
	},
}

var envUnsetCmd = &cobra.Command{
	Use:   "unset KEY",
	Short: "Remove one variable",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime(cmd)
		if err := rt.env.Unset(cmd.Context(), args[0]); err != nil {
			fatalf("%v", err)
		}
	},
}

var envListCmd = &cobra.Command{
	Use:   "list",
	Short: "Snapshot the whole environment in one crossing",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime(cmd)
		pairs, err := rt.env.Environ(cmd.Context())
		if err != nil {
			fatalf("%v", err)
		}
		for _, p := range pairs {
			fmt.Printf("%s=%s\n", p.Key, p.Value)
		}
	},
}

func reportEnvErr(key string, err error) {
	if errors.Is(err, env.ErrNotPresent) {
		fatalf("%s: not present", key)
	}
	var nu *env.NotUnicodeError
	if errors.As(err, &nu) {
		fatalf("%s: not valid unicode (use --raw): %q", key, nu.Raw)
	}
	fatalf("%v", err)
}

func init() {
	envGetCmd.Flags().Bool("raw", false, "Print raw bytes without UTF-8 validation")
	envCmd.AddCommand(envGetCmd, envSetCmd, envUnsetCmd, envListCmd)
	rootCmd.AddCommand(envCmd)
}
