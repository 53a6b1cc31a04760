package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive session against the boundary",
	Long: `Start an interactive session. Each command is one or more boundary
crossings against a live arena, so the gate's marshalling and validation
paths run exactly as they would under enclave code.

Commands:
  get KEY            read a variable
  set KEY VALUE      write a variable
  unset KEY          remove a variable
  env                snapshot the environment
  pwd                host working directory
  cd DIR             change host working directory
  resolve HOST       resolve a hostname
  dial HOST:PORT     TCP connect (then closes)
  help               this text

Type 'exit' or 'quit' to end the session, or press Ctrl+D.`,
	Run: runRepl,
}

func init() {
	replCmd.Flags().String("history", "", "History file path (default: ~/.enclstd_history)")
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) {
	historyFile, _ := cmd.Flags().GetString("history")
	if historyFile == "" {
		home, _ := os.UserHomeDir()
		historyFile = filepath.Join(home, ".enclstd_history")
	}

	rt := newRuntime(cmd)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "enclstd> ",
		HistoryFile:       historyFile,
		HistoryLimit:      1000,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fatalf("initializing readline: %v", err)
	}
	defer rl.Close()

	fmt.Fprintln(os.Stderr, "enclstd REPL (type 'help' for commands, Ctrl+D to exit)")

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Println()
				break
			}
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		if err := runReplCommand(cmd.Context(), rt, line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

func runReplCommand(ctx context.Context, rt *runtime, line string) error {
	fields := strings.Fields(line)
	verb, rest := fields[0], fields[1:]

	switch verb {
	case "help":
		fmt.Println("get set unset env pwd cd resolve dial exit")
	case "get":
		if len(rest) != 1 {
			return fmt.Errorf("usage: get KEY")
		}
		val, err := rt.env.Var(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Println(val)
	case "set":
		if len(rest) != 2 {
			return fmt.Errorf("usage: set KEY VALUE")
		}
		return rt.env.Set(ctx, rest[0], rest[1])
	case "unset":
		if len(rest) != 1 {
			return fmt.Errorf("usage: unset KEY")
		}
		return rt.env.Unset(ctx, rest[0])
	case "env":
		pairs, err := rt.env.Environ(ctx)
		if err != nil {
			return err
		}
		for _, p := range pairs {
			fmt.Printf("%s=%s\n", p.Key, p.Value)
		}
	case "pwd":
		dir, err := rt.env.Getwd(ctx)
		if err != nil {
			return err
		}
		fmt.Println(dir)
	case "cd":
		if len(rest) != 1 {
			return fmt.Errorf("usage: cd DIR")
		}
		return rt.env.Chdir(ctx, rest[0])
	case "resolve":
		if len(rest) != 1 {
			return fmt.Errorf("usage: resolve HOST")
		}
		addrs, err := rt.stack.Resolve(ctx, rest[0], 0)
		if err != nil {
			return err
		}
		for _, a := range addrs {
			fmt.Println(a.Addr)
		}
	case "dial":
		if len(rest) != 1 {
			return fmt.Errorf("usage: dial HOST:PORT")
		}
		conn, err := rt.stack.Dial(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Printf("connected to %s\n", conn.RemoteAddr())
		return conn.Close()
	default:
		return fmt.Errorf("unknown command %q (try 'help')", verb)
	}
	return nil
}
