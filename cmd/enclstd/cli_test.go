package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// resetHelpFlags clears help-flag state left behind by a previous Execute
// on the shared command tree, so later invocations parse args from scratch.
func resetHelpFlags(c *cobra.Command) {
	if f := c.Flags().Lookup("help"); f != nil {
		f.Value.Set("false")
		f.Changed = false
	}
	for _, sub := range c.Commands() {
		resetHelpFlags(sub)
	}
}

func executeCommand(root *cobra.Command, args ...string) (string, error) {
	resetHelpFlags(root)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestCLIHelp(t *testing.T) {
	output, err := executeCommand(rootCmd, "--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedPhrases := []string{
		"enclstd",
		"boundary",
		"env",
		"resolve",
		"dial",
		"repl",
		"arena-size",
	}

	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("help output should contain %q", phrase)
		}
	}
}

func TestCLIEnvHelp(t *testing.T) {
	output, err := executeCommand(rootCmd, "env", "--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, phrase := range []string{"get", "set", "unset", "list"} {
		if !strings.Contains(output, phrase) {
			t.Errorf("env help output should contain %q", phrase)
		}
	}
}

func TestCLIEnvGetHelp(t *testing.T) {
	output, err := executeCommand(rootCmd, "env", "get", "--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "KEY") {
		t.Error("env get help should describe the KEY argument")
	}
	if !strings.Contains(output, "--raw") {
		t.Error("env get help should mention the --raw flag")
	}
}

func TestCLIDialHelp(t *testing.T) {
	output, err := executeCommand(rootCmd, "dial", "--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "HOST:PORT") {
		t.Error("dial help should describe the HOST:PORT argument")
	}
}

func TestCLIUnknownCommand(t *testing.T) {
	_, err := executeCommand(rootCmd, "frobnicate")
	if err == nil {
		t.Fatal("expected an error for an unknown command")
	}
}

func TestCLIEnvGetMissingArgs(t *testing.T) {
	_, err := executeCommand(rootCmd, "env", "get")
	if err == nil {
		t.Fatal("expected an error when KEY is missing")
	}
}
