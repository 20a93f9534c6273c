package main

import (
	"fmt"
	"github.com/joho/godotenv"
	"github.com/mkeskinen/mimicry/cmd/cli/play"
	"github.com/spf13/cobra"
	"os"
)

func init() {
	// A missing .env file is fine, the environment can come from elsewhere.
	_ = godotenv.Load()
	rootCmd.AddGroup(play.Group)
	rootCmd.AddCommand(play.Play)
}

var rootCmd = &cobra.Command{
	Use:  "mimicry-cli",
	Long: `Command line utilities for Mimicry https://github.com/mkeskinen/mimicry`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
