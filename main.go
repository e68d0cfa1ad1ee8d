// Package main - Einstiegspunkt des plauder CLI
package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/7blacky7/plauderkasten/cmd"
)

func main() {
	cobra.CheckErr(cmd.NewCLI().ExecuteContext(context.Background()))
}
