// cmd_status.go - Status und Reset Command Handler
// Hauptfunktionen: StatusHandler, ResetHandler
package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/7blacky7/plauderkasten/api"
	"github.com/7blacky7/plauderkasten/format"
)

// StatusHandler - Zeigt Modell-Dimensionen und Cache-Fuellstand an
func StatusHandler(cmd *cobra.Command, args []string) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	status, err := client.Status(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Model: %d layers, dim %d, vocab %d, max tokens %d\n",
		status.Model.Layers, status.Model.Dim, status.Model.VocabSize, status.Model.MaxTokens)
	fmt.Printf("Epoch: %s\n", status.Model.Epoch)
	fmt.Printf("Scope: %s\n", status.Scope)
	fmt.Println()

	if len(status.Sessions) == 0 {
		fmt.Println("No active sessions")
		return nil
	}

	var data [][]string
	for _, s := range status.Sessions {
		positions := 0
		if len(s.Layers) > 0 {
			positions = s.Layers[0].Positions
		}
		data = append(data, []string{
			s.Session,
			strconv.Itoa(len(s.Layers)),
			strconv.Itoa(positions),
			format.HumanBytes2(s.Bytes),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"SESSION", "LAYERS", "POSITIONS", "SIZE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}

// ResetHandler - Verwirft den Cache einer oder aller Sessions
func ResetHandler(cmd *cobra.Command, args []string) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	var session string
	if len(args) > 0 {
		session = args[0]
	}

	if err := client.Reset(cmd.Context(), &api.ResetRequest{Session: session}); err != nil {
		return err
	}

	if session == "" {
		fmt.Println("Cleared all sessions")
	} else {
		fmt.Printf("Cleared session %s\n", session)
	}
	return nil
}

// newStatusCmd - Erstellt den status Command
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show model and cache status",
		Args:    cobra.ExactArgs(0),
		PreRunE: checkServerHeartbeat,
		RunE:    StatusHandler,
	}
}

// newResetCmd - Erstellt den reset Command
func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "reset [SESSION]",
		Short:   "Clear the cached conversation state",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: checkServerHeartbeat,
		RunE:    ResetHandler,
	}
}
