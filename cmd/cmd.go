// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, appendEnvDocs
package cmd

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/containerd/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/7blacky7/plauderkasten/envconfig"
)

// appendEnvDocs - Fuegt Umgebungsvariablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	cobra.EnableCommandSorting = false

	if runtime.GOOS == "windows" && term.IsTerminal(int(os.Stdout.Fd())) {
		console.ConsoleFromFile(os.Stdin) //nolint:errcheck
	}

	rootCmd := &cobra.Command{
		Use:           "plauder",
		Short:         "Chat widget with a persisted attention cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				versionHandler(cmd, args)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	// Commands erstellen
	serveCmd := newServeCmd()
	runCmd := newRunCmd()
	statusCmd := newStatusCmd()
	resetCmd := newResetCmd()

	// Environment-Dokumentation hinzufuegen
	envVars := envconfig.AsMap()
	envs := []envconfig.EnvVar{envVars["PLAUDER_HOST"]}

	for _, cmd := range []*cobra.Command{
		runCmd,
		statusCmd,
		resetCmd,
		serveCmd,
	} {
		switch cmd {
		case serveCmd:
			appendEnvDocs(cmd, []envconfig.EnvVar{
				envVars["PLAUDER_DEBUG"],
				envVars["PLAUDER_HOST"],
				envVars["PLAUDER_ORIGINS"],
				envVars["PLAUDER_DB"],
				envVars["PLAUDER_NOSAVE"],
				envVars["PLAUDER_SEED"],
				envVars["PLAUDER_LAYERS"],
				envVars["PLAUDER_DIM"],
				envVars["PLAUDER_VOCAB"],
				envVars["PLAUDER_MAX_TOKENS"],
				envVars["PLAUDER_CACHE_SCOPE"],
				envVars["PLAUDER_CACHE_WINDOW"],
				envVars["PLAUDER_CACHE_F16"],
				envVars["PLAUDER_TOKEN_DELAY"],
			})
		default:
			appendEnvDocs(cmd, envs)
		}
	}

	rootCmd.AddCommand(
		serveCmd,
		runCmd,
		statusCmd,
		resetCmd,
	)

	return rootCmd
}
