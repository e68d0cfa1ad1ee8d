// cmd_utils.go - Gemeinsame Hilfsfunktionen
// Hauptfunktionen: checkServerHeartbeat, readStdinContent, newLineReader
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/7blacky7/plauderkasten/api"
)

// checkServerHeartbeat - Prueft ob der Server erreichbar ist
func checkServerHeartbeat(cmd *cobra.Command, _ []string) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	if _, err := client.Version(cmd.Context()); err != nil {
		if strings.Contains(err.Error(), " refused") || strings.Contains(err.Error(), "could not connect") {
			return fmt.Errorf("could not connect to a running Plauderkasten instance, start one with 'plauder serve'")
		}
		return err
	}
	return nil
}

// readStdinContent - Liest Inhalt von stdin
func readStdinContent() (string, error) {
	in, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(in), nil
}

// lineReader - Zeilenweises Lesen fuer die interaktive Schleife
type lineReader struct {
	r *bufio.Reader
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

// ReadLine liest eine Zeile ohne das abschliessende Newline
func (l *lineReader) ReadLine() (string, error) {
	line, err := l.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
