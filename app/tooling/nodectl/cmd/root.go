// Package cmd contains the nodectl commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var url string

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:5000", "Url of the node.")
}

var rootCmd = &cobra.Command{
	Use:   "nodectl",
	Short: "Operate a running node",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// printResponse reads the response body and pretty prints the JSON it
// carries to stdout.
func printResponse(resp *http.Response) error {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		fmt.Println(string(data))
		return nil
	}

	pretty, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(pretty))
	return nil
}
