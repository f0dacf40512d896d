package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register host:port...",
	Short: "Register peer nodes",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		nodes := struct {
			Nodes []string `json:"nodes"`
		}{
			Nodes: args,
		}

		data, err := json.Marshal(nodes)
		if err != nil {
			log.Fatal(err)
		}

		resp, err := http.Post(fmt.Sprintf("%s/nodes/register", url), "application/json", bytes.NewBuffer(data))
		if err != nil {
			log.Fatal(err)
		}

		if err := printResponse(resp); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
