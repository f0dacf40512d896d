package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	from   string
	to     string
	amount float64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction",
	Run: func(cmd *cobra.Command, args []string) {
		tx := struct {
			Sender    string  `json:"sender"`
			Recipient string  `json:"recipient"`
			Amount    float64 `json:"amount"`
		}{
			Sender:    from,
			Recipient: to,
			Amount:    amount,
		}

		data, err := json.Marshal(tx)
		if err != nil {
			log.Fatal(err)
		}

		resp, err := http.Post(fmt.Sprintf("%s/transactions/new", url), "application/json", bytes.NewBuffer(data))
		if err != nil {
			log.Fatal(err)
		}

		if err := printResponse(resp); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&from, "from", "f", "", "Sender identifier.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Recipient identifier.")
	sendCmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("from")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}
