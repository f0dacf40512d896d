// This program provides an operator CLI against a running node's HTTP API.
package main

import "github.com/blocknetlabs/blocknet/app/tooling/nodectl/cmd"

func main() {
	cmd.Execute()
}
