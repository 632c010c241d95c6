// Command dothub runs the Dot hub: the web API, the MCP server and a few
// terminal shortcuts over the same job and tracker data.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
