// Command autoreply runs the keyword reply pass from the command line,
// once or on a cron schedule, without an MCP client.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
