package main

import (
	"os"

	"reviews-dashboard/utils"
)

func main() {
	logger := utils.NewLogger()

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
