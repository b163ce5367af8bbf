package main

import (
	"fmt"
	"os"
	"time"

	"github.com/crazycube/graveyard-api/internal/logger"
)

func main() {
	defer logger.Flush(2 * time.Second)

	if err := newRootCmd(newApp(os.Stdout)).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
