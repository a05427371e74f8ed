package main

import (
	"context"
	"os"

	"github.com/dalemusser/emailcheck/app"
)

func main() {
	os.Exit(app.Run(context.Background(), os.Args[1:], os.Stdout))
}
