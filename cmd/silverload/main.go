// Command silverload rebuilds the silver tier of the warehouse from bronze.
package main

import (
	"context"
	"os"

	_ "github.com/JonMunkholm/silverload/internal/core/tables" // Register all tables
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
