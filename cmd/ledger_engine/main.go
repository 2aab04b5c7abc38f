package main

import (
	"os"

	"github.com/SscSPs/ledger_engine/internal/commands"
)

// @title Ledger Engine API
// @version 1.0
// @description Double-entry bookkeeping: chart of accounts, journal entries, ledger, financial reports and bank reconciliation.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
