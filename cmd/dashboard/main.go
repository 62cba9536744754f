package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/cli/migrate"
	"github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/cli/server"
	syncCmd "github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/cli/sync"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Dashboard - HR attendance reporting",
		Long:  `Dashboard keeps a local copy of HR attendance in sync and serves it to the reporting frontend.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		syncCmd.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
