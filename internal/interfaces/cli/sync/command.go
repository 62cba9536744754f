// Package sync runs attendance syncs from the command line.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Logicalyan/dashbord-reporting-module/internal/application/attendancesync"
	"github.com/Logicalyan/dashbord-reporting-module/internal/infrastructure/database"
	"github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/Logicalyan/dashbord-reporting-module/internal/interfaces/http"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/constants"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/logger"
	"github.com/Logicalyan/dashbord-reporting-module/internal/shared/utils"
)

var (
	env        string
	configPath string
	userID     uint
	from       string
	to         string
	employeeID string
	date       string
	output     string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Attendance sync tools",
		Long:  `Run attendance syncs against the HR system and inspect their history.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvProduction, "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().StringVarP(&output, "output", "o", "json", "Output format (json, yaml)")

	cmd.AddCommand(
		newRunCommand(),
		newYesterdayCommand(),
		newAutoCommand(),
		newStatusCommand(),
		newEmployeesCommand(),
		newPushCommand(),
	)

	return cmd
}

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sync a date range for one user",
		RunE:  runRange,
	}

	cmd.Flags().UintVarP(&userID, "user", "u", 0, "User ID (required)")
	cmd.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&to, "to", "", "Last day, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newYesterdayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yesterday",
		Short: "Sync the previous business day for one user",
		RunE:  runYesterday,
	}

	cmd.Flags().UintVarP(&userID, "user", "u", 0, "User ID (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newAutoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "auto",
		Short: "Run the daily auto sync once for every eligible user",
		RunE:  runAuto,
	}
}

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent syncs",
		RunE:  runStatus,
	}

	cmd.Flags().UintVarP(&userID, "user", "u", 0, "Limit to one user (default: all users)")

	return cmd
}

func newEmployeesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "List the HR employees visible to a user's integration",
		RunE:  runEmployees,
	}

	cmd.Flags().UintVarP(&userID, "user", "u", 0, "User ID (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newPushCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Send one local attendance record back to the HR system",
		RunE:  runPush,
	}

	cmd.Flags().UintVarP(&userID, "user", "u", 0, "User ID (required)")
	cmd.Flags().StringVar(&employeeID, "employee", "", "Employee ID (required)")
	cmd.Flags().StringVar(&date, "date", "", "Attendance day, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("employee")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

// withEngine builds the application graph, runs fn with a context that is
// canceled on SIGINT/SIGTERM, and tears everything down afterwards.
func withEngine(fn func(ctx context.Context, engine *attendancesync.Engine) (any, error)) error {
	cfg, log, err := bootstrap.InitWithDatabase(bootstrap.ResolveEnv(env), configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	container, err := httpRouter.NewContainer(database.Get(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer container.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := fn(ctx, container.SyncEngine())
	if err != nil {
		return err
	}
	return render(os.Stdout, output, result)
}

func runRange(cmd *cobra.Command, args []string) error {
	start, err := utils.ParseDateField("from", from)
	if err != nil {
		return err
	}
	end, err := utils.ParseDateField("to", to)
	if err != nil {
		return err
	}

	return withEngine(func(ctx context.Context, engine *attendancesync.Engine) (any, error) {
		return engine.SyncDateRange(ctx, userID, start, end)
	})
}

func runYesterday(cmd *cobra.Command, args []string) error {
	return withEngine(func(ctx context.Context, engine *attendancesync.Engine) (any, error) {
		return engine.SyncYesterday(ctx, userID)
	})
}

func runAuto(cmd *cobra.Command, args []string) error {
	return withEngine(func(ctx context.Context, engine *attendancesync.Engine) (any, error) {
		report, err := engine.SyncAllAuto(ctx)
		if report != nil && err != nil {
			// partial failures are already logged per user
			return report, nil
		}
		return report, err
	})
}

func runStatus(cmd *cobra.Command, args []string) error {
	var scope *uint
	if userID != 0 {
		scope = &userID
	}
	return withEngine(func(ctx context.Context, engine *attendancesync.Engine) (any, error) {
		return engine.GetSyncStatus(ctx, scope)
	})
}

func runEmployees(cmd *cobra.Command, args []string) error {
	return withEngine(func(ctx context.Context, engine *attendancesync.Engine) (any, error) {
		return engine.ListEmployees(ctx, userID)
	})
}

func runPush(cmd *cobra.Command, args []string) error {
	day, err := utils.ParseDateField("date", date)
	if err != nil {
		return err
	}

	return withEngine(func(ctx context.Context, engine *attendancesync.Engine) (any, error) {
		return engine.PushRecord(ctx, userID, employeeID, day)
	})
}

func render(w io.Writer, format string, v any) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported output format %q, expected json or yaml", format)
	}
}
