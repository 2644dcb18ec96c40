package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"finboard/internal/logging"
	"finboard/internal/models"
)

// addAlertCommands adds price alert commands.
func addAlertCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Price alert management",
		Long: `Manage one-shot price alerts. An alert fires once when the price
crosses its target (inclusive) and stays in the triggered list until
cleared.`,
	}

	cmd.AddCommand(newAlertAddCmd(app))
	cmd.AddCommand(newAlertListCmd(app))
	cmd.AddCommand(newAlertRemoveCmd(app))
	cmd.AddCommand(newAlertCheckCmd(app))
	cmd.AddCommand(newAlertClearCmd(app))

	rootCmd.AddCommand(cmd)
}

func newAlertAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <ticker> <above|below> <price>",
		Short: "Add a price alert",
		Example: `  finboard alert add AAPL above 200
  finboard alert add MSFT below 380.50`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			target, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				output.Error("Invalid price: %s", args[2])
				return err
			}

			s, err := app.loadSession(ctx)
			if err != nil {
				return err
			}

			alert, err := s.Alerts.Add(args[0], models.AlertDirection(args[1]), target)
			if err != nil {
				output.Error("Failed to add alert: %v", err)
				return err
			}
			if err := app.saveAlerts(ctx, s); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(alert)
			}
			output.Success("Alert added: %s %s %.2f", alert.Symbol, alert.Direction, alert.TargetPrice)
			return nil
		},
	}
}

func newAlertListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			s, err := app.loadSession(ctx)
			if err != nil {
				return err
			}
			alerts := s.Alerts.All()

			if output.IsJSON() {
				return output.JSON(alerts)
			}

			if len(alerts) == 0 {
				output.Dim("No alerts")
				return nil
			}

			output.Printf("%-4s %-8s %-6s %10s %-10s\n", "#", "Ticker", "Dir", "Target", "Status")
			for i, a := range alerts {
				status := output.Yellow("active")
				if a.Triggered {
					status = output.Green("triggered")
				}
				output.Printf("%-4d %-8s %-6s %10.2f %-10s\n",
					i, a.Symbol, a.Direction, a.TargetPrice, status)
			}
			return nil
		},
	}
}

func newAlertRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index>",
		Short: "Remove an alert by its list index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			index, err := strconv.Atoi(args[0])
			if err != nil {
				output.Error("Invalid index: %s", args[0])
				return err
			}

			s, err := app.loadSession(ctx)
			if err != nil {
				return err
			}
			if err := s.Alerts.Remove(index); err != nil {
				output.Error("Failed to remove alert: %v", err)
				return err
			}
			if err := app.saveAlerts(ctx, s); err != nil {
				return err
			}

			output.Success("Alert %d removed", index)
			return nil
		},
	}
}

func newAlertCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check all active alerts against current prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			s, err := app.loadSession(ctx)
			if err != nil {
				return err
			}

			fired, err := s.Alerts.CheckAll(ctx)
			if err != nil {
				return err
			}
			if err := app.saveAlerts(ctx, s); err != nil {
				return err
			}

			for _, a := range fired {
				logging.LogAlert(app.Logger, a.Symbol, string(a.Direction), a.TargetPrice)
			}

			if output.IsJSON() {
				return output.JSON(fired)
			}

			if len(fired) == 0 {
				output.Dim("No alerts triggered")
				return nil
			}
			for _, a := range fired {
				output.Success("TRIGGERED: %s %s %.2f", a.Symbol, a.Direction, a.TargetPrice)
			}
			return nil
		},
	}
}

func newAlertClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all triggered alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			s, err := app.loadSession(ctx)
			if err != nil {
				return err
			}
			removed := s.Alerts.ClearTriggered()
			if err := app.saveAlerts(ctx, s); err != nil {
				return err
			}

			output.Success("Cleared %d triggered alerts", removed)
			return nil
		},
	}
}
