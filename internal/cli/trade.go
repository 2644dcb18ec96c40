package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"finboard/internal/ledger"
	"finboard/internal/logging"
	"finboard/internal/models"
	"finboard/pkg/utils"
)

// addTradingCommands adds paper-trading commands.
func addTradingCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newBuyCmd(app))
	rootCmd.AddCommand(newSellCmd(app))
	rootCmd.AddCommand(newPortfolioCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newResetCmd(app))
}

func newBuyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buy <ticker> <quantity>",
		Short: "Buy shares in the paper-trading account",
		Long: `Buy shares at the current market price, or at an explicit price
with --price. The trade fails if the account lacks sufficient cash.`,
		Example: `  finboard buy AAPL 10
  finboard buy MSFT 5 --price 410.50`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrade(cmd, app, models.OrderSideBuy, args)
		},
	}
	cmd.Flags().Float64("price", 0, "execution price (0 = current market price)")
	return cmd
}

func newSellCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sell <ticker> <quantity>",
		Short: "Sell shares from the paper-trading account",
		Long: `Sell shares at the current market price, or at an explicit price
with --price. The trade fails if the position holds fewer shares.`,
		Example: `  finboard sell AAPL 10
  finboard sell MSFT 5 --price 415.00`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrade(cmd, app, models.OrderSideSell, args)
		},
	}
	cmd.Flags().Float64("price", 0, "execution price (0 = current market price)")
	return cmd
}

func runTrade(cmd *cobra.Command, app *App, side models.OrderSide, args []string) error {
	output := NewOutput(cmd)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	quantity, err := strconv.Atoi(args[1])
	if err != nil || quantity <= 0 {
		output.Error("Invalid quantity: %s", args[1])
		return ledger.ErrInvalidQuantity
	}
	price, _ := cmd.Flags().GetFloat64("price")

	s, err := app.loadSession(ctx)
	if err != nil {
		return err
	}

	trade, err := s.Account.ExecuteTrade(ctx, args[0], side, quantity, price)
	if err != nil {
		output.Error("Trade failed: %v", err)
		return err
	}

	if app.Store != nil {
		if err := app.Store.LogTrade(ctx, trade); err != nil {
			return fmt.Errorf("persisting trade: %w", err)
		}
	}
	logging.LogTrade(app.Logger, trade.Symbol, string(trade.Side), trade.Quantity, trade.Price)

	if output.IsJSON() {
		return output.JSON(trade)
	}

	verb := "Bought"
	if side == models.OrderSideSell {
		verb = "Sold"
	}
	output.Success("%s %d %s @ %s (total %s)",
		verb, trade.Quantity, trade.Symbol,
		utils.FormatCurrency(trade.Price), utils.FormatCurrency(trade.TotalValue))
	output.Printf("Cash balance: %s\n", utils.FormatCurrency(s.Account.Cash()))
	return nil
}

func newPortfolioCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "portfolio",
		Aliases: []string{"pf"},
		Short:   "Show the paper-trading portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			s, err := app.loadSession(ctx)
			if err != nil {
				return err
			}

			valuation, err := s.Account.PortfolioValue(ctx)
			if err != nil {
				return fmt.Errorf("valuing portfolio: %w", err)
			}

			if output.IsJSON() {
				return output.JSON(valuation)
			}

			output.Bold("Portfolio")
			output.Printf("  Cash:  %s\n", utils.FormatCurrency(valuation.Cash))
			output.Printf("  Total: %s\n", utils.FormatCurrency(valuation.Total))

			pnl := valuation.Total - s.Account.InitialBalance()
			pnlPct := pnl / s.Account.InitialBalance() * 100
			output.Printf("  P&L:   %s (%s)\n",
				output.PnLString(pnl, utils.FormatPnL(pnl)),
				output.PnLString(pnl, utils.FormatPercent(pnlPct)))
			output.Println()

			if len(valuation.Positions) == 0 {
				output.Dim("No open positions")
				return nil
			}

			output.Printf("%-8s %8s %10s %10s %12s %12s\n",
				"Ticker", "Qty", "Avg Cost", "Price", "Value", "P&L")
			for _, pv := range valuation.Positions {
				output.Printf("%-8s %8d %10.2f %10.2f %12.2f %s\n",
					pv.Symbol, pv.Quantity, pv.AvgPrice, pv.CurrentPrice, pv.Value,
					output.PnLString(pv.PnL, fmt.Sprintf("%12.2f", pv.PnL)))
			}

			for _, ticker := range valuation.Unpriced {
				output.Warning("%-8s no quote available, valued at 0", ticker)
			}
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show trade history",
		Long: `Show the trade log, most recent trade first. Use --export to write
the history to a CSV file instead.`,
		Example: `  finboard history
  finboard history --limit 20
  finboard history --export trades.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			s, err := app.loadSession(ctx)
			if err != nil {
				return err
			}

			exportPath, _ := cmd.Flags().GetString("export")
			if exportPath != "" {
				f, err := os.Create(exportPath)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				if err := s.Account.ExportHistory(f); err != nil {
					return fmt.Errorf("exporting history: %w", err)
				}
				output.Success("Exported %d trades to %s", len(s.Account.History()), exportPath)
				return nil
			}

			trades := s.Account.History()
			limit, _ := cmd.Flags().GetInt("limit")
			if limit > 0 && limit < len(trades) {
				trades = trades[:limit]
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}

			if len(trades) == 0 {
				output.Dim("No trades yet")
				return nil
			}

			output.Printf("%-20s %-8s %-4s %8s %10s %12s\n",
				"Time", "Ticker", "Side", "Qty", "Price", "Total")
			for _, t := range trades {
				side := output.Green(string(t.Side))
				if t.Side == models.OrderSideSell {
					side = output.Red(string(t.Side))
				}
				output.Printf("%-20s %-8s %-4s %8d %10.2f %12.2f\n",
					t.Timestamp.Format("2006-01-02 15:04:05"),
					t.Symbol, side, t.Quantity, t.Price, t.TotalValue)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 0, "maximum number of trades to show (0 = all)")
	cmd.Flags().String("export", "", "write history to a CSV file")
	return cmd
}

func newResetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the paper-trading account",
		Long: `Clear all positions and the trade log and restore the starting
cash balance. Requires --confirm.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			confirm, _ := cmd.Flags().GetBool("confirm")
			if !confirm {
				output.Warning("This clears all positions and trade history.")
				output.Println("Re-run with --confirm to proceed.")
				return nil
			}

			if app.Store != nil {
				if err := app.Store.ClearTrades(ctx); err != nil {
					return fmt.Errorf("clearing trade log: %w", err)
				}
				if err := app.Store.SetInitialBalance(ctx, app.Config.Trading.InitialBalance); err != nil {
					return fmt.Errorf("resetting balance: %w", err)
				}
			}

			output.Success("Account reset to %s",
				utils.FormatCurrency(app.Config.Trading.InitialBalance))
			return nil
		},
	}
	cmd.Flags().Bool("confirm", false, "confirm the reset")
	return cmd
}
