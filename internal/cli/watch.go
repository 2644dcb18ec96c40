package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"finboard/internal/models"
	"finboard/pkg/utils"
)

// addWatchlistCommands adds watchlist commands.
func addWatchlistCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watchlist management",
	}

	cmd.AddCommand(newWatchAddCmd(app))
	cmd.AddCommand(newWatchRemoveCmd(app))
	cmd.AddCommand(newWatchListCmd(app))

	rootCmd.AddCommand(cmd)
}

func newWatchAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <ticker>...",
		Short: "Add tickers to the watchlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			for _, arg := range args {
				ticker, err := models.NormalizeTicker(arg)
				if err != nil {
					output.Error("Invalid ticker: %s", arg)
					return err
				}
				if app.Store != nil {
					if err := app.Store.AddToWatchlist(ctx, ticker); err != nil {
						return err
					}
				}
				output.Success("Added %s", ticker)
			}
			return nil
		},
	}
}

func newWatchRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <ticker>",
		Short: "Remove a ticker from the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			ticker, err := models.NormalizeTicker(args[0])
			if err != nil {
				output.Error("Invalid ticker: %s", args[0])
				return err
			}
			if app.Store != nil {
				if err := app.Store.RemoveFromWatchlist(ctx, ticker); err != nil {
					return err
				}
			}
			output.Success("Removed %s", ticker)
			return nil
		},
	}
}

func newWatchListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the watchlist with current prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			s, err := app.loadSession(ctx)
			if err != nil {
				return err
			}

			tickers := s.Watchlist.Tickers()
			if len(tickers) == 0 {
				output.Dim("Watchlist is empty")
				return nil
			}

			quotes, err := s.Watchlist.Prices(ctx)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(quotes)
			}

			output.Printf("%-8s %10s %10s %10s %12s\n",
				"Ticker", "Price", "Change", "Change%", "Volume")
			for _, ticker := range tickers {
				quote, ok := quotes[ticker]
				if !ok {
					output.Warning("%-8s no data", ticker)
					continue
				}
				output.Printf("%-8s %10.2f %s %s %12s\n",
					quote.Symbol, quote.Price,
					output.PnLString(quote.Change, utils.FormatPnL(quote.Change)),
					output.PnLString(quote.Change, utils.FormatPercent(quote.ChangePercent)),
					utils.FormatVolume(quote.Volume))
			}
			return nil
		},
	}
}
