package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finboard/internal/indicators"
	"finboard/internal/marketdata"
	"finboard/internal/models"
	"finboard/internal/resample"
	"finboard/pkg/utils"
)

// addMarketCommands adds market data commands.
func addMarketCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newQuoteCmd(app))
	rootCmd.AddCommand(newChartCmd(app))
}

func newQuoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quote <ticker>...",
		Short: "Show current quotes",
		Example: `  finboard quote AAPL
  finboard quote AAPL MSFT GOOG`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			tickers := make([]string, 0, len(args))
			for _, arg := range args {
				ticker, err := models.NormalizeTicker(arg)
				if err != nil {
					output.Error("Invalid ticker: %s", arg)
					return err
				}
				tickers = append(tickers, ticker)
			}

			quotes, err := app.Provider.FetchQuotes(ctx, tickers)
			if err != nil {
				return fmt.Errorf("fetching quotes: %w", err)
			}

			if output.IsJSON() {
				return output.JSON(quotes)
			}

			for _, ticker := range tickers {
				quote, ok := quotes[ticker]
				if !ok {
					output.Warning("%-8s no data", ticker)
					continue
				}
				changeStr := output.PnLString(quote.Change,
					fmt.Sprintf("%+.2f (%s)", quote.Change, utils.FormatPercent(quote.ChangePercent)))
				output.Printf("%-8s %10.2f  %s  vol %s\n",
					quote.Symbol, quote.Price, changeStr, utils.FormatVolume(quote.Volume))
			}
			return nil
		},
	}
}

func newChartCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart <ticker>",
		Short: "Show price history with technical indicators",
		Long: `Fetch price history for a ticker, resample it to the requested
timeframe and compute technical indicators over the result.`,
		Example: `  finboard chart AAPL
  finboard chart AAPL --timeframe 1W --period 2y
  finboard chart MSFT --rows 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			ticker, err := models.NormalizeTicker(args[0])
			if err != nil {
				output.Error("Invalid ticker: %s", args[0])
				return err
			}

			timeframeFlag, _ := cmd.Flags().GetString("timeframe")
			periodFlag, _ := cmd.Flags().GetString("period")
			rows, _ := cmd.Flags().GetInt("rows")

			timeframe := models.Timeframe(timeframeFlag)
			period, err := parsePeriod(periodFlag)
			if err != nil {
				return err
			}

			bars, err := app.fetchSeries(ctx, output, ticker, period)
			if err != nil {
				return fmt.Errorf("fetching history for %s: %w", ticker, err)
			}
			if len(bars) == 0 {
				output.Warning("No price history for %s", ticker)
				return nil
			}

			resampled, err := resample.Resample(bars, timeframe)
			if err != nil {
				return err
			}

			params := indicators.Params{
				MAShortPeriod: app.Config.Indicators.MAShortPeriod,
				MALongPeriod:  app.Config.Indicators.MALongPeriod,
				RSIPeriod:     app.Config.Indicators.RSIPeriod,
				BBPeriod:      app.Config.Indicators.BBPeriod,
				BBStdDev:      app.Config.Indicators.BBStdDev,
			}
			derived, err := indicators.Compute(resampled, params)
			if err != nil {
				return fmt.Errorf("computing indicators: %w", err)
			}

			if output.IsJSON() {
				return output.JSON(chartJSON(derived, params))
			}

			printChart(output, app, ticker, timeframe, derived, params, rows)
			return nil
		},
	}

	cmd.Flags().String("timeframe", "1D", "timeframe: 1D, 1W, 1M, 3M")
	cmd.Flags().String("period", "1y", "history period: 1y, 2y, 5y")
	cmd.Flags().Int("rows", 10, "number of recent rows to print")
	return cmd
}

// fetchSeries fetches daily history from the provider and mirrors it
// into the local store. When the provider is unreachable the most
// recently stored bars are served instead, with a staleness warning.
func (app *App) fetchSeries(ctx context.Context, output *Output, ticker string, period marketdata.Period) ([]models.Bar, error) {
	bars, err := app.Provider.FetchSeries(ctx, ticker, period)
	if err == nil {
		if app.Store != nil {
			if saveErr := app.Store.SaveBars(ctx, ticker, models.TimeframeDaily, bars); saveErr != nil {
				app.Logger.Warn().Err(saveErr).Str("symbol", ticker).Msg("Failed to cache bars")
			} else if syncErr := app.Store.SetLastSync("bars:"+ticker, time.Now()); syncErr != nil {
				app.Logger.Warn().Err(syncErr).Str("symbol", ticker).Msg("Failed to record bar sync")
			}
		}
		return bars, nil
	}

	if app.Store == nil {
		return nil, err
	}
	cached, cacheErr := app.Store.GetBars(ctx, ticker, models.TimeframeDaily, time.Time{}, time.Now())
	if cacheErr != nil || len(cached) == 0 {
		return nil, err
	}

	lastSync := app.Store.GetLastSync("bars:" + ticker)
	if lastSync.IsZero() {
		output.Warning("Provider unavailable, using stored history for %s", ticker)
	} else {
		output.Warning("Provider unavailable, using stored history for %s (last synced %s)",
			ticker, lastSync.Format(app.Config.UI.DateFormat))
	}
	app.Logger.Warn().Err(err).Str("symbol", ticker).Msg("Serving bars from store")
	return cached, nil
}

func parsePeriod(s string) (marketdata.Period, error) {
	switch s {
	case "1y":
		return marketdata.Period1Y, nil
	case "2y":
		return marketdata.Period2Y, nil
	case "5y":
		return marketdata.Period5Y, nil
	}
	return "", fmt.Errorf("invalid period %q (want 1y, 2y or 5y)", s)
}

func chartJSON(derived *indicators.DerivedSeries, params indicators.Params) map[string]interface{} {
	columns := make(map[string][]float64)
	for _, name := range derived.ColumnNames() {
		col, _ := derived.Column(name)
		columns[name] = col
	}
	return map[string]interface{}{
		"bars":    derived.Bars,
		"columns": columns,
		"params":  params,
	}
}

func printChart(output *Output, app *App, ticker string, timeframe models.Timeframe, derived *indicators.DerivedSeries, params indicators.Params, rows int) {
	bars := derived.Bars
	n := len(bars)
	if rows <= 0 || rows > n {
		rows = n
	}

	output.Bold("%s  (%s, %d bars)", ticker, timeframe, n)
	output.Printf("%-12s %10s %10s %10s %10s %12s\n",
		"Date", "Open", "High", "Low", "Close", "Volume")
	for i := n - rows; i < n; i++ {
		b := bars[i]
		output.Printf("%-12s %10.2f %10.2f %10.2f %10.2f %12s\n",
			b.Timestamp.Format(app.Config.UI.DateFormat),
			b.Open, b.High, b.Low, b.Close, utils.FormatVolume(b.Volume))
	}
	output.Println()

	printSummary(output, derived, params)
}

// printSummary prints the latest indicator readings and a plain-English
// technical read of the most recent bar.
func printSummary(output *Output, derived *indicators.DerivedSeries, params indicators.Params) {
	n := len(derived.Bars)
	if n == 0 {
		return
	}
	last := n - 1
	closePrice := derived.Bars[last].Close

	output.Bold("Technical Summary")
	output.Printf("  Close:  %.2f\n", closePrice)

	maShort, _ := derived.MA(params.MAShortPeriod)
	maLong, _ := derived.MA(params.MALongPeriod)
	if indicators.Defined(maShort[last]) {
		trend := "below"
		if closePrice >= maShort[last] {
			trend = "above"
		}
		output.Printf("  MA%-4d  %.2f (price %s)\n", params.MAShortPeriod, maShort[last], trend)
	}
	if params.MALongPeriod != params.MAShortPeriod && indicators.Defined(maLong[last]) {
		trend := "below"
		if closePrice >= maLong[last] {
			trend = "above"
		}
		output.Printf("  MA%-4d  %.2f (price %s)\n", params.MALongPeriod, maLong[last], trend)
	}

	rsi, _ := derived.RSI(params.RSIPeriod)
	if indicators.Defined(rsi[last]) {
		state := "neutral"
		switch {
		case rsi[last] >= 70:
			state = output.Red("overbought")
		case rsi[last] <= 30:
			state = output.Green("oversold")
		}
		output.Printf("  RSI%-3d  %.2f (%s)\n", params.RSIPeriod, rsi[last], state)
	}

	mid, upper, lower, ok := derived.Bollinger()
	if ok && indicators.Defined(mid[last]) {
		position := "inside bands"
		if closePrice > upper[last] {
			position = output.Red("above upper band")
		} else if closePrice < lower[last] {
			position = output.Green("below lower band")
		}
		output.Printf("  BB      %.2f / %.2f / %.2f (%s)\n",
			lower[last], mid[last], upper[last], position)
	}
}
