package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cerditos-farm/cerditos/internal/app/finance"
)

func init() {
	rootCmd.AddCommand(financeCmd)

	financeCmd.Flags().String("start", "", "First day of the period (YYYY-MM-DD)")
	financeCmd.Flags().String("end", "", "Last day of the period (YYYY-MM-DD)")
	financeCmd.Flags().String("investment", "0", "Initial investment at t0")
	financeCmd.Flags().Bool("json", false, "Print the report as JSON")
	financeCmd.Flags().String("chart", "", "Also write the cash-flow chart PNG to this file")
	financeCmd.MarkFlagRequired("start")
	financeCmd.MarkFlagRequired("end")
}

var financeCmd = &cobra.Command{
	Use:   "finance",
	Short: "Cash flow, IRR and payback for a period",
	Args:  cobra.NoArgs,
	RunE:  runFinance,
}

func runFinance(cmd *cobra.Command, args []string) error {
	start, err := dateFlag(cmd, "start")
	if err != nil {
		return err
	}
	end, err := dateFlag(cmd, "end")
	if err != nil {
		return err
	}
	investment, err := decimalFlag(cmd, "investment")
	if err != nil {
		return err
	}
	if investment.IsNegative() {
		return fmt.Errorf("--investment must be non-negative")
	}

	d, _, err := openDaemon(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	rep, err := d.Finance.Generate(finance.Request{Start: start, End: end, Investment: investment})
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("chart"); path != "" {
		img, err := finance.RenderChart(rep)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, img, 0o644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	fmt.Fprintf(out, "Period %s → %s   investment %s\n\n", rep.Start, rep.End, money(rep.Investment))
	if len(rep.MonthlyCashFlow) > 0 {
		fmt.Fprintf(out, "  %-8s %16s %16s %16s %16s\n", "MONTH", "SALES", "EXPENSES", "NET", "CUMULATIVE")
		for _, p := range rep.MonthlyCashFlow {
			fmt.Fprintf(out, "  %-8s %16s %16s %16s %16s\n",
				p.Label, money(p.Sales), money(p.Expenses), money(p.Amount), money(p.Cumulative))
		}
		fmt.Fprintln(out)
	}

	if rep.IRRMonthly != nil {
		fmt.Fprintf(out, "IRR:      %.2f%% monthly, %.2f%% annualized\n", *rep.IRRMonthly*100, *rep.IRRAnnualized*100)
	} else if rep.IRRReason != "" {
		fmt.Fprintf(out, "IRR:      undefined (%s)\n", strings.ReplaceAll(rep.IRRReason, "_", " "))
	}
	if rep.PaybackMonths != nil {
		fmt.Fprintf(out, "Payback:  month %d\n", *rep.PaybackMonths)
	} else if len(rep.MonthlyCashFlow) > 0 {
		fmt.Fprintln(out, "Payback:  not reached")
	}
	fmt.Fprintf(out, "Status:   %s\n", rep.Status)
	return nil
}
