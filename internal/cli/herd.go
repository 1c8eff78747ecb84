package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cerditos-farm/cerditos/internal/app/herd"
	"github.com/cerditos-farm/cerditos/internal/domain"
)

func init() {
	rootCmd.AddCommand(farrowingCmd)
	rootCmd.AddCommand(psyCmd)
	rootCmd.AddCommand(dashboardCmd)

	psyCmd.Flags().Int("weaned", 0, "Piglets weaned in the window")
	psyCmd.Flags().Int("sows", 0, "Active sows")
	psyCmd.Flags().Int("days", 365, "Window length in days")
}

// ─── farrowing ──────────────────────────────────────────────────────────────

var farrowingCmd = &cobra.Command{
	Use:   "farrowing MATING_DATE",
	Short: "Project the farrowing date for a mating",
	Long:  fmt.Sprintf("Print the expected farrowing date: the mating date plus %d days of gestation.", domain.GestationDays),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matedOn, err := domain.ParseDate(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mated %s → expected farrowing %s\n", matedOn, domain.ExpectedFarrowing(matedOn))
		return nil
	},
}

// ─── psy ────────────────────────────────────────────────────────────────────

var psyCmd = &cobra.Command{
	Use:   "psy",
	Short: "Pigs weaned per sow per year",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		weaned, _ := cmd.Flags().GetInt("weaned")
		sows, _ := cmd.Flags().GetInt("sows")
		days, _ := cmd.Flags().GetInt("days")

		v, ok := herd.PSY(weaned, sows, days)
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "PSY: undefined (no active sows)")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "PSY: %.2f\n", v)
		return nil
	},
}

// ─── dashboard ──────────────────────────────────────────────────────────────

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Inventory, 90-day totals and upcoming farrowings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		snap, err := d.Herd.Dashboard()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		inv := snap.Inventory
		fmt.Fprintf(out, "Herd:      %d active (%d sows, %d boars, %d piglets/growers)\n",
			inv.Total, inv.Sows, inv.Boars, inv.PigletsGrowers)
		fmt.Fprintf(out, "Since %s: income %s, expenses %s, profit %s\n",
			snap.LedgerSince, money(snap.Income), money(snap.Expenses), money(snap.Profit))
		if len(snap.UpcomingFarrowings) == 0 {
			fmt.Fprintf(out, "No farrowings due in the next %d days.\n", herd.UpcomingFarrowingDays)
			return nil
		}
		fmt.Fprintf(out, "Due in the next %d days (%d):\n", herd.UpcomingFarrowingDays, len(snap.UpcomingFarrowings))
		for _, u := range snap.UpcomingFarrowings {
			fmt.Fprintf(out, "  • %-10s %s\n", u.SowTag, u.ExpectedFarrowing)
		}
		return nil
	},
}
