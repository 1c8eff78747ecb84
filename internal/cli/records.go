package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cerditos-farm/cerditos/internal/domain"
)

func init() {
	rootCmd.AddCommand(animalCmd, matingCmd, saleCmd, expenseCmd, feedCmd)

	animalCmd.AddCommand(animalAddCmd, animalListCmd)
	animalAddCmd.Flags().String("tag", "", "Ear tag (unique)")
	animalAddCmd.Flags().String("category", "", "Marrana, Semental, Lechon or Engorde")
	animalAddCmd.Flags().String("sex", "", "Hembra or Macho")
	animalAddCmd.Flags().String("breed", "", "Breed")
	animalAddCmd.Flags().String("born", "", "Birth date (YYYY-MM-DD)")
	animalAddCmd.Flags().String("status", "Activo", "Activo, Vendido, Fallecido or Retirado")

	matingCmd.AddCommand(matingAddCmd)
	matingAddCmd.Flags().Int64("sow", 0, "Sow id")
	matingAddCmd.Flags().Int64("boar", 0, "Boar id (optional)")
	matingAddCmd.Flags().String("date", "", "Mating date (YYYY-MM-DD)")
	matingAddCmd.Flags().String("method", "Natural", "Natural or IA")

	saleCmd.AddCommand(saleAddCmd)
	saleAddCmd.Flags().String("date", "", "Sale date (YYYY-MM-DD)")
	saleAddCmd.Flags().String("kind", "", "Lechon, Engorde, Reproductor or Carne")
	saleAddCmd.Flags().Int("quantity", 1, "Head count")
	saleAddCmd.Flags().String("weight", "0", "Total weight in kg")
	saleAddCmd.Flags().String("price", "", "Total price")
	saleAddCmd.Flags().String("buyer", "", "Buyer")

	expenseCmd.AddCommand(expenseAddCmd)
	expenseAddCmd.Flags().String("date", "", "Expense date (YYYY-MM-DD)")
	expenseAddCmd.Flags().String("category", "", "Alimento, Veterinaria, Mano de obra, Infraestructura or Otros")
	expenseAddCmd.Flags().String("amount", "", "Amount")
	expenseAddCmd.Flags().String("description", "", "Description")

	feedCmd.AddCommand(feedAddCmd)
	feedAddCmd.Flags().String("date", "", "Date (YYYY-MM-DD)")
	feedAddCmd.Flags().String("stage", "", "Reproductoras, Gestación, Lactancia, Engorde or Lechones")
	feedAddCmd.Flags().String("kg", "0", "Kilograms fed")
	feedAddCmd.Flags().String("cost", "0", "Cost")
}

// ─── animal ─────────────────────────────────────────────────────────────────

var animalCmd = &cobra.Command{
	Use:   "animal",
	Short: "Manage the herd inventory",
}

var animalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register an animal (replaces any animal with the same ear tag)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		born, err := dateFlag(cmd, "born")
		if err != nil {
			return err
		}
		tag, _ := cmd.Flags().GetString("tag")
		category, _ := cmd.Flags().GetString("category")
		sex, _ := cmd.Flags().GetString("sex")
		breed, _ := cmd.Flags().GetString("breed")
		status, _ := cmd.Flags().GetString("status")

		d, _, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		a, err := d.Records.RegisterAnimal(domain.Animal{
			EarTag:    tag,
			Category:  domain.Category(category),
			Sex:       domain.Sex(sex),
			Breed:     breed,
			BirthDate: born,
			Status:    domain.AnimalStatus(status),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Animal %s saved (id %d)\n", a.EarTag, a.ID)
		return nil
	},
}

var animalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the herd, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		animals, err := d.Records.Animals()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Animals (%d):\n", len(animals))
		for _, a := range animals {
			fmt.Fprintf(out, "  %4d  %-10s %-9s %-7s %s\n", a.ID, a.EarTag, a.Category, a.Sex, a.Status)
		}
		return nil
	},
}

// ─── mating ─────────────────────────────────────────────────────────────────

var matingCmd = &cobra.Command{
	Use:   "mating",
	Short: "Record services",
}

var matingAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a mating and project its farrowing date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateFlag(cmd, "date")
		if err != nil {
			return err
		}
		sow, _ := cmd.Flags().GetInt64("sow")
		boar, _ := cmd.Flags().GetInt64("boar")
		method, _ := cmd.Flags().GetString("method")

		m := domain.Mating{SowID: sow, MatedOn: date, Method: domain.MatingMethod(method)}
		if boar > 0 {
			m.BoarID = &boar
		}

		d, _, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		saved, err := d.Records.RegisterMating(m)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Mating of %s saved (id %d), expected farrowing %s\n",
			saved.SowTag, saved.ID, saved.ExpectedFarrowing)
		return nil
	},
}

// ─── sale / expense / feed ──────────────────────────────────────────────────

var saleCmd = &cobra.Command{
	Use:   "sale",
	Short: "Record sales",
}

var saleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a sale",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateFlag(cmd, "date")
		if err != nil {
			return err
		}
		weight, err := decimalFlag(cmd, "weight")
		if err != nil {
			return err
		}
		price, err := decimalFlag(cmd, "price")
		if err != nil {
			return err
		}
		kind, _ := cmd.Flags().GetString("kind")
		qty, _ := cmd.Flags().GetInt("quantity")
		buyer, _ := cmd.Flags().GetString("buyer")

		d, _, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		s, err := d.Records.RegisterSale(domain.Sale{
			Date:          date,
			Kind:          domain.SaleKind(kind),
			Quantity:      qty,
			TotalWeightKg: weight,
			TotalPrice:    price,
			Buyer:         buyer,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Sale saved (id %d): %d × %s for %s\n", s.ID, s.Quantity, s.Kind, money(s.TotalPrice))
		return nil
	},
}

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Record expenses",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateFlag(cmd, "date")
		if err != nil {
			return err
		}
		amount, err := decimalFlag(cmd, "amount")
		if err != nil {
			return err
		}
		category, _ := cmd.Flags().GetString("category")
		desc, _ := cmd.Flags().GetString("description")

		d, _, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		e, err := d.Records.RegisterExpense(domain.Expense{
			Date:        date,
			Category:    domain.ExpenseCategory(category),
			Description: desc,
			Amount:      amount,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Expense saved (id %d): %s %s\n", e.ID, e.Category, money(e.Amount))
		return nil
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Record feed consumption",
}

var feedAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record feed consumption",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateFlag(cmd, "date")
		if err != nil {
			return err
		}
		kg, err := decimalFlag(cmd, "kg")
		if err != nil {
			return err
		}
		cost, err := decimalFlag(cmd, "cost")
		if err != nil {
			return err
		}
		stage, _ := cmd.Flags().GetString("stage")

		d, _, err := openDaemon(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		f, err := d.Records.RegisterFeed(domain.FeedRecord{Date: date, Stage: domain.FeedStage(stage), Kg: kg, Cost: cost})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Feed record saved (id %d): %s kg for %s\n", f.ID, f.Kg, f.Stage)
		return nil
	},
}
