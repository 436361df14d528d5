package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/02loveslollipop/minimundos-dashboard/services/api/db"
)

func newPatientsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Administer cardiac-risk patient records",
	}
	cmd.AddCommand(newPatientsListCommand(), newPatientsAddCommand(), newPatientsDeleteCommand())
	return cmd
}

func newPatientsListCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patient records ordered by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, _, _, err := openRepository(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer repo.Close()

			patients, err := repo.ListPatients(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(patients)
			}
			if len(patients) == 0 {
				fmt.Fprintln(out, "(no patients)")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PACIENTE_ID\tIDADE\tCOLESTEROL\tPRESSAO\tRISCO")
			for _, p := range patients {
				fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\n", p.PacienteID, p.Idade, p.Colesterol, p.Pressao, p.Risco)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func newPatientsAddCommand() *cobra.Command {
	var p db.Patient
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Insert one patient record",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, _, _, err := openRepository(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			if err := repo.InsertPatients(cmd.Context(), []db.Patient{p}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added patient %d\n", p.PacienteID)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&p.PacienteID, "id", 0, "paciente_id")
	f.IntVar(&p.Idade, "idade", 0, "age in years")
	f.IntVar(&p.Colesterol, "colesterol", 0, "cholesterol")
	f.IntVar(&p.Pressao, "pressao", 0, "blood pressure")
	f.IntVar(&p.Risco, "risco", 0, "cardiac risk flag, 0 or 1")
	for _, name := range []string{"id", "idade", "colesterol", "pressao", "risco"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newPatientsDeleteCommand() *cobra.Command {
	var id int
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete one patient record",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, _, _, err := openRepository(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.DeletePatient(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted patient %d\n", id)
			return nil
		},
	}
	cmd.Flags().IntVar(&id, "id", 0, "paciente_id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
