package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/service"
	"github.com/spf13/cobra"
)

func newBlueprintCmd(s settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "blueprint",
		Aliases: []string{"bp"},
		Short:   "Manage blueprints",
	}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List blueprints, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bps, err := s.client().SearchBlueprints(cmd.Context(), query)
			if err != nil {
				return err
			}
			printBlueprints(cmd.OutOrStdout(), bps)
			return nil
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "only blueprints whose name or description contains this")

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show a blueprint and its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bp, err := s.client().GetBlueprint(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printRecord(cmd.OutOrStdout(), bp.Record)
			printFields(cmd.OutOrStdout(), bp.Fields)
			return nil
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Design a new blueprint interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := service.NewBuilder()
			name, description, err := authorBlueprint(b)
			if err != nil {
				return err
			}
			bp, err := b.Save(cmd.Context(), s.client(), name, description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created blueprint %s\n", bp.ID)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a blueprint; contracts made from it are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.client().DeleteBlueprint(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, show, create, del)
	return cmd
}

// authorBlueprint runs the blueprint designer: name and description, then
// fields added one by one, each optionally dragged to its place.
func authorBlueprint(b *service.Builder) (name, description string, err error) {
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Blueprint name").
				Value(&name).
				Validate(required("name")),
			huh.NewText().
				Title("Description").
				Value(&description),
		),
	).Run()
	if err != nil {
		return
	}

	for {
		more, err := confirm(fmt.Sprintf("Add a field? (%d so far)", len(b.Fields())))
		if err != nil {
			return "", "", err
		}
		if !more {
			break
		}

		var (
			t    = model.TypeText
			text string
		)
		if err = fieldForm(&t, &text).Run(); err != nil {
			return "", "", err
		}
		i, err := b.AddField(t, text)
		if err != nil {
			return "", "", err
		}

		move, err := confirm("Move it? New fields start at the top-left corner.")
		if err != nil {
			return "", "", err
		}
		if !move {
			continue
		}
		var at string
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Top-left corner as x,y (page is 794x1123)").
					Value(&at).
					Validate(validPoint),
			),
		).Run()
		if err != nil {
			return "", "", err
		}
		p, _ := parsePoint(at)
		if _, err = b.MoveField(i, p); err != nil {
			return "", "", err
		}
	}
	return name, description, nil
}

func printBlueprints(w io.Writer, bps []model.Blueprint) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFIELDS\tUPDATED")
	for _, bp := range bps {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", bp.ID, bp.Name, bp.TotalFields, bp.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func printRecord(w io.Writer, r model.Record) {
	fmt.Fprintf(w, "%s  %s\n", r.ID, r.Name)
	if d := r.DescriptionText(); d != "" {
		fmt.Fprintln(w, d)
	}
	fmt.Fprintf(w, "created %s, updated %s\n\n",
		r.CreatedAt.Local().Format("2006-01-02 15:04"),
		r.UpdatedAt.Local().Format("2006-01-02 15:04"))
}

func printFields(w io.Writer, fields []model.FormField) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTYPE\tLABEL\tPOSITION\tVALUE")
	for i, f := range fields {
		p := f.Position
		fmt.Fprintf(tw, "%d\t%s\t%s\t%g,%g %gx%g\t%s\n", i, f.Type, f.LabelText(), p.X, p.Y, p.W, p.H, model.ValueString(f.Value))
	}
	tw.Flush()
}
