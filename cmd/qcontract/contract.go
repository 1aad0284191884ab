package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/mbolis/quick-contract/client"
	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/service"
	"github.com/mbolis/quick-contract/store"
	"github.com/spf13/cobra"
)

func newContractCmd(s settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Manage contracts",
	}

	var filter store.ContractFilter
	var bucket string
	list := &cobra.Command{
		Use:   "list",
		Short: "List contracts, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Bucket = model.Bucket(bucket)
			cs, err := s.client().SearchContracts(cmd.Context(), filter)
			if err != nil {
				return err
			}
			printContracts(cmd.OutOrStdout(), cs)
			return nil
		},
	}
	list.Flags().StringVarP(&filter.Query, "query", "q", "", "only contracts whose name or description contains this")
	list.Flags().StringVarP(&bucket, "bucket", "b", "", "only contracts in this bucket: active, pending, signed or revoked")

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show a contract and its values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.client().GetContract(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printRecord(cmd.OutOrStdout(), c.Record)
			fmt.Fprintf(cmd.OutOrStdout(), "status %s (%s), blueprint %s\n\n", c.Status.Label(), c.Status.Bucket().Label(), c.BlueprintID)
			printFields(cmd.OutOrStdout(), c.Fields)
			return nil
		},
	}

	var blueprintID string
	create := &cobra.Command{
		Use:   "create",
		Short: "Fill in a new contract from a blueprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl := s.client()
			bp, err := chooseBlueprint(cmd.Context(), cl, blueprintID)
			if err != nil {
				return err
			}
			in := service.Instantiate(bp)
			if err = fillContract(in); err != nil {
				return err
			}
			c, err := in.Save(cmd.Context(), cl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created contract %s\n", c.ID)
			return nil
		},
	}
	create.Flags().StringVar(&blueprintID, "blueprint", "", "blueprint id; asked when missing")

	advance := &cobra.Command{
		Use:   "advance ID",
		Short: "Move a contract to its next status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.client().Advance(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "contract %s is now %s\n", c.ID, c.Status.Label())
			return nil
		},
	}

	revoke := &cobra.Command{
		Use:   "revoke ID",
		Short: "Revoke a created or sent contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.client().Revoke(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "contract %s is now %s\n", c.ID, c.Status.Label())
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.client().DeleteContract(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, show, create, advance, revoke, del)
	return cmd
}

func chooseBlueprint(ctx context.Context, cl *client.Client, id string) (model.Blueprint, error) {
	if id != "" {
		return cl.GetBlueprint(ctx, id)
	}

	bps, err := cl.ListBlueprints(ctx)
	if err != nil {
		return model.Blueprint{}, err
	}
	if len(bps) == 0 {
		return model.Blueprint{}, fmt.Errorf("%w: no blueprints yet, create one first", model.ErrInvalid)
	}
	opts := make([]huh.Option[int], len(bps))
	for i, bp := range bps {
		opts[i] = huh.NewOption(fmt.Sprintf("%s (%d fields)", bp.Name, bp.TotalFields), i)
	}
	var chosen int
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Blueprint").
				Options(opts...).
				Value(&chosen),
		),
	).Run()
	if err != nil {
		return model.Blueprint{}, err
	}
	return bps[chosen], nil
}

// fillContract asks the contract name and one value per editable field,
// with an input matching the field type.
func fillContract(in *service.Instantiation) error {
	group := []huh.Field{
		huh.NewInput().
			Title("Contract name").
			Value(&in.Name).
			Validate(required("name")),
		huh.NewText().
			Title("Description").
			Value(&in.Description),
	}

	fields := in.Fields()
	texts := make([]string, len(fields))
	checks := make([]bool, len(fields))
	for i, f := range fields {
		title := f.LabelText()
		switch f.Type {
		case model.TypeText:
			group = append(group, huh.NewInput().Title(title).Value(&texts[i]))
		case model.TypeDate:
			group = append(group, huh.NewInput().
				Title(title).
				Description(model.DateLayout).
				Value(&texts[i]).
				Validate(validDate))
		case model.TypeCheckbox:
			group = append(group, huh.NewConfirm().Title(title).Value(&checks[i]))
		case model.TypeSignature:
			group = append(group, huh.NewInput().
				Title(title).
				Description("path to a PNG, JPEG, GIF or WebP image, empty to sign later").
				Value(&texts[i]).
				Validate(validSignatureFile))
		}
	}
	if err := huh.NewForm(huh.NewGroup(group...)).Run(); err != nil {
		return err
	}

	for i, f := range fields {
		v, err := inputValue(f.Type, texts[i], checks[i])
		if err != nil {
			return fmt.Errorf("%s: %w", f.LabelText(), err)
		}
		if v == nil {
			continue
		}
		if err = in.SetValue(i, v); err != nil {
			return err
		}
	}
	return nil
}

// inputValue turns what was typed for a field of type t into its value;
// nil for fixed fields.
func inputValue(t model.FieldType, text string, checked bool) (model.FieldValue, error) {
	switch t {
	case model.TypeText:
		return model.TextValue(text), nil
	case model.TypeDate:
		return model.DateValue(text), nil
	case model.TypeCheckbox:
		return model.CheckboxValue(checked), nil
	case model.TypeSignature:
		if text == "" {
			return model.SignatureValue(""), nil
		}
		return readSignature(text)
	}
	return nil, nil
}

func printContracts(w io.Writer, cs []model.Contract) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tBUCKET\tUPDATED")
	for _, c := range cs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Status.Label(), c.Status.Bucket().Label(), c.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
}
