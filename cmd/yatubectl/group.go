package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sakif/yatube/internal/form"
	"github.com/sakif/yatube/internal/service"
)

func newGroupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage post groups",
	}
	cmd.AddCommand(newGroupCreateCmd(a), newGroupListCmd(a))
	return cmd
}

func newGroupCreateCmd(a *app) *cobra.Command {
	f := &form.GroupForm{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !f.Validate() {
				return formError(f.Errors)
			}

			groups := service.NewGroupService(a.db, a.logger)
			g, err := groups.Create(cmd.Context(), f.Title, f.Slug, f.Description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created group %s (/group/%s/)\n", g.ID, g.Slug)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.Title, "title", "", "group title")
	cmd.Flags().StringVar(&f.Slug, "slug", "", "URL slug: letters, digits, '-' and '_'")
	cmd.Flags().StringVar(&f.Description, "description", "", "group description")
	return cmd
}

func newGroupListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			groups, err := service.NewGroupService(a.db, a.logger).List(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSLUG\tTITLE")
			for _, g := range groups {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", g.ID, g.Slug, g.Title)
			}
			return tw.Flush()
		},
	}
}

// formError joins field errors into one line: "slug: This field is required."
func formError(errs form.Errors) error {
	var parts []string
	for field, msgs := range errs {
		for _, m := range msgs {
			parts = append(parts, field+": "+m)
		}
	}
	return errors.New(strings.Join(parts, "; "))
}
