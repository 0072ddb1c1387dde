package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/yatube/internal/service"
)

func newPostCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Moderate posts",
	}
	cmd.AddCommand(newPostDeleteCmd(a))
	return cmd
}

func newPostDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete a post with its comments and image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			images, err := a.images(cmd.Context())
			if err != nil {
				return err
			}

			posts := service.NewPostService(a.db, a.db, a.db, images, a.logger)
			if err := posts.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted post %s\n", args[0])
			return nil
		},
	}
}
