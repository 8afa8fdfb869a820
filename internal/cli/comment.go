package cli

import (
	"github.com/spf13/cobra"

	"github.com/reelfeed/reelfeed/internal/engine/feed"
)

// NewCommentAddCmd creates the "comment add" command.
func NewCommentAddCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:     "add POST_ID",
		Short:   "Comment on a review",
		Example: `  reelfeed comment add 65a1f0 --text "Agreed, the score carries it"`,
		Args:    requireOneArg("post ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := mutationSession(cmd)
			if err != nil {
				return err
			}
			if err = s.AddComment(cmd.Context(), feed.Comment{PostID: args[0], Text: text}); err != nil {
				return mutationError(err)
			}
			comments := 0
			for _, p := range s.Items() {
				if p.ID == args[0] {
					comments = p.NumOfComments
				}
			}
			cmd.Printf("Commented on review %s; it has %d comments.\n", args[0], comments)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "comment text (required)")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

// NewCommentUpdateCmd creates the "comment update" command.
func NewCommentUpdateCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Edit a comment",
		Args:  requireOneArg("comment ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := mutationSession(cmd)
			if err != nil {
				return err
			}
			if err = s.UpdateComment(cmd.Context(), args[0], feed.Comment{Text: text}); err != nil {
				return mutationError(err)
			}
			cmd.Printf("Updated comment %s.\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "new comment text (required)")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

// NewCommentDeleteCmd creates the "comment delete" command.
func NewCommentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a comment",
		Args:  requireOneArg("comment ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := mutationSession(cmd)
			if err != nil {
				return err
			}
			if err = s.DeleteComment(cmd.Context(), args[0]); err != nil {
				return mutationError(err)
			}
			cmd.Printf("Deleted comment %s.\n", args[0])
			return nil
		},
	}
}
