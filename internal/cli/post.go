package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/reelfeed/reelfeed/internal/engine/feed"
)

// errDeleteNotConfirmed is returned when a delete prompt is declined.
var errDeleteNotConfirmed = errors.New("delete cancelled")

// mutationSession builds a session for a post or comment command. Nothing
// is fetched until the mutation refreshes it.
func mutationSession(cmd *cobra.Command) (*feed.Session, error) {
	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return nil, err
	}
	return a.newSession(), nil
}

// reportFeed prints the feed size after a mutation.
func reportFeed(w io.Writer, s *feed.Session) {
	meta := s.Page().Meta
	fmt.Fprintf(w, "The feed now has %d reviews on %d pages.\n", meta.TotalItems, meta.TotalPages)
}

// mutationError turns validation failures into usage errors.
func mutationError(err error) error {
	if errors.Is(err, feed.ErrInvalidPost) || errors.Is(err, feed.ErrInvalidComment) {
		return usageError(err)
	}
	return err
}

// NewPostCreateCmd creates the "post create" command.
func NewPostCreateCmd() *cobra.Command {
	var p feed.NewPost

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a review",
		Example: `  reelfeed post create --title "Heat" --content "Still the best shootout" --rank 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := mutationSession(cmd)
			if err != nil {
				return err
			}
			created, err := s.CreatePost(cmd.Context(), p)
			if err != nil {
				return mutationError(err)
			}
			cmd.Printf("Published %q (%s).\n", created.Title, created.ID)
			reportFeed(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.Flags().StringVar(&p.Title, "title", "", "movie title (required)")
	cmd.Flags().StringVar(&p.Content, "content", "", "review text (required)")
	cmd.Flags().IntVar(&p.Rank, "rank", 0, fmt.Sprintf("rating from %d to %d", feed.MinRank, feed.MaxRank))
	cmd.Flags().StringVar(&p.ImageURL, "image-url", "", "poster image URL")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")

	return cmd
}

// NewPostUpdateCmd creates the "post update" command.
func NewPostUpdateCmd() *cobra.Command {
	var u feed.PostUpdate

	cmd := &cobra.Command{
		Use:     "update ID",
		Short:   "Edit a review's title or text",
		Example: `  reelfeed post update 65a1f0 --content "Better on a second watch"`,
		Args:    requireOneArg("post ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := mutationSession(cmd)
			if err != nil {
				return err
			}
			if err = s.UpdatePost(cmd.Context(), args[0], u); err != nil {
				return mutationError(err)
			}
			cmd.Printf("Updated review %s.\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&u.Title, "title", "", "new title")
	cmd.Flags().StringVar(&u.Content, "content", "", "new review text")

	return cmd
}

// NewPostDeleteCmd creates the "post delete" command. It asks for
// confirmation on a terminal unless --yes is given.
func NewPostDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a review",
		Args:  requireOneArg("post ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := mutationSession(cmd)
			if err != nil {
				return err
			}
			id := args[0]

			if !yes && interactive(cmd) {
				if err = s.Refresh(cmd.Context()); err != nil {
					return err
				}
				answer := ConfirmDelete(cmd.OutOrStdout(), cmd.InOrStdin(), "review", titleOf(s.Items(), id))
				if !answer.Accepted {
					return errDeleteNotConfirmed
				}
			}

			if err = s.DeletePost(cmd.Context(), id); err != nil {
				return mutationError(err)
			}
			cmd.Printf("Deleted review %s.\n", id)
			reportFeed(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")

	return cmd
}

func titleOf(posts []feed.Post, id string) string {
	for _, p := range posts {
		if p.ID == id {
			return p.Title
		}
	}
	return ""
}

// NewPostLikeCmd creates the "post like" command.
func NewPostLikeCmd() *cobra.Command {
	return newLikeCmd("like", "Like a review", "Liked", (*feed.Session).Like)
}

// NewPostUnlikeCmd creates the "post unlike" command.
func NewPostUnlikeCmd() *cobra.Command {
	return newLikeCmd("unlike", "Withdraw a like", "Unliked", (*feed.Session).Unlike)
}

func newLikeCmd(
	use, short, done string,
	op func(*feed.Session, context.Context, string) error,
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  requireOneArg("post ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := mutationSession(cmd)
			if err != nil {
				return err
			}
			if err = op(s, cmd.Context(), args[0]); err != nil {
				return mutationError(err)
			}
			likes := 0
			for _, p := range s.Items() {
				if p.ID == args[0] {
					likes = p.Likes
				}
			}
			cmd.Printf("%s review %s; it has %d likes.\n", done, args[0], likes)
			return nil
		},
	}
}
