package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"taskboard/internal/apiclient"
	"taskboard/internal/auth"
	"taskboard/internal/boardstate"
	"taskboard/internal/config"
	"taskboard/internal/logger"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

func client(cmd *cobra.Command) *apiclient.Client {
	api, _ := cmd.Flags().GetString("api")
	token, _ := cmd.Flags().GetString("token")
	return apiclient.New(api, token)
}

func boardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Print every column of the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := client(cmd).Board(cmd.Context())
			if err != nil {
				return err
			}
			printColumns(cmd.OutOrStdout(), boardstate.NewBoard(board.Tasks))
			return nil
		},
	}
}

func labelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "List labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			labels, err := client(cmd).Labels(cmd.Context())
			if err != nil {
				return err
			}
			for _, l := range labels {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", l.ID, l.Color, l.Name)
			}
			return nil
		},
	}
}

func assigneesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assignees",
		Short: "List assignees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			assignees, err := client(cmd).Assignees(cmd.Context())
			if err != nil {
				return err
			}
			for _, a := range assignees {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", a.ID, a.Name)
			}
			return nil
		},
	}
}

func createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a task at the bottom of TODO",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := repository.CreateTaskInput{Title: args[0]}
			if desc, _ := cmd.Flags().GetString("description"); desc != "" {
				in.Description = &desc
			}
			var err error
			if in.LabelIDs, err = parseIDs(cmd, "label"); err != nil {
				return err
			}
			if in.AssigneeIDs, err = parseIDs(cmd, "assignee"); err != nil {
				return err
			}

			task, err := client(cmd).Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %q at %s/%d\n", task.ID, task.Title, task.Status, task.Position)
			return nil
		},
	}
	cmd.Flags().StringP("description", "d", "", "Task description")
	cmd.Flags().StringSlice("label", nil, "Label id (repeatable)")
	cmd.Flags().StringSlice("assignee", nil, "Assignee id (repeatable)")
	return cmd
}

func moveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move [task-id] [column]",
		Short: "Move a task, applying the change locally until the server confirms it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			column, err := model.ParseStatus(args[1])
			if err != nil {
				return err
			}
			req := model.MoveRequest{TargetColumn: column}
			if cmd.Flags().Changed("index") {
				idx, _ := cmd.Flags().GetInt("index")
				req.TargetIndex = &idx
			}
			if raw, _ := cmd.Flags().GetString("anchor"); raw != "" {
				anchor, err := uuid.Parse(raw)
				if err != nil {
					return fmt.Errorf("invalid anchor id %q", raw)
				}
				req.TargetAnchorID = &anchor
			}

			api := client(cmd)
			board, err := api.Board(cmd.Context())
			if err != nil {
				return err
			}
			state := boardstate.New(api, board.Tasks, logger.Nop())
			pm, err := state.Move(cmd.Context(), id, req)
			if err != nil {
				if pm != nil && pm.State == boardstate.RolledBack {
					return fmt.Errorf("move rolled back: %w", err)
				}
				return err
			}
			if pm.Plan.NoOp {
				fmt.Fprintln(cmd.OutOrStdout(), "task already in place")
			}
			printColumns(cmd.OutOrStdout(), state.Board())
			return nil
		},
	}
	cmd.Flags().IntP("index", "i", 0, "Target index in the column")
	cmd.Flags().StringP("anchor", "a", "", "Drop onto this task's slot")
	return cmd
}

func tokenCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token [client-id]",
		Short: "Mint a bearer token with the server's JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ttl, _ := cmd.Flags().GetDuration("ttl")
			token, err := auth.GenerateToken(cfg.JWTSecret, args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().Duration("ttl", time.Duration(cfg.JWTExpiryHours)*time.Hour, "Token lifetime")
	return cmd
}

func parseIDs(cmd *cobra.Command, flag string) ([]uuid.UUID, error) {
	raw, _ := cmd.Flags().GetStringSlice(flag)
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("invalid %s id %q", flag, r)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printColumns(w io.Writer, board *boardstate.Board) {
	for _, s := range model.Statuses {
		list := board.Column(s)
		fmt.Fprintf(w, "%s (%d)\n", s, len(list))
		for _, t := range list {
			fmt.Fprintf(w, "  %d. %s  [%s v%d]\n", t.Position, t.Title, t.ID, t.Version)
		}
	}
	fmt.Fprintln(w, strings.Repeat("-", 40))
}
