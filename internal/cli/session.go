package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/assemblage/pkg/session"
)

// sessionCommand creates the session management command.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or reset the image usage session",
		Long: `The CLI keeps one usage session between runs of "compose --session". It
counts how often each source image has been placed so that --max-repeats can
cap reuse across compositions.`,
	}

	cmd.AddCommand(c.sessionShowCommand())
	cmd.AddCommand(c.sessionResetCommand())
	cmd.AddCommand(c.sessionPathCommand())

	return cmd
}

// sessionShowCommand creates the "session show" subcommand.
func (c *CLI) sessionShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the image usage counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := session.NewCLIStore(sessionDir())
			if err != nil {
				return err
			}
			sess, err := store.GetSession(cmd.Context())
			if err != nil {
				return err
			}
			if sess == nil || sess.Usage == nil {
				printInfo("No active session")
				printNextStep("Start one", "assemblage compose --session")
				return nil
			}

			printKeyValue("compositions", strconv.Itoa(sess.Compositions))
			printKeyValue("image uses", strconv.Itoa(sess.Usage.Total()))
			repeats := "unlimited"
			if sess.Usage.MaxRepeats > 0 {
				repeats = strconv.Itoa(sess.Usage.MaxRepeats)
			}
			printKeyValue("max repeats", repeats)
			printKeyValue("expires", sess.ExpiresAt.Format("2006-01-02 15:04"))
			if len(sess.Usage.Counts) > 0 {
				printNewline()
				fmt.Println(usageTable(sess))
			}
			return nil
		},
	}
}

// usageTable renders the per-image counters, exhausted images dimmed.
func usageTable(sess *session.Session) string {
	refs := make([]int, 0, len(sess.Usage.Counts))
	for ref := range sess.Usage.Counts {
		refs = append(refs, ref)
	}
	sort.Ints(refs)

	rows := make([][]string, len(refs))
	for i, ref := range refs {
		rows[i] = []string{strconv.Itoa(ref), strconv.Itoa(sess.Usage.Counts[ref])}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Image", "Uses").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(refs) && sess.Usage.Exhausted(refs[row]) {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

// sessionResetCommand creates the "session reset" subcommand.
func (c *CLI) sessionResetCommand() *cobra.Command {
	var hard bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the usage counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := session.NewCLIStore(sessionDir())
			if err != nil {
				return err
			}
			if hard {
				if err := store.DeleteSession(ctx); err != nil {
					return err
				}
				printSuccess("Session deleted")
				return nil
			}

			sess, err := store.GetSession(ctx)
			if err != nil {
				return err
			}
			if sess == nil {
				printInfo("No active session")
				return nil
			}
			sess.Reset()
			if err := store.SaveSession(ctx, sess); err != nil {
				return err
			}
			printSuccess("Session reset")
			return nil
		},
	}

	cmd.Flags().BoolVar(&hard, "hard", false, "delete the session file, including max repeats")
	return cmd
}

// sessionPathCommand creates the "session path" subcommand.
func (c *CLI) sessionPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the session file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := session.NewCLIStore(sessionDir())
			if err != nil {
				return err
			}
			fmt.Println(store.Path())
			return nil
		},
	}
}
