package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/keyflow/internal/config"
	"github.com/verte-zerg/keyflow/internal/model"
	"github.com/verte-zerg/keyflow/internal/passage"
	"github.com/verte-zerg/keyflow/internal/store"
	"github.com/verte-zerg/keyflow/internal/table"
)

const minTitleWidth = 12

var (
	passageTitle string
	passageFile  string
)

func newPassageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passage",
		Short: "Manage the passage library",
	}

	addCmd := &cobra.Command{
		Use:   "add [text...]",
		Short: "Add a passage from arguments, --file or stdin",
		RunE:  runPassageAddCmd,
	}
	addCmd.Flags().StringVar(&passageTitle, "title", "", "passage title (default: first words)")
	addCmd.Flags().StringVar(&passageFile, "file", "", "read passage text from file")

	cmd.AddCommand(addCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List library passages",
		Args:  cobra.NoArgs,
		RunE:  runPassageListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print a library passage",
		Args:  cobra.ExactArgs(1),
		RunE:  runPassageShowCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a library passage",
		Args:  cobra.ExactArgs(1),
		RunE:  runPassageRemoveCmd,
	})
	return cmd
}

func openStore() (*store.Store, func(), error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("Failed to close db")
		}
	}, nil
}

func runPassageAddCmd(cmd *cobra.Command, args []string) error {
	body, err := readPassageBody(cmd.InOrStdin(), args, passageFile)
	if err != nil {
		return err
	}
	body = passage.Normalize(body)
	if body == "" {
		return fmt.Errorf("passage text is empty")
	}
	title := strings.TrimSpace(passageTitle)
	if title == "" {
		title = defaultTitle(body)
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	id, err := st.AddPassage(cmd.Context(), title, body, time.Now())
	if err != nil {
		return fmt.Errorf("failed to add passage: %w", err)
	}
	log.Info().Int64("id", id).Str("title", title).Msg("Added passage")
	_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
	return err
}

func readPassageBody(stdin io.Reader, args []string, file string) (string, error) {
	switch {
	case file != "" && len(args) > 0:
		return "", fmt.Errorf("use either --file or text arguments, not both")
	case file != "":
		p, err := passage.LoadFile(file)
		if err != nil {
			return "", err
		}
		return p.Body, nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	}
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", fmt.Errorf("no passage text given; pass text, --file, or pipe it on stdin")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func defaultTitle(body string) string {
	words := strings.Fields(body)
	if len(words) > 5 {
		words = append(words[:5], "…")
	}
	return strings.Join(words, " ")
}

func runPassageListCmd(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	passages, err := st.ListPassages(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list passages: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(passages) == 0 {
		_, err := fmt.Fprintln(out, "No passages found. Add one with: keyflow passage add")
		return err
	}
	return passageTable(passages, titleWidth(out)).Render(out)
}

func passageTable(passages []model.Passage, maxTitle int) table.Table {
	rows := make([][]string, 0, len(passages))
	for _, p := range passages {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Title,
			strconv.Itoa(len([]rune(p.Body))),
			strconv.Itoa(len(strings.Fields(p.Body))),
			p.CreatedAt.Local().Format("2006-01-02"),
		})
	}
	return table.Table{
		Headers:      []string{"ID", "Title", "Chars", "Words", "Added"},
		Rows:         rows,
		RightAlign:   map[int]bool{0: true, 2: true, 3: true},
		MaxCellWidth: maxTitle,
	}
}

// titleWidth leaves room for the fixed columns when writing to a terminal.
// The other columns never exceed minTitleWidth, so the limit only bites on
// titles.
func titleWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return max(width-32, minTitleWidth)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid passage id %q", arg)
	}
	return id, nil
}

func runPassageShowCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	p, err := st.GetPassage(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrPassageNotFound) {
			return fmt.Errorf("no passage with id %d", id)
		}
		return fmt.Errorf("failed to load passage: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", p.Title, p.Body)
	return err
}

func runPassageRemoveCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.RemovePassage(cmd.Context(), id); err != nil {
		if errors.Is(err, store.ErrPassageNotFound) {
			return fmt.Errorf("no passage with id %d", id)
		}
		return fmt.Errorf("failed to remove passage: %w", err)
	}
	log.Info().Int64("id", id).Msg("Removed passage")
	return nil
}
