package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dyluth/lineage/internal/listing"
	"github.com/dyluth/lineage/internal/printer"
	"github.com/dyluth/lineage/internal/resolver"
	"github.com/dyluth/lineage/internal/store"
	"github.com/dyluth/lineage/internal/treefile"
	"github.com/dyluth/lineage/pkg/document"
)

var (
	pushID      string
	pullForce   bool
	watchOutput string
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the tree file to Redis",
	Long: `Upload the tree file to the Redis server named in lineage.yml.

Without --id a new tree ID is generated. Pushing again with the same ID
replaces the stored document and bumps its revision. A short --id must match
a stored tree.

Examples:
  lineage push
  lineage push --id 3f2a9c`,
	Args: cobra.NoArgs,
	RunE: runPush,
}

var pullCmd = &cobra.Command{
	Use:   "pull TREE_ID",
	Short: "Download a stored tree into the tree file",
	Long: `Download a stored tree into the file named by --tree.

TREE_ID may be a full ID or a prefix of at least 6 characters. An existing
file is only replaced with --force.`,
	Args: cobra.ExactArgs(1),
	RunE: runPull,
}

var treesCmd = &cobra.Command{
	Use:   "trees",
	Short: "List trees stored in Redis",
	Args:  cobra.NoArgs,
	RunE:  runTrees,
}

var treesDeleteCmd = &cobra.Command{
	Use:   "delete TREE_ID",
	Short: "Delete a stored tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runTreesDelete,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream changes to stored trees",
	Long: `Stream tree saves and deletions in the configured namespace as they occur.

Output Formats:
  default - Human-readable output with timestamps
  jsonl   - Line-delimited JSON for programmatic processing

Examples:
  lineage watch
  lineage watch --output=jsonl > changes.jsonl`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	pushCmd.Flags().StringVar(&pushID, "id", "", "Tree ID to push to (full or short)")
	pullCmd.Flags().BoolVarP(&pullForce, "force", "f", false, "Overwrite an existing tree file")
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "default", "Output format: default or jsonl")

	treesCmd.AddCommand(treesDeleteCmd)
	rootCmd.AddCommand(pushCmd, pullCmd, treesCmd, watchCmd)
}

// openStore connects to the configured Redis server.
func openStore(ctx context.Context) (*store.Store, error) {
	redisOpts := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	st, err := store.New(redisOpts, cfg.Redis.Namespace, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	if err := st.Ping(ctx); err != nil {
		st.Close()
		return nil, printer.ErrorWithContext(
			"Redis connection failed",
			fmt.Sprintf("Could not connect to Redis at %s", cfg.Redis.Addr),
			map[string]string{"namespace": cfg.Redis.Namespace},
			[]string{fmt.Sprintf("Check redis.addr in %s", configPath)},
		)
	}
	return st, nil
}

// resolveStoredTree expands a short tree ID against the stored trees.
func resolveStoredTree(ctx context.Context, st *store.Store, shortID string) (string, error) {
	id, err := resolver.ResolveTreeID(ctx, st, shortID)
	if err == nil {
		return id, nil
	}

	var ambiguous *resolver.AmbiguousError
	switch {
	case resolver.IsNotFoundError(err):
		return "", printer.Error(
			fmt.Sprintf("tree '%s' not found", shortID),
			fmt.Sprintf("No stored tree in namespace '%s' matches this ID.", cfg.Redis.Namespace),
			[]string{"List stored trees:\n  lineage trees"},
		)
	case errors.As(err, &ambiguous):
		fmt.Fprint(printer.Stderr, resolver.FormatAmbiguousError(ambiguous))
		return "", printer.Error("ambiguous tree ID", err.Error(), []string{"Use a longer prefix"})
	default:
		return "", printer.Error("invalid tree ID", err.Error(), nil)
	}
}

func runPush(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	doc, err := treefile.Read(treePath)
	if err != nil {
		return printer.Error(fmt.Sprintf("failed to read %s", treePath), err.Error(), nil)
	}
	// Refuse to share a document that does not load.
	if _, err := document.Build(doc); err != nil {
		return printer.ModelError("push "+treePath, err)
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	treeID := uuid.NewString()
	if pushID != "" {
		// A full ID may name a tree that does not exist yet.
		if id, parseErr := uuid.Parse(pushID); parseErr == nil {
			treeID = id.String()
		} else if treeID, err = resolveStoredTree(ctx, st, pushID); err != nil {
			return err
		}
	}

	revision, err := st.Save(ctx, treeID, doc)
	if err != nil {
		return fmt.Errorf("failed to push tree: %w", err)
	}

	printer.Success("Pushed '%s' as %s (revision %d)\n", doc.Name, treeID, revision)
	return nil
}

func runPull(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if _, err := os.Stat(treePath); err == nil && !pullForce {
		return printer.Error(
			fmt.Sprintf("%s already exists", treePath),
			"Pulling would overwrite the local tree file.",
			[]string{
				"Overwrite it:\n  lineage pull --force " + args[0],
				"Pull into another file:\n  lineage pull --tree other.yml " + args[0],
			},
		)
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	treeID, err := resolveStoredTree(ctx, st, args[0])
	if err != nil {
		return err
	}

	rec, err := st.Get(ctx, treeID)
	if err != nil {
		if store.IsNotFound(err) {
			return printer.Error(fmt.Sprintf("tree '%s' not found", args[0]), "The tree was deleted.", nil)
		}
		return fmt.Errorf("failed to pull tree: %w", err)
	}
	if _, err := document.Build(rec.Document); err != nil {
		return printer.ModelError("pull "+treeID, err)
	}

	if err := treefile.Write(treePath, rec.Document); err != nil {
		return printer.Error(fmt.Sprintf("failed to write %s", treePath), err.Error(), nil)
	}
	printer.Success("Pulled '%s' (revision %d) into %s\n", rec.Name, rec.Revision, treePath)
	return nil
}

func runTrees(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	summaries, err := st.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list trees: %w", err)
	}

	w := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintf(w, "No trees stored in namespace '%s'.\n", cfg.Redis.Namespace)
		return nil
	}
	formatTrees(w, summaries)
	return nil
}

func formatTrees(w io.Writer, summaries []store.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPERSONS\tREVISION\tUPDATED")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			s.ID[:8], s.Name, s.PersonCount, s.Revision, s.UpdatedAt.Format(time.DateTime))
	}
	tw.Flush()
}

func runTreesDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	treeID, err := resolveStoredTree(ctx, st, args[0])
	if err != nil {
		return err
	}
	if err := st.Delete(ctx, treeID); err != nil {
		return fmt.Errorf("failed to delete tree: %w", err)
	}
	printer.Success("Deleted tree %s\n", treeID)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	format, err := listing.ParseOutputFormat(watchOutput)
	if err != nil {
		return printer.Error(
			"invalid output format",
			err.Error(),
			[]string{"Valid formats: default, jsonl"},
		)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	sub, err := st.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer sub.Close()

	if format == listing.OutputFormatDefault {
		printer.Info("Watching trees in namespace '%s' (Ctrl+C to stop)\n", cfg.Redis.Namespace)
	}
	return streamTreeEvents(ctx, sub, format, cmd.OutOrStdout())
}

// streamTreeEvents writes events until ctx is done or the subscription ends.
func streamTreeEvents(ctx context.Context, sub *store.Subscription, format listing.OutputFormat, w io.Writer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-sub.Errors():
			if !ok {
				return nil
			}
			log.WithError(err).Warn("skipping malformed tree event")
		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if err := writeTreeEvent(w, ev, format); err != nil {
				return err
			}
		}
	}
}

func writeTreeEvent(w io.Writer, ev store.TreeEvent, format listing.OutputFormat) error {
	if format == listing.OutputFormatJSONL {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	at := time.UnixMilli(ev.AtMs).Format(time.TimeOnly)
	switch ev.Action {
	case store.ActionDeleted:
		_, err := fmt.Fprintf(w, "[%s] deleted %s '%s'\n", at, ev.TreeID, ev.Name)
		return err
	default:
		_, err := fmt.Fprintf(w, "[%s] %s %s '%s' (revision %d)\n", at, ev.Action, ev.TreeID, ev.Name, ev.Revision)
		return err
	}
}
