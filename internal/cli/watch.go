// ABOUTME: Watch commands that follow live query results
// ABOUTME: Prints the current result and every update until interrupted
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/symptomlog/internal/db"
	"github.com/harper/symptomlog/internal/form"
	"github.com/harper/symptomlog/internal/watch"
)

var (
	watchCount    int
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow entries or known values as they change",
	Long: `Watch prints the current result of a query and prints it again after every change,
including changes made by other symptomlog processes. Stop with Ctrl-C.`,
}

var watchEntriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Follow the entry list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd,
			func(ctx context.Context, a *app) (*watch.Subscription[[]db.Entry], error) {
				return a.store.WatchAllEntries(ctx)
			},
			func(w io.Writer, a *app, entries []db.Entry) error {
				if len(entries) == 0 {
					_, _ = faintColor.Fprintln(w, "No entries")
					return nil
				}
				return writeEntryTable(w, entries, a.loc)
			})
	},
}

var watchBodyPartsCmd = &cobra.Command{
	Use:   "body-parts",
	Short: "Follow the known body parts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd,
			func(ctx context.Context, a *app) (*watch.Subscription[[]string], error) {
				return a.store.WatchDistinctBodyParts(ctx)
			},
			renderValues("No body parts yet"))
	},
}

var watchMedicationsCmd = &cobra.Command{
	Use:   "medications",
	Short: "Follow the known medications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd,
			func(ctx context.Context, a *app) (*watch.Subscription[[]string], error) {
				return a.store.WatchDistinctMedications(ctx)
			},
			renderValues("No medications yet"))
	},
}

var watchDosagesCmd = &cobra.Command{
	Use:   "dosages <medication>",
	Short: "Follow the dosages of one medication",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd,
			func(ctx context.Context, a *app) (*watch.Subscription[[]string], error) {
				return a.store.WatchDosagesForMedication(ctx, args[0])
			},
			renderValues("No dosages for "+args[0]))
	},
}

func renderValues(empty string) func(io.Writer, *app, []string) error {
	return func(w io.Writer, _ *app, values []string) error {
		writeValues(w, form.SortKnown(values), empty)
		return nil
	}
}

// runWatch subscribes, follows writes from other processes and renders each
// emission until interrupted or --count emissions were printed.
func runWatch[T any](
	cmd *cobra.Command,
	subscribe func(context.Context, *app) (*watch.Subscription[T], error),
	render func(io.Writer, *app, T) error,
) error {
	if watchInterval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", watchInterval)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sub, err := subscribe(ctx, a)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer sub.Close()

	followCtx, cancelFollow := context.WithCancel(ctx)
	followDone := make(chan struct{})
	go func() {
		defer close(followDone)
		if err := a.store.FollowExternalWrites(followCtx, watchInterval); err != nil {
			a.logger.Warn("not following other processes", "err", err)
		}
	}()
	defer func() {
		cancelFollow()
		<-followDone
	}()

	out := cmd.OutOrStdout()
	printed := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case value, ok := <-sub.C():
			if !ok {
				return nil
			}
			printed++
			_, _ = faintColor.Fprintf(out, "[%s] update %d\n", time.Now().In(a.loc).Format("15:04:05"), printed)
			if err := render(out, a, value); err != nil {
				return err
			}
			if watchCount > 0 && printed >= watchCount {
				return nil
			}
		}
	}
}

func init() {
	watchCmd.PersistentFlags().IntVar(&watchCount, "count", 0, "Stop after this many updates (0 runs until interrupted)")
	watchCmd.PersistentFlags().DurationVar(&watchInterval, "interval", time.Second, "How often to check for writes by other processes")
	watchCmd.AddCommand(watchEntriesCmd, watchBodyPartsCmd, watchMedicationsCmd, watchDosagesCmd)
	rootCmd.AddCommand(watchCmd)
}
