package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/ragso"
	"github.com/aretw0/ragso/internal/presentation/tui"
	"github.com/aretw0/ragso/pkg/runner"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [session-id]",
	Short: "Chat with the assistant in the terminal",
	Long: `Starts an interactive conversation. With a persistent store, passing the id
of an earlier session resumes it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
		defer stop()
		interrupts := runner.NewSignalManager()
		defer interrupts.Stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		eng, err := a.engine(ragso.WithThinkingDelay(cfg.ThinkingDelay))
		if err != nil {
			return err
		}

		var id string
		if len(args) > 0 {
			id = args[0]
		}
		conv, err := eng.Start(ctx, id)
		if err != nil {
			return err
		}

		var handler runner.IOHandler
		if jsonMode {
			handler = runner.NewJSONHandler(os.Stdin, os.Stdout)
		} else {
			var opts []runner.TextHandlerOption
			if !plain {
				render, err := tui.NewRenderer(0)
				if err != nil {
					return err
				}
				opts = append(opts, runner.WithTextHandlerRenderer(render))
				tui.PrintBanner(os.Stdout, strings.TrimSpace(ragso.Version))
				fmt.Printf("session %s\n\n", conv.ID())
			}
			handler = runner.NewTextHandler(os.Stdin, os.Stdout, opts...)
		}

		r := runner.NewRunner(eng, conv,
			runner.WithInputHandler(handler),
			runner.WithLogger(a.logger),
			runner.WithQuickRepliesOnStart(!jsonMode),
			runner.WithInterruptSource(interrupts),
		)
		if err := r.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON turns out, lines in)")
	chatCmd.Flags().Bool("plain", false, "Print raw markdown without styling")

	rootCmd.RunE = chatCmd.RunE
	rootCmd.Args = chatCmd.Args
}
