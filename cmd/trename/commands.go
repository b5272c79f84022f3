package trename

import (
	"fmt"
	"io"

	"github.com/arthur-debert/trename/internal/version"
	"github.com/arthur-debert/trename/pkg/config"
	"github.com/arthur-debert/trename/pkg/ledger"
	"github.com/arthur-debert/trename/pkg/logging"
	"github.com/arthur-debert/trename/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbosity  int
	configFile string
	ledgerPath string
	format     string
}

// session is what a command needs once flags are parsed: the effective
// configuration and a renderer bound to the command's output.
type session struct {
	cfg      *config.Config
	renderer ui.Renderer
	out      io.Writer
}

// load builds the session for cmd. Flags override config file and env.
func (g *globalOptions) load(cmd *cobra.Command) (*session, error) {
	overrides := map[string]interface{}{}
	if g.ledgerPath != "" {
		overrides["ledger.path"] = g.ledgerPath
	}
	if g.format != "" {
		overrides["display.format"] = g.format
	}

	cfg, err := config.Load(config.LoadOptions{File: g.configFile, Overrides: overrides})
	if err != nil {
		return nil, err
	}

	format, err := ui.ParseFormat(cfg.Display.Format)
	if err != nil {
		return nil, err
	}
	renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, renderer: renderer, out: cmd.OutOrStdout()}, nil
}

// openLedger opens the ledger the session is configured for. Callers
// close it before returning.
func (s *session) openLedger() (*ledger.Ledger, error) {
	return ledger.Open(s.cfg.Ledger.Path, ledger.Options{Timeout: s.cfg.Ledger.OpenTimeout})
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "trename",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&g.ledgerPath, "ledger", "", MsgFlagLedger)
	rootCmd.PersistentFlags().StringVar(&g.format, "format", "", MsgFlagFormat)
	_ = rootCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"auto", "term", "text", "plain", "json"}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "ledger",
		Title: "UNDO LEDGER:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newRenameCmd(g))
	rootCmd.AddCommand(newCheckCmd(g))
	rootCmd.AddCommand(newUndoCmd(g))
	rootCmd.AddCommand(newHistoryCmd(g))
	rootCmd.AddCommand(newClearHistoryCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	tm, err := initTopics(rootCmd)
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}
	rootCmd.AddCommand(newTopicsCmd(tm))
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}

func newConfigCmd(g *globalOptions) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				_, err := io.WriteString(cmd.OutOrStdout(), config.DefaultContent())
				return err
			}

			s, err := g.load(cmd)
			if err != nil {
				return err
			}
			data, err := s.cfg.Dump()
			if err != nil {
				return err
			}
			if _, err := s.out.Write(data); err != nil {
				return fmt.Errorf("%s: %w", MsgErrWriteConfigDump, err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
			return err
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
