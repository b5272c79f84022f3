package trename

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/arthur-debert/trename/pkg/cobrax/topics"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// initTopics installs the topic-aware help command on rootCmd.
func initTopics(rootCmd *cobra.Command) (*topics.TopicManager, error) {
	sub, err := fs.Sub(topicFiles, "topics")
	if err != nil {
		return nil, err
	}

	opts := topics.Options{Extensions: []string{".md"}}
	if stdoutIsTerminal() {
		opts.Renderer = topics.NewGlamourRenderer()
	}
	return topics.Initialize(rootCmd, sub, opts)
}

func newTopicsCmd(tm *topics.TopicManager) *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tm == nil {
				return fmt.Errorf(MsgErrNoTopics)
			}
			return tm.WriteList(cmd.OutOrStdout(), cmd.Root().Name())
		},
	}
}
