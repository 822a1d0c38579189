package command

import (
	"os"

	"github.com/spf13/cobra"
)

const AppName = "meshchat"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   AppName,
		Short: "meshchat - terminal client for bitchat mesh networks",
		Long: "meshchat is a terminal chat client for bitchat-style mesh networks.\n" +
			"Run it without a subcommand to open the chat.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runChat,
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().String("config", "", "config file (default ~/.config/meshchat/config.toml)")
	cmd.PersistentFlags().Bool("json", false, "output in JSON format")
	addChatFlags(cmd)

	cmd.AddCommand(
		NewChatCmd(),
		NewNickCmd(),
		NewFaveCmd(),
		NewUnfaveCmd(),
		NewFavesCmd(),
		NewConfigCmd(),
	)

	return cmd
}

func Execute() error {
	return NewRootCmd(Version).Execute()
}
