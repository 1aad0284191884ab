// Command qcontract manages blueprints and contracts on a quick-contract
// server from the terminal.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mbolis/quick-contract/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// settings holds the global flags, also read from QCONTRACT_SERVER and
// QCONTRACT_TOKEN.
type settings struct {
	v *viper.Viper
}

func (s settings) client() *client.Client {
	return client.New(s.v.GetString("server"), client.WithToken(s.v.GetString("token")))
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("QCONTRACT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	s := settings{v}

	root := &cobra.Command{
		Use:           "qcontract",
		Short:         "Design blueprints and manage contracts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("server", "http://localhost:8080", "quick-contract server URL")
	root.PersistentFlags().String("token", "", "access token, as printed by login")
	v.BindPFlag("server", root.PersistentFlags().Lookup("server"))
	v.BindPFlag("token", root.PersistentFlags().Lookup("token"))

	root.AddCommand(
		newLoginCmd(s),
		newBlueprintCmd(s),
		newContractCmd(s),
	)
	return root
}

func newLoginCmd(s settings) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Get an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				if err := loginForm(&username, &password).Run(); err != nil {
					return err
				}
			}
			tokens, err := s.client().Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export QCONTRACT_TOKEN=%s\n", tokens.AccessToken)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "user name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	return cmd
}
