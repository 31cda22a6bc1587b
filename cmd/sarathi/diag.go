package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var diagAddr string

var diagCmd = &cobra.Command{
	Use:   "diag",
	Short: "Serve health, metrics and client state over HTTP",
	Long: `Run the diagnostics server until interrupted. It exposes /healthz,
/readyz, /metrics and, behind the configured token, /v1/state,
/v1/metrics/client and POST /v1/chat.

It listens on 127.0.0.1:9090 by default. Any address other than loopback
requires diag_token to be set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(a)

		addr := a.Config.DiagAddr
		if cmd.Flags().Changed("addr") {
			addr = diagAddr
		}
		// restore the session so /v1/state reflects the signed-in user
		a.Auth.LoadUser(cmd.Context())

		fmt.Fprintf(cmd.ErrOrStderr(), "Diagnostics on http://%s (Ctrl+C to stop)\n", addr)
		return a.ServeDiag(cmd.Context(), addr)
	},
}

func init() {
	diagCmd.Flags().StringVar(&diagAddr, "addr", "", "listen address (default from config, 127.0.0.1:9090)")
}
