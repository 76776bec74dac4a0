package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/code-payments/instruction-server/pkg/app"
	"github.com/code-payments/instruction-server/pkg/server/web/api"
	"github.com/code-payments/instruction-server/pkg/signer"
	"github.com/code-payments/instruction-server/pkg/solana"
)

func main() {
	logrus.SetOutput(os.Stdout)

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		logrus.StandardLogger().WithField("type", "main").WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "instruction-server",
		Short:         "Stateless Solana instruction assembly and signing service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(keypairCmd(out))
	rootCmd.AddCommand(signCmd(out))
	rootCmd.AddCommand(verifyCmd(out))

	return rootCmd
}

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP api",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(
				api.NewApp(api.WithEnvConfigs()),
				app.WithConfigPath(configPath),
				app.WithMiddleware(
					api.RequestIdMiddleware,
					api.LoggingMiddleware,
					api.RecoveryMiddleware,
				),
			)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "configuration file path")

	return cmd
}

func keypairCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "keypair",
		Short: "Generate a new keypair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keypair, err := signer.GenerateKeypair()
			if err != nil {
				return err
			}
			defer keypair.Wipe()

			return printJson(out, map[string]string{
				"pubkey": keypair.PublicKey().ToBase58(),
				"secret": keypair.SecretToBase58(),
			})
		},
	}
}

func signCmd(out io.Writer) *cobra.Command {
	var secret, message string

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a message with a base58 secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keypair, err := signer.NewKeypairFromBase58(secret)
			if err != nil {
				return err
			}
			defer keypair.Wipe()

			signed, err := keypair.Sign([]byte(message))
			if err != nil {
				return err
			}

			return printJson(out, map[string]string{
				"signature":  signed.Signature.ToBase64(),
				"public_key": signed.PublicKey.ToBase58(),
				"message":    string(signed.Message),
			})
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "base58 encoded secret key")
	cmd.Flags().StringVar(&message, "message", "", "message to sign")

	return cmd
}

func verifyCmd(out io.Writer) *cobra.Command {
	var pubkey, signature, message string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a base64 signature over a message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := solana.NewAddressFromString(pubkey)
			if err != nil {
				return errors.Wrap(err, "invalid pubkey")
			}

			decoded, err := solana.NewSignatureFromBase64(signature)
			if err != nil {
				return errors.Wrap(err, "invalid signature")
			}

			return printJson(out, map[string]any{
				"valid":   signer.Verify([]byte(message), decoded, address),
				"message": message,
				"pubkey":  address.ToBase58(),
			})
		},
	}

	cmd.Flags().StringVar(&pubkey, "pubkey", "", "base58 encoded public key")
	cmd.Flags().StringVar(&signature, "signature", "", "base64 encoded signature")
	cmd.Flags().StringVar(&message, "message", "", "signed message")

	return cmd
}

func printJson(out io.Writer, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, string(encoded))
	return err
}
