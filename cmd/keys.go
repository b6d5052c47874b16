package cmd

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newKeysCmd generates the session-cookie key pair the parkplan server
// reads through internal/config. Output is shell-ready; redirect it into
// the .env file the config loader picks up.
func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Generate session cookie keys for the parkplan server (base64, .env-ready)",
		RunE: func(cmd *cobra.Command, args []string) error {
			newKey := func() (string, error) {
				b := make([]byte, 32)
				if _, err := rand.Read(b); err != nil {
					return "", err
				}
				return base64.StdEncoding.EncodeToString(b), nil
			}

			for _, name := range []string{"COOKIE_HASH_KEY", "COOKIE_BLOCK_KEY"} {
				k, err := newKey()
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "%s=%s\n", name, k)
			}
			return nil
		},
	}
}
