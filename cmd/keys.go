package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Create, import, and manage local key material",
	Long: `Manage the local key store. Public records (key references, public
keys, labels) and private material live in separate planes; listing and
showing keys only ever touches the public plane.

Examples:
  hederactl keys create --algorithm ecdsa-secp256k1 --label batcher
  hederactl keys import --key 0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80
  hederactl keys list
  hederactl keys show kr_1f0c9cbd-8c38-44a2-9d37-1a1f04c0e943
  hederactl keys remove kr_1f0c9cbd-8c38-44a2-9d37-1a1f04c0e943`,
}

var keysCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a new key pair",
	RunE:  runKeysCreate,
}

var keysImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an existing private key",
	Long: `Import private key material. The encoding is detected from a short,
ordered list of formats (DER-tagged ed25519 or secp256k1, 0x-prefixed
secp256k1, raw ed25519 hex); pass --algorithm to skip detection. Importing
the same key twice returns the existing key reference.`,
	RunE: runKeysImport,
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List public key records",
	RunE:  runKeysList,
}

var keysShowCmd = &cobra.Command{
	Use:   "show <ref>",
	Short: "Show one key record by keyRef:, pub:, or alias",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeysShow,
}

var keysRemoveCmd = &cobra.Command{
	Use:   "remove <ref>",
	Short: "Remove a key from both planes",
	Long: `Remove a key record and its stored secret. Aliases that reference
the key are left in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runKeysRemove,
}

func init() {
	keysCreateCmd.Flags().String("algorithm", "", "signature algorithm: ed25519 or ecdsa-secp256k1 (default from config)")
	keysCreateCmd.Flags().StringArray("label", nil, "free-form label (repeatable)")

	keysImportCmd.Flags().String("key", "", "private key material")
	keysImportCmd.Flags().String("algorithm", "", "declared algorithm; skips format detection")
	keysImportCmd.Flags().StringArray("label", nil, "free-form label (repeatable)")
	_ = keysImportCmd.MarkFlagRequired("key")

	keysCmd.AddCommand(keysCreateCmd)
	keysCmd.AddCommand(keysImportCmd)
	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysShowCmd)
	keysCmd.AddCommand(keysRemoveCmd)
	rootCmd.AddCommand(keysCmd)
}

func runKeysCreate(cmd *cobra.Command, args []string) error {
	t, err := openToolkit()
	if err != nil {
		return err
	}
	algorithm, _ := cmd.Flags().GetString("algorithm")
	labels, _ := cmd.Flags().GetStringArray("label")

	rec, err := t.keyring.CreateKey(algorithm, labels)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), rec)
}

func runKeysImport(cmd *cobra.Command, args []string) error {
	t, err := openToolkit()
	if err != nil {
		return err
	}
	material, _ := cmd.Flags().GetString("key")
	algorithm, _ := cmd.Flags().GetString("algorithm")
	labels, _ := cmd.Flags().GetStringArray("label")

	rec, err := t.keyring.ImportKey(material, algorithm, labels)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), rec)
}

func runKeysList(cmd *cobra.Command, args []string) error {
	t, err := openToolkit()
	if err != nil {
		return err
	}
	recs, err := t.keyring.List()
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), recs)
}

func runKeysShow(cmd *cobra.Command, args []string) error {
	t, err := openToolkit()
	if err != nil {
		return err
	}
	keyRefID, err := t.resolveKeyRef(args[0])
	if err != nil {
		return err
	}
	rec, err := t.store.Get(keyRefID)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("no key record for %s", keyRefID)
	}
	return render(cmd.OutOrStdout(), rec)
}

func runKeysRemove(cmd *cobra.Command, args []string) error {
	t, err := openToolkit()
	if err != nil {
		return err
	}
	keyRefID, err := t.resolveKeyRef(args[0])
	if err != nil {
		return err
	}
	if err := t.keyring.Remove(keyRefID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", keyRefID)
	return nil
}
