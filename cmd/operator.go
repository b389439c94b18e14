package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/misiekp/hederactl/internal/store"
)

var operatorCmd = &cobra.Command{
	Use:   "operator",
	Short: "Manage the default payer account per network",
	Long: `The operator is the account/key pair a network client uses by
default to pay for and authorize transactions. When no operator is stored,
client construction falls back once to the <NETWORK>_OPERATOR_ID and
<NETWORK>_OPERATOR_KEY environment variables and persists the result.

Examples:
  hederactl operator set --account 0.0.50 --key-ref kr_1f0c...
  hederactl operator set --account 0.0.50 --key 302e0201...
  hederactl operator show --network testnet`,
}

var operatorSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Register the operator for the target network",
	RunE:  runOperatorSet,
}

var operatorShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the operator for the target network",
	RunE:  runOperatorShow,
}

func init() {
	operatorSetCmd.Flags().String("account", "", "operator account id (e.g. 0.0.50)")
	operatorSetCmd.Flags().String("key-ref", "", "key reference of an already stored key")
	operatorSetCmd.Flags().String("key", "", "private key material to import for the operator")
	_ = operatorSetCmd.MarkFlagRequired("account")

	operatorCmd.AddCommand(operatorSetCmd)
	operatorCmd.AddCommand(operatorShowCmd)
	rootCmd.AddCommand(operatorCmd)
}

func runOperatorSet(cmd *cobra.Command, args []string) error {
	t, err := openToolkit()
	if err != nil {
		return err
	}
	accountID, _ := cmd.Flags().GetString("account")
	keyRef, _ := cmd.Flags().GetString("key-ref")
	material, _ := cmd.Flags().GetString("key")

	switch {
	case keyRef != "" && material != "":
		return fmt.Errorf("pass either --key-ref or --key, not both")
	case keyRef == "" && material == "":
		return fmt.Errorf("one of --key-ref or --key is required")
	case material != "":
		rec, err := t.keyring.ImportKey(material, "", []string{"operator:" + t.network()})
		if err != nil {
			return err
		}
		keyRef = rec.KeyRefID
	}

	mapping := &store.OperatorMapping{AccountID: accountID, KeyRefID: keyRef}
	if err := t.keyring.SetOperator(t.network(), mapping); err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), mapping)
}

func runOperatorShow(cmd *cobra.Command, args []string) error {
	t, err := openToolkit()
	if err != nil {
		return err
	}
	mapping, err := t.keyring.Operator(t.network())
	if err != nil {
		return err
	}
	if mapping == nil {
		return fmt.Errorf("no operator configured for %s", t.network())
	}
	return render(cmd.OutOrStdout(), mapping)
}
