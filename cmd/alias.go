package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/misiekp/hederactl/internal/resolver"
	"github.com/misiekp/hederactl/internal/store"
)

var aliasCmd = &cobra.Command{
	Use:   "alias",
	Short: "Manage human-friendly names for ledger entities and keys",
	Long: `Aliases map a name to an entity id and/or key reference, scoped per
network: the same name may point at different entities on mainnet and
testnet. Registering a duplicate name on the same network is an error.

Examples:
  hederactl alias add treasury --type account --entity-id 0.0.1001
  hederactl alias add payroll --type key --key-ref kr_1f0c...
  hederactl alias list --type account
  hederactl alias resolve treasury --type account
  hederactl alias remove treasury`,
}

var aliasAddCmd = &cobra.Command{
	Use:   "add <alias>",
	Short: "Register an alias on the target network",
	Args:  cobra.ExactArgs(1),
	RunE:  runAliasAdd,
}

var aliasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alias records",
	RunE:  runAliasList,
}

var aliasResolveCmd = &cobra.Command{
	Use:   "resolve <ref>",
	Short: "Resolve a reference to its alias record",
	Args:  cobra.ExactArgs(1),
	RunE:  runAliasResolve,
}

var aliasRemoveCmd = &cobra.Command{
	Use:   "remove <alias>",
	Short: "Remove an alias from the target network",
	Args:  cobra.ExactArgs(1),
	RunE:  runAliasRemove,
}

func init() {
	aliasAddCmd.Flags().String("type", "", "alias type: account, token, key, topic, or contract")
	aliasAddCmd.Flags().String("entity-id", "", "on-ledger entity id (e.g. 0.0.1001)")
	aliasAddCmd.Flags().String("key-ref", "", "key reference the alias points at")
	aliasAddCmd.Flags().String("public-key", "", "public key the alias points at")
	_ = aliasAddCmd.MarkFlagRequired("type")

	aliasListCmd.Flags().String("type", "", "filter by alias type")
	aliasListCmd.Flags().Bool("all-networks", false, "list aliases on every network")

	aliasResolveCmd.Flags().String("type", "", "expected alias type; mismatches resolve to nothing")

	aliasCmd.AddCommand(aliasAddCmd)
	aliasCmd.AddCommand(aliasListCmd)
	aliasCmd.AddCommand(aliasResolveCmd)
	aliasCmd.AddCommand(aliasRemoveCmd)
	rootCmd.AddCommand(aliasCmd)
}

func runAliasAdd(cmd *cobra.Command, args []string) error {
	t, err := openToolkit()
	if err != nil {
		return err
	}
	aliasType, _ := cmd.Flags().GetString("type")
	entityID, _ := cmd.Flags().GetString("entity-id")
	keyRef, _ := cmd.Flags().GetString("key-ref")
	publicKey, _ := cmd.Flags().GetString("public-key")

	rec := &store.AliasRecord{
		Alias:     args[0],
		Type:      aliasType,
		Network:   t.network(),
		EntityID:  entityID,
		KeyRefID:  keyRef,
		PublicKey: publicKey,
	}
	if err := t.resolver.Register(rec); err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), rec)
}

func runAliasList(cmd *cobra.Command, args []string) error {
	t, err := openToolkit()
	if err != nil {
		return err
	}
	aliasType, _ := cmd.Flags().GetString("type")
	allNetworks, _ := cmd.Flags().GetBool("all-networks")

	filter := resolver.Filter{Type: aliasType}
	if !allNetworks {
		filter.Network = t.network()
	}
	recs, err := t.resolver.List(filter)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), recs)
}

func runAliasResolve(cmd *cobra.Command, args []string) error {
	t, err := openToolkit()
	if err != nil {
		return err
	}
	expectedType, _ := cmd.Flags().GetString("type")

	rec, err := t.resolver.Resolve(args[0], t.network(), expectedType)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("nothing resolves for %q on %s", args[0], t.network())
	}
	return render(cmd.OutOrStdout(), rec)
}

func runAliasRemove(cmd *cobra.Command, args []string) error {
	t, err := openToolkit()
	if err != nil {
		return err
	}
	if err := t.resolver.Remove(args[0], t.network()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s on %s\n", args[0], t.network())
	return nil
}
