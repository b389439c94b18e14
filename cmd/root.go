// Package cmd implements the hederactl command tree. Command handlers stay
// thin: parse flags, call into the subsystem, render output. Business logic
// and error semantics live in the internal packages.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/misiekp/hederactl/internal/config"
	"github.com/misiekp/hederactl/internal/keyring"
	"github.com/misiekp/hederactl/internal/resolver"
	"github.com/misiekp/hederactl/internal/store"
)

var (
	flagNetwork    string
	flagOutput     string
	flagStorageDir string
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "hederactl",
	Short: "Local operator and account toolkit for Hedera-style ledgers",
	Long: `hederactl manages local key material, per-network operators, and
human-friendly aliases, and drives the sign-and-submit flow for ledger
transactions. Private keys live in a separate secret plane on disk and are
only ever touched through signer handles.

Examples:
  # Generate a new ed25519 key
  hederactl keys create --label payroll

  # Import an existing key (algorithm detected from the encoding)
  hederactl keys import --key 302e020100300506032b6570042204...

  # Register the testnet operator
  hederactl operator set --account 0.0.50 --key-ref kr_1f0c...

  # Give an account a friendly name on testnet
  hederactl alias add treasury --type account --entity-id 0.0.1001`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagNetwork, "network", "", "target network (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "json", "output format: json or yaml")
	rootCmd.PersistentFlags().StringVar(&flagStorageDir, "storage-dir", "", "override the storage directory")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// toolkit bundles the wired subsystem for command handlers.
type toolkit struct {
	cfg      *config.Config
	store    *store.Store
	keyring  *keyring.Keyring
	resolver *resolver.Resolver
}

// openToolkit loads configuration and wires the store, keyring, and
// resolver together.
func openToolkit() (*toolkit, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	dir := cfg.StorageDir
	if flagStorageDir != "" {
		dir = flagStorageDir
	}
	st, err := store.Open(dir)
	if err != nil {
		return nil, err
	}

	networks := make(map[string]keyring.NetworkConfig, len(cfg.Networks))
	for name, nc := range cfg.Networks {
		networks[name] = keyring.NetworkConfig{
			NodeEndpoint:   nc.NodeEndpoint,
			NodeAccountID:  nc.NodeAccountID,
			MirrorEndpoint: nc.MirrorEndpoint,
		}
	}
	kr := keyring.New(st, keyring.Config{
		DefaultAlgorithm: cfg.DefaultAlgorithm,
		Networks:         networks,
	})
	return &toolkit{
		cfg:      cfg,
		store:    st,
		keyring:  kr,
		resolver: resolver.New(st, slog.Default()),
	}, nil
}

// network returns the target network: the --network flag when set,
// otherwise the configured default.
func (t *toolkit) network() string {
	if flagNetwork != "" {
		return flagNetwork
	}
	return t.cfg.DefaultNetwork
}

// resolveKeyRef turns user input (a keyRef: reference, a pub: reference, or
// an alias) into a concrete keyRefId. This is the sanctioned path from
// user-typed strings to key references.
func (t *toolkit) resolveKeyRef(input string) (string, error) {
	ref := resolver.ParseRef(input)
	switch ref.Kind {
	case resolver.RefKindKeyRef:
		return ref.Value, nil
	case resolver.RefKindPublicKey:
		keyRefID, err := t.keyring.FindByPublicKey(ref.Value)
		if err != nil {
			return "", err
		}
		if keyRefID == "" {
			return "", fmt.Errorf("no key found for public key %s", ref.Value)
		}
		return keyRefID, nil
	case resolver.RefKindAlias:
		rec, err := t.resolver.Resolve(input, t.network(), resolver.TypeKey)
		if err != nil {
			return "", err
		}
		if rec != nil && rec.KeyRefID != "" {
			return rec.KeyRefID, nil
		}
		// Fall back to treating the input as a bare keyRefId.
		return ref.Value, nil
	default:
		return "", fmt.Errorf("reference kind %q does not name a key", ref.Kind)
	}
}
