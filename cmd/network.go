package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/misiekp/hederactl/internal/ledger"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Inspect configured networks",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known networks and their endpoints",
	RunE:  runNetworkList,
}

func init() {
	networkCmd.AddCommand(networkListCmd)
	rootCmd.AddCommand(networkCmd)
}

type networkInfo struct {
	Name           string            `json:"name"`
	Nodes          map[string]string `json:"nodes"`
	MirrorEndpoint string            `json:"mirrorEndpoint,omitempty"`
	Custom         bool              `json:"custom,omitempty"`
}

func runNetworkList(cmd *cobra.Command, args []string) error {
	t, err := openToolkit()
	if err != nil {
		return err
	}

	var infos []networkInfo
	for _, name := range []string{ledger.NetworkMainnet, ledger.NetworkTestnet, ledger.NetworkPreviewnet} {
		client, err := ledger.ForNetwork(name)
		if err != nil {
			return err
		}
		infos = append(infos, networkInfo{
			Name:           name,
			Nodes:          client.Nodes(),
			MirrorEndpoint: client.MirrorEndpoint(),
		})
	}
	for name, nc := range t.cfg.Networks {
		infos = append(infos, networkInfo{
			Name:           name,
			Nodes:          map[string]string{nc.NodeEndpoint: nc.NodeAccountID},
			MirrorEndpoint: nc.MirrorEndpoint,
			Custom:         true,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return render(cmd.OutOrStdout(), infos)
}
