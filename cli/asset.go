package cli

import (
	"os"

	"github.com/urfave/cli/v2"

	"custody-keys/internal/assets"
	"custody-keys/internal/ui/tablewriter"
)

// AssetCmd 资产目录命令
var AssetCmd = &cli.Command{
	Name:  "asset",
	Usage: "资产目录查询",

	Subcommands: []*cli.Command{
		assetList,
	},
}

// assetList 列出配置的资产目录
var assetList = &cli.Command{
	Name:  "list",
	Usage: "列出所有已配置的资产",
	Action: func(cctx *cli.Context) error {
		catalog := assets.FromConfig()

		tw := tablewriter.New(
			tablewriter.Col("Asset"),
			tablewriter.Col("Name"),
			tablewriter.Col("Key Type"),
		)

		for _, a := range catalog.List() {
			tw.Write(map[string]interface{}{
				"Asset":    a.ID,
				"Name":     a.Name,
				"Key Type": a.KeyType,
			})
		}

		return tw.Flush(os.Stdout)
	},
}
