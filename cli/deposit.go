package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	appcfg "custody-keys/internal/config"
	"custody-keys/internal/repository"
	"custody-keys/internal/service"
	"custody-keys/internal/ui/tablewriter"
)

type ctxKey string

const (
	CtxConfig ctxKey = "config"
)

// DepositCmd 存款密钥对管理命令
// 提供签发、查询、列表、吊销和 token 签名等功能
var DepositCmd = &cli.Command{
	Name:  "deposit",
	Usage: "存款密钥对管理",

	Before: func(c *cli.Context) error {
		cfg, err := appcfg.LoadConfig()
		if err != nil {
			return err
		}

		c.Context = context.WithValue(c.Context, CtxConfig, cfg)

		return nil
	},

	Subcommands: []*cli.Command{
		depositNew,
		depositList,
		depositGet,
		depositRevoke,
		depositSign,
	},
}

// depositNew 签发新的存款密钥对
// 密钥算法由资产目录中该资产的配置决定
var depositNew = &cli.Command{
	Name:      "new",
	Usage:     "为指定资产签发新的存款密钥对",
	ArgsUsage: "[资产标识]",
	Action: func(cctx *cli.Context) error {
		if !cctx.Args().Present() {
			return fmt.Errorf("must specify an asset id")
		}

		client, err := service.NewClient()
		if err != nil {
			return err
		}

		data := &service.Payload{
			Type:    service.RequestTypeDepositIssue,
			AssetID: cctx.Args().First(),
		}
		return client.Ex.Execute(data)
	},
}

// depositList 列出所有存款密钥对
var depositList = &cli.Command{
	Name:  "list",
	Usage: "列出所有存款密钥对",
	Action: func(cctx *cli.Context) error {
		cfg := cctx.Context.Value(CtxConfig).(*appcfg.Config)
		store, err := repository.OpenStore(cfg.DBDSN)
		if err != nil {
			return err
		}

		items, err := store.ListDepositKeys()
		if err != nil {
			return xerrors.Errorf("failed to list deposit keys: %w", err)
		}

		tw := tablewriter.New(
			tablewriter.Col("Deposit Key"),
			tablewriter.Col("Asset"),
			tablewriter.Col("Key Type"),
			tablewriter.Col("Status"),
			tablewriter.Col("Created"),
		)

		for _, item := range items {
			status := color.GreenString("active")
			if item.Revoked {
				status = color.RedString("revoked")
			}
			tw.Write(map[string]interface{}{
				"Deposit Key": item.DepositPublicKey,
				"Asset":       item.AssetID,
				"Key Type":    item.KeyType,
				"Status":      status,
				"Created":     item.CreatedAt.Format(time.RFC3339),
			})
		}

		return tw.Flush(os.Stdout)
	},
}

// depositGet 查询单个存款密钥对
var depositGet = &cli.Command{
	Name:      "get",
	Usage:     "按存款公钥查询记录",
	ArgsUsage: "[存款公钥]",
	Action: func(cctx *cli.Context) error {
		if !cctx.Args().Present() {
			return fmt.Errorf("must specify a deposit public key")
		}

		client, err := service.NewClient()
		if err != nil {
			return err
		}

		item, err := client.Ex.Deposits().Lookup(cctx.Args().First())
		if err != nil {
			return err
		}

		fmt.Printf("Deposit public key: %s\n", item.DepositPublicKey)
		fmt.Printf("Token public key:   %s\n", hex.EncodeToString(item.TokenPublicKey))
		fmt.Printf("Asset:              %s\n", item.AssetID)
		fmt.Printf("Key type:           %s\n", item.KeyType)
		fmt.Printf("Created:            %s\n", item.CreatedAt.Format(time.RFC3339))
		return nil
	},
}

// depositRevoke 吊销存款密钥
// 吊销后 token 签名能力不可恢复，重复吊销是空操作
var depositRevoke = &cli.Command{
	Name:      "revoke",
	Usage:     "吊销存款密钥的 token 签名能力",
	ArgsUsage: "[存款公钥]",
	Action: func(cctx *cli.Context) error {
		if !cctx.Args().Present() {
			return fmt.Errorf("must specify a deposit public key")
		}

		client, err := service.NewClient()
		if err != nil {
			return err
		}

		data := &service.Payload{
			Type:             service.RequestTypeDepositRevoke,
			DepositPublicKey: cctx.Args().First(),
		}
		return client.Ex.Execute(data)
	},
}

// depositSign 使用托管的 token 私钥签名消息
var depositSign = &cli.Command{
	Name:      "sign",
	Usage:     "使用 token 私钥签名十六进制消息",
	ArgsUsage: "[存款公钥] [十六进制消息]",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 2 {
			return fmt.Errorf("must specify deposit public key and hex message")
		}

		msg, err := hex.DecodeString(cctx.Args().Get(1))
		if err != nil {
			return xerrors.Errorf("failed to decode hex message: %w", err)
		}

		client, err := service.NewClient()
		if err != nil {
			return err
		}

		sig, err := client.Ex.Deposits().SignWithToken(cctx.Args().First(), msg)
		if err != nil {
			return err
		}

		fmt.Println(hex.EncodeToString(sig.Data))
		return nil
	},
}
