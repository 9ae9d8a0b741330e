package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/ipfs/go-cid"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	appcfg "custody-keys/internal/config"
	"custody-keys/internal/models"
	"custody-keys/internal/repository"
	"custody-keys/internal/service"
	"custody-keys/internal/ui/tablewriter"
)

// WithdrawCmd 提现登记命令
// 登记待确认的提现并在外部最终性确认后附加凭证
var WithdrawCmd = &cli.Command{
	Name:  "withdraw",
	Usage: "提现登记与确认",

	Before: func(c *cli.Context) error {
		cfg, err := appcfg.LoadConfig()
		if err != nil {
			return err
		}

		c.Context = context.WithValue(c.Context, CtxConfig, cfg)

		return nil
	},

	Subcommands: []*cli.Command{
		withdrawInitiate,
		withdrawConfirm,
		withdrawStatus,
		withdrawList,
	},
}

// withdrawInitiate 登记一笔待确认的提现
// 存款私钥用于派生公钥并校验对应的存款记录
var withdrawInitiate = &cli.Command{
	Name:      "initiate",
	Usage:     "登记一笔待确认的提现",
	ArgsUsage: "[tokenKeyId] [资产标识]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "deposit-key",
			Usage:    "存款私钥（十六进制）",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "key-type",
			Usage: "存款密钥算法（secp256k1 或 bls）",
			Value: "secp256k1",
		},
	},
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 2 {
			return fmt.Errorf("must specify token key id and asset id")
		}

		privKey, err := hex.DecodeString(cctx.String("deposit-key"))
		if err != nil {
			return xerrors.Errorf("failed to decode deposit key: %w", err)
		}

		client, err := service.NewClient()
		if err != nil {
			return err
		}

		data := &service.Payload{
			Type:           service.RequestTypeWithdrawInitiate,
			TokenKeyID:     cctx.Args().Get(0),
			AssetID:        cctx.Args().Get(1),
			KeyType:        cctx.String("key-type"),
			DepositPrivKey: privKey,
		}
		return client.Ex.Execute(data)
	},
}

// withdrawConfirm 等待交易最终确认并附加确认凭证
var withdrawConfirm = &cli.Command{
	Name:      "confirm",
	Usage:     "等待外部最终性确认并附加凭证",
	ArgsUsage: "[tokenKeyId] [交易 CID]",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "confidence",
			Usage: "最终性确认深度",
			Value: 0,
		},
	},
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 2 {
			return fmt.Errorf("must specify token key id and transaction cid")
		}

		txCid, err := cid.Decode(cctx.Args().Get(1))
		if err != nil {
			return xerrors.Errorf("failed to parse transaction cid: %w", err)
		}

		client, err := service.NewClient()
		if err != nil {
			return err
		}

		data := &service.Payload{
			Type:       service.RequestTypeWithdrawConfirm,
			TokenKeyID: cctx.Args().Get(0),
			TxID:       txCid,
			Confidence: cctx.Uint64("confidence"),
		}
		return client.Ex.Execute(data)
	},
}

// withdrawStatus 查询提现确认状态
var withdrawStatus = &cli.Command{
	Name:      "status",
	Usage:     "查询提现确认状态",
	ArgsUsage: "[tokenKeyId]",
	Action: func(cctx *cli.Context) error {
		if !cctx.Args().Present() {
			return fmt.Errorf("must specify a token key id")
		}

		client, err := service.NewClient()
		if err != nil {
			return err
		}

		confirmed, err := client.Ex.Withdraws().IsConfirmed(cctx.Args().First())
		if err != nil {
			return err
		}

		if confirmed {
			fmt.Println(color.GreenString("confirmed"))
		} else {
			fmt.Println(color.YellowString("pending"))
		}
		return nil
	},
}

// withdrawList 列出所有提现记录
var withdrawList = &cli.Command{
	Name:  "list",
	Usage: "列出所有提现记录",
	Action: func(cctx *cli.Context) error {
		cfg := cctx.Context.Value(CtxConfig).(*appcfg.Config)
		store, err := repository.OpenStore(cfg.DBDSN)
		if err != nil {
			return err
		}

		items, err := store.ListWithdrawKeys()
		if err != nil {
			return xerrors.Errorf("failed to list withdrawals: %w", err)
		}

		tw := tablewriter.New(
			tablewriter.Col("Token Key"),
			tablewriter.Col("Deposit Key"),
			tablewriter.Col("Asset"),
			tablewriter.Col("Status"),
			tablewriter.Col("Created"),
		)

		for _, item := range items {
			status := color.YellowString(item.Status)
			if item.Status == models.WithdrawStatusConfirmed {
				status = color.GreenString(item.Status)
			}
			tw.Write(map[string]interface{}{
				"Token Key":   item.TokenKeyID,
				"Deposit Key": item.DepositPublicKey,
				"Asset":       item.AssetID,
				"Status":      status,
				"Created":     item.CreatedAt.Format(time.RFC3339),
			})
		}

		return tw.Flush(os.Stdout)
	},
}
