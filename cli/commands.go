package cli

import "github.com/urfave/cli/v2"

// All 返回所有可用的 CLI 命令列表
// 包括存款密钥管理、提现登记和资产目录查询
func All() []*cli.Command {
	return []*cli.Command{
		DepositCmd,  // 存款密钥对管理
		WithdrawCmd, // 提现登记与确认
		AssetCmd,    // 资产目录
	}
}
