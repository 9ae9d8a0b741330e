package oracle

import (
	"context"
	"fmt"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/ipfs/go-cid"

	"custody-keys/internal/proof"
)

const (
	// DefaultConfidence 默认最终性确认深度
	DefaultConfidence = 3
)

// TxReceipt 预言机返回的交易回执
type TxReceipt struct {
	ExitCode  int64           `json:"ExitCode"`
	Height    abi.ChainEpoch  `json:"Height"`
	Amount    abi.TokenAmount `json:"Amount"`
	Signature []byte          `json:"Signature"`
}

// Node 最终性预言机节点
// 封装了 RPC 客户端，提供查询交易最终性的方法
type Node struct {
	*Client
	ctx context.Context
}

// NewNode 创建新的节点实例
func NewNode(ctx context.Context, rpc *Client) *Node {
	return &Node{rpc, ctx}
}

// TxLookup 查询指定交易的当前回执
// 交易尚未最终确认时由预言机端返回错误
func (n Node) TxLookup(txCid cid.Cid) (*TxReceipt, error) {
	log.Debugf("TxLookup: looking up transaction %s", txCid)
	var receipt TxReceipt
	err := n.Call(n.ctx, "TxLookup", []interface{}{txCid}, &receipt)
	if err != nil {
		log.Errorf("TxLookup: failed to look up transaction: %v", err)
		return nil, fmt.Errorf("failed to look up transaction: %w", err)
	}
	return &receipt, nil
}

// WaitTx 等待交易达到给定确认深度并返回回执
// 交易执行失败（非零退出码）时返回错误
func (n Node) WaitTx(txCid cid.Cid, confidence uint64) (*TxReceipt, error) {
	log.Debugf("WaitTx: waiting for transaction %s with confidence %d", txCid, confidence)
	var receipt TxReceipt
	err := n.Call(n.ctx, "WaitTx", []interface{}{txCid, confidence}, &receipt)
	if err != nil {
		log.Errorf("WaitTx: failed to wait for transaction: %v", err)
		return nil, fmt.Errorf("failed to wait for transaction: %w", err)
	}

	if receipt.ExitCode != 0 {
		log.Errorf("WaitTx: transaction failed with exit code: %d", receipt.ExitCode)
		return nil, fmt.Errorf("transaction failed with exit code: %d", receipt.ExitCode)
	}

	log.Debugf("WaitTx: transaction %s finalized at height %d", txCid, receipt.Height)
	return &receipt, nil
}

// ChainHead 返回预言机观察到的当前链高度
func (n Node) ChainHead() (abi.ChainEpoch, error) {
	log.Debug("ChainHead: getting current chain height")
	var height abi.ChainEpoch
	err := n.Call(n.ctx, "ChainHead", []interface{}{}, &height)
	if err != nil {
		log.Errorf("ChainHead: failed to get chain head: %v", err)
		return 0, fmt.Errorf("failed to get chain head: %w", err)
	}
	return height, nil
}

// WaitProof 等待交易最终确认并构造确认凭证
// 返回的凭证可直接交给提现登记处
func (n Node) WaitProof(txCid cid.Cid, confidence uint64) (*proof.ConfirmationProof, error) {
	receipt, err := n.WaitTx(txCid, confidence)
	if err != nil {
		return nil, err
	}

	amount := receipt.Amount
	if amount.Nil() {
		amount = abi.NewTokenAmount(0)
	}

	return &proof.ConfirmationProof{
		TxID:      txCid,
		Height:    receipt.Height,
		ExitCode:  receipt.ExitCode,
		Amount:    amount,
		Signature: receipt.Signature,
	}, nil
}
