package service

import (
	"context"
	"encoding/hex"
	"fmt"

	logging "github.com/ipfs/go-log/v2"

	"custody-keys/internal/assets"
	crypto2 "custody-keys/internal/crypto"
	"custody-keys/internal/keyring"
	"custody-keys/internal/oracle"
	"custody-keys/internal/registry"
	"custody-keys/internal/repository"
)

var log = logging.Logger("executor")

type Executor struct {
	store     *repository.Store
	deposits  *registry.DepositRegistry
	withdraws *registry.WithdrawRegistry
	node      *oracle.Node
}

func NewExecutor(store *repository.Store) *Executor {
	log.Info("NewExecutor: creating new executor instance")
	catalog := assets.FromConfig()
	deposits := registry.NewDepositRegistry(store, catalog)
	withdraws := registry.NewWithdrawRegistry(store, catalog, deposits)
	client := oracle.NewOracleApi()
	node := oracle.NewNode(contextBackground(), client)
	return &Executor{
		store:     store,
		deposits:  deposits,
		withdraws: withdraws,
		node:      node,
	}
}

// Deposits 返回存款登记处
func (e *Executor) Deposits() *registry.DepositRegistry { return e.deposits }

// Withdraws 返回提现登记处
func (e *Executor) Withdraws() *registry.WithdrawRegistry { return e.withdraws }

func (e *Executor) Execute(req *Payload) error {
	if err := e.executeRequest(req); err != nil {
		log.Errorf("Execute: failed to execute request %s: %v", req.Type, err)
		return err
	}

	log.Infof("Execute: request %s completed successfully", req.Type)
	return nil
}

func (e *Executor) executeRequest(req *Payload) error {
	switch req.Type {
	case RequestTypeDepositIssue:
		var payload DepositIssuePayload
		payload.AssetID = req.AssetID
		return e.depositIssue(payload)
	case RequestTypeDepositRevoke:
		var payload DepositRevokePayload
		payload.DepositPublicKey = req.DepositPublicKey
		return e.depositRevoke(payload)
	case RequestTypeWithdrawInitiate:
		var payload WithdrawInitiatePayload
		payload.TokenKeyID = req.TokenKeyID
		payload.KeyType = req.KeyType
		payload.DepositPrivKey = req.DepositPrivKey
		payload.AssetID = req.AssetID
		return e.withdrawInitiate(payload)
	case RequestTypeWithdrawConfirm:
		var payload WithdrawConfirmPayload
		payload.TokenKeyID = req.TokenKeyID
		payload.TxID = req.TxID
		payload.Confidence = req.Confidence
		return e.withdrawConfirm(payload)

	default:
		return fmt.Errorf("unsupported request type: %s", req.Type)
	}
}

func (e *Executor) depositIssue(p DepositIssuePayload) error {
	item, depositKP, err := e.deposits.Issue(p.AssetID)
	if err != nil {
		log.Errorf("depositIssue: failed to issue deposit key for %s: %v", p.AssetID, err)
		return err
	}
	defer crypto2.Zeroize(depositKP.PrivateKey)

	fmt.Printf("Deposit public key:  %s\n", item.DepositPublicKey)
	// 存款私钥只在签发时输出一次，登记处不保存
	fmt.Printf("Deposit private key: %s\n", hex.EncodeToString(depositKP.PrivateKey))
	fmt.Printf("Token public key:    %s\n", hex.EncodeToString(item.TokenPublicKey))
	fmt.Printf("Asset:               %s\n", item.AssetID)
	return nil
}

func (e *Executor) depositRevoke(p DepositRevokePayload) error {
	if err := e.deposits.Revoke(p.DepositPublicKey); err != nil {
		log.Errorf("depositRevoke: failed to revoke %s: %v", p.DepositPublicKey, err)
		return err
	}

	fmt.Printf("Revoked deposit key %s\n", p.DepositPublicKey)
	return nil
}

func (e *Executor) withdrawInitiate(p WithdrawInitiatePayload) error {
	defer crypto2.Zeroize(p.DepositPrivKey)

	kp, err := keyring.KeyPairFromPrivate(keyring.KeyType(p.KeyType), p.DepositPrivKey)
	if err != nil {
		log.Errorf("withdrawInitiate: invalid deposit key material: %v", err)
		return err
	}

	item, err := e.withdraws.Initiate(p.TokenKeyID, kp, p.AssetID)
	if err != nil {
		log.Errorf("withdrawInitiate: failed to initiate %s: %v", p.TokenKeyID, err)
		return err
	}

	fmt.Printf("Withdrawal %s registered as %s\n", item.TokenKeyID, item.Status)
	fmt.Printf("Deposit public key: %s\n", item.DepositPublicKey)
	return nil
}

func (e *Executor) withdrawConfirm(p WithdrawConfirmPayload) error {
	confidence := p.Confidence
	if confidence == 0 {
		confidence = oracle.DefaultConfidence
	}

	fmt.Printf("Waiting for finalization of %s...\n", p.TxID)
	pf, err := e.node.WaitProof(p.TxID, confidence)
	if err != nil {
		log.Errorf("withdrawConfirm: failed to obtain finalization proof: %v", err)
		return err
	}

	if err := e.withdraws.Confirm(p.TokenKeyID, pf); err != nil {
		log.Errorf("withdrawConfirm: failed to confirm %s: %v", p.TokenKeyID, err)
		return err
	}

	fmt.Printf("Withdrawal %s confirmed at height %d\n", p.TokenKeyID, pf.Height)
	return nil
}

func contextBackground() context.Context {
	return context.Background()
}
