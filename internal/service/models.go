package service

const (
	RequestTypeDepositIssue     = "deposit_issue"
	RequestTypeDepositRevoke    = "deposit_revoke"
	RequestTypeWithdrawInitiate = "withdraw_initiate"
	RequestTypeWithdrawConfirm  = "withdraw_confirm"
)
