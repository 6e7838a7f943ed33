package services

import "time"

const (
	KeyAccount             = "account:%s"
	KeyWallet              = "wallet:%s"
	KeyReferralCode        = "referral:code:%s"
	KeyReferralOwner       = "referral:owner:%s"
	KeyWithdrawal          = "withdrawal:%s"
	KeyWithdrawalsByTime   = "withdrawals:by_time"
	KeyWithdrawalsByStatus = "withdrawals:status:%s"
	KeyUserWithdrawals     = "user:%s:withdrawals"
	KeyTransaction         = "transaction:%s"
	KeyUserTransactions    = "user:%s:transactions"
	KeyStatsCounters       = "stats:counters"
	KeyActiveDay           = "stats:active:%s"

	// Accounts, wallets, codes and withdrawal records never expire; only
	// the audit trail and activity sets get trimmed.
	TTLTransaction = 30 * 24 * time.Hour
	TTLActiveDay   = 60 * 24 * time.Hour

	// Keep only the last 100 audit records per user.
	MaxUserTransactions = 100

	StatTotalSpins          = "total_spins"
	StatTotalScratches      = "total_scratches"
	StatTotalReferrals      = "total_referrals"
	StatTotalWithdrawals    = "total_withdrawals"
	StatPendingWithdrawals  = "pending_withdrawals"
	StatSolDistributed      = "sol_distributed"
	StatDfyrDistributed     = "dfyr_distributed"
)
