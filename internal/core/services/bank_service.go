package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/platform/idgen"
	"github.com/SscSPs/ledger_engine/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// inputValidator checks request structs by their binding tags, so callers that do
// not go through gin get the same rules.
var inputValidator = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()

// bankService implements the BankSvcFacade interface
type bankService struct {
	*ledgerPoster
	bankRepo        portsrepo.BankRepositoryFacade
	ledgerReader    portsrepo.LedgerReader
	txManager       portsrepo.TransactionManager
	retryAttempts   int
	defaultCurrency string
}

// NewBankService creates the bank account ledger and reconciliation service.
// Balance updates that lose an optimistic version race are retried up to retryAttempts times.
func NewBankService(repos portsrepo.RepositoryProvider, retryAttempts int, defaultCurrency string, opts ...Option) portssvc.BankSvcFacade {
	if defaultCurrency == "" {
		defaultCurrency = utils.DefaultCurrencyCode
	}
	return &bankService{
		ledgerPoster:    newLedgerPoster(repos, opts),
		bankRepo:        repos.BankRepo,
		ledgerReader:    repos.LedgerRepo,
		txManager:       repos.TxManager,
		retryAttempts:   retryAttempts,
		defaultCurrency: defaultCurrency,
	}
}

var _ portssvc.BankSvcFacade = (*bankService)(nil)

func validateInput(req any) error {
	if err := inputValidator.Struct(req); err != nil {
		return apperrors.NewValidationError("%s", err.Error())
	}
	return nil
}

func (s *bankService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	frequency := req.ReconciliationFrequency
	if frequency == "" {
		frequency = domain.FrequencyMonthly
	}
	if !frequency.IsValid() {
		return nil, apperrors.NewValidationError("invalid reconciliation frequency %q", frequency)
	}
	if req.LedgerAccountID != nil {
		if err := s.checkLedgerAccount(ctx, *req.LedgerAccountID); err != nil {
			return nil, err
		}
	}
	currency := strings.ToUpper(req.CurrencyCode)
	if currency == "" {
		currency = s.defaultCurrency
	}

	now := s.Now()
	account := domain.BankAccount{
		BankAccountID:           idgen.NewUUID(),
		Name:                    strings.TrimSpace(req.Name),
		BankName:                strings.TrimSpace(req.BankName),
		AccountNumberMasked:     domain.MaskAccountNumber(req.AccountNumber),
		CurrencyCode:            currency,
		LedgerAccountID:         req.LedgerAccountID,
		OpeningBalance:          req.OpeningBalance,
		CurrentBalance:          req.OpeningBalance,
		IsPrimary:               req.IsPrimary,
		IsActive:                true,
		RequiresReconciliation:  req.RequiresReconciliation,
		ReconciliationFrequency: frequency,
		Version:                 1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if account.RequiresReconciliation {
		account.NextReconciliationDue = frequency.NextDue(now)
	}

	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		if account.IsPrimary {
			if err := s.bankRepo.ClearPrimaryBankAccounts(txCtx, account.BankAccountID, userID, now); err != nil {
				return err
			}
		}
		return s.bankRepo.SaveBankAccount(txCtx, account)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save bank account")
		return nil, err
	}
	s.LogInfo(ctx, "Bank account created", slog.String("bank_account_id", account.BankAccountID))
	return &account, nil
}

// checkLedgerAccount accepts only an active asset account as the mirror of a bank account.
func (s *bankService) checkLedgerAccount(ctx context.Context, accountID string) error {
	acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if isExpected(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("ledger account %s not found", accountID)
		}
		return err
	}
	if acc.AccountType != domain.Asset || !acc.IsActive {
		return apperrors.NewValidationError("ledger account %s must be an active asset account", acc.Code)
	}
	return nil
}

func (s *bankService) GetBankAccount(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	account, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		if !isExpected(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find bank account", slog.String("bank_account_id", bankAccountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *bankService) GetPrimaryBankAccount(ctx context.Context) (*domain.BankAccount, error) {
	account, err := s.bankRepo.FindPrimaryBankAccount(ctx)
	if err != nil {
		if isExpected(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(http.StatusNotFound, "no primary bank account is set", apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to find primary bank account")
		return nil, err
	}
	return account, nil
}

func (s *bankService) UpdateBankAccount(ctx context.Context, bankAccountID string, req dto.UpdateBankAccountRequest, userID string) (*domain.BankAccount, error) {
	account, err := s.GetBankAccount(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("bank account name cannot be empty")
		}
		account.Name = name
	}
	if req.BankName != nil {
		bankName := strings.TrimSpace(*req.BankName)
		if bankName == "" {
			return nil, apperrors.NewValidationError("bank name cannot be empty")
		}
		account.BankName = bankName
	}
	if req.LedgerAccountID != nil && (account.LedgerAccountID == nil || *account.LedgerAccountID != *req.LedgerAccountID) {
		if err := s.checkLedgerAccount(ctx, *req.LedgerAccountID); err != nil {
			return nil, err
		}
		account.LedgerAccountID = req.LedgerAccountID
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	if req.IsPrimary != nil {
		if *req.IsPrimary && !account.IsActive {
			return nil, apperrors.NewValidationError("an inactive bank account cannot be primary")
		}
		account.IsPrimary = *req.IsPrimary
	}

	now := s.Now()
	reschedule := false
	if req.ReconciliationFrequency != nil {
		if !req.ReconciliationFrequency.IsValid() {
			return nil, apperrors.NewValidationError("invalid reconciliation frequency %q", *req.ReconciliationFrequency)
		}
		reschedule = *req.ReconciliationFrequency != account.ReconciliationFrequency
		account.ReconciliationFrequency = *req.ReconciliationFrequency
	}
	if req.RequiresReconciliation != nil {
		reschedule = reschedule || *req.RequiresReconciliation != account.RequiresReconciliation
		account.RequiresReconciliation = *req.RequiresReconciliation
	}
	if req.IsActive != nil && *req.IsActive && account.NextReconciliationDue == nil {
		reschedule = true
	}
	if reschedule {
		account.NextReconciliationDue = account.ReconciliationFrequency.NextDue(now)
	}
	if req.NextReconciliationDue != nil {
		due := domain.StartOfDay(*req.NextReconciliationDue)
		account.NextReconciliationDue = &due
	}
	if !account.IsActive {
		account.IsPrimary = false
	}
	if !account.IsActive || !account.RequiresReconciliation {
		account.NextReconciliationDue = nil
	}
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		if account.IsPrimary {
			if err := s.bankRepo.ClearPrimaryBankAccounts(txCtx, account.BankAccountID, userID, now); err != nil {
				return err
			}
		}
		return s.bankRepo.UpdateBankAccount(txCtx, *account)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update bank account", slog.String("bank_account_id", bankAccountID))
		return nil, err
	}
	s.LogInfo(ctx, "Bank account updated", slog.String("bank_account_id", bankAccountID))
	return account, nil
}

// DeactivateBankAccount retires a bank account. Its transactions and reconciliations
// stay as history, so accounts are never hard deleted.
func (s *bankService) DeactivateBankAccount(ctx context.Context, bankAccountID string, userID string) error {
	account, err := s.GetBankAccount(ctx, bankAccountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return apperrors.NewAppError(http.StatusUnprocessableEntity, fmt.Sprintf("bank account %s is already inactive", account.Name), nil)
	}

	account.IsActive = false
	account.IsPrimary = false
	account.NextReconciliationDue = nil
	account.LastUpdatedAt = s.Now()
	account.LastUpdatedBy = userID
	if err := s.bankRepo.UpdateBankAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to deactivate bank account", slog.String("bank_account_id", bankAccountID))
		return err
	}
	s.LogInfo(ctx, "Bank account deactivated", slog.String("bank_account_id", bankAccountID))
	return nil
}

func (s *bankService) ListBankAccounts(ctx context.Context, includeInactive bool) ([]domain.BankAccount, error) {
	accounts, err := s.bankRepo.ListBankAccounts(ctx, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list bank accounts")
		return nil, err
	}
	return accounts, nil
}

func (s *bankService) ListAccountsNeedingReconciliation(ctx context.Context) ([]domain.BankAccount, error) {
	accounts, err := s.bankRepo.ListBankAccountsDueForReconciliation(ctx, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to list bank accounts due for reconciliation")
		return nil, err
	}
	return accounts, nil
}

func (s *bankService) GetBankAccountSummary(ctx context.Context, bankAccountID string) (*domain.BankAccountSummary, error) {
	account, err := s.GetBankAccount(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}
	unreconciled, count, err := s.bankRepo.SumBankTransactions(ctx, bankAccountID, nil, true)
	if err != nil {
		return nil, err
	}

	summary := &domain.BankAccountSummary{
		Account:             *account,
		UnreconciledBalance: unreconciled,
		UnreconciledCount:   count,
		ReconciliationDue:   account.IsReconciliationDue(s.Now()),
	}

	last, err := s.bankRepo.LatestReconciliation(ctx, bankAccountID)
	switch {
	case err == nil:
		summary.LastReconciliation = last
	case !isExpected(err, apperrors.ErrNotFound):
		return nil, err
	}

	if account.LedgerAccountID != nil {
		ledgerAccount, err := s.accountRepo.FindAccountByID(ctx, *account.LedgerAccountID)
		if err != nil {
			return nil, err
		}
		sums, err := s.ledgerReader.SumAccount(ctx, ledgerAccount.AccountID, domain.DateRange{})
		if err != nil {
			return nil, err
		}
		balance := ledgerAccount.SignedDelta(sums.Debit, sums.Credit)
		summary.LedgerBalance = &balance
	}
	return summary, nil
}

func (s *bankService) GetBalanceAtDate(ctx context.Context, bankAccountID string, date time.Time) (decimal.Decimal, error) {
	account, err := s.GetBankAccount(ctx, bankAccountID)
	if err != nil {
		return decimal.Zero, err
	}
	upTo := domain.StartOfDay(date)
	movement, _, err := s.bankRepo.SumBankTransactions(ctx, bankAccountID, &upTo, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum bank transactions", slog.String("bank_account_id", bankAccountID))
		return decimal.Zero, err
	}
	return account.OpeningBalance.Add(movement), nil
}

func (s *bankService) AddTransaction(ctx context.Context, bankAccountID string, req dto.AddBankTransactionRequest, userID string) (*domain.BankTransaction, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be greater than zero")
	}
	txType := domain.BankTransactionType(strings.ToUpper(string(req.TransactionType)))
	if !txType.IsValid() {
		return nil, apperrors.NewValidationError("invalid transaction type %q", req.TransactionType)
	}

	var txn domain.BankTransaction
	err := s.withRetry(ctx, s.retryAttempts, "add bank transaction", func() error {
		return s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
			account, err := s.bankRepo.FindBankAccountByID(txCtx, bankAccountID)
			if err != nil {
				return err
			}
			if !account.IsActive {
				return apperrors.NewAppError(http.StatusUnprocessableEntity, fmt.Sprintf("bank account %s is inactive", account.Name), nil)
			}

			now := s.Now()
			txn = domain.BankTransaction{
				TransactionID:   idgen.NewUUID(),
				BankAccountID:   bankAccountID,
				TransactionDate: domain.StartOfDay(req.TransactionDate),
				Description:     strings.TrimSpace(req.Description),
				Amount:          req.Amount,
				TransactionType: txType,
				Reference:       req.Reference,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     userID,
					LastUpdatedAt: now,
					LastUpdatedBy: userID,
				},
			}
			if err := s.bankRepo.SaveBankTransaction(txCtx, txn); err != nil {
				return err
			}
			return s.bankRepo.UpdateBankBalance(txCtx, bankAccountID, txn.SignedAmount(), account.Version, userID, now)
		})
	})
	if err != nil {
		if !isExpected(err, apperrors.ErrNotFound, apperrors.ErrInvalidState) {
			s.LogError(ctx, err, "Failed to add bank transaction", slog.String("bank_account_id", bankAccountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Bank transaction added",
		slog.String("bank_account_id", bankAccountID),
		slog.String("transaction_id", txn.TransactionID))
	s.Publish(ctx, domain.EventBankTransactionAdded, bankAccountID, userID, map[string]any{
		"transactionID":   txn.TransactionID,
		"transactionType": txn.TransactionType,
		"amount":          txn.Amount,
		"signedAmount":    txn.SignedAmount(),
	})
	return &txn, nil
}

func (s *bankService) ListTransactions(ctx context.Context, bankAccountID string, params dto.ListBankTransactionsParams) ([]domain.BankTransaction, error) {
	filter := portsrepo.BankTransactionFilter{
		UnreconciledOnly: params.UnreconciledOnly,
		Limit:            params.Limit,
		Offset:           params.Offset,
	}
	var err error
	if filter.DateFrom, err = dto.ParseOptionalDate(params.DateFrom); err != nil {
		return nil, apperrors.NewValidationError("dateFrom: %s", err.Error())
	}
	if filter.DateTo, err = dto.ParseOptionalDate(params.DateTo); err != nil {
		return nil, apperrors.NewValidationError("dateTo: %s", err.Error())
	}
	if _, err := s.GetBankAccount(ctx, bankAccountID); err != nil {
		return nil, err
	}
	return s.bankRepo.ListBankTransactions(ctx, bankAccountID, filter)
}

func (s *bankService) GetUnreconciledTransactions(ctx context.Context, bankAccountID string) ([]domain.BankTransaction, error) {
	if _, err := s.GetBankAccount(ctx, bankAccountID); err != nil {
		return nil, err
	}
	return s.bankRepo.ListBankTransactions(ctx, bankAccountID, portsrepo.BankTransactionFilter{UnreconciledOnly: true})
}

// findTransaction loads a transaction and hides rows that belong to another bank account.
func (s *bankService) findTransaction(ctx context.Context, bankAccountID, transactionID string) (*domain.BankTransaction, error) {
	txn, err := s.bankRepo.FindBankTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.BankAccountID != bankAccountID {
		return nil, apperrors.NewNotFoundError("bank transaction", transactionID)
	}
	return txn, nil
}

func (s *bankService) DeleteTransaction(ctx context.Context, bankAccountID string, transactionID string, userID string) error {
	err := s.withRetry(ctx, s.retryAttempts, "delete bank transaction", func() error {
		return s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
			txn, err := s.findTransaction(txCtx, bankAccountID, transactionID)
			if err != nil {
				return err
			}
			if txn.IsReconciled {
				return apperrors.NewAppError(http.StatusUnprocessableEntity, "reconciled transactions cannot be deleted", nil)
			}
			if txn.JournalEntryID != nil {
				return apperrors.NewAppError(http.StatusUnprocessableEntity, "transactions posted to the general ledger cannot be deleted", nil)
			}
			account, err := s.bankRepo.FindBankAccountByID(txCtx, bankAccountID)
			if err != nil {
				return err
			}
			if err := s.bankRepo.DeleteBankTransaction(txCtx, transactionID); err != nil {
				return err
			}
			return s.bankRepo.UpdateBankBalance(txCtx, bankAccountID, txn.SignedAmount().Neg(), account.Version, userID, s.Now())
		})
	})
	if err != nil {
		if !isExpected(err, apperrors.ErrNotFound, apperrors.ErrInvalidState) {
			s.LogError(ctx, err, "Failed to delete bank transaction", slog.String("transaction_id", transactionID))
		}
		return err
	}
	s.LogInfo(ctx, "Bank transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

func (s *bankService) ReconcileTransaction(ctx context.Context, bankAccountID string, transactionID string, reconciliationID string) (*domain.BankTransaction, error) {
	txn, err := s.findTransaction(ctx, bankAccountID, transactionID)
	if err != nil {
		return nil, err
	}
	rec, err := s.findReconciliation(ctx, bankAccountID, reconciliationID, false)
	if err != nil {
		return nil, err
	}
	if rec.Status == domain.ReconciliationReconciled {
		return nil, apperrors.NewAppError(http.StatusUnprocessableEntity, "reconciliation is already completed", nil)
	}

	now := s.Now()
	if err := s.bankRepo.MarkTransactionReconciled(ctx, transactionID, reconciliationID, now); err != nil {
		return nil, err
	}
	txn.IsReconciled = true
	txn.ReconciledAt = &now
	txn.ReconciliationID = &reconciliationID
	return txn, nil
}

func (s *bankService) PostTransactionToGeneralLedger(ctx context.Context, bankAccountID string, transactionID string, req dto.PostBankTransactionRequest, userID string) (*domain.JournalEntry, error) {
	account, err := s.GetBankAccount(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}
	if account.LedgerAccountID == nil {
		return nil, apperrors.NewValidationError("bank account %s is not linked to a ledger account", account.Name)
	}
	if req.OffsetAccountID == "" {
		return nil, apperrors.NewValidationError("offset account is required")
	}
	if req.OffsetAccountID == *account.LedgerAccountID {
		return nil, apperrors.NewValidationError("offset account must differ from the bank's ledger account")
	}

	var posted *domain.JournalEntry
	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		txn, err := s.findTransaction(txCtx, bankAccountID, transactionID)
		if err != nil {
			return err
		}
		if txn.JournalEntryID != nil {
			return apperrors.NewAppError(http.StatusConflict, fmt.Sprintf("bank transaction %s is already posted", transactionID), nil)
		}

		entry := bankEntry(account, txn, req)
		if err := s.createEntry(txCtx, entry, userID); err != nil {
			return err
		}
		if posted, err = s.postEntry(txCtx, entry.EntryID, userID); err != nil {
			return err
		}
		return s.bankRepo.LinkJournalEntry(txCtx, transactionID, posted.EntryID)
	})
	if err != nil {
		if !isExpected(err, apperrors.ErrNotFound, apperrors.ErrValidation, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to post bank transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Bank transaction posted to general ledger",
		slog.String("transaction_id", transactionID),
		slog.String("entry_number", posted.EntryNumber))
	s.Publish(ctx, domain.EventJournalPosted, posted.EntryID, userID, postedPayload(posted))
	return posted, nil
}

// bankEntry builds the two-line draft for a bank transaction. The bank's ledger
// account is debited for inflows and credited for outflows.
func bankEntry(account *domain.BankAccount, txn *domain.BankTransaction, req dto.PostBankTransactionRequest) *domain.JournalEntry {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = txn.Description
	}
	bankLine := domain.JournalLine{AccountID: *account.LedgerAccountID, Description: account.DisplayName()}
	offsetLine := domain.JournalLine{AccountID: req.OffsetAccountID, Description: txn.Description}
	if txn.TransactionType.IsInflow() {
		bankLine.Debit, offsetLine.Credit = txn.Amount, txn.Amount
	} else {
		bankLine.Credit, offsetLine.Debit = txn.Amount, txn.Amount
	}
	return &domain.JournalEntry{
		EntryDate:      txn.TransactionDate,
		EntryType:      domain.EntryBank,
		Description:    description,
		Reference:      txn.Reference,
		SourceDocument: &domain.SourceDocument{Type: domain.SourceBankTransaction, ID: txn.TransactionID},
		Lines:          []domain.JournalLine{bankLine, offsetLine},
	}
}

func (s *bankService) findReconciliation(ctx context.Context, bankAccountID, reconciliationID string, forUpdate bool) (*domain.Reconciliation, error) {
	find := s.bankRepo.FindReconciliationByID
	if forUpdate {
		find = s.bankRepo.FindReconciliationForUpdate
	}
	rec, err := find(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	if rec.BankAccountID != bankAccountID {
		return nil, apperrors.NewNotFoundError("reconciliation", reconciliationID)
	}
	return rec, nil
}

func (s *bankService) CreateReconciliation(ctx context.Context, bankAccountID string, req dto.CreateReconciliationRequest, userID string) (*domain.Reconciliation, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	start := domain.StartOfDay(req.StatementStartDate)
	end := domain.StartOfDay(req.StatementEndDate)
	if start.After(end) {
		return nil, apperrors.NewValidationError("statement start date must not be after end date")
	}

	account, err := s.GetBankAccount(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, apperrors.NewAppError(http.StatusUnprocessableEntity, fmt.Sprintf("bank account %s is inactive", account.Name), nil)
	}

	book := decimal.Zero
	if req.BookBalance != nil {
		book = *req.BookBalance
	} else if book, err = s.GetBalanceAtDate(ctx, bankAccountID, end); err != nil {
		return nil, err
	}

	now := s.Now()
	rec := domain.Reconciliation{
		ReconciliationID:   idgen.NewUUID(),
		BankAccountID:      bankAccountID,
		StatementStartDate: start,
		StatementEndDate:   end,
		StatementBalance:   req.StatementBalance,
		BookBalance:        book,
		Difference:         req.StatementBalance.Sub(book),
		Deposits:           req.Deposits,
		Withdrawals:        req.Withdrawals,
		BankFees:           req.BankFees,
		InterestEarned:     req.InterestEarned,
		Notes:              req.Notes,
		Status:             domain.ReconciliationDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.bankRepo.SaveReconciliation(txCtx, rec); err != nil {
			return err
		}
		nextDue := account.ReconciliationFrequency.NextDue(now)
		return s.bankRepo.UpdateReconciliationSchedule(txCtx, bankAccountID, nextDue, nil, nil, userID, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create reconciliation", slog.String("bank_account_id", bankAccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Reconciliation created",
		slog.String("reconciliation_id", rec.ReconciliationID),
		slog.String("difference", rec.Difference.String()))
	return &rec, nil
}

// StartReconciliation moves a DRAFT or DISCREPANCY reconciliation to IN_PROGRESS. Corrected
// balances may be supplied; restarting a discrepancy without a book balance recomputes it
// from the bank ledger at the statement end date.
func (s *bankService) StartReconciliation(ctx context.Context, bankAccountID string, reconciliationID string, req dto.StartReconciliationRequest, userID string) (*domain.Reconciliation, error) {
	var rec *domain.Reconciliation
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		rec, err = s.findReconciliation(txCtx, bankAccountID, reconciliationID, true)
		if err != nil {
			return err
		}
		if rec.Status != domain.ReconciliationDraft && rec.Status != domain.ReconciliationDiscrepancy {
			return apperrors.NewAppError(http.StatusUnprocessableEntity,
				fmt.Sprintf("reconciliation is %s, only DRAFT or DISCREPANCY can be started", rec.Status), nil)
		}

		if req.StatementBalance != nil {
			rec.StatementBalance = *req.StatementBalance
		}
		switch {
		case req.BookBalance != nil:
			rec.BookBalance = *req.BookBalance
		case rec.Status == domain.ReconciliationDiscrepancy:
			if rec.BookBalance, err = s.GetBalanceAtDate(txCtx, bankAccountID, rec.StatementEndDate); err != nil {
				return err
			}
		}
		rec.Difference = rec.StatementBalance.Sub(rec.BookBalance)

		rec.Status = domain.ReconciliationInProgress
		rec.LastUpdatedAt = s.Now()
		rec.LastUpdatedBy = userID
		return s.bankRepo.UpdateReconciliation(txCtx, *rec)
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Reconciliation started",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("difference", rec.Difference.String()))
	return rec, nil
}

func (s *bankService) CompleteReconciliation(ctx context.Context, bankAccountID string, reconciliationID string, userID string) (*domain.Reconciliation, error) {
	var rec *domain.Reconciliation
	discrepant := false
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		rec, err = s.findReconciliation(txCtx, bankAccountID, reconciliationID, true)
		if err != nil {
			return err
		}
		if rec.Status == domain.ReconciliationReconciled {
			return apperrors.NewAppError(http.StatusUnprocessableEntity, "reconciliation is already completed", nil)
		}

		now := s.Now()
		rec.LastUpdatedAt = now
		rec.LastUpdatedBy = userID

		// The discrepancy status is committed, only the caller sees an error.
		if !rec.IsWithinTolerance() {
			discrepant = true
			rec.Status = domain.ReconciliationDiscrepancy
			return s.bankRepo.UpdateReconciliation(txCtx, *rec)
		}

		count, err := s.bankRepo.MarkTransactionsReconciledInPeriod(txCtx, bankAccountID,
			rec.StatementStartDate, rec.StatementEndDate, rec.ReconciliationID, now)
		if err != nil {
			return err
		}
		rec.Status = domain.ReconciliationReconciled
		rec.CompletedAt = &now
		rec.CompletedBy = &userID
		rec.ReconciledCount = count
		if err := s.bankRepo.UpdateReconciliation(txCtx, *rec); err != nil {
			return err
		}

		account, err := s.bankRepo.FindBankAccountByID(txCtx, bankAccountID)
		if err != nil {
			return err
		}
		return s.bankRepo.UpdateReconciliationSchedule(txCtx, bankAccountID, account.NextReconciliationDue,
			&rec.StatementEndDate, &rec.StatementBalance, userID, now)
	})
	if err != nil {
		if !isExpected(err, apperrors.ErrNotFound, apperrors.ErrInvalidState) {
			s.LogError(ctx, err, "Failed to complete reconciliation", slog.String("reconciliation_id", reconciliationID))
		}
		return nil, err
	}

	if discrepant {
		s.GetLogger(ctx).Warn("Reconciliation has a discrepancy",
			slog.String("reconciliation_id", reconciliationID),
			slog.String("difference", rec.Difference.String()))
		s.Publish(ctx, domain.EventReconciliationDiscrepant, bankAccountID, userID, map[string]any{
			"reconciliationID": rec.ReconciliationID,
			"difference":       rec.Difference,
		})
		return nil, apperrors.NewAppError(http.StatusUnprocessableEntity,
			fmt.Sprintf("statement balance %s differs from book balance %s by %s",
				rec.StatementBalance.StringFixed(2), rec.BookBalance.StringFixed(2), rec.Difference.StringFixed(2)),
			apperrors.ErrReconciliationDiscrepancy)
	}

	s.LogInfo(ctx, "Reconciliation completed",
		slog.String("reconciliation_id", reconciliationID),
		slog.Int("reconciled", rec.ReconciledCount))
	s.Publish(ctx, domain.EventReconciliationCompleted, bankAccountID, userID, map[string]any{
		"reconciliationID": rec.ReconciliationID,
		"reconciledCount":  rec.ReconciledCount,
		"statementBalance": rec.StatementBalance,
	})
	return rec, nil
}

func (s *bankService) ListReconciliations(ctx context.Context, bankAccountID string) ([]domain.Reconciliation, error) {
	if _, err := s.GetBankAccount(ctx, bankAccountID); err != nil {
		return nil, err
	}
	return s.bankRepo.ListReconciliations(ctx, bankAccountID)
}
