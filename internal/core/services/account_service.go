package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/platform/idgen"
	"github.com/SscSPs/ledger_engine/internal/utils"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo     portsrepo.AccountRepositoryFacade
	ledgerRepo      portsrepo.LedgerReader
	defaultCurrency string
}

// NewAccountService creates a chart of accounts service. Accounts created without a
// currency get defaultCurrency. The ledger reader guards deactivation.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, ledger portsrepo.LedgerReader, defaultCurrency string, opts ...Option) portssvc.AccountSvcFacade {
	if defaultCurrency == "" {
		defaultCurrency = utils.DefaultCurrencyCode
	}
	return &accountService{
		BaseService:     newBaseService(opts),
		accountRepo:     repo,
		ledgerRepo:      ledger,
		defaultCurrency: defaultCurrency,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if !req.AccountType.IsValid() {
		return nil, apperrors.NewValidationError("invalid account type %q", req.AccountType)
	}
	if !domain.ValidAccountCode(req.Code) {
		return nil, apperrors.NewValidationError("account code %q must be 4 to 6 digits", req.Code)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("account name is required")
	}

	subtype := req.Subtype
	if subtype == "" {
		subtype = domain.DefaultSubtype(req.AccountType)
	}
	if !subtype.ValidFor(req.AccountType) {
		return nil, apperrors.NewValidationError("subtype %q is not valid for %s accounts", subtype, req.AccountType)
	}

	role := req.CashFlowRole
	if role == "" {
		role = domain.DefaultCashFlowRole(req.ReportCategory)
	}
	if !role.IsValid() || !role.AllowedFor(req.AccountType) {
		return nil, apperrors.NewValidationError("cash flow role %q is not valid for %s accounts", role, req.AccountType)
	}

	if existing, err := s.accountRepo.FindAccountByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, apperrors.NewAppError(http.StatusConflict, fmt.Sprintf("account code %s is already used", req.Code), apperrors.ErrDuplicate)
	} else if err != nil && !isExpected(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check account code", slog.String("code", req.Code))
		return nil, err
	}

	level := 0
	if req.ParentAccountID != nil {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			if isExpected(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError("parent account %s not found", *req.ParentAccountID)
			}
			return nil, err
		}
		if parent.AccountType != req.AccountType {
			return nil, apperrors.NewValidationError("parent account %s is %s, expected %s", parent.Code, parent.AccountType, req.AccountType)
		}
		if !parent.IsActive {
			return nil, apperrors.NewValidationError("parent account %s is inactive", parent.Code)
		}
		level = parent.Level + 1
		if level > domain.MaxAccountLevel {
			return nil, apperrors.NewValidationError("account tree cannot be deeper than %d levels", domain.MaxAccountLevel)
		}
	}

	currency := strings.ToUpper(req.CurrencyCode)
	if currency == "" {
		currency = s.defaultCurrency
	}
	allowManual := true
	if req.AllowManualEntry != nil {
		allowManual = *req.AllowManualEntry
	}

	now := s.Now()
	account := domain.Account{
		AccountID:        idgen.NewUUID(),
		Code:             req.Code,
		Name:             name,
		AccountType:      req.AccountType,
		Subtype:          subtype,
		NormalBalance:    req.AccountType.NormalBalance(),
		ReportCategory:   req.ReportCategory,
		CashFlowRole:     role,
		ParentAccountID:  req.ParentAccountID,
		Level:            level,
		Description:      req.Description,
		CurrencyCode:     currency,
		IsSystemAccount:  req.IsSystemAccount,
		AllowManualEntry: allowManual,
		IsActive:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("code", account.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !isExpected(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !isExpected(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs", slog.Int("count", len(accountIDs)))
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	filter := portsrepo.AccountFilter{
		IncludeInactive: params.IncludeInactive,
		Limit:           params.Limit,
		Offset:          params.Offset,
	}
	if params.AccountType != "" {
		t := domain.AccountType(strings.ToUpper(params.AccountType))
		if !t.IsValid() {
			return nil, apperrors.NewValidationError("invalid account type %q", params.AccountType)
		}
		filter.AccountType = &t
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) GetAccountTree(ctx context.Context) ([]*domain.AccountNode, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for tree")
		return nil, err
	}
	return domain.BuildAccountTree(accounts), nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("account name cannot be empty")
		}
		account.Name = name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.Subtype != nil {
		if !req.Subtype.ValidFor(account.AccountType) {
			return nil, apperrors.NewValidationError("subtype %q is not valid for %s accounts", *req.Subtype, account.AccountType)
		}
		account.Subtype = *req.Subtype
	}
	if req.ReportCategory != nil {
		account.ReportCategory = *req.ReportCategory
	}
	if req.CashFlowRole != nil {
		if !req.CashFlowRole.IsValid() || !req.CashFlowRole.AllowedFor(account.AccountType) {
			return nil, apperrors.NewValidationError("cash flow role %q is not valid for %s accounts", *req.CashFlowRole, account.AccountType)
		}
		account.CashFlowRole = *req.CashFlowRole
	}
	if req.AllowManualEntry != nil {
		account.AllowManualEntry = *req.AllowManualEntry
	}
	account.LastUpdatedAt = s.Now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.IsSystemAccount {
		return apperrors.NewAppError(http.StatusUnprocessableEntity, fmt.Sprintf("system account %s cannot be deactivated", account.Code), nil)
	}
	if !account.IsActive {
		return apperrors.NewAppError(http.StatusUnprocessableEntity, fmt.Sprintf("account %s is already inactive", account.Code), nil)
	}

	children, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountFilter{ParentAccountID: &account.AccountID})
	if err != nil {
		s.LogError(ctx, err, "Failed to list sub-accounts", slog.String("account_id", accountID))
		return err
	}
	if len(children) > 0 {
		return apperrors.NewAppError(http.StatusUnprocessableEntity,
			fmt.Sprintf("account %s has %d active sub-accounts", account.Code, len(children)), nil)
	}

	// Inactive accounts reject postings, so nothing could ever clear a remaining balance.
	sums, err := s.ledgerRepo.SumAccount(ctx, account.AccountID, domain.DateRange{})
	if err != nil {
		s.LogError(ctx, err, "Failed to sum account ledger", slog.String("account_id", accountID))
		return err
	}
	balance := account.SignedDelta(sums.Debit, sums.Credit)
	if !balance.IsZero() || !account.Balance.IsZero() {
		return apperrors.NewAppError(http.StatusUnprocessableEntity,
			fmt.Sprintf("account %s has a balance of %s and cannot be deactivated", account.Code, balance.StringFixed(2)), nil)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated successfully", slog.String("account_id", accountID))
	return nil
}
