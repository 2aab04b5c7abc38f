package handlers_test

import (
	"net/http"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func postedEntry() *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:     "je-1",
		EntryNumber: "JE-20240115-0001",
		EntryDate:   time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		EntryType:   domain.EntryGeneral,
		Description: "Owner investment",
		Lines: []domain.JournalLine{
			{LineID: "l1", LineNumber: 1, AccountID: "acc-cash", Debit: decimal.NewFromInt(500), Credit: decimal.Zero},
			{LineID: "l2", LineNumber: 2, AccountID: "acc-capital", Debit: decimal.Zero, Credit: decimal.NewFromInt(500)},
		},
		TotalDebit:  decimal.NewFromInt(500),
		TotalCredit: decimal.NewFromInt(500),
		IsBalanced:  true,
		Status:      domain.Posted,
	}
}

func entryBody() map[string]any {
	return map[string]any{
		"entryDate":   "2024-01-15T00:00:00Z",
		"description": "Owner investment",
		"lines": []map[string]any{
			{"accountID": "acc-cash", "debit": "500", "credit": "0"},
			{"accountID": "acc-capital", "debit": "0", "credit": "500"},
		},
	}
}

func (suite *HandlerTestSuite) TestCreateJournalEntry_Draft() {
	draft := postedEntry()
	draft.Status = domain.Draft
	suite.journalSvc.On("CreateJournalEntry", mock.Anything,
		mock.MatchedBy(func(req dto.CreateJournalEntryRequest) bool {
			return len(req.Lines) == 2 && req.Lines[0].Debit.Equal(decimal.NewFromInt(500))
		}),
		testActor,
	).Return(draft, nil).Once()

	w := suite.do(http.MethodPost, "/journal-entries", entryBody())

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.JournalEntryResponse
	suite.decode(w, &res)
	suite.Equal(domain.Draft, res.Status)
	suite.journalSvc.AssertNotCalled(suite.T(), "CreateAndPostJournalEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateJournalEntry_PostImmediately() {
	suite.journalSvc.On("CreateAndPostJournalEntry", mock.Anything, mock.Anything, testActor).
		Return(postedEntry(), nil).Once()

	w := suite.do(http.MethodPost, "/journal-entries?post=true", entryBody())

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.JournalEntryResponse
	suite.decode(w, &res)
	suite.Equal(domain.Posted, res.Status)
	suite.Equal("JE-20240115-0001", res.EntryNumber)
}

func (suite *HandlerTestSuite) TestCreateJournalEntry_NeedsTwoLines() {
	body := entryBody()
	body["lines"] = []map[string]any{{"accountID": "acc-cash", "debit": "500"}}

	w := suite.do(http.MethodPost, "/journal-entries", body)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCreateJournalEntry_Unbalanced() {
	suite.journalSvc.On("CreateJournalEntry", mock.Anything, mock.Anything, testActor).
		Return(nil, apperrors.NewValidationError("entry is not balanced: debits 500 != credits 400")).Once()

	w := suite.do(http.MethodPost, "/journal-entries", entryBody())

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorMessage(w), "not balanced")
}

func (suite *HandlerTestSuite) TestPostJournalEntry_NotDraft() {
	suite.journalSvc.On("PostJournalEntry", mock.Anything, "je-1", testActor).
		Return(nil, apperrors.NewAppError(http.StatusUnprocessableEntity, "only DRAFT entries can be posted", apperrors.ErrInvalidState)).Once()

	w := suite.do(http.MethodPost, "/journal-entries/je-1/post", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestReverseJournalEntry_WithoutBody() {
	reversal := postedEntry()
	reversal.EntryID = "je-2"
	suite.journalSvc.On("ReverseJournalEntry", mock.Anything, "je-1", dto.ReverseJournalEntryRequest{}, testActor).
		Return(reversal, nil).Once()

	w := suite.do(http.MethodPost, "/journal-entries/je-1/reverse", nil)

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.JournalEntryResponse
	suite.decode(w, &res)
	suite.Equal("je-2", res.EntryID)
}

func (suite *HandlerTestSuite) TestReverseJournalEntry_WithDate() {
	suite.journalSvc.On("ReverseJournalEntry", mock.Anything, "je-1",
		mock.MatchedBy(func(req dto.ReverseJournalEntryRequest) bool {
			return req.ReversalDate != nil && req.ReversalDate.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
		}),
		testActor,
	).Return(postedEntry(), nil).Once()

	w := suite.do(http.MethodPost, "/journal-entries/je-1/reverse", `{"reversalDate":"2024-02-01T00:00:00Z"}`)

	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *HandlerTestSuite) TestGetJournalEntryByNumber() {
	suite.journalSvc.On("GetJournalEntryByNumber", mock.Anything, "JE-20240115-0001").Return(postedEntry(), nil).Once()

	w := suite.do(http.MethodGet, "/journal-entries/by-number/JE-20240115-0001", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.JournalEntryResponse
	suite.decode(w, &res)
	suite.Len(res.Lines, 2)
}

func (suite *HandlerTestSuite) TestListJournalEntries_BindsFilters() {
	next := "tok-2"
	suite.journalSvc.On("ListJournalEntries", mock.Anything,
		mock.MatchedBy(func(p dto.ListJournalEntriesParams) bool {
			return p.Status == "POSTED" && p.Limit == 5 && p.DateFrom == "2024-01-01"
		}),
	).Return(&dto.ListJournalEntriesResponse{
		Entries:   []dto.JournalEntryResponse{dto.ToJournalEntryResponse(postedEntry())},
		NextToken: &next,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/journal-entries?status=POSTED&limit=5&dateFrom=2024-01-01", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ListJournalEntriesResponse
	suite.decode(w, &res)
	suite.Len(res.Entries, 1)
	suite.Require().NotNil(res.NextToken)
	suite.Equal("tok-2", *res.NextToken)
}
