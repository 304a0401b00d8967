package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"p2p-lending-backend/internal/adapter/events"
	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/adapter/repository/mysql"
	"p2p-lending-backend/internal/domain/user"
	"p2p-lending-backend/internal/usecase/credit"
	"p2p-lending-backend/internal/usecase/interest"
	"p2p-lending-backend/internal/usecase/ledger"
	loanuc "p2p-lending-backend/internal/usecase/loan"
	"p2p-lending-backend/internal/usecase/repayment"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testSecret = []byte("handler-test-secret")

type testServer struct {
	t  *testing.T
	e  *echo.Echo
	db *gorm.DB
}

// newTestServer wires the real stack on in-memory sqlite. rdb may be nil.
func newTestServer(t *testing.T, rdb *redis.Client) *testServer {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := gdb.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := mysql.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, u := range []user.User{
		{UserID: "LENDER01", Name: "Lerato", Role: user.RoleLender},
		{UserID: "LENDER02", Role: user.RoleLender},
		{UserID: "ADMIN01", Role: user.RoleAdmin},
		{UserID: "CUST01", Name: "Thabo", Role: user.RoleCustomer, NetWorth: decimal.NewFromInt(1000), CreditScore: 300},
		{UserID: "CUST02", Role: user.RoleCustomer, NetWorth: decimal.NewFromInt(500), CreditScore: 300},
	} {
		u := u
		if err := gdb.Create(&u).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	loans := mysql.NewLoanRepository(gdb)
	users := mysql.NewUserRepository(gdb)
	tx := mysql.NewGormUoW(gdb)
	store := events.NewStore(mysql.NewNotificationRepository(gdb), nil)
	rules := interest.NewTable(mysql.NewInterestRuleRepository(gdb), store, nil)
	lg := ledger.NewLedger(loans, mysql.NewProfitRepository(gdb), nil)

	e := echo.New()
	e.Validator = NewValidator()
	Register(e, Handlers{
		Health: NewHandler(nil),
		Loans:  NewLoanHandler(loanuc.NewUsecase(loans, users, rules, tx, store, nil), repayment.NewProcessor(tx, lg, store, nil), nil),
		Admin:  NewAdminHandler(rules, lg, store, nil),
		Credit: NewCreditHandler(credit.NewUsecase(users, loans, tx, nil), nil),
	}, RouteConfig{JWTSecret: testSecret, Redis: rdb, IdempTTL: time.Minute})
	return &testServer{t: t, e: e, db: gdb}
}

func token(t *testing.T, userID string, role user.Role) string {
	t.Helper()
	tok, err := middleware.SignToken(testSecret, userID, role, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

var (
	asCustomer = func(t *testing.T) string { return token(t, "CUST01", user.RoleCustomer) }
	asLender   = func(t *testing.T) string { return token(t, "LENDER01", user.RoleLender) }
	asAdmin    = func(t *testing.T) string { return token(t, "ADMIN01", user.RoleAdmin) }
)

// do sends body as JSON when non-nil. tok may be empty.
func (s *testServer) do(method, path, tok string, body any, headers map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d: %s", rec.Code, want, rec.Body.String())
	}
}

// activeLoan applies as CUST01 and approves as LENDER01.
func (s *testServer) activeLoan(amount string) loanuc.LoanDTO {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/loans", asCustomer(s.t), map[string]string{"lender_id": "LENDER01", "amount": amount}, nil)
	expectCode(s.t, rec, http.StatusCreated)
	applied := decode[loanuc.LoanDTO](s.t, rec)

	rec = s.do(http.MethodPost, "/loans/"+applied.LoanID+"/decision", asLender(s.t), map[string]string{"decision": "approve"}, nil)
	expectCode(s.t, rec, http.StatusOK)
	return decode[loanuc.LoanDTO](s.t, rec)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
