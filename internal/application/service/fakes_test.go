package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	infraRepo "github.com/sangkips/stewardpro-api/internal/infrastructure/repository"
	"github.com/sangkips/stewardpro-api/pkg/sms"
	"github.com/shopspring/decimal"
)

// The fakes embed the repository interfaces so unused methods panic if a
// test reaches them unexpectedly.

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func churchCtx() (context.Context, uuid.UUID) {
	id := uuid.New()
	return infraRepo.WithTenant(context.Background(), id), id
}

func freezeClock(t interface{ Cleanup(func()) }, at time.Time) {
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func premiumSettings(churchID uuid.UUID) *entity.Settings {
	s := entity.DefaultSettings("Grace SDA", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	s.TenantID = churchID
	s.Package = enum.PackagePremium
	s.Status = enum.SubscriptionActive
	s.ApplyPackage()
	s.SMSAPIKey = "key"
	s.SMSAPISecret = "secret"
	s.SMSSenderID = "CHURCH"
	s.SMSBaseURL = "http://sms.test"
	return s
}

type fakeSettingsRepo struct {
	settings *entity.Settings
}

func (f *fakeSettingsRepo) Get(ctx context.Context) (*entity.Settings, error) {
	return f.settings, nil
}

func (f *fakeSettingsRepo) Create(ctx context.Context, s *entity.Settings) error {
	f.settings = s
	return nil
}

func (f *fakeSettingsRepo) Update(ctx context.Context, s *entity.Settings) error {
	f.settings = s
	return nil
}

func (f *fakeSettingsRepo) IncrementSMSUsed(ctx context.Context, n int) error {
	f.settings.SMSUsedThisMonth += n
	return nil
}

func (f *fakeSettingsRepo) ResetAllSMSUsage(ctx context.Context) (int64, error) {
	f.settings.SMSUsedThisMonth = 0
	return 1, nil
}

type fakeChurchRepo struct {
	repository.ChurchRepository
	churches []entity.Church
}

func (f *fakeChurchRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Church, error) {
	for i := range f.churches {
		if f.churches[i].ID == id {
			return &f.churches[i], nil
		}
	}
	return nil, nil
}

func (f *fakeChurchRepo) ListAll(ctx context.Context) ([]entity.Church, error) {
	return f.churches, nil
}

type fakeSeries struct {
	mu       sync.Mutex
	counters map[string]int64
}

func (f *fakeSeries) Next(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counters == nil {
		f.counters = make(map[string]int64)
	}
	f.counters[key]++
	return f.counters[key], nil
}

type fakeMemberRepo struct {
	repository.MemberRepository
	members map[uuid.UUID]*entity.Member
}

func newFakeMemberRepo(members ...*entity.Member) *fakeMemberRepo {
	f := &fakeMemberRepo{members: make(map[uuid.UUID]*entity.Member)}
	for _, m := range members {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		f.members[m.ID] = m
	}
	return f
}

func (f *fakeMemberRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMemberRepo) Create(ctx context.Context, m *entity.Member) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	cp := *m
	f.members[m.ID] = &cp
	return nil
}

func (f *fakeMemberRepo) GetByMemberID(ctx context.Context, memberID string) (*entity.Member, error) {
	for _, m := range f.members {
		if m.MemberID == memberID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMemberRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.members)), nil
}

func (f *fakeMemberRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Member, error) {
	var out []entity.Member
	for _, id := range ids {
		if m, ok := f.members[id]; ok {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) ListActiveWithContact(ctx context.Context) ([]entity.Member, error) {
	var out []entity.Member
	for _, m := range f.members {
		if m.Status == enum.MemberStatusActive && m.Contact != "" {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out, nil
}

type fakeContributionRepo struct {
	repository.ContributionRepository
	rows   map[uuid.UUID]*entity.Contribution
	totals *repository.ContributionTotals

	// window is the last range SumSubmitted was asked for
	window [2]time.Time

	// interleave, when set, runs once right after the next CountOnDate,
	// standing in for a submit that commits in between
	interleave func()
}

func newFakeContributionRepo() *fakeContributionRepo {
	return &fakeContributionRepo{rows: make(map[uuid.UUID]*entity.Contribution)}
}

func (f *fakeContributionRepo) Create(ctx context.Context, c *entity.Contribution) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeContributionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Contribution, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// Update enforces the per-church unique receipt number like the database index
func (f *fakeContributionRepo) Update(ctx context.Context, c *entity.Contribution) error {
	for _, other := range f.rows {
		if other.ID != c.ID && c.ReceiptNumber != "" && other.ReceiptNumber == c.ReceiptNumber {
			return repository.ErrDuplicateReceipt
		}
	}
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeContributionRepo) CountOnDate(ctx context.Context, date time.Time) (int64, error) {
	var n int64
	for _, c := range f.rows {
		if entity.Time(c.Date).Equal(entity.Time(entity.DateOf(date))) && c.ReceiptNumber != "" {
			n++
		}
	}
	if fn := f.interleave; fn != nil {
		f.interleave = nil
		fn()
	}
	return n, nil
}

func (f *fakeContributionRepo) SumSubmitted(ctx context.Context, from, to time.Time) (*repository.ContributionTotals, error) {
	f.window = [2]time.Time{from, to}
	if f.totals != nil {
		return f.totals, nil
	}
	return &repository.ContributionTotals{}, nil
}

type enqueued struct {
	kind string
	id   uuid.UUID
}

type fakeTasks struct {
	jobs []enqueued
	bulk []*BulkSMSInput
}

func (f *fakeTasks) EnqueueWelcomeSMS(ctx context.Context, churchID, memberID uuid.UUID) error {
	f.jobs = append(f.jobs, enqueued{"sms:welcome", memberID})
	return nil
}

func (f *fakeTasks) EnqueueReceiptSMS(ctx context.Context, churchID, contributionID uuid.UUID) error {
	f.jobs = append(f.jobs, enqueued{"sms:receipt", contributionID})
	return nil
}

func (f *fakeTasks) EnqueueBulkSMS(ctx context.Context, churchID uuid.UUID, input *BulkSMSInput) error {
	f.bulk = append(f.bulk, input)
	return nil
}

func (f *fakeTasks) EnqueueRemittanceEmail(ctx context.Context, churchID, remittanceID uuid.UUID) error {
	f.jobs = append(f.jobs, enqueued{"email:remittance", remittanceID})
	return nil
}

type fakeDeptRepo struct {
	repository.DepartmentRepository
	depts map[uuid.UUID]*entity.Department
}

func (f *fakeDeptRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Department, error) {
	dept, ok := f.depts[id]
	if !ok {
		return nil, nil
	}
	cp := *dept
	return &cp, nil
}

func newFakeDeptRepo(depts ...*entity.Department) *fakeDeptRepo {
	f := &fakeDeptRepo{depts: make(map[uuid.UUID]*entity.Department)}
	for _, dept := range depts {
		f.depts[dept.ID] = dept
	}
	return f
}

func (f *fakeDeptRepo) Create(ctx context.Context, dept *entity.Department) error {
	cp := *dept
	f.depts[dept.ID] = &cp
	return nil
}

func (f *fakeDeptRepo) Update(ctx context.Context, dept *entity.Department) error {
	cp := *dept
	f.depts[dept.ID] = &cp
	return nil
}

func (f *fakeDeptRepo) GetByCode(ctx context.Context, code string) (*entity.Department, error) {
	for _, dept := range f.depts {
		if dept.Code == code {
			cp := *dept
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeDeptRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.depts)), nil
}

type fakeItemRepo struct {
	repository.ItemRepository
	items []entity.Item
}

func (f *fakeItemRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Item, error) {
	var out []entity.Item
	for _, it := range f.items {
		for _, id := range ids {
			if it.ID == id {
				out = append(out, it)
			}
		}
	}
	return out, nil
}

func cloneBudget(b *entity.DepartmentBudget) *entity.DepartmentBudget {
	cp := *b
	cp.Items = append([]entity.DepartmentBudgetItem(nil), b.Items...)
	return &cp
}

type fakeBudgetRepo struct {
	repository.BudgetRepository
	budgets map[uuid.UUID]*entity.DepartmentBudget

	// interleave, when set, runs once at the next budget read, standing in
	// for another request that commits at that moment
	interleave func()
}

func (f *fakeBudgetRepo) runInterleaved() {
	if fn := f.interleave; fn != nil {
		f.interleave = nil
		fn()
	}
}

func (f *fakeBudgetRepo) Create(ctx context.Context, b *entity.DepartmentBudget) error {
	if f.budgets == nil {
		f.budgets = make(map[uuid.UUID]*entity.DepartmentBudget)
	}
	f.budgets[b.ID] = cloneBudget(b)
	return nil
}

func (f *fakeBudgetRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.DepartmentBudget, error) {
	return f.GetWithItems(ctx, id)
}

// GetWithItems is an unlocked read: the interleaved commit lands after the
// snapshot is taken
func (f *fakeBudgetRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.DepartmentBudget, error) {
	b, ok := f.budgets[id]
	if !ok {
		return nil, nil
	}
	snapshot := cloneBudget(b)
	f.runInterleaved()
	return snapshot, nil
}

func (f *fakeBudgetRepo) Save(ctx context.Context, b *entity.DepartmentBudget) error {
	f.budgets[b.ID] = cloneBudget(b)
	return nil
}

// Transition is a locked read: a competing commit either lands before the
// lock is taken or waits until the write is done
func (f *fakeBudgetRepo) Transition(ctx context.Context, id uuid.UUID, fn func(*entity.DepartmentBudget) error) (*entity.DepartmentBudget, error) {
	f.runInterleaved()
	stored, ok := f.budgets[id]
	if !ok {
		return nil, nil
	}
	b := cloneBudget(stored)
	if err := fn(b); err != nil {
		return nil, err
	}
	f.budgets[id] = cloneBudget(b)
	return b, nil
}

func (f *fakeBudgetRepo) ListSubmitted(ctx context.Context, fiscalYearID, departmentID *uuid.UUID) ([]entity.DepartmentBudget, error) {
	var out []entity.DepartmentBudget
	for _, b := range f.budgets {
		if !b.IsSubmitted() {
			continue
		}
		if fiscalYearID != nil && b.FiscalYearID != *fiscalYearID {
			continue
		}
		if departmentID != nil && b.DepartmentID != *departmentID {
			continue
		}
		out = append(out, *cloneBudget(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeTreasuryRepo struct {
	rolls map[uuid.UUID]*entity.TreasuryBudget
}

func (f *fakeTreasuryRepo) GetByFiscalYear(ctx context.Context, fiscalYearID uuid.UUID) (*entity.TreasuryBudget, error) {
	tb, ok := f.rolls[fiscalYearID]
	if !ok {
		return nil, nil
	}
	cp := *tb
	cp.Details = append([]entity.TreasuryBudgetDetail(nil), tb.Details...)
	return &cp, nil
}

func (f *fakeTreasuryRepo) Save(ctx context.Context, tb *entity.TreasuryBudget) error {
	if f.rolls == nil {
		f.rolls = make(map[uuid.UUID]*entity.TreasuryBudget)
	}
	cp := *tb
	cp.Details = append([]entity.TreasuryBudgetDetail(nil), tb.Details...)
	f.rolls[tb.FiscalYearID] = &cp
	return nil
}

type fakeRemittanceRepo struct {
	repository.RemittanceRepository
	rows map[uuid.UUID]*entity.Remittance
}

func cloneRemittance(r *entity.Remittance) *entity.Remittance {
	cp := *r
	cp.Items = append([]entity.RemittanceItem(nil), r.Items...)
	return &cp
}

func (f *fakeRemittanceRepo) Create(ctx context.Context, r *entity.Remittance) error {
	f.rows[r.ID] = cloneRemittance(r)
	return nil
}

func (f *fakeRemittanceRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Remittance, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return cloneRemittance(r), nil
}

func (f *fakeRemittanceRepo) Save(ctx context.Context, r *entity.Remittance) error {
	f.rows[r.ID] = cloneRemittance(r)
	return nil
}

// fakeExpenseRepo applies a mutation to copies and keeps them only when
// fn succeeds, like a rolled back transaction
type fakeExpenseRepo struct {
	repository.ExpenseRepository
	expenses map[uuid.UUID]*entity.DepartmentExpense
	budgets  *fakeBudgetRepo
}

func cloneExpense(e *entity.DepartmentExpense) *entity.DepartmentExpense {
	cp := *e
	cp.Details = append([]entity.DepartmentExpenseDetail(nil), e.Details...)
	return &cp
}

func (f *fakeExpenseRepo) Create(ctx context.Context, e *entity.DepartmentExpense) error {
	f.expenses[e.ID] = cloneExpense(e)
	return nil
}

func (f *fakeExpenseRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.DepartmentExpense, error) {
	e, ok := f.expenses[id]
	if !ok {
		return nil, nil
	}
	return cloneExpense(e), nil
}

func (f *fakeExpenseRepo) Save(ctx context.Context, e *entity.DepartmentExpense) error {
	f.expenses[e.ID] = cloneExpense(e)
	return nil
}

func (f *fakeExpenseRepo) MutateWithBudget(ctx context.Context, id uuid.UUID, fn repository.BudgetMutation) (*entity.DepartmentExpense, error) {
	stored, ok := f.expenses[id]
	if !ok {
		return nil, nil
	}
	e := cloneExpense(stored)

	var b *entity.DepartmentBudget
	if e.BudgetID != nil {
		orig, ok := f.budgets.budgets[*e.BudgetID]
		if !ok {
			return nil, nil
		}
		b = cloneBudget(orig)
	}

	if err := fn(e, b); err != nil {
		return nil, err
	}
	f.expenses[id] = e
	if b != nil {
		f.budgets.budgets[b.ID] = b
	}
	return cloneExpense(e), nil
}

type fakeFiscalYearRepo struct {
	repository.FiscalYearRepository
	years []entity.FiscalYear
}

func (f *fakeFiscalYearRepo) Create(ctx context.Context, fy *entity.FiscalYear) error {
	if fy.ID == uuid.Nil {
		fy.ID = uuid.New()
	}
	f.years = append(f.years, *fy)
	return nil
}

func (f *fakeFiscalYearRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.FiscalYear, error) {
	for i := range f.years {
		if f.years[i].ID == id {
			cp := f.years[i]
			return &cp, nil
		}
	}
	return nil, nil
}

// List returns the years of the church in ctx
func (f *fakeFiscalYearRepo) List(ctx context.Context) ([]entity.FiscalYear, error) {
	churchID, _ := infraRepo.GetTenantID(ctx)
	var out []entity.FiscalYear
	for _, fy := range f.years {
		if fy.TenantID == churchID {
			out = append(out, fy)
		}
	}
	return out, nil
}

func (f *fakeFiscalYearRepo) GetLatest(ctx context.Context) (*entity.FiscalYear, error) {
	years, _ := f.List(ctx)
	var latest *entity.FiscalYear
	for i := range years {
		if latest == nil || years[i].End().After(latest.End()) {
			latest = &years[i]
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

type fakeSMSLogRepo struct {
	repository.SMSLogRepository
	logs []entity.SMSLog
}

func (f *fakeSMSLogRepo) Create(ctx context.Context, l *entity.SMSLog) error {
	f.logs = append(f.logs, *l)
	return nil
}

// fakeSender accepts every number except those listed in fail
type fakeSender struct {
	fail map[string]bool
	sent []string
}

func (f *fakeSender) Send(ctx context.Context, creds sms.Credentials, message string, recipients ...string) sms.Result {
	for _, r := range recipients {
		if f.fail[r] {
			return sms.Result{Error: "HTTP 400: invalid number"}
		}
	}
	f.sent = append(f.sent, recipients...)
	return sms.Result{Success: true, Reference: "ref-1", Response: `{"status":"ok"}`}
}
