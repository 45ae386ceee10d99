package service

// In-memory repository stubs shared by the service tests. Transaction
// snapshots the participating stubs before running its body and restores
// them when the body fails, so rollback is observable without a database.

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/dto"
	"github.com/siddronomomos/farmacia/internal/model"
	"github.com/siddronomomos/farmacia/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// txParticipant is any stub whose state joins a stub transaction. snapshot
// returns the restore function applied when the transaction body errors.
type txParticipant interface {
	snapshot() (restore func())
}

// runStubTx serializes stub transactions (one writer at a time, like the
// real SERIALIZABLE checkout path) and restores every participant on error.
func runStubTx(txMu *sync.Mutex, participants []txParticipant, fn func(tx *gorm.DB) error) error {
	txMu.Lock()
	defer txMu.Unlock()
	restores := make([]func(), 0, len(participants))
	for _, p := range participants {
		restores = append(restores, p.snapshot())
	}
	if err := fn(nil); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("parse uuid %q: %v", s, err)
	}
	return id
}

// ── Customers ─────────────────────────────────────────────────────────────────

type stubCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*model.Customer
	withSales map[uuid.UUID]bool
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{
		customers: make(map[uuid.UUID]*model.Customer),
		withSales: make(map[uuid.UUID]bool),
	}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, apierror.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCustomerRepo) List(_ context.Context) ([]model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) Search(_ context.Context, _ string) ([]model.Customer, error) {
	return r.List(context.Background())
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[c.ID]; !ok {
		return apierror.ErrNotFound
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return apierror.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *stubCustomerRepo) HasSales(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.withSales[id], nil
}

func (r *stubCustomerRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[uuid.UUID]*model.Customer, len(r.customers))
	for id, c := range r.customers {
		cp := *c
		saved[id] = &cp
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.customers = saved
	}
}

func (r *stubCustomerRepo) AddPointsTx(_ *gorm.DB, id uuid.UUID, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return apierror.ErrNotFound
	}
	c.Points += points
	return nil
}

// ── Articles ──────────────────────────────────────────────────────────────────

type stubArticleRepo struct {
	mu            sync.Mutex
	articles      map[uuid.UUID]*model.Article
	withDependents map[uuid.UUID]bool
}

func newStubArticleRepo() *stubArticleRepo {
	return &stubArticleRepo{
		articles:       make(map[uuid.UUID]*model.Article),
		withDependents: make(map[uuid.UUID]bool),
	}
}

func (r *stubArticleRepo) Create(_ context.Context, a *model.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.articles[a.ID] = a
	return nil
}

func (r *stubArticleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.articles[id]
	if !ok {
		return nil, apierror.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *stubArticleRepo) List(_ context.Context) ([]model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Article, 0, len(r.articles))
	for _, a := range r.articles {
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubArticleRepo) Search(_ context.Context, _ string) ([]model.Article, error) {
	return r.List(context.Background())
}

func (r *stubArticleRepo) Update(_ context.Context, a *model.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[a.ID]; !ok {
		return apierror.ErrNotFound
	}
	r.articles[a.ID] = a
	return nil
}

func (r *stubArticleRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[id]; !ok {
		return apierror.ErrNotFound
	}
	delete(r.articles, id)
	return nil
}

func (r *stubArticleRepo) HasDependents(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.withDependents[id], nil
}

// ── Suppliers ─────────────────────────────────────────────────────────────────

type stubSupplierRepo struct {
	mu             sync.Mutex
	suppliers      map[uuid.UUID]*model.Supplier
	withDependents map[uuid.UUID]bool
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{
		suppliers:      make(map[uuid.UUID]*model.Supplier),
		withDependents: make(map[uuid.UUID]bool),
	}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suppliers[id]
	if !ok {
		return nil, apierror.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSupplierRepo) Search(_ context.Context, _ string) ([]model.Supplier, error) {
	return r.List(context.Background())
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.suppliers[s.ID]; !ok {
		return apierror.ErrNotFound
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.suppliers[id]; !ok {
		return apierror.ErrNotFound
	}
	delete(r.suppliers, id)
	return nil
}

func (r *stubSupplierRepo) HasDependents(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.withDependents[id], nil
}

// ── Stock ledger ──────────────────────────────────────────────────────────────

type linkKey struct{ supplierID, articleID uuid.UUID }

type stubStockRepo struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	links     map[linkKey]*model.SupplierArticle
	movements []model.StockMovement

	// failAdjust, when set, makes the next AdjustStockTx call fail.
	failAdjust error
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{links: make(map[linkKey]*model.SupplierArticle)}
}

func (r *stubStockRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	links := make(map[linkKey]*model.SupplierArticle, len(r.links))
	for k, l := range r.links {
		cp := *l
		links[k] = &cp
	}
	movements := make([]model.StockMovement, len(r.movements))
	copy(movements, r.movements)
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.links = links
		r.movements = movements
	}
}

func (r *stubStockRepo) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return runStubTx(&r.txMu, []txParticipant{r}, fn)
}

func (r *stubStockRepo) seed(supplierID, articleID uuid.UUID, stock int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[linkKey{supplierID, articleID}] = &model.SupplierArticle{
		ID:         uuid.New(),
		SupplierID: supplierID,
		ArticleID:  articleID,
		Stock:      stock,
	}
}

func (r *stubStockRepo) stock(supplierID, articleID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[linkKey{supplierID, articleID}]
	if !ok {
		return -1
	}
	return link.Stock
}

func (r *stubStockRepo) FindLink(_ context.Context, supplierID, articleID uuid.UUID) (*model.SupplierArticle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[linkKey{supplierID, articleID}]
	if !ok {
		return nil, apierror.ErrNotFound
	}
	cp := *link
	return &cp, nil
}

func (r *stubStockRepo) ListBySupplier(_ context.Context, supplierID uuid.UUID) ([]model.SupplierArticle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.SupplierArticle
	for _, link := range r.links {
		if link.SupplierID == supplierID {
			out = append(out, *link)
		}
	}
	return out, nil
}

func (r *stubStockRepo) ListByArticle(_ context.Context, articleID uuid.UUID) ([]model.SupplierArticle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.SupplierArticle
	for _, link := range r.links {
		if link.ArticleID == articleID {
			out = append(out, *link)
		}
	}
	return out, nil
}

func (r *stubStockRepo) UpsertLink(_ context.Context, link *model.SupplierArticle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := linkKey{link.SupplierID, link.ArticleID}
	if existing, ok := r.links[key]; ok {
		existing.PurchasePrice = link.PurchasePrice
		return nil
	}
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	r.links[key] = link
	return nil
}

func (r *stubStockRepo) EnsureLinkTx(_ *gorm.DB, supplierID, articleID uuid.UUID, purchasePrice decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := linkKey{supplierID, articleID}
	if existing, ok := r.links[key]; ok {
		existing.PurchasePrice = purchasePrice
		return nil
	}
	r.links[key] = &model.SupplierArticle{
		ID:            uuid.New(),
		SupplierID:    supplierID,
		ArticleID:     articleID,
		PurchasePrice: purchasePrice,
	}
	return nil
}

// AdjustStockTx mirrors the conditional UPDATE: the decrement applies only
// when the result stays >= 0, atomically under the mutex.
func (r *stubStockRepo) AdjustStockTx(_ *gorm.DB, supplierID, articleID uuid.UUID, delta int, movementType string, refFolio *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAdjust != nil {
		err := r.failAdjust
		r.failAdjust = nil
		return err
	}
	link, ok := r.links[linkKey{supplierID, articleID}]
	if !ok {
		return apierror.ErrNotFound
	}
	if link.Stock+delta < 0 {
		return fmt.Errorf("%w: have %d, delta %d", apierror.ErrInsufficientStock, link.Stock, delta)
	}
	before := link.Stock
	link.Stock += delta
	r.movements = append(r.movements, model.StockMovement{
		ID:             uuid.New(),
		SupplierID:     supplierID,
		ArticleID:      articleID,
		Type:           movementType,
		Quantity:       delta,
		StockBefore:    before,
		StockAfter:     link.Stock,
		ReferenceFolio: refFolio,
	})
	return nil
}

func (r *stubStockRepo) ListMovements(_ context.Context, articleID uuid.UUID, limit int) ([]model.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ArticleID == articleID {
			out = append(out, m)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// ── Sales ─────────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	sales     map[int]*model.Sale
	nextFolio int
	joined    []txParticipant
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[int]*model.Sale)}
}

// joinTx enlists other stubs in this repository's transactions, so a failed
// checkout also rolls their state back.
func (r *stubSaleRepo) joinTx(parts ...txParticipant) { r.joined = parts }

// snapshot covers the sales map only: folios come from a database sequence,
// which never rolls back.
func (r *stubSaleRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[int]*model.Sale, len(r.sales))
	for folio, s := range r.sales {
		cp := *s
		saved[folio] = &cp
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.sales = saved
	}
}

func (r *stubSaleRepo) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return runStubTx(&r.txMu, append([]txParticipant{r}, r.joined...), fn)
}

func (r *stubSaleRepo) NextFolio(_ context.Context, _ *gorm.DB) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextFolio++
	return r.nextFolio, nil
}

func (r *stubSaleRepo) CreateTx(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sales[s.Folio] = &cp
	return nil
}

func (r *stubSaleRepo) FindByFolio(_ context.Context, folio int) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[folio]
	if !ok {
		return nil, apierror.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) DeleteTx(_ *gorm.DB, folio int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sales[folio]; !ok {
		return apierror.ErrNotFound
	}
	delete(r.sales, folio)
	return nil
}

// ── Purchases ─────────────────────────────────────────────────────────────────

type stubPurchaseRepo struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	purchases map[int]*model.Purchase
	nextFolio int
	joined    []txParticipant
}

func newStubPurchaseRepo() *stubPurchaseRepo {
	return &stubPurchaseRepo{purchases: make(map[int]*model.Purchase)}
}

func (r *stubPurchaseRepo) joinTx(parts ...txParticipant) { r.joined = parts }

func (r *stubPurchaseRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[int]*model.Purchase, len(r.purchases))
	for folio, p := range r.purchases {
		cp := *p
		saved[folio] = &cp
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.purchases = saved
	}
}

func (r *stubPurchaseRepo) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return runStubTx(&r.txMu, append([]txParticipant{r}, r.joined...), fn)
}

func (r *stubPurchaseRepo) NextFolio(_ context.Context, _ *gorm.DB) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextFolio++
	return r.nextFolio, nil
}

func (r *stubPurchaseRepo) CreateTx(_ context.Context, _ *gorm.DB, p *model.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.purchases[p.Folio] = &cp
	return nil
}

func (r *stubPurchaseRepo) FindByFolio(_ context.Context, folio int) (*model.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[folio]
	if !ok {
		return nil, apierror.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPurchaseRepo) List(_ context.Context, _ dto.PurchaseFilter) ([]model.Purchase, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Purchase, 0, len(r.purchases))
	for _, p := range r.purchases {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPurchaseRepo) DeleteTx(_ *gorm.DB, folio int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.purchases[folio]; !ok {
		return apierror.ErrNotFound
	}
	delete(r.purchases, folio)
	return nil
}

// ── Discount tiers ────────────────────────────────────────────────────────────

type stubDiscountRepo struct {
	mu        sync.Mutex
	tiers     map[uuid.UUID]*model.DiscountTier
	withSales map[uuid.UUID]bool
}

func newStubDiscountRepo() *stubDiscountRepo {
	return &stubDiscountRepo{
		tiers:     make(map[uuid.UUID]*model.DiscountTier),
		withSales: make(map[uuid.UUID]bool),
	}
}

func (r *stubDiscountRepo) Create(_ context.Context, t *model.DiscountTier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tiers[t.ID] = t
	return nil
}

func (r *stubDiscountRepo) FindByID(_ context.Context, id uuid.UUID) (*model.DiscountTier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tiers[id]
	if !ok {
		return nil, apierror.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubDiscountRepo) List(_ context.Context) ([]model.DiscountTier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.DiscountTier, 0, len(r.tiers))
	for _, t := range r.tiers {
		out = append(out, *t)
	}
	return out, nil
}

func (r *stubDiscountRepo) FindForPoints(_ context.Context, points int) ([]model.DiscountTier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.DiscountTier
	for _, t := range r.tiers {
		if t.Covers(points) {
			out = append(out, *t)
		}
	}
	// best percentage first, matching the SQL ORDER BY
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Percentage.GreaterThan(out[i].Percentage) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *stubDiscountRepo) Update(_ context.Context, t *model.DiscountTier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tiers[t.ID]; !ok {
		return apierror.ErrNotFound
	}
	r.tiers[t.ID] = t
	return nil
}

func (r *stubDiscountRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tiers[id]; !ok {
		return apierror.ErrNotFound
	}
	delete(r.tiers, id)
	return nil
}

func (r *stubDiscountRepo) HasSales(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.withSales[id], nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)
var _ repository.ArticleRepository = (*stubArticleRepo)(nil)
var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)
var _ repository.StockRepository = (*stubStockRepo)(nil)
var _ repository.SaleRepository = (*stubSaleRepo)(nil)
var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)
var _ repository.DiscountRepository = (*stubDiscountRepo)(nil)
