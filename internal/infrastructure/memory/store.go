package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Compile-time: Store cubre los puertos del libro y el TxRunner.
var _ repository.UnitCatalogRepository = (*Store)(nil)
var _ repository.BalanceRepository = (*Store)(nil)
var _ repository.StockTransactionRepository = (*Store)(nil)
var _ ledger.TxRunner = (*Store)(nil)

// Store implementación en memoria de los puertos del libro de stock, para tests
// y modo dev. Un solo mutex serializa todos los Run: más estricto que el
// contrato (que solo exige serialización por clave), suficiente aquí.
type Store struct {
	// runMu serializa las transacciones (Run); mu protege los mapas en lecturas
	// y escrituras individuales. Dos niveles para que los repos atados a una tx
	// puedan leer el estado confirmado sin soltar la exclusión del Run.
	runMu    sync.Mutex
	mu       sync.Mutex
	products map[string]*entity.Product
	units    map[string]*entity.Unit // unitID -> unidad
	balances map[entity.BalanceKey]*entity.InventoryBalance
	txs      []*entity.StockTransaction
	txByID   map[string]*entity.StockTransaction

	// failNext simula una falla de persistencia en el próximo Create del libro.
	failNext error
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[string]*entity.Product),
		units:    make(map[string]*entity.Unit),
		balances: make(map[entity.BalanceKey]*entity.InventoryBalance),
		txByID:   make(map[string]*entity.StockTransaction),
	}
}

// ─── Catálogo (seed + lectura) ────────────────────────────────────────────────

// SeedProduct registra un producto en el catálogo.
func (s *Store) SeedProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.products[p.ID] = &cp
}

// SeedUnit registra una unidad de un producto.
func (s *Store) SeedUnit(u entity.Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cu := u
	s.units[u.ID] = &cu
}

// FailNextCreate hace que el próximo asiento del libro falle con err (simula
// una falla de almacenamiento para probar el rollback del apply).
func (s *Store) FailNextCreate(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

func (s *Store) GetProduct(productID string) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *Store) ResolveUnit(productID, unitID string) (*entity.UnitResolution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[unitID]
	if !ok || u.ProductID != productID {
		return nil, domain.ErrUnknownUnit
	}
	return &entity.UnitResolution{
		MultiplierToBase: u.MultiplierToBase,
		Category:         u.Category,
		IsBase:           u.IsBase,
	}, nil
}

func (s *Store) ListUnits(productID string) ([]*entity.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Unit
	for _, u := range s.units {
		if u.ProductID == productID {
			cu := *u
			out = append(out, &cu)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ─── Saldos ──────────────────────────────────────────────────────────────────

func (s *Store) Get(key entity.BalanceKey) (*entity.InventoryBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(key), nil
}

// GetForUpdate en memoria equivale a Get: el mutex del Run ya serializa.
func (s *Store) GetForUpdate(key entity.BalanceKey) (*entity.InventoryBalance, error) {
	return s.Get(key)
}

func (s *Store) getLocked(key entity.BalanceKey) *entity.InventoryBalance {
	b, ok := s.balances[key]
	if !ok {
		return nil
	}
	cb := *b
	return &cb
}

// CreateIfAbsent materializa la fila del saldo en 0 si no existe.
func (s *Store) CreateIfAbsent(key entity.BalanceKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.balances[key]; ok {
		return false, nil
	}
	s.balances[key] = &entity.InventoryBalance{
		EmployeeID: key.EmployeeID,
		StoreID:    key.StoreID,
		ProductID:  key.ProductID,
		UnitID:     key.UnitID,
		Quantity:   decimal.Zero,
		UpdatedAt:  time.Now(),
	}
	return true, nil
}

func (s *Store) Upsert(balance *entity.InventoryBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cb := *balance
	s.balances[balance.Key()] = &cb
	return nil
}

func (s *Store) ListByEmployeeStore(employeeID, storeID string) ([]*entity.InventoryBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.InventoryBalance
	for _, b := range s.balances {
		if b.EmployeeID == employeeID && b.StoreID == storeID {
			cb := *b
			out = append(out, &cb)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].UnitID < out[j].UnitID
	})
	return out, nil
}

// ─── Libro de transacciones ──────────────────────────────────────────────────

func (s *Store) Create(tx *entity.StockTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}
	ct := *tx
	s.txs = append(s.txs, &ct)
	s.txByID[ct.ID] = &ct
	return nil
}

func (s *Store) GetByID(id string) (*entity.StockTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txByID[id]
	if !ok {
		return nil, nil
	}
	ct := *tx
	return &ct, nil
}

func (s *Store) List(filter repository.TransactionFilter, limit, offset int) ([]*entity.StockTransaction, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := s.filterLocked(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := make([]*entity.StockTransaction, 0, end-offset)
	for _, tx := range matched[offset:end] {
		ct := *tx
		page = append(page, &ct)
	}
	return page, total, nil
}

func (s *Store) Totals(filter repository.TransactionFilter) (*repository.TransactionTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	totals := &repository.TransactionTotals{
		Received:  decimal.Zero,
		Sold:      decimal.Zero,
		Returned:  decimal.Zero,
		NetChange: decimal.Zero,
	}
	for _, tx := range s.filterLocked(filter) {
		totals.NetChange = totals.NetChange.Add(tx.BaseUnitsDelta)
		switch tx.Type {
		case entity.TxTypeReceive, entity.TxTypeInitial:
			totals.Received = totals.Received.Add(tx.BaseUnitsDelta)
		case entity.TxTypeSale:
			totals.Sold = totals.Sold.Add(tx.BaseUnitsDelta.Abs())
		case entity.TxTypeReturn:
			totals.Returned = totals.Returned.Add(tx.BaseUnitsDelta)
		}
	}
	return totals, nil
}

func (s *Store) filterLocked(f repository.TransactionFilter) []*entity.StockTransaction {
	var out []*entity.StockTransaction
	for _, tx := range s.txs {
		if f.EmployeeID != "" && tx.EmployeeID != f.EmployeeID {
			continue
		}
		if f.StoreID != "" && tx.StoreID != f.StoreID {
			continue
		}
		if f.ProductID != "" && tx.ProductID != f.ProductID {
			continue
		}
		if f.UnitID != "" && tx.UnitID != f.UnitID {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.From != nil && tx.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && tx.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// ─── TxRunner ────────────────────────────────────────────────────────────────

// Run ejecuta fn con repos atados a una transacción en memoria: las escrituras
// quedan en un staging y se fusionan solo si fn retorna nil (Commit); si falla,
// se descartan (Rollback). Un mutex aparte serializa los Run entre goroutines
// para reproducir la semántica de los bloqueos de fila.
func (s *Store) Run(_ context.Context, fn func(
	balanceRepo repository.BalanceRepository,
	txRepo repository.StockTransactionRepository,
) error) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	tx := &memTx{store: s, balances: make(map[entity.BalanceKey]*entity.InventoryBalance)}
	if err := fn(&txBalanceRepo{tx}, &txLedgerRepo{tx}); err != nil {
		return err
	}
	return tx.commit()
}

// memTx staging de una transacción en memoria.
type memTx struct {
	store    *Store
	balances map[entity.BalanceKey]*entity.InventoryBalance
	appended []*entity.StockTransaction
}

func (t *memTx) commit() error {
	for _, tx := range t.appended {
		if err := t.store.Create(tx); err != nil {
			return err
		}
	}
	for _, b := range t.balances {
		if err := t.store.Upsert(b); err != nil {
			return err
		}
	}
	return nil
}

type txBalanceRepo struct{ tx *memTx }

func (r *txBalanceRepo) Get(key entity.BalanceKey) (*entity.InventoryBalance, error) {
	if b, ok := r.tx.balances[key]; ok {
		cb := *b
		return &cb, nil
	}
	return r.tx.store.Get(key)
}

func (r *txBalanceRepo) GetForUpdate(key entity.BalanceKey) (*entity.InventoryBalance, error) {
	return r.Get(key)
}

func (r *txBalanceRepo) CreateIfAbsent(key entity.BalanceKey) (bool, error) {
	if _, ok := r.tx.balances[key]; ok {
		return false, nil
	}
	if b, err := r.tx.store.Get(key); err != nil || b != nil {
		return false, err
	}
	r.tx.balances[key] = &entity.InventoryBalance{
		EmployeeID: key.EmployeeID,
		StoreID:    key.StoreID,
		ProductID:  key.ProductID,
		UnitID:     key.UnitID,
		Quantity:   decimal.Zero,
		UpdatedAt:  time.Now(),
	}
	return true, nil
}

func (r *txBalanceRepo) Upsert(balance *entity.InventoryBalance) error {
	cb := *balance
	r.tx.balances[balance.Key()] = &cb
	return nil
}

func (r *txBalanceRepo) ListByEmployeeStore(employeeID, storeID string) ([]*entity.InventoryBalance, error) {
	return r.tx.store.ListByEmployeeStore(employeeID, storeID)
}

type txLedgerRepo struct{ tx *memTx }

func (r *txLedgerRepo) Create(tx *entity.StockTransaction) error {
	ct := *tx
	r.tx.appended = append(r.tx.appended, &ct)
	return nil
}

func (r *txLedgerRepo) GetByID(id string) (*entity.StockTransaction, error) {
	return r.tx.store.GetByID(id)
}

func (r *txLedgerRepo) List(filter repository.TransactionFilter, limit, offset int) ([]*entity.StockTransaction, int, error) {
	return r.tx.store.List(filter, limit, offset)
}

func (r *txLedgerRepo) Totals(filter repository.TransactionFilter) (*repository.TransactionTotals, error) {
	return r.tx.store.Totals(filter)
}
