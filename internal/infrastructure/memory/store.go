// Package memory implementa los repositorios en memoria que respaldan los tests
// de casos de uso y de la API HTTP. cmd/api siempre usa PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stockpilot-api/internal/application/sales"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/domain/repository"
)

var _ sales.SalesTxRunner = (*Store)(nil)

// Store guarda todas las entidades en mapas protegidos por mu.
// txMu serializa las unidades de trabajo de ventas, equivalente al FOR UPDATE de PostgreSQL.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	products     map[string]entity.Product
	sales        map[string]entity.Sale
	transactions []entity.Transaction
	users        map[string]entity.User
	customers    map[string]entity.Customer
	suppliers    map[string]entity.Supplier
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:     make(map[string]entity.Product),
		sales:        make(map[string]entity.Sale),
		transactions: make([]entity.Transaction, 0, 64),
		users:        make(map[string]entity.User),
		customers:    make(map[string]entity.Customer),
		suppliers:    make(map[string]entity.Supplier),
	}
}

// unitOfWork acumula deshacer por cada escritura hecha dentro de RunSales.
type unitOfWork struct {
	undo []func()
}

func (u *unitOfWork) record(fn func()) {
	if u != nil {
		u.undo = append(u.undo, fn)
	}
}

// RunSales ejecuta fn con repos atados a una unidad de trabajo. Si fn falla se deshacen sus escrituras en orden inverso.
func (s *Store) RunSales(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	ledgerRepo repository.TransactionRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	uow := &unitOfWork{}
	err := fn(
		&ProductRepository{s: s, uow: uow},
		&SaleRepository{s: s, uow: uow},
		&TransactionRepository{s: s, uow: uow},
	)
	if err != nil {
		s.mu.Lock()
		for i := len(uow.undo) - 1; i >= 0; i-- {
			uow.undo[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// Products repo fuera de transacción.
func (s *Store) Products() *ProductRepository { return &ProductRepository{s: s} }

// Sales repo fuera de transacción.
func (s *Store) Sales() *SaleRepository { return &SaleRepository{s: s} }

// Transactions repo del libro fuera de transacción.
func (s *Store) Transactions() *TransactionRepository { return &TransactionRepository{s: s} }

// Users repo de usuarios.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Customers repo de clientes.
func (s *Store) Customers() *CustomerRepository { return &CustomerRepository{s: s} }

// Suppliers repo de proveedores.
func (s *Store) Suppliers() *SupplierRepository { return &SupplierRepository{s: s} }

func page[T any](in []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(in) {
		return []T{}
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
