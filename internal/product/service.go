package product

import "time"

// ServiceInterface lets the cart and order packages depend on products
// without pulling in concrete wiring in tests.
type ServiceInterface interface {
	List() ([]Product, error)
	GetByID(id int) (Product, error)
	ListByIDs(ids []int) ([]Product, error)
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)
	Delete(id int) error
}

type Service struct {
	repo            Repository
	defaultCategory string
}

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, defaultCategory string) *Service {
	return &Service{repo: repo, defaultCategory: defaultCategory}
}

func (s *Service) List() ([]Product, error) {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListByIDs(ids []int) ([]Product, error) {
	return s.repo.ListByIDs(ids)
}

func (s *Service) Create(p Product) (Product, error) {
	if p.Category == "" {
		p.Category = s.defaultCategory
	}
	if p.StockQuantity < 0 {
		p.StockQuantity = 0
	}
	now := time.Now().UTC().Format(time.RFC3339)
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.repo.Create(p)
}

func (s *Service) Update(id int, p Product) (Product, error) {
	if p.Category == "" {
		p.Category = s.defaultCategory
	}
	p.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.Update(id, p)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}
