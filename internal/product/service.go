package product

type Service struct {
	repo Repository
}

// ServiceInterface lets other handlers depend on product lookups without
// binding to the concrete service.
type ServiceInterface interface {
	List() []Product
	GetByID(id int) (Product, error)
	ListByIDs(ids []int) ([]Product, error)
	GroupMOQs(codes []string) (map[string]int, error)
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() []Product {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListByIDs(ids []int) ([]Product, error) {
	return s.repo.ListByIDs(ids)
}

func (s *Service) GetGroup(code string) (Group, error) {
	return s.repo.GetGroup(code)
}

func (s *Service) GroupMOQs(codes []string) (map[string]int, error) {
	return s.repo.GroupMOQs(codes)
}
