package repotest

import (
	"context"
	"sort"

	"github.com/Syarif-H55/smart-cashier/internal/domain/model"
	repo "github.com/Syarif-H55/smart-cashier/internal/repository"
)

type menuRepo struct {
	s *Store
}

func (r *menuRepo) ListAvailable(context.Context) ([]model.Menu, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailReads {
		return nil, ErrInjected
	}
	out := []model.Menu{}
	for _, row := range r.s.menus {
		if !row.deleted && row.menu.IsAvailable {
			out = append(out, row.menu)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *menuRepo) FindAvailableByID(ctx context.Context, id int64) (model.Menu, error) {
	m, err := r.FindByID(ctx, id)
	if err != nil {
		return model.Menu{}, err
	}
	if !m.IsAvailable {
		return model.Menu{}, repo.ErrNotFound
	}
	return m, nil
}

func (r *menuRepo) FindByID(_ context.Context, id int64) (model.Menu, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailReads {
		return model.Menu{}, ErrInjected
	}
	row, ok := r.s.menus[id]
	if !ok || row.deleted {
		return model.Menu{}, repo.ErrNotFound
	}
	return row.menu, nil
}

func (r *menuRepo) Create(_ context.Context, m model.Menu) (model.Menu, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextMenuID++
	m.ID = r.s.nextMenuID
	r.s.menus[m.ID] = menuRow{menu: m}
	return m, nil
}

func (r *menuRepo) UpdateAvailability(_ context.Context, id int64, isAvailable bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.menus[id]
	if !ok || row.deleted {
		return repo.ErrNotFound
	}
	row.menu.IsAvailable = isAvailable
	r.s.menus[id] = row
	return nil
}

func (r *menuRepo) SoftDelete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.menus[id]
	if !ok || row.deleted {
		return repo.ErrNotFound
	}
	row.deleted = true
	r.s.menus[id] = row
	return nil
}
