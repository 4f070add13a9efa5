package pgstore

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

const customerMatch = "name ILIKE @term OR tin ILIKE @term OR contact_name ILIKE @term OR email ILIKE @term"

func refs(rows []customerModel) []domain.CustomerRef {
	out := make([]domain.CustomerRef, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.CustomerRef{ID: r.ID, Name: r.Name, TIN: r.TIN})
	}
	return out
}

// ListCustomers implements service.CustomerStore.
func (s *Store) ListCustomers(ctx context.Context, limit int) ([]domain.CustomerRef, error) {
	var rows []customerModel
	err := s.db.WithContext(ctx).Select("id", "name", "tin").Order("name").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "pgstore: list customers")
	}
	return refs(rows), nil
}

// SearchCustomers implements service.CustomerStore.
func (s *Store) SearchCustomers(ctx context.Context, term string, offset, limit int) ([]domain.CustomerRef, int, error) {
	named := map[string]any{"term": "%" + term + "%"}
	base := s.db.WithContext(ctx).Model(&customerModel{}).Where(customerMatch, named)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "pgstore: count customers")
	}

	var rows []customerModel
	err := base.Session(&gorm.Session{}).
		Select("id", "name", "tin").
		Order("name, id").
		Offset(offset).
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "pgstore: search customers")
	}
	return refs(rows), int(total), nil
}

// GetCustomer implements service.CustomerStore.
func (s *Store) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var rows []customerRow
	err := s.db.WithContext(ctx).
		Table("customers c").
		Select("c.*, COALESCE(p.name, '') AS parent_name").
		Joins("LEFT JOIN customers p ON p.id = c.parent_customer_id").
		Where("c.id = ?", id).
		Limit(1).
		Scan(&rows).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "pgstore: get customer")
	}
	if len(rows) == 0 {
		return nil, domain.ErrRecordNotFound
	}
	return rows[0].toDomain(), nil
}

// ListChildren implements service.CustomerStore.
func (s *Store) ListChildren(ctx context.Context, parentID int64) ([]domain.CustomerRef, error) {
	var rows []customerModel
	err := s.db.WithContext(ctx).
		Select("id", "name", "tin").
		Where("parent_customer_id = ?", parentID).
		Order("name").
		Find(&rows).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "pgstore: list children")
	}
	return refs(rows), nil
}

// CustomerExists implements service.CustomerStore.
func (s *Store) CustomerExists(ctx context.Context, name, tin string, excludeID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&customerModel{}).
		Where("(name = ? OR tin = ?) AND id <> ?", name, tin, excludeID).
		Count(&count).
		Error
	if err != nil {
		return false, errors.Wrap(err, "pgstore: check customer")
	}
	return count > 0, nil
}

// CreateCustomer implements service.CustomerStore.
func (s *Store) CreateCustomer(ctx context.Context, c *domain.Customer) (int64, error) {
	row := customerModelFromDomain(c)
	row.ID = 0
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, errors.Wrap(err, "pgstore: create customer")
	}
	return row.ID, nil
}

// UpdateCustomer implements service.CustomerStore.
func (s *Store) UpdateCustomer(ctx context.Context, c *domain.Customer) error {
	result := s.db.WithContext(ctx).Model(&customerModel{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"name":               c.Name,
			"tin":                c.TIN,
			"contact_name":       c.ContactName,
			"email":              c.Email,
			"phone":              c.Phone,
			"address":            c.Address,
			"parent_customer_id": c.ParentCustomerID,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "pgstore: update customer")
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotModified
	}
	return nil
}

// DeleteCustomer implements service.CustomerStore.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&customerModel{})
		if result.Error != nil {
			return errors.Wrap(result.Error, "pgstore: delete customer")
		}
		if result.RowsAffected == 0 {
			return domain.ErrRecordNotFound
		}
		err := tx.Model(&customerModel{}).
			Where("parent_customer_id = ?", id).
			Update("parent_customer_id", 0).
			Error
		return errors.Wrap(err, "pgstore: detach children")
	})
}

// ListCountries implements service.CountryStore.
func (s *Store) ListCountries(ctx context.Context) ([]domain.Country, error) {
	var rows []countryModel
	if err := s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "pgstore: list countries")
	}
	out := make([]domain.Country, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Country{ID: r.ID, Code: r.Code, Name: r.Name})
	}
	return out, nil
}

// ListStates implements service.CountryStore.
func (s *Store) ListStates(ctx context.Context, countryCode string) ([]domain.State, error) {
	var rows []stateModel
	err := s.db.WithContext(ctx).
		Table("states s").
		Select("s.*").
		Joins("JOIN countries c ON c.id = s.country_id").
		Where("c.code = ?", countryCode).
		Order("s.name").
		Scan(&rows).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "pgstore: list states")
	}
	out := make([]domain.State, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.State{ID: r.ID, CountryID: r.CountryID, Code: r.Code, Name: r.Name})
	}
	return out, nil
}

// ListPhrases implements service.PhraseStore.
func (s *Store) ListPhrases(ctx context.Context, lang string) ([]domain.Phrase, error) {
	var rows []phraseModel
	if err := s.db.WithContext(ctx).Where("lang_code = ?", lang).Order("var_name").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "pgstore: list phrases")
	}
	out := make([]domain.Phrase, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Phrase{VarName: r.VarName, Lang: r.LangCode, Value: r.Value})
	}
	return out, nil
}

// FindPhrase implements service.PhraseStore.
func (s *Store) FindPhrase(ctx context.Context, varName, lang string) (*domain.Phrase, error) {
	var row phraseModel
	err := s.db.WithContext(ctx).Where("var_name = ? AND lang_code = ?", varName, lang).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, errors.Wrap(err, "pgstore: find phrase")
	}
	return &domain.Phrase{VarName: row.VarName, Lang: row.LangCode, Value: row.Value}, nil
}

// AddPhrase implements service.PhraseStore.
func (s *Store) AddPhrase(ctx context.Context, p *domain.Phrase) error {
	row := phraseModel{VarName: p.VarName, LangCode: p.Lang, Value: p.Value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "var_name"}, {Name: "lang_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&row).Error
	return errors.Wrap(err, "pgstore: add phrase")
}
