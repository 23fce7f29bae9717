package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "finpanel/internal/errors"
	"finpanel/internal/models"
	"finpanel/internal/pagination"
)

// categoryService handles category-related business logic, including the
// keyword matcher used for auto-tagging.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category. Names are unique; a duplicate is
// rejected.
func (s *categoryService) CreateCategory(name, keywords string, parentID *uint) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrCategoryExists
	}

	// A supplied parent must exist. The hierarchy is stored, never enforced
	// beyond that.
	if parentID != nil {
		var parent models.Category
		if err := s.db.First(&parent, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	category := &models.Category{
		Name:     name,
		Keywords: keywords,
		ParentID: parentID,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetCategories retrieves a paginated list of categories in ID order.
func (s *categoryService) GetCategories(page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Category{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Order("id").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category by ID.
func (s *categoryService) GetCategoryByID(categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// GetCategoryByName retrieves a category by exact, case-sensitive name.
// (nil, nil) means no such category.
func (s *categoryService) GetCategoryByName(name string) (*models.Category, error) {
	return findByName(s.db, name)
}

func findByName(db *gorm.DB, name string) (*models.Category, error) {
	var category models.Category
	if err := db.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// DeleteCategory removes a category and nulls the reference on dependent
// transactions and goals. Dependents are never deleted.
func (s *categoryService) DeleteCategory(categoryID uint) error {
	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("category_id = ?", categoryID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Goal{}).
			Where("category_id = ?", categoryID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Match resolves a description to a category. An explicit name wins via
// exact lookup; otherwise the first category (in ID order) with any keyword
// appearing as a case-insensitive substring of the description is returned.
// (nil, nil) means no match.
func (s *categoryService) Match(description, explicitName string) (*models.Category, error) {
	return s.MatchWith(s.db, description, explicitName)
}

// MatchWith runs the same resolution on a caller-supplied session. The
// importer passes its open transaction here so every read and write of one
// import shares a single session.
func (s *categoryService) MatchWith(db *gorm.DB, description, explicitName string) (*models.Category, error) {
	if explicitName != "" {
		category, err := findByName(db, explicitName)
		if err != nil {
			return nil, err
		}
		if category != nil {
			return category, nil
		}
	}
	return findByKeyword(db, description)
}

// findByKeyword scans all categories and returns the first whose any keyword
// token matches the description. No scoring or ranking: first match wins.
// O(categories x keywords) per call, acceptable for small category sets.
func findByKeyword(db *gorm.DB, description string) (*models.Category, error) {
	var categories []models.Category
	if err := db.Order("id").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	descriptionLower := strings.ToLower(description)
	for i := range categories {
		if categories[i].Keywords == "" {
			continue
		}
		for _, kw := range splitKeywords(categories[i].Keywords) {
			if kw != "" && strings.Contains(descriptionLower, kw) {
				return &categories[i], nil
			}
		}
	}
	return nil, nil
}

// splitKeywords tokenizes a keywords field on ';' or ',', trimming and
// lowercasing each token.
func splitKeywords(keywords string) []string {
	raw := strings.FieldsFunc(keywords, func(r rune) bool {
		return r == ';' || r == ','
	})
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		tokens = append(tokens, strings.ToLower(strings.TrimSpace(t)))
	}
	return tokens
}
