package service

import (
	"context"
	"errors"
	"strings"

	"gamecatalog/backend/internal/hub"
	"gamecatalog/backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Publisher receives catalog change events. *hub.Hub implements it.
type Publisher interface {
	Broadcast(topic string, event hub.Event)
}

type noopPublisher struct{}

func (noopPublisher) Broadcast(string, hub.Event) {}

// CategoryService owns every category lookup and write.
type CategoryService struct {
	db     *gorm.DB
	log    logrus.FieldLogger
	events Publisher
}

// NewCategoryService wires a CategoryService. log and events may be nil.
func NewCategoryService(db *gorm.DB, log logrus.FieldLogger, events Publisher) *CategoryService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if events == nil {
		events = noopPublisher{}
	}
	return &CategoryService{
		db:     db,
		log:    log.WithField("service", "category"),
		events: events,
	}
}

// FindAll returns every category ordered by id.
func (s *CategoryService) FindAll(ctx context.Context) ([]models.Category, error) {
	s.log.Info("Fetching all categories.")

	categories := []models.Category{}
	if err := s.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		s.log.WithError(err).Error("Error fetching categories.")
		return nil, storeError(err, "could not fetch categories")
	}

	if len(categories) == 0 {
		s.log.Warn("No categories found.")
	}

	s.log.WithField("count", len(categories)).Info("Categories fetched.")
	return categories, nil
}

// FindByID returns the category with the given id.
func (s *CategoryService) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	log := s.log.WithField("id", id)
	log.Info("Fetching category.")

	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Category not found.")
			return nil, notFound("category with ID %d not found", id)
		}
		log.WithError(err).Error("Error fetching category.")
		return nil, storeError(err, "could not fetch category")
	}

	log.Info("Category fetched.")
	return &category, nil
}

// FindByName returns the category whose name contains name, ignoring case.
// When several match, the one with the lowest id wins.
func (s *CategoryService) FindByName(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	log := s.log.WithField("name", name)
	if name == "" {
		log.Warn("Empty category name.")
		return nil, badRequest("category name must not be empty")
	}
	log.Info("Fetching category by name.")

	var category models.Category
	err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%").
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Category not found.")
			return nil, notFound("category with name %q not found", name)
		}
		log.WithError(err).Error("Error fetching category by name.")
		return nil, storeError(err, "could not fetch category")
	}

	log.WithField("id", category.ID).Info("Category fetched.")
	return &category, nil
}

// Create stores a new category. Names are unique.
func (s *CategoryService) Create(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	log := s.log.WithField("name", name)
	if name == "" {
		log.Warn("Empty category name.")
		return nil, badRequest("category name must not be empty")
	}
	log.Info("Creating category.")

	taken, err := s.nameTaken(ctx, name, 0)
	if err != nil {
		log.WithError(err).Error("Error checking category name.")
		return nil, err
	}
	if taken {
		log.Warn("Category already exists.")
		return nil, conflict("category with name %q already exists", name)
	}

	category := models.Category{Name: name, Description: input.Description}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		// The unique index catches a concurrent insert of the same name.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Warn("Category already exists.")
			return nil, conflict("category with name %q already exists", name)
		}
		log.WithError(err).Error("Error creating category.")
		return nil, storeError(err, "could not create category")
	}

	log.WithField("id", category.ID).Info("Category created.")
	s.events.Broadcast(hub.TopicCategory, hub.Event{Type: "category.created", Payload: category})
	return &category, nil
}

// Update merges the non-nil fields of input into the category input.ID.
func (s *CategoryService) Update(ctx context.Context, input UpdateCategoryInput) (*models.Category, error) {
	if input.ID == 0 {
		s.log.Warn("Category update without id.")
		return nil, badRequest("category id is required")
	}
	log := s.log.WithField("id", input.ID)
	log.Info("Updating category.")

	category, err := s.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, badRequest("category name must not be empty")
		}
		if name != category.Name {
			taken, err := s.nameTaken(ctx, name, category.ID)
			if err != nil {
				log.WithError(err).Error("Error checking category name.")
				return nil, err
			}
			if taken {
				log.WithField("name", name).Warn("Category name already in use.")
				return nil, conflict("category with name %q already exists", name)
			}
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}

	if len(updates) > 0 {
		err := s.db.WithContext(ctx).Model(&models.Category{ID: category.ID}).Updates(updates).Error
		if err != nil {
			log.WithError(err).Error("Error updating category.")
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, conflict("category with name %q already exists", updates["name"])
			}
			return nil, storeError(err, "could not update category")
		}
	}

	updated, err := s.FindByID(ctx, category.ID)
	if err != nil {
		return nil, err
	}

	log.Info("Category updated.")
	s.events.Broadcast(hub.TopicCategory, hub.Event{Type: "category.updated", Payload: updated})
	return updated, nil
}

// Delete removes the category id. Categories that still own games are kept.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	log := s.log.WithField("id", id)
	log.Info("Deleting category.")

	var games int64
	if err := s.db.WithContext(ctx).Model(&models.Game{}).Where("category_id = ?", id).Count(&games).Error; err != nil {
		log.WithError(err).Error("Error counting games of category.")
		return storeError(err, "could not delete category")
	}
	if games > 0 {
		log.WithField("games", games).Warn("Category still has games.")
		return conflict("category with ID %d still has %d games", id, games)
	}

	result := s.db.WithContext(ctx).Delete(&models.Category{}, id)
	if err := result.Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			log.Warn("Category still has games.")
			return conflict("category with ID %d still has games", id)
		}
		log.WithError(err).Error("Error deleting category.")
		return storeError(err, "could not delete category")
	}
	if result.RowsAffected == 0 {
		log.Warn("Category not found for deletion.")
		return notFound("category with ID %d not found", id)
	}

	log.Info("Category deleted.")
	s.events.Broadcast(hub.TopicCategory, hub.Event{Type: "category.deleted", Payload: map[string]uint{"id": id}})
	return nil
}

func (s *CategoryService) nameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.Category{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, storeError(err, "could not check category name")
	}
	return count > 0, nil
}
