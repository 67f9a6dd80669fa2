package service

import (
	"context"
	"errors"
	"strings"

	"gamecatalog/backend/internal/hub"
	"gamecatalog/backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GameService owns game lookups and writes. Category lookups go through
// CategoryService so name matching and existence checks stay in one place.
type GameService struct {
	db         *gorm.DB
	categories *CategoryService
	log        logrus.FieldLogger
	events     Publisher
}

// NewGameService wires a GameService. log and events may be nil.
func NewGameService(db *gorm.DB, categories *CategoryService, log logrus.FieldLogger, events Publisher) *GameService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if events == nil {
		events = noopPublisher{}
	}
	return &GameService{
		db:         db,
		categories: categories,
		log:        log.WithField("service", "game"),
		events:     events,
	}
}

func (s *GameService) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Category")
}

// FindAll returns every game with its category, ordered by id.
func (s *GameService) FindAll(ctx context.Context) ([]models.Game, error) {
	s.log.Info("Fetching all games.")

	games := []models.Game{}
	if err := s.query(ctx).Order("id").Find(&games).Error; err != nil {
		s.log.WithError(err).Error("Error fetching games.")
		return nil, storeError(err, "could not fetch games")
	}

	if len(games) == 0 {
		s.log.Warn("No games found.")
	}

	s.log.WithField("count", len(games)).Info("Games fetched.")
	return games, nil
}

// FindByID returns the game with the given id and its category.
func (s *GameService) FindByID(ctx context.Context, id uint) (*models.Game, error) {
	log := s.log.WithField("id", id)
	log.Info("Fetching game.")

	var game models.Game
	if err := s.query(ctx).First(&game, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Game not found.")
			return nil, notFound("game with ID %d not found", id)
		}
		log.WithError(err).Error("Error fetching game.")
		return nil, storeError(err, "could not fetch game")
	}

	log.Info("Game fetched.")
	return &game, nil
}

// FindByCategoryName returns the games of the category matched by
// CategoryService.FindByName.
func (s *GameService) FindByCategoryName(ctx context.Context, name string) ([]models.Game, error) {
	s.log.WithField("category", name).Info("Fetching games by category name.")

	category, err := s.categories.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.findByCategory(ctx, category.ID)
}

// FindByCategoryID returns the games of an existing category.
func (s *GameService) FindByCategoryID(ctx context.Context, categoryID uint) ([]models.Game, error) {
	s.log.WithField("category_id", categoryID).Info("Fetching games by category id.")

	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return s.findByCategory(ctx, category.ID)
}

func (s *GameService) findByCategory(ctx context.Context, categoryID uint) ([]models.Game, error) {
	log := s.log.WithField("category_id", categoryID)

	games := []models.Game{}
	if err := s.query(ctx).Where("category_id = ?", categoryID).Order("id").Find(&games).Error; err != nil {
		log.WithError(err).Error("Error fetching games of category.")
		return nil, storeError(err, "could not fetch games")
	}

	if len(games) == 0 {
		log.Warn("No games found for category.")
	}
	log.WithField("count", len(games)).Info("Games fetched for category.")
	return games, nil
}

// Create stores a new game. The referenced category must exist.
func (s *GameService) Create(ctx context.Context, input CreateGameInput) (*models.Game, error) {
	log := s.log.WithField("title", input.Title)
	log.Info("Creating game.")

	title := strings.TrimSpace(input.Title)
	developer := strings.TrimSpace(input.Developer)
	switch {
	case title == "":
		return nil, badRequest("title is required")
	case developer == "":
		return nil, badRequest("developer is required")
	case input.Price == nil:
		return nil, badRequest("price is required")
	case input.ReleaseDate == nil || input.ReleaseDate.IsZero():
		return nil, badRequest("releaseDate is required")
	case input.Category == nil || input.Category.ID == 0:
		return nil, badRequest("category id is required")
	}
	if err := validatePriceAndRating(input.Price, input.Rating); err != nil {
		log.WithError(err).Warn("Invalid game.")
		return nil, err
	}

	category, err := s.resolveCategory(ctx, input.Category.ID)
	if err != nil {
		return nil, err
	}

	game := models.Game{
		Title:       title,
		Description: input.Description,
		Price:       *input.Price,
		Developer:   developer,
		ReleaseDate: input.ReleaseDate.Time,
		Rating:      input.Rating,
		CategoryID:  &category.ID,
	}
	if err := s.db.WithContext(ctx).Create(&game).Error; err != nil {
		log.WithError(err).Error("Error creating game.")
		return nil, storeError(err, "could not create game")
	}
	game.Category = category

	log.WithField("id", game.ID).Info("Game created.")
	s.events.Broadcast(hub.TopicGame, hub.Event{Type: "game.created", Payload: game})
	return &game, nil
}

// Update applies the non-nil fields of input to game id and returns the
// re-fetched row.
func (s *GameService) Update(ctx context.Context, id uint, input UpdateGameInput) (*models.Game, error) {
	log := s.log.WithField("id", id)
	log.Info("Updating game.")

	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}

	if err := validatePriceAndRating(input.Price, input.Rating); err != nil {
		log.WithError(err).Warn("Invalid game update.")
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, badRequest("title must not be empty")
		}
		updates["title"] = title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.Developer != nil {
		developer := strings.TrimSpace(*input.Developer)
		if developer == "" {
			return nil, badRequest("developer must not be empty")
		}
		updates["developer"] = developer
	}
	if input.ReleaseDate != nil && !input.ReleaseDate.IsZero() {
		updates["release_date"] = input.ReleaseDate.Time
	}
	if input.Rating != nil {
		updates["rating"] = *input.Rating
	}
	if input.Category != nil {
		category, err := s.resolveCategory(ctx, input.Category.ID)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = category.ID
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Game{ID: id}).Updates(updates).Error; err != nil {
			log.WithError(err).Error("Error updating game.")
			return nil, storeError(err, "could not update game")
		}
	}

	game, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Info("Game updated.")
	s.events.Broadcast(hub.TopicGame, hub.Event{Type: "game.updated", Payload: game})
	return game, nil
}

// Delete removes game id.
func (s *GameService) Delete(ctx context.Context, id uint) error {
	log := s.log.WithField("id", id)
	log.Info("Deleting game.")

	result := s.db.WithContext(ctx).Delete(&models.Game{}, id)
	if err := result.Error; err != nil {
		log.WithError(err).Error("Error deleting game.")
		return storeError(err, "could not delete game")
	}
	if result.RowsAffected == 0 {
		log.Warn("Game not found for deletion.")
		return notFound("game with ID %d not found", id)
	}

	log.Info("Game deleted.")
	s.events.Broadcast(hub.TopicGame, hub.Event{Type: "game.deleted", Payload: map[string]uint{"id": id}})
	return nil
}

// resolveCategory turns a missing category into an invalid reference rather
// than a not-found on the game itself.
func (s *GameService) resolveCategory(ctx context.Context, categoryID uint) (*models.Category, error) {
	if categoryID == 0 {
		return nil, badRequest("category id is required")
	}
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.WithField("category_id", categoryID).Warn("Game references a missing category.")
			return nil, invalidReference("category with ID %d does not exist", categoryID)
		}
		return nil, err
	}
	return category, nil
}

func validatePriceAndRating(price *decimal.Decimal, rating *float64) error {
	if price != nil && price.IsNegative() {
		return badRequest("price must not be negative")
	}
	if rating != nil && (*rating < 0 || *rating > 10) {
		return badRequest("rating must be between 0 and 10")
	}
	return nil
}
