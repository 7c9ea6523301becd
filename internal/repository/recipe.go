package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodies-app/backend/internal/models"
)

// RecipeRepository composes the recipe listing queries: filtered search with
// pagination and sorting, the raw-SQL popularity ranking, favorite listings,
// and the grouped aggregations the follower pages need. It is constructed
// once at process start and shared by the services.
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new RecipeRepository instance
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// RecipePreview is the shape embedded in follower/following listings.
type RecipePreview struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	ThumbURL string    `json:"thumbUrl"`
	OwnerID  uuid.UUID `json:"-"`
}

// Search returns one page of recipes matching the filter, fully joined with
// owner, category, area and ingredients, plus the total count of the
// filtered set. An empty result is (nil, 0, nil), never an error.
func (r *RecipeRepository) Search(ctx context.Context, filter RecipeFilter, page Pagination, sort Sort) ([]models.Recipe, int64, error) {
	page = page.Normalize()

	// Popularity is a derived aggregate absent from the recipe row, so it
	// takes a different query strategy behind the same contract.
	if sort.Field == SortByPopularity {
		return r.searchByPopularity(ctx, filter, page)
	}

	var total int64
	if err := r.filtered(ctx, filter).Distinct("recipes.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := r.filtered(ctx, filter).
		Distinct("recipes.*").
		Order(orderClause(sort)).
		Limit(page.Limit).
		Offset(page.Offset()).
		Preload("Owner").
		Preload("Category").
		Preload("Area").
		Preload("Ingredients", preloadEdgeOrder).
		Preload("Ingredients.Ingredient").
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// GetByID fetches one recipe with all relations.
func (r *RecipeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Category").
		Preload("Area").
		Preload("Ingredients", preloadEdgeOrder).
		Preload("Ingredients.Ingredient").
		First(&recipe, "recipes.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ListFavorites returns one page of the recipes a user has favorited,
// ordered by when the favorite edge was created, newest first.
func (r *RecipeRepository) ListFavorites(ctx context.Context, userID uuid.UUID, page Pagination) ([]models.Recipe, int64, error) {
	page = page.Normalize()

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.Recipe{}).
			Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
			Where("favorites.user_id = ?", userID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := base().
		Select("recipes.*").
		Order("favorites.created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Preload("Owner").
		Preload("Category").
		Preload("Area").
		Preload("Ingredients", preloadEdgeOrder).
		Preload("Ingredients.Ingredient").
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// CountByOwners returns the recipe count per owner as one grouped query.
func (r *RecipeRepository) CountByOwners(ctx context.Context, ownerIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		OwnerID uuid.UUID
		Total   int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("owner_id, COUNT(*) AS total").
		Where("owner_id IN ?", ownerIDs).
		Group("owner_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.OwnerID] = row.Total
	}
	return counts, nil
}

// LatestByOwners returns up to n most recent recipe previews per owner,
// resolved in a single window-function query rather than one per owner.
func (r *RecipeRepository) LatestByOwners(ctx context.Context, ownerIDs []uuid.UUID, n int) (map[uuid.UUID][]RecipePreview, error) {
	previews := make(map[uuid.UUID][]RecipePreview, len(ownerIDs))
	if len(ownerIDs) == 0 || n < 1 {
		return previews, nil
	}

	var rows []RecipePreview
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, title, thumb_url, owner_id FROM (
			SELECT r.id, r.title, r.thumb_url, r.owner_id,
			       ROW_NUMBER() OVER (PARTITION BY r.owner_id ORDER BY r.created_at DESC) AS rn
			FROM recipes r
			WHERE r.owner_id IN (?)
		) ranked
		WHERE rn <= ?
		ORDER BY owner_id, rn`, ownerIDs, n).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		previews[row.OwnerID] = append(previews[row.OwnerID], row)
	}
	return previews, nil
}

// filtered builds the declarative-join query used by the standard sort
// fields. The ingredient filter joins through the junction table, which
// fans out rows; callers must count and select distinct.
func (r *RecipeRepository) filtered(ctx context.Context, filter RecipeFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Recipe{})
	if filter.OwnerID != nil {
		q = q.Where("recipes.owner_id = ?", *filter.OwnerID)
	}
	if filter.CategoryID != nil {
		q = q.Where("recipes.category_id = ?", *filter.CategoryID)
	}
	if filter.AreaID != nil {
		q = q.Where("recipes.area_id = ?", *filter.AreaID)
	}
	if filter.Ingredient != "" {
		q = q.Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
			Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
			Where("LOWER(ingredients.name) LIKE ?", "%"+strings.ToLower(filter.Ingredient)+"%")
	}
	return q
}

// searchByPopularity ranks recipes by favorite-edge count. The ranking is a
// raw aggregation: a first query pages through recipe IDs ordered by count
// (recipe id breaks ties), a second re-fetches that page with full joins
// preserving rank order, and a third counts the filtered set without the
// aggregation.
func (r *RecipeRepository) searchByPopularity(ctx context.Context, filter RecipeFilter, page Pagination) ([]models.Recipe, int64, error) {
	conditions, args := popularityConditions(filter)
	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var ranked []struct{ ID uuid.UUID }
	idQuery := fmt.Sprintf(`
		SELECT r.id
		FROM recipes r
		LEFT JOIN favorites f ON f.recipe_id = r.id
		%s
		GROUP BY r.id
		ORDER BY COUNT(f.id) DESC, r.id ASC
		LIMIT ? OFFSET ?`, whereClause)
	idArgs := append(append([]interface{}{}, args...), page.Limit, page.Offset())
	if err := r.db.WithContext(ctx).Raw(idQuery, idArgs...).Scan(&ranked).Error; err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM recipes r %s`, whereClause)
	if err := r.db.WithContext(ctx).Raw(countQuery, args...).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	if len(ranked) == 0 {
		return nil, total, nil
	}

	ids := make([]uuid.UUID, len(ranked))
	rank := make(map[uuid.UUID]int, len(ranked))
	for i, row := range ranked {
		ids[i] = row.ID
		rank[row.ID] = i
	}

	var fetched []models.Recipe
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Category").
		Preload("Area").
		Preload("Ingredients", preloadEdgeOrder).
		Preload("Ingredients.Ingredient").
		Where("recipes.id IN ?", ids).
		Find(&fetched).Error
	if err != nil {
		return nil, 0, err
	}

	recipes := make([]models.Recipe, len(fetched))
	for _, recipe := range fetched {
		recipes[rank[recipe.ID]] = recipe
	}
	return recipes, total, nil
}

// popularityConditions expresses the search filters as raw WHERE fragments.
// The ingredient filter becomes an EXISTS subquery against the junction
// table, since the ranking query must not fan out its grouped rows.
func popularityConditions(filter RecipeFilter) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.OwnerID != nil {
		conditions = append(conditions, "r.owner_id = ?")
		args = append(args, *filter.OwnerID)
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, "r.category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.AreaID != nil {
		conditions = append(conditions, "r.area_id = ?")
		args = append(args, *filter.AreaID)
	}
	if filter.Ingredient != "" {
		conditions = append(conditions, `EXISTS (
			SELECT 1 FROM recipe_ingredients ri
			JOIN ingredients i ON i.id = ri.ingredient_id
			WHERE ri.recipe_id = r.id AND LOWER(i.name) LIKE ?)`)
		args = append(args, "%"+strings.ToLower(filter.Ingredient)+"%")
	}
	return conditions, args
}

func orderClause(sort Sort) string {
	column := "recipes.created_at"
	switch sort.Field {
	case SortByTitle:
		column = "recipes.title"
	case SortByTime:
		column = "recipes.time"
	}
	return fmt.Sprintf("%s %s, recipes.id ASC", column, sort.direction())
}

// preloadEdgeOrder keeps ingredient edges in submission order.
func preloadEdgeOrder(db *gorm.DB) *gorm.DB {
	return db.Order("recipe_ingredients.position ASC")
}
