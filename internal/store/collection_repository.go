package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/mintora/mintora-api/internal/models"
	"github.com/shopspring/decimal"
)

// CollectionRepository handles database operations related to collections
type CollectionRepository struct {
	db *Database
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(db *Database) *CollectionRepository {
	return &CollectionRepository{
		db: db,
	}
}

const collectionColumns = `id, name, description, royalty, logo_file, featured_file,
	banner_file, user_id, category_id, created_at, updated_at`

// GetByID retrieves a collection by ID
func (r *CollectionRepository) GetByID(ctx context.Context, id int64) (*models.Collection, error) {
	collection := &models.Collection{}
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, collection, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return collection, nil
}

// Create inserts a new collection
func (r *CollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	now := time.Now().UTC()
	collection.CreatedAt = now
	collection.UpdatedAt = now

	query := `INSERT INTO collections (name, description, royalty, logo_file, featured_file,
			 banner_file, user_id, category_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 RETURNING id`

	return r.db.GetDB().QueryRowContext(ctx, query,
		collection.Name, collection.Description, collection.Royalty,
		collection.LogoFile, collection.FeatureFile, collection.BannerFile,
		collection.UserID, collection.CategoryID,
		collection.CreatedAt, collection.UpdatedAt).Scan(&collection.ID)
}

// List retrieves all collections
func (r *CollectionRepository) List(ctx context.Context) ([]models.Collection, error) {
	collections := []models.Collection{}
	query := `SELECT ` + collectionColumns + ` FROM collections ORDER BY created_at DESC`

	if err := r.db.GetDB().SelectContext(ctx, &collections, query); err != nil {
		return nil, err
	}

	return collections, nil
}

// ByUser retrieves collections owned by a user
func (r *CollectionRepository) ByUser(ctx context.Context, userID int64) ([]models.Collection, error) {
	collections := []models.Collection{}
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE user_id = $1 ORDER BY created_at DESC`

	if err := r.db.GetDB().SelectContext(ctx, &collections, query, userID); err != nil {
		return nil, err
	}

	return collections, nil
}

// Search retrieves collections whose name contains the query
func (r *CollectionRepository) Search(ctx context.Context, q string, limit int) ([]models.Collection, error) {
	collections := []models.Collection{}
	query := `SELECT ` + collectionColumns + ` FROM collections
			 WHERE LOWER(name) LIKE '%' || $1 || '%' LIMIT $2`

	if err := r.db.GetDB().SelectContext(ctx, &collections, query, q, limit); err != nil {
		return nil, err
	}

	return collections, nil
}

// collectionStats mirrors the aggregate row used by Rankings
type collectionStats struct {
	NFTCount    int             `db:"nft_count"`
	OwnersCount int             `db:"owners_count"`
	Floor       decimal.Decimal `db:"floor"`
	Volume      decimal.Decimal `db:"volume"`
}

// Rankings computes per-collection market stats ordered by traded volume.
// Collections without NFTs are skipped.
func (r *CollectionRepository) Rankings(ctx context.Context) ([]models.CollectionRanking, error) {
	collections, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	rankings := []models.CollectionRanking{}
	statsQuery := `SELECT COUNT(*) AS nft_count,
				  COUNT(DISTINCT owner_id) AS owners_count,
				  COALESCE(MIN(price), 0) AS floor,
				  COALESCE(SUM(price), 0) AS volume
				  FROM nfts WHERE collection_id = $1`

	for _, collection := range collections {
		var stats collectionStats
		if err := r.db.GetDB().GetContext(ctx, &stats, statsQuery, collection.ID); err != nil {
			return nil, err
		}
		if stats.NFTCount == 0 {
			continue
		}

		rankings = append(rankings, models.CollectionRanking{
			Collection:  collection,
			NFTCount:    stats.NFTCount,
			OwnersCount: stats.OwnersCount,
			Floor:       stats.Floor,
			Volume:      stats.Volume,
		})
	}

	// Highest volume first
	for i := 0; i < len(rankings); i++ {
		for j := i + 1; j < len(rankings); j++ {
			if rankings[j].Volume.GreaterThan(rankings[i].Volume) {
				rankings[i], rankings[j] = rankings[j], rankings[i]
			}
		}
	}

	return rankings, nil
}

// CategoryExists reports whether a collection category id is known
func (r *CollectionRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM collection_categories WHERE id = $1`
	if err := r.db.GetDB().GetContext(ctx, &count, query, id); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Categories retrieves all collection categories
func (r *CollectionRepository) Categories(ctx context.Context) ([]models.CollectionCategory, error) {
	categories := []models.CollectionCategory{}
	query := `SELECT id, name, description, logo_file, created_at FROM collection_categories ORDER BY id`

	if err := r.db.GetDB().SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}

	return categories, nil
}
