package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mintora/mintora-api/internal/models"
)

// NFTRepository handles database operations related to NFTs
type NFTRepository struct {
	db *Database
}

// NewNFTRepository creates a new NFTRepository
func NewNFTRepository(db *Database) *NFTRepository {
	return &NFTRepository{
		db: db,
	}
}

const nftColumns = `n.id, n.token_id, n.name, n.description, n.image_file, n.price,
	n.creator_id, n.owner_id, n.category_id, n.collection_id, n.is_listed, n.is_blocked, n.created_at`

// nftListSelect joins the owner name and like/view counts used by listings
const nftListSelect = `SELECT ` + nftColumns + `,
	u.username AS owner_name,
	(SELECT COUNT(*) FROM likes l WHERE l.nft_id = n.id) AS likes_count,
	(SELECT COUNT(*) FROM views v WHERE v.nft_id = n.id) AS views_count
	FROM nfts n JOIN users u ON u.id = n.owner_id`

// orderClause maps a sort choice to an ORDER BY fragment
func orderClause(sortBy int) string {
	switch sortBy {
	case models.SortByOffers:
		return ` ORDER BY (SELECT COUNT(*) FROM offers o WHERE o.nft_id = n.id) DESC`
	case models.SortByPriceAsc:
		return ` ORDER BY n.price ASC`
	case models.SortByPriceDesc:
		return ` ORDER BY n.price DESC`
	case models.SortByOldest:
		return ` ORDER BY n.created_at ASC`
	case models.SortByNewest:
		return ` ORDER BY n.created_at DESC`
	case models.SortByViews:
		return ` ORDER BY views_count DESC`
	case models.SortByLikes:
		return ` ORDER BY likes_count DESC`
	default:
		return ` ORDER BY n.created_at DESC`
	}
}

// GetByID retrieves an NFT by ID
func (r *NFTRepository) GetByID(ctx context.Context, id int64) (*models.NFT, error) {
	nft := &models.NFT{}
	query := `SELECT ` + nftColumns + ` FROM nfts n WHERE n.id = $1`

	err := r.db.GetDB().GetContext(ctx, nft, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return nft, nil
}

// GetByTokenID retrieves an NFT by its public token id
func (r *NFTRepository) GetByTokenID(ctx context.Context, tokenID string) (*models.NFT, error) {
	nft := &models.NFT{}
	query := `SELECT ` + nftColumns + ` FROM nfts n WHERE n.token_id = $1`

	err := r.db.GetDB().GetContext(ctx, nft, query, tokenID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return nft, nil
}

// Create inserts a newly minted NFT
func (r *NFTRepository) Create(ctx context.Context, nft *models.NFT) error {
	nft.CreatedAt = time.Now().UTC()
	nft.IsListed = true

	query := `INSERT INTO nfts (token_id, name, description, image_file, price,
			 creator_id, owner_id, category_id, collection_id, is_listed, is_blocked, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 RETURNING id`

	return r.db.GetDB().QueryRowContext(ctx, query,
		nft.TokenID, nft.Name, nft.Description, nft.ImageFile, nft.Price,
		nft.CreatorID, nft.OwnerID, nft.CategoryID, nft.CollectionID,
		nft.IsListed, nft.IsBlocked, nft.CreatedAt).Scan(&nft.ID)
}

// SetListed updates the listing flag
func (r *NFTRepository) SetListed(ctx context.Context, id int64, listed bool) error {
	query := `UPDATE nfts SET is_listed = $1 WHERE id = $2`
	_, err := r.db.GetDB().ExecContext(ctx, query, listed, id)
	return err
}

// SetBlocked flips the moderation flag
func (r *NFTRepository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	query := `UPDATE nfts SET is_blocked = $1 WHERE id = $2`
	_, err := r.db.GetDB().ExecContext(ctx, query, blocked, id)
	return err
}

// Filter retrieves non-blocked NFTs matching the marketplace browse filters
func (r *NFTRepository) Filter(ctx context.Context, f models.NFTFilterRequest) ([]models.NFT, error) {
	where := []string{`n.is_blocked = FALSE`}
	args := []interface{}{}
	arg := 1

	if len(f.CategoryInputs) > 0 {
		placeholders := make([]string, len(f.CategoryInputs))
		for i, id := range f.CategoryInputs {
			placeholders[i] = fmt.Sprintf("$%d", arg)
			args = append(args, id)
			arg++
		}
		where = append(where, `n.category_id IN (`+strings.Join(placeholders, ", ")+`)`)
	}

	where = append(where, fmt.Sprintf("n.price >= $%d", arg))
	args = append(args, f.MinValue)
	arg++

	if f.MaxValue != nil {
		where = append(where, fmt.Sprintf("n.price <= $%d", arg))
		args = append(args, *f.MaxValue)
		arg++
	}

	// Both listed filters selected means no restriction
	hasListed := contains(f.IsListedInputs, models.ListedFilterListed)
	hasUnlisted := contains(f.IsListedInputs, models.ListedFilterUnlisted)
	if hasListed && !hasUnlisted {
		where = append(where, `n.is_listed = TRUE`)
	} else if hasUnlisted && !hasListed {
		where = append(where, `n.is_listed = FALSE`)
	}

	if f.Search != "" {
		where = append(where, fmt.Sprintf("LOWER(n.name) LIKE '%%' || $%d || '%%'", arg))
		args = append(args, strings.ToLower(strings.TrimSpace(f.Search)))
		arg++
	}

	query := nftListSelect + ` WHERE ` + strings.Join(where, " AND ") + orderClause(f.SortBy)

	nfts := []models.NFT{}
	if err := r.db.GetDB().SelectContext(ctx, &nfts, query, args...); err != nil {
		return nil, err
	}

	return nfts, nil
}

// ByProfile retrieves NFTs for a profile tab (owned, created or liked)
func (r *NFTRepository) ByProfile(ctx context.Context, userID int64, f models.ProfileFilterRequest) ([]models.NFT, error) {
	where := []string{}
	args := []interface{}{}
	arg := 1

	switch f.CurrentTab {
	case models.ProfileTabOwned:
		where = append(where, fmt.Sprintf("n.owner_id = $%d", arg))
		args = append(args, userID)
		arg++
	case models.ProfileTabCreated:
		where = append(where, fmt.Sprintf("n.creator_id = $%d", arg))
		args = append(args, userID)
		arg++
	case models.ProfileTabLiked:
		where = append(where, fmt.Sprintf("n.id IN (SELECT nft_id FROM likes WHERE user_id = $%d)", arg))
		args = append(args, userID)
		arg++
	}

	if f.Search != "" {
		where = append(where, fmt.Sprintf("LOWER(n.name) LIKE '%%' || $%d || '%%'", arg))
		args = append(args, strings.ToLower(strings.TrimSpace(f.Search)))
		arg++
	}

	query := nftListSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += orderClause(f.SortBy)

	nfts := []models.NFT{}
	if err := r.db.GetDB().SelectContext(ctx, &nfts, query, args...); err != nil {
		return nil, err
	}

	return nfts, nil
}

// ByCollection retrieves a collection's NFTs with the tab filter applied
func (r *NFTRepository) ByCollection(ctx context.Context, collectionID int64, f models.CollectionNFTsRequest) ([]models.NFT, error) {
	query := nftListSelect + ` WHERE n.collection_id = $1`

	switch f.CurrentTab {
	case models.CollectionTabListed:
		query += ` AND n.is_listed = TRUE`
	case models.CollectionTabUnlisted:
		query += ` AND n.is_listed = FALSE`
	}

	query += orderClause(f.SortBy)

	nfts := []models.NFT{}
	if err := r.db.GetDB().SelectContext(ctx, &nfts, query, collectionID); err != nil {
		return nil, err
	}

	return nfts, nil
}

// TopByCategory retrieves the most liked non-blocked NFTs in a category
func (r *NFTRepository) TopByCategory(ctx context.Context, categoryID int64, limit int) ([]models.NFT, error) {
	query := nftListSelect + ` WHERE n.category_id = $1 AND n.is_blocked = FALSE
			 ORDER BY likes_count DESC LIMIT $2`

	nfts := []models.NFT{}
	if err := r.db.GetDB().SelectContext(ctx, &nfts, query, categoryID, limit); err != nil {
		return nil, err
	}

	return nfts, nil
}

// Search retrieves NFTs whose name or description contains the query
func (r *NFTRepository) Search(ctx context.Context, q string, limit int) ([]models.NFT, error) {
	query := nftListSelect + ` WHERE LOWER(n.name) LIKE '%' || $1 || '%'
			 OR LOWER(n.description) LIKE '%' || $1 || '%' LIMIT $2`

	nfts := []models.NFT{}
	if err := r.db.GetDB().SelectContext(ctx, &nfts, query, q, limit); err != nil {
		return nil, err
	}

	return nfts, nil
}

// List retrieves every NFT, newest first. Admin dashboard use.
func (r *NFTRepository) List(ctx context.Context) ([]models.NFT, error) {
	query := nftListSelect + ` ORDER BY n.created_at DESC`

	nfts := []models.NFT{}
	if err := r.db.GetDB().SelectContext(ctx, &nfts, query); err != nil {
		return nil, err
	}

	return nfts, nil
}

// Categories retrieves all NFT categories
func (r *NFTRepository) Categories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	query := `SELECT id, name, logo, created_at FROM categories ORDER BY id`

	if err := r.db.GetDB().SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}

	return categories, nil
}

// CategoryExists reports whether a category id is known
func (r *NFTRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM categories WHERE id = $1`
	if err := r.db.GetDB().GetContext(ctx, &count, query, id); err != nil {
		return false, err
	}
	return count > 0, nil
}

func contains(values []int, v int) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
