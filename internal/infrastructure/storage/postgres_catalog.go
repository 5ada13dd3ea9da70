package storage

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"ShoppingAssistant/internal/catalog"
	"ShoppingAssistant/internal/domain"
)

// DefaultTable is read when a store gives no table name.
const DefaultTable = "products"

const upsertBatch = 500

var (
	psql      = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	tableExpr = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)
)

var columns = []string{
	"id", "name", "name_en", "name_ar", "category", "price", "currency",
	"description", "store_name", "product_url", "image_url",
	"calories_per_100g", "protein_per_100g", "carbs_per_100g", "fats_per_100g", "fiber_per_100g",
	"is_gluten_free", "is_vegetarian", "is_vegan", "is_halal", "is_organic", "is_healthy",
}

// Schema creates the catalog table read by PostgresCatalog.
const Schema = `CREATE TABLE IF NOT EXISTS %s (
    id                TEXT PRIMARY KEY,
    name              TEXT NOT NULL,
    name_en           TEXT,
    name_ar           TEXT,
    category          TEXT,
    price             DOUBLE PRECISION NOT NULL,
    currency          TEXT,
    description       TEXT,
    store_name        TEXT,
    product_url       TEXT,
    image_url         TEXT,
    in_stock          BOOLEAN NOT NULL DEFAULT TRUE,
    calories_per_100g DOUBLE PRECISION,
    protein_per_100g  DOUBLE PRECISION,
    carbs_per_100g    DOUBLE PRECISION,
    fats_per_100g     DOUBLE PRECISION,
    fiber_per_100g    DOUBLE PRECISION,
    is_gluten_free    BOOLEAN NOT NULL DEFAULT FALSE,
    is_vegetarian     BOOLEAN NOT NULL DEFAULT FALSE,
    is_vegan          BOOLEAN NOT NULL DEFAULT FALSE,
    is_halal          BOOLEAN NOT NULL DEFAULT TRUE,
    is_organic        BOOLEAN NOT NULL DEFAULT FALSE,
    is_healthy        BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresCatalog reads and writes catalog rows in Postgres.
type PostgresCatalog struct {
	db *sql.DB
}

var _ catalog.Loader = (*PostgresCatalog)(nil)

// NewPostgresCatalog wires a sql.DB implementation.
func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

// Name identifies the strategy inside the registry.
func (r *PostgresCatalog) Name() string {
	return "postgres"
}

// Load selects in-stock rows from the table named by req.Location.
// Options: store_name, categories (comma separated), max_price.
func (r *PostgresCatalog) Load(ctx context.Context, req catalog.Request) ([]domain.Product, error) {
	if r.db == nil {
		return nil, fmt.Errorf("postgres is not configured")
	}

	query, args, err := buildSelect(req.Location, req.Options)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return products, nil
}

// EnsureSchema creates the table if it does not exist.
func (r *PostgresCatalog) EnsureSchema(ctx context.Context, table string) error {
	if r.db == nil {
		return fmt.Errorf("postgres is not configured")
	}
	table, err := tableName(table)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, fmt.Sprintf(Schema, table)); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

// Upsert writes products in batches inside one transaction.
func (r *PostgresCatalog) Upsert(ctx context.Context, table string, products []domain.Product) (err error) {
	if r.db == nil {
		return fmt.Errorf("postgres is not configured")
	}
	if len(products) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for start := 0; start < len(products); start += upsertBatch {
		end := min(start+upsertBatch, len(products))
		query, args, err := buildUpsert(table, products[start:end])
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert products %d-%d: %w", start, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

func buildSelect(table string, opts map[string]string) (string, []any, error) {
	table, err := tableName(table)
	if err != nil {
		return "", nil, err
	}

	q := psql.Select(columns...).From(table).Where(sq.Eq{"in_stock": true})

	if store := strings.TrimSpace(opts["store_name"]); store != "" {
		q = q.Where(sq.Eq{"store_name": store})
	}
	if cats := splitList(opts["categories"]); len(cats) > 0 {
		q = q.Where("category = ANY(?)", pq.StringArray(cats))
	}
	if raw := strings.TrimSpace(opts["max_price"]); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return "", nil, fmt.Errorf("invalid max_price %q: %w", raw, err)
		}
		q = q.Where(sq.LtOrEq{"price": maxPrice})
	}

	query, args, err := q.OrderBy("id").ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build select: %w", err)
	}
	return query, args, nil
}

func buildUpsert(table string, products []domain.Product) (string, []any, error) {
	table, err := tableName(table)
	if err != nil {
		return "", nil, err
	}

	ins := psql.Insert(table).Columns(columns...)
	for _, p := range products {
		ins = ins.Values(
			p.ID, p.Name, nullable(p.NameEN), nullable(p.NameAR), p.Category, p.Price, p.Currency,
			nullable(p.Description), nullable(p.StoreName), nullable(p.ProductURL), nullable(p.ImageURL),
			p.Calories, p.Protein, p.Carbs, p.Fats, p.Fiber,
			p.GlutenFree, p.Vegetarian, p.Vegan, p.Halal, p.Organic, p.Healthy,
		)
	}

	updates := make([]string, 0, len(columns))
	for _, c := range columns[1:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	updates = append(updates, "updated_at = NOW()")
	ins = ins.Suffix("ON CONFLICT (id) DO UPDATE SET " + strings.Join(updates, ", "))

	query, args, err := ins.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build upsert: %w", err)
	}
	return query, args, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (domain.Product, error) {
	var (
		p                                               domain.Product
		nameEN, nameAR, category, currency, description sql.NullString
		store, productURL, imageURL                     sql.NullString
		calories, protein, carbs, fats, fiber           sql.NullFloat64
	)
	err := row.Scan(
		&p.ID, &p.Name, &nameEN, &nameAR, &category, &p.Price, &currency,
		&description, &store, &productURL, &imageURL,
		&calories, &protein, &carbs, &fats, &fiber,
		&p.GlutenFree, &p.Vegetarian, &p.Vegan, &p.Halal, &p.Organic, &p.Healthy,
	)
	if err != nil {
		return domain.Product{}, err
	}

	p.NameEN = nameEN.String
	p.NameAR = nameAR.String
	p.Category = category.String
	p.Currency = currency.String
	p.Description = description.String
	p.StoreName = store.String
	p.ProductURL = productURL.String
	p.ImageURL = imageURL.String
	p.Calories = floatPtr(calories)
	p.Protein = floatPtr(protein)
	p.Carbs = floatPtr(carbs)
	p.Fats = floatPtr(fats)
	p.Fiber = floatPtr(fiber)
	return p, nil
}

func tableName(table string) (string, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return DefaultTable, nil
	}
	if !tableExpr.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return table, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func nullable(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
