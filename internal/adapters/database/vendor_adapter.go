package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/vendorshub/backend/internal/domain/entities"
	"github.com/vendorshub/backend/internal/domain/repositories"
	"github.com/vendorshub/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/vendorshub/backend/pkg/errors"
)

var vendorColumns = []string{
	"id", "user_id", "business_name", "category", "description",
	"state", "city", "address", "image_ref", "created_at", "updated_at",
}

// VendorAdapter implements vendor persistence in Postgres
type VendorAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewVendorAdapter creates a new vendor adapter
func NewVendorAdapter(client *postgres.Client) repositories.VendorRepository {
	return &VendorAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a vendor
func (a *VendorAdapter) Create(ctx context.Context, vendor *entities.Vendor) error {
	query, args, err := a.db.Insert("vendors").Rows(vendorRecord(vendor, true)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build vendor insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("vendor profile already exists")
		}
		return apperrors.NewInternalError("failed to create vendor", err)
	}

	return nil
}

// GetByID retrieves a vendor by ID
func (a *VendorAdapter) GetByID(ctx context.Context, id string) (*entities.Vendor, error) {
	return a.getByField(ctx, "id", id)
}

// GetByOwner retrieves the vendor owned by a user
func (a *VendorAdapter) GetByOwner(ctx context.Context, userID string) (*entities.Vendor, error) {
	return a.getByField(ctx, "user_id", userID)
}

func (a *VendorAdapter) getByField(ctx context.Context, field, value string) (*entities.Vendor, error) {
	query, args, err := a.db.Select(columns("", vendorColumns)...).
		From("vendors").
		Where(goqu.Ex{field: value}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	vendor, err := scanVendor(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("vendor with %s %s not found", field, value))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get vendor", err)
	}

	return vendor, nil
}

// Update updates a vendor in place
func (a *VendorAdapter) Update(ctx context.Context, vendor *entities.Vendor) error {
	vendor.UpdatedAt = time.Now().UTC()

	query, args, err := a.db.Update("vendors").
		Set(vendorRecord(vendor, false)).
		Where(goqu.Ex{"id": vendor.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update vendor", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("vendor with id %s not found", vendor.ID))
	}

	return nil
}

// ListSummaries returns every matching vendor with AVG(overall_rating) and COUNT(reviews).
// Ordering is left to the caller.
func (a *VendorAdapter) ListSummaries(ctx context.Context, filter repositories.VendorFilter) ([]entities.VendorSummary, error) {
	defer a.client.Observe(ctx, "vendors.list_summaries", time.Now())

	selects := columns("v.", vendorColumns)
	selects = append(selects,
		goqu.COALESCE(goqu.AVG("r.overall_rating"), 0).As("avg_rating"),
		goqu.COUNT("r.id").As("review_count"),
	)

	ds := a.db.From(goqu.T("vendors").As("v")).
		LeftJoin(goqu.T("reviews").As("r"), goqu.On(goqu.I("r.vendor_id").Eq(goqu.I("v.id")))).
		Select(selects...).
		Where(filterExpressions(filter)...).
		GroupBy(goqu.I("v.id"))

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list vendors", err)
	}
	defer rows.Close()

	summaries := []entities.VendorSummary{}
	for rows.Next() {
		var s entities.VendorSummary
		var image sql.NullString
		err := rows.Scan(
			&s.ID, &s.UserID, &s.BusinessName, &s.Category, &s.Description,
			&s.State, &s.City, &s.Address, &image, &s.CreatedAt, &s.UpdatedAt,
			&s.AvgRating, &s.ReviewCount,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan vendor summary", err)
		}
		s.ImageRef = stringPtr(image)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate vendors", err)
	}

	return summaries, nil
}

// ListAll returns every vendor ordered by creation
func (a *VendorAdapter) ListAll(ctx context.Context) ([]*entities.Vendor, error) {
	defer a.client.Observe(ctx, "vendors.list_all", time.Now())

	query, args, err := a.db.Select(columns("", vendorColumns)...).
		From("vendors").
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list vendors", err)
	}
	defer rows.Close()

	var vendors []*entities.Vendor
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan vendor", err)
		}
		vendors = append(vendors, vendor)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate vendors", err)
	}

	return vendors, nil
}

func filterExpressions(filter repositories.VendorFilter) []exp.Expression {
	var where []exp.Expression

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := containsPattern(search)
		where = append(where, goqu.Or(
			goqu.I("v.business_name").ILike(pattern),
			goqu.I("v.city").ILike(pattern),
			goqu.I("v.category").ILike(pattern),
		))
	}
	if filter.Category != "" {
		where = append(where, goqu.I("v.category").Eq(filter.Category))
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		where = append(where, goqu.I("v.city").ILike(containsPattern(city)))
	}

	return where
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func columns(prefix string, names []string) []interface{} {
	cols := make([]interface{}, len(names))
	for i, name := range names {
		cols[i] = goqu.I(prefix + name)
	}
	return cols
}

func vendorRecord(v *entities.Vendor, withIdentity bool) goqu.Record {
	record := goqu.Record{
		"business_name": v.BusinessName,
		"category":      v.Category,
		"description":   v.Description,
		"state":         v.State,
		"city":          v.City,
		"address":       v.Address,
		"image_ref":     nullString(v.ImageRef),
		"updated_at":    v.UpdatedAt,
	}
	if withIdentity {
		record["id"] = v.ID
		record["user_id"] = v.UserID
		record["created_at"] = v.CreatedAt
	}
	return record
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVendor(row rowScanner) (*entities.Vendor, error) {
	v := &entities.Vendor{}
	var image sql.NullString
	err := row.Scan(
		&v.ID, &v.UserID, &v.BusinessName, &v.Category, &v.Description,
		&v.State, &v.City, &v.Address, &image, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.ImageRef = stringPtr(image)
	return v, nil
}
