package gateway

import (
	"database/sql"
	"fmt"
	"strings"

	apperrors "github.com/horizonbtp/vitrine/internal/errors"
	"github.com/horizonbtp/vitrine/internal/models"
)

// tableSpec describes how one catalog table maps to SQL. The gateway
// validates payloads into typed rows here so nothing downstream handles
// untyped data.
type tableSpec struct {
	// columns lists every column in declaration order, id first.
	columns []string

	// filterFields are the columns Query accepts predicates on.
	filterFields map[string]bool

	// scan reads one row from a result set.
	scan func(rows *sql.Rows) (models.Row, error)

	// values returns the column values of a validated row, in columns order.
	// Returns a validation error when the payload is not a row of this
	// table or carries an invalid status.
	values func(row models.Row) ([]interface{}, error)
}

var tableSpecs = map[models.Table]*tableSpec{
	models.TableProperties: {
		columns: []string{"id", "title", "description", "property_type", "city", "neighborhood",
			"price", "area", "bedrooms", "media_urls", "status", "is_deleted", "created_at", "updated_at", "version"},
		filterFields: map[string]bool{
			"status": true, "city": true, "neighborhood": true, "property_type": true,
			"price": true, "created_at": true,
		},
		scan: func(rows *sql.Rows) (models.Row, error) {
			var p models.Property
			var description, neighborhood, mediaURLs sql.NullString
			err := rows.Scan(&p.ID, &p.Title, &description, &p.PropertyType, &p.City, &neighborhood,
				&p.Price, &p.Area, &p.Bedrooms, &mediaURLs, &p.Status, &p.IsDeleted,
				&p.CreatedAt, &p.UpdatedAt, &p.Version)
			if err != nil {
				return nil, err
			}
			p.Description = description.String
			p.Neighborhood = neighborhood.String
			p.MediaURLs = mediaURLs.String
			return &p, nil
		},
		values: func(row models.Row) ([]interface{}, error) {
			p, ok := row.(*models.Property)
			if !ok {
				return nil, rowTypeError(models.TableProperties, row)
			}
			if p.Title == "" {
				return nil, apperrors.New(apperrors.ErrValidation, "property title is required")
			}
			if !p.Status.Valid() {
				return nil, statusError(models.TableProperties, string(p.Status))
			}
			return []interface{}{p.ID, p.Title, p.Description, p.PropertyType, p.City, p.Neighborhood,
				p.Price, p.Area, p.Bedrooms, p.MediaURLs, p.Status, p.IsDeleted,
				p.CreatedAt, p.UpdatedAt, p.Version}, nil
		},
	},

	models.TableProjects: {
		columns: []string{"id", "title", "description", "category", "city", "budget",
			"media_urls", "status", "is_deleted", "created_at", "updated_at", "version"},
		filterFields: map[string]bool{
			"status": true, "city": true, "category": true, "budget": true, "created_at": true,
		},
		scan: func(rows *sql.Rows) (models.Row, error) {
			var p models.Project
			var description, mediaURLs sql.NullString
			err := rows.Scan(&p.ID, &p.Title, &description, &p.Category, &p.City, &p.Budget,
				&mediaURLs, &p.Status, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt, &p.Version)
			if err != nil {
				return nil, err
			}
			p.Description = description.String
			p.MediaURLs = mediaURLs.String
			return &p, nil
		},
		values: func(row models.Row) ([]interface{}, error) {
			p, ok := row.(*models.Project)
			if !ok {
				return nil, rowTypeError(models.TableProjects, row)
			}
			if p.Title == "" {
				return nil, apperrors.New(apperrors.ErrValidation, "project title is required")
			}
			if !p.Status.Valid() {
				return nil, statusError(models.TableProjects, string(p.Status))
			}
			return []interface{}{p.ID, p.Title, p.Description, p.Category, p.City, p.Budget,
				p.MediaURLs, p.Status, p.IsDeleted, p.CreatedAt, p.UpdatedAt, p.Version}, nil
		},
	},

	models.TableVehicles: {
		columns: []string{"id", "title", "make", "model", "year", "mileage", "fuel_type",
			"city", "price", "media_urls", "status", "is_deleted", "created_at", "updated_at", "version"},
		filterFields: map[string]bool{
			"status": true, "city": true, "make": true, "fuel_type": true,
			"price": true, "year": true, "created_at": true,
		},
		scan: func(rows *sql.Rows) (models.Row, error) {
			var v models.Vehicle
			var fuelType, mediaURLs sql.NullString
			err := rows.Scan(&v.ID, &v.Title, &v.Make, &v.Model, &v.Year, &v.Mileage, &fuelType,
				&v.City, &v.Price, &mediaURLs, &v.Status, &v.IsDeleted,
				&v.CreatedAt, &v.UpdatedAt, &v.Version)
			if err != nil {
				return nil, err
			}
			v.FuelType = fuelType.String
			v.MediaURLs = mediaURLs.String
			return &v, nil
		},
		values: func(row models.Row) ([]interface{}, error) {
			v, ok := row.(*models.Vehicle)
			if !ok {
				return nil, rowTypeError(models.TableVehicles, row)
			}
			if v.Title == "" && (v.Make == "" || v.Model == "") {
				return nil, apperrors.New(apperrors.ErrValidation, "vehicle needs a title or make and model")
			}
			if !v.Status.Valid() {
				return nil, statusError(models.TableVehicles, string(v.Status))
			}
			return []interface{}{v.ID, v.Title, v.Make, v.Model, v.Year, v.Mileage, v.FuelType,
				v.City, v.Price, v.MediaURLs, v.Status, v.IsDeleted,
				v.CreatedAt, v.UpdatedAt, v.Version}, nil
		},
	},

	models.TableTestimonials: {
		columns: []string{"id", "author", "message", "rating", "status", "is_deleted",
			"created_at", "updated_at", "version"},
		filterFields: map[string]bool{
			"status": true, "created_at": true,
		},
		scan: func(rows *sql.Rows) (models.Row, error) {
			var t models.Testimonial
			err := rows.Scan(&t.ID, &t.Author, &t.Message, &t.Rating, &t.Status, &t.IsDeleted,
				&t.CreatedAt, &t.UpdatedAt, &t.Version)
			if err != nil {
				return nil, err
			}
			return &t, nil
		},
		values: func(row models.Row) ([]interface{}, error) {
			t, ok := row.(*models.Testimonial)
			if !ok {
				return nil, rowTypeError(models.TableTestimonials, row)
			}
			if t.Author == "" || t.Message == "" {
				return nil, apperrors.New(apperrors.ErrValidation, "testimonial author and message are required")
			}
			if !t.Status.Valid() {
				return nil, statusError(models.TableTestimonials, string(t.Status))
			}
			return []interface{}{t.ID, t.Author, t.Message, t.Rating, t.Status, t.IsDeleted,
				t.CreatedAt, t.UpdatedAt, t.Version}, nil
		},
	},

	models.TableContacts: {
		columns: []string{"id", "name", "email", "phone", "subject", "message", "status",
			"is_deleted", "created_at", "updated_at", "version"},
		filterFields: map[string]bool{
			"status": true, "created_at": true,
		},
		scan: func(rows *sql.Rows) (models.Row, error) {
			var c models.ContactMessage
			var phone, subject sql.NullString
			err := rows.Scan(&c.ID, &c.Name, &c.Email, &phone, &subject, &c.Message, &c.Status,
				&c.IsDeleted, &c.CreatedAt, &c.UpdatedAt, &c.Version)
			if err != nil {
				return nil, err
			}
			c.Phone = phone.String
			c.Subject = subject.String
			return &c, nil
		},
		values: func(row models.Row) ([]interface{}, error) {
			c, ok := row.(*models.ContactMessage)
			if !ok {
				return nil, rowTypeError(models.TableContacts, row)
			}
			if c.Name == "" || c.Email == "" || c.Message == "" {
				return nil, apperrors.New(apperrors.ErrValidation, "contact name, email and message are required")
			}
			if !c.Status.Valid() {
				return nil, statusError(models.TableContacts, string(c.Status))
			}
			return []interface{}{c.ID, c.Name, c.Email, c.Phone, c.Subject, c.Message, c.Status,
				c.IsDeleted, c.CreatedAt, c.UpdatedAt, c.Version}, nil
		},
	},
}

// specFor resolves the table spec or reports the table as unknown.
func specFor(table models.Table) (*tableSpec, error) {
	spec, ok := tableSpecs[table]
	if !ok {
		return nil, apperrors.New(apperrors.ErrUnknownTable, fmt.Sprintf("unknown table %q", table))
	}
	return spec, nil
}

func rowTypeError(table models.Table, row models.Row) error {
	return apperrors.New(apperrors.ErrValidation,
		fmt.Sprintf("payload %T is not a %s row", row, table))
}

func statusError(table models.Table, status string) error {
	return apperrors.New(apperrors.ErrInvalidStatus,
		fmt.Sprintf("invalid %s status %q", table, status))
}

// selectSQL builds the base select for a table, newest first by default.
func (s *tableSpec) selectSQL(table models.Table, preds []Predicate, order Order) (string, []interface{}, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(s.columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(table.String())
	sb.WriteString(" WHERE is_deleted = 0")

	var args []interface{}
	for _, p := range preds {
		if !s.filterFields[p.Field] {
			return "", nil, apperrors.New(apperrors.ErrInvalid,
				fmt.Sprintf("table %s does not support filtering on %q", table, p.Field))
		}
		switch p.Op {
		case "=", ">=", "<=", "LIKE":
		default:
			return "", nil, apperrors.New(apperrors.ErrInvalid,
				fmt.Sprintf("unsupported predicate operator %q", p.Op))
		}
		sb.WriteString(" AND ")
		sb.WriteString(p.Field)
		sb.WriteString(" ")
		sb.WriteString(p.Op)
		sb.WriteString(" ?")
		args = append(args, p.Value)
	}

	if order.Field == "" {
		order = OrderNewestFirst()
	}
	if !s.filterFields[order.Field] && order.Field != "created_at" {
		return "", nil, apperrors.New(apperrors.ErrInvalid,
			fmt.Sprintf("table %s does not support ordering on %q", table, order.Field))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(order.Field)
	if order.Desc {
		sb.WriteString(" DESC")
	} else {
		sb.WriteString(" ASC")
	}
	// Stable tie-break so repeated queries return identical order.
	sb.WriteString(", id ASC")

	return sb.String(), args, nil
}

// insertSQL builds the insert statement for a table.
func (s *tableSpec) insertSQL(table models.Table) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(s.columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(s.columns, ", "), placeholders)
}

// updateSQL builds the update statement for a table. The id, created_at and
// is_deleted columns are never rewritten; updated_at and version are stamped
// by the gateway itself so concurrent writers resolve last-write-wins.
func (s *tableSpec) updateSQL(table models.Table) string {
	var sets []string
	for _, col := range s.columns {
		switch col {
		case "id", "created_at", "is_deleted", "updated_at", "version":
			continue
		}
		sets = append(sets, col+" = ?")
	}
	sets = append(sets, "updated_at = ?", "version = version + 1")
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = ? AND is_deleted = 0",
		table, strings.Join(sets, ", "))
}

// updateArgs filters the full values list down to the updateSQL columns.
func (s *tableSpec) updateArgs(values []interface{}) []interface{} {
	var args []interface{}
	for i, col := range s.columns {
		switch col {
		case "id", "created_at", "is_deleted", "updated_at", "version":
			continue
		}
		args = append(args, values[i])
	}
	return args
}
