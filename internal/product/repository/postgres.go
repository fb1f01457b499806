package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/koperasihub/product-form-service/internal/model"
	"github.com/koperasihub/product-form-service/internal/product/dto"
)

// PGRepository stores the submission journal.
type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) LogEvent(ctx context.Context, e *model.SubmissionEvent) error {
	query := `
        INSERT INTO submission_events (
            id, submission_id, store_id, product_id, step,
            entity_type, entity_id, status, message, created_at
        )
        VALUES (
            :id, :submission_id, :store_id, :product_id, :step,
            :entity_type, :entity_id, :status, :message, :created_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, e)
	return err
}

func (r *PGRepository) ListEvents(ctx context.Context, f *dto.EventFilters) ([]model.SubmissionEvent, int, error) {
	events := []model.SubmissionEvent{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.StoreID != 0 {
		conditions = append(conditions, "store_id = :store_id")
		args["store_id"] = f.StoreID
	}
	if f.ProductID != 0 {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.SubmissionID != "" {
		conditions = append(conditions, "submission_id = :submission_id")
		args["submission_id"] = f.SubmissionID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.Since != nil {
		conditions = append(conditions, "created_at >= :since")
		args["since"] = *f.Since
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM submission_events" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			rows.Close()
			return nil, 0, err
		}
	}
	rows.Close()

	// Journal reads oldest first so a submission replays in step order.
	query := "SELECT * FROM submission_events" + whereClause + " ORDER BY created_at ASC, id ASC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &events, args); err != nil {
		return nil, 0, err
	}
	return events, count, nil
}
