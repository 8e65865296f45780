package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sorahq/ledger-api/internal/apperrors"
	"github.com/sorahq/ledger-api/internal/core/domain"
	portsrepo "github.com/sorahq/ledger-api/internal/core/ports/repositories"
	"github.com/sorahq/ledger-api/internal/models"
	"github.com/sorahq/ledger-api/internal/utils/accounting"
	"github.com/sorahq/ledger-api/internal/utils/mapping"
	"github.com/sorahq/ledger-api/internal/utils/pagination"
)

type PgxJournalEntryRepository struct {
	BaseRepository
}

// newPgxJournalEntryRepository creates a new repository for journal entry data.
func newPgxJournalEntryRepository(pool *pgxpool.Pool) portsrepo.JournalEntryRepositoryFacade {
	return &PgxJournalEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxJournalEntryRepository implements portsrepo.JournalEntryRepositoryFacade
var _ portsrepo.JournalEntryRepositoryFacade = (*PgxJournalEntryRepository)(nil)

// nextEntryNumberInTx determines the next entry number for the organization and
// month inside the given transaction. The SELECT locks the current maximum row
// so concurrent inserts for the same month serialize; the unique index on
// (organization_id, entry_number) backstops the first insert of a month, where
// there is no row to lock yet.
func nextEntryNumberInTx(ctx context.Context, tx pgx.Tx, organizationID string, entryDate time.Time) (string, error) {
	prefix := accounting.EntryNumberPrefix(entryDate)

	query := `
		SELECT entry_number
		FROM journal_entries
		WHERE organization_id = $1 AND entry_number LIKE $2
		ORDER BY entry_number DESC
		LIMIT 1
		FOR UPDATE;
	`
	var lastNumber string
	err := tx.QueryRow(ctx, query, organizationID, prefix+"%").Scan(&lastNumber)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewAppError(500, "failed to read last entry number for prefix "+prefix, err)
		}
		lastNumber = ""
	}

	next, err := accounting.NextEntryNumber(prefix, lastNumber)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to compute next entry number for prefix "+prefix, err)
	}
	return next, nil
}

// insertEntryInTx inserts a journal entry header inside the given transaction.
func insertEntryInTx(ctx context.Context, tx pgx.Tx, modelEntry models.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (
			entry_id, organization_id, period_id, entry_number, entry_date,
			description, document_number, partner_id, status,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		modelEntry.EntryID,
		modelEntry.OrganizationID,
		modelEntry.PeriodID,
		modelEntry.EntryNumber,
		modelEntry.EntryDate,
		modelEntry.Description,
		modelEntry.DocumentNumber,
		modelEntry.PartnerID,
		modelEntry.Status,
		modelEntry.CreatedAt,
		modelEntry.CreatedBy,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+modelEntry.EntryID, err)
	}
	return nil
}

// queueLineInserts adds the line inserts for one entry to the batch.
func queueLineInserts(batch *pgx.Batch, lines []domain.JournalEntryLine) {
	lineQuery := `
		INSERT INTO journal_entry_lines (
			line_id, entry_id, account_id, line_number, debit_amount, credit_amount,
			description, tax_rate, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, line := range lines {
		modelLine := mapping.ToModelJournalEntryLine(line)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.EntryID,
			modelLine.AccountID,
			modelLine.LineNumber,
			modelLine.DebitAmount,
			modelLine.CreditAmount,
			modelLine.Description,
			modelLine.TaxRate,
			modelLine.CreatedAt,
			modelLine.CreatedBy,
			modelLine.LastUpdatedAt,
			modelLine.LastUpdatedBy,
		)
	}
}

// SaveEntry assigns the entry number and persists the header and lines within a DB transaction.
func (r *PgxJournalEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	// Defer rollback in case of error
	defer r.Rollback(ctx, tx)

	entryNumber, err := nextEntryNumberInTx(ctx, tx, entry.OrganizationID, entry.EntryDate)
	if err != nil {
		return nil, err
	}
	entry.EntryNumber = entryNumber

	modelEntry := mapping.ToModelJournalEntry(entry)
	if err := insertEntryInTx(ctx, tx, modelEntry); err != nil {
		return nil, err
	}

	batch := &pgx.Batch{}
	queueLineInserts(batch, lines)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrDuplicate
		}
		return nil, apperrors.NewAppError(500, "failed to execute line batch for entry "+entry.EntryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	entry.Lines = lines
	return &entry, nil
}

// SaveEntriesBatch persists multiple entries, each with pre-assigned entry
// numbers and lines, in one all-or-nothing transaction.
func (r *PgxJournalEntryRepository) SaveEntriesBatch(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	for _, entry := range entries {
		modelEntry := mapping.ToModelJournalEntry(entry)
		if err := insertEntryInTx(ctx, tx, modelEntry); err != nil {
			return err
		}
		queueLineInserts(batch, entry.Lines)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to execute line batch for entry import", err)
	}

	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves a journal entry header by its ID.
func (r *PgxJournalEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT entry_id, organization_id, period_id, entry_number, entry_date,
		       description, document_number, partner_id, status,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM journal_entries
		WHERE entry_id = $1;
	`
	var modelEntry models.JournalEntry
	var partnerID sql.NullString

	err := r.Pool.QueryRow(ctx, query, entryID).Scan(
		&modelEntry.EntryID,
		&modelEntry.OrganizationID,
		&modelEntry.PeriodID,
		&modelEntry.EntryNumber,
		&modelEntry.EntryDate,
		&modelEntry.Description,
		&modelEntry.DocumentNumber,
		&partnerID,
		&modelEntry.Status,
		&modelEntry.CreatedAt,
		&modelEntry.CreatedBy,
		&modelEntry.LastUpdatedAt,
		&modelEntry.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by ID "+entryID, err)
	}

	if partnerID.Valid {
		modelEntry.PartnerID = &partnerID.String
	}

	domainEntry := mapping.ToDomainJournalEntry(modelEntry)
	return &domainEntry, nil
}

// FindLinesByEntryID retrieves all lines of an entry ordered by line number.
func (r *PgxJournalEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, line_number, debit_amount, credit_amount,
		       description, tax_rate, created_at, created_by, last_updated_at, last_updated_by
		FROM journal_entry_lines
		WHERE entry_id = $1
		ORDER BY line_number;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalEntryLine{}
	for rows.Next() {
		var l models.JournalEntryLine
		err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.AccountID,
			&l.LineNumber,
			&l.DebitAmount,
			&l.CreditAmount,
			&l.Description,
			&l.TaxRate,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}

	return mapping.ToDomainJournalEntryLineSlice(lines), nil
}

// ListEntriesByOrganization retrieves a paginated list of entries for an organization using token-based pagination.
// It returns the entries, a token for the next page (if any), and an error.
func (r *PgxJournalEntryRepository) ListEntriesByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string, status *domain.EntryStatus) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT entry_id, organization_id, period_id, entry_number, entry_date,
		       description, document_number, partner_id, status,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM journal_entries
	`
	filterClause := `WHERE organization_id = $1`
	args := []interface{}{organizationID}

	if status != nil {
		args = append(args, string(*status))
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}

	// Ordering is crucial and must be stable
	// We use entry_date DESC, and created_at DESC as a tie-breaker.
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		// Tuple comparison is concise and efficient in Postgres
		cursorClause := `AND (entry_date, created_at) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, lastDate, lastCreatedAt)

		query := baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries for organization "+organizationID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		var m models.JournalEntry
		var partnerID sql.NullString

		scanErr := rows.Scan(
			&m.EntryID,
			&m.OrganizationID,
			&m.PeriodID,
			&m.EntryNumber,
			&m.EntryDate,
			&m.Description,
			&m.DocumentNumber,
			&partnerID,
			&m.Status,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row for organization "+organizationID, scanErr)
		}

		if partnerID.Valid {
			m.PartnerID = &partnerID.String
		}
		modelEntries = append(modelEntries, m)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows for organization "+organizationID, err)
	}

	// Determine the next token
	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		// The token points to the last item included in this response page.
		lastEntry := modelEntries[limit-1]
		newToken := pagination.EncodeToken(lastEntry.EntryDate, lastEntry.CreatedAt)
		nextTokenVal = &newToken
		results = modelEntries[:limit]
	}

	domainEntries := make([]domain.JournalEntry, len(results))
	for i, m := range results {
		domainEntries[i] = mapping.ToDomainJournalEntry(m)
	}

	return domainEntries, nextTokenVal, nil
}

// FindLastEntryNumbers returns the highest persisted entry number per YYYYMM
// prefix for the organization. Prefixes with no entries are absent from the map.
func (r *PgxJournalEntryRepository) FindLastEntryNumbers(ctx context.Context, organizationID string, prefixes []string) (map[string]string, error) {
	result := make(map[string]string, len(prefixes))
	if len(prefixes) == 0 {
		return result, nil
	}

	query := `
		SELECT substring(entry_number from 1 for 6) AS prefix, max(entry_number)
		FROM journal_entries
		WHERE organization_id = $1 AND substring(entry_number from 1 for 6) = ANY($2)
		GROUP BY 1;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, prefixes)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query last entry numbers for organization "+organizationID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var prefix, lastNumber string
		if err := rows.Scan(&prefix, &lastNumber); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan last entry number row", err)
		}
		result[prefix] = lastNumber
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating last entry number rows", err)
	}

	return result, nil
}

// UpdateEntry updates header fields and optionally replaces all lines within a DB transaction.
func (r *PgxJournalEntryRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine, replaceLines bool) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelEntry := mapping.ToModelJournalEntry(entry)
	headerQuery := `
		UPDATE journal_entries
		SET period_id = $2,
		    entry_date = $3,
		    description = $4,
		    document_number = $5,
		    partner_id = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE entry_id = $1;
	`
	// Note: entry_number and status are never updated here. Status transitions
	// go through UpdateEntryStatus.
	cmdTag, err := tx.Exec(ctx, headerQuery,
		modelEntry.EntryID,
		modelEntry.PeriodID,
		modelEntry.EntryDate,
		modelEntry.Description,
		modelEntry.DocumentNumber,
		modelEntry.PartnerID,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to execute update for entry "+modelEntry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal entry " + modelEntry.EntryID + " not found for update")
	}

	if replaceLines {
		// Delete-then-recreate keeps line numbering dense without diffing.
		if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, modelEntry.EntryID); err != nil {
			return apperrors.NewAppError(500, "failed to delete lines for entry "+modelEntry.EntryID, err)
		}

		batch := &pgx.Batch{}
		queueLineInserts(batch, lines)
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(500, "failed to execute line batch for entry "+modelEntry.EntryID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// DeleteEntry removes a DRAFT entry and its lines, re-verifying scope and status inside the transaction.
func (r *PgxJournalEntryRepository) DeleteEntry(ctx context.Context, organizationID, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var status models.EntryStatus
	lockQuery := `
		SELECT status
		FROM journal_entries
		WHERE entry_id = $1 AND organization_id = $2
		FOR UPDATE;
	`
	err = tx.QueryRow(ctx, lockQuery, entryID, organizationID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock entry "+entryID+" for delete", err)
	}

	if domain.EntryStatus(status) != domain.Draft {
		return apperrors.ErrConflict
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for entry "+entryID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete entry "+entryID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateEntryStatus transitions a DRAFT entry to the given status.
func (r *PgxJournalEntryRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, entryID, string(status), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for entry "+entryID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Distinguish a missing entry from one already past DRAFT.
		var current models.EntryStatus
		err := r.Pool.QueryRow(ctx, `SELECT status FROM journal_entries WHERE entry_id = $1;`, entryID).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return apperrors.NewAppError(500, "failed to check status for entry "+entryID, err)
		}
		return apperrors.ErrConflict
	}

	return nil
}
