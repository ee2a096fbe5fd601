package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/cirocosta/todo-service/internal/model"
)

// Dialect selects the SQL engine behind a SQLTodoRepository
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

//go:embed migrations/sqlite.sql
var sqliteSchema string

//go:embed migrations/postgres.sql
var postgresSchema string

const todoColumns = `id, name, detail, status`

// driverName maps the dialect to the registered database/sql driver
func (d Dialect) driverName() (string, error) {
	switch d {
	case DialectSQLite:
		return "sqlite3", nil
	case DialectPostgres:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported sql dialect %q", d)
	}
}

func (d Dialect) schema() string {
	if d == DialectPostgres {
		return postgresSchema
	}
	return sqliteSchema
}

// SQLTodoRepository implements TodoRepository on a relational database.
// Every operation is a single statement, so each one is atomic on its own.
type SQLTodoRepository struct {
	log     *slog.Logger
	conn    *sqlx.DB
	dialect Dialect
}

// NewSQLTodoRepository opens and pings the database described by dsn
func NewSQLTodoRepository(ctx context.Context, log *slog.Logger, dialect Dialect, dsn string) (*SQLTodoRepository, error) {
	driver, err := dialect.driverName()
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	// sqlite has a single writer, and every new connection to ":memory:"
	// would see its own empty database
	if dialect == DialectSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		log.Error("connection problem", "dialect", dialect, "error", err)
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	return &SQLTodoRepository{log: log, conn: conn, dialect: dialect}, nil
}

// Close releases the underlying connection pool
func (r *SQLTodoRepository) Close() error {
	return r.conn.Close()
}

// DB exposes the pool for stats collection
func (r *SQLTodoRepository) DB() *sql.DB {
	return r.conn.DB
}

// Ping checks that the database is reachable
func (r *SQLTodoRepository) Ping(ctx context.Context) error {
	return r.conn.PingContext(ctx)
}

// Migrate creates the tables if they do not exist yet
func (r *SQLTodoRepository) Migrate(ctx context.Context) error {
	r.log.Debug("running todo migrations", "dialect", r.dialect)

	for _, stmt := range strings.Split(r.dialect.schema(), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := r.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	r.log.Debug("todo migrations finished")
	return nil
}

// Seed inserts todos the first time it runs against a database and is a
// no-op afterwards, even once every seeded row has been deleted. Seeded
// rows get ids from the table's own sequence in the given order.
func (r *SQLTodoRepository) Seed(ctx context.Context, todos []model.Todo) (err error) {
	tx, err := r.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	mark := tx.Rebind(`INSERT INTO todo_meta (key, value) VALUES (?, ?) ON CONFLICT (key) DO NOTHING`)
	res, err := tx.ExecContext(ctx, mark, "seeded", "true")
	if err != nil {
		return fmt.Errorf("mark seed: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		r.log.Debug("todo seed already applied")
		return tx.Rollback()
	}

	insert := tx.Rebind(`INSERT INTO todos (name, detail, status) VALUES (?, ?, ?)`)
	for _, todo := range todos {
		if _, err = tx.ExecContext(ctx, insert, todo.Name, todo.Detail, string(todo.Status)); err != nil {
			return fmt.Errorf("insert seed todo: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	r.log.Info("seeded todos", "count", len(todos))
	return nil
}

// FindAll returns all todos
func (r *SQLTodoRepository) FindAll(ctx context.Context) ([]model.Todo, error) {
	q := `SELECT ` + todoColumns + ` FROM todos ORDER BY id`

	todos := []model.Todo{}
	if err := r.conn.SelectContext(ctx, &todos, q); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// FindByID returns a specific todo by ID
func (r *SQLTodoRepository) FindByID(ctx context.Context, id int64) (model.Todo, error) {
	q := r.conn.Rebind(`SELECT ` + todoColumns + ` FROM todos WHERE id = ?`)

	var todo model.Todo
	if err := r.conn.GetContext(ctx, &todo, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrTodoNotFound{ID: id}
		}
		return model.Todo{}, fmt.Errorf("get todo: %w", err)
	}
	return todo, nil
}

// Create adds a new todo
func (r *SQLTodoRepository) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	q := r.conn.Rebind(`INSERT INTO todos (name, detail, status) VALUES (?, ?, ?) RETURNING ` + todoColumns)

	var created model.Todo
	err := r.conn.QueryRowxContext(ctx, q, todo.Name, todo.Detail, string(model.StatusPending)).StructScan(&created)
	if err != nil {
		return model.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return created, nil
}

// Update writes only the columns set in patch
func (r *SQLTodoRepository) Update(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error) {
	if err := validatePatch(patch); err != nil {
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return model.Todo{}, findErr
		}
		return model.Todo{}, err
	}

	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	if name, ok := patch.Name.Get(); ok {
		sets = append(sets, "name = ?")
		args = append(args, name)
	}
	if detail, ok := patch.Detail.Get(); ok {
		sets = append(sets, "detail = ?")
		args = append(args, detail)
	}
	if status, ok := patch.Status.Get(); ok {
		sets = append(sets, "status = ?")
		args = append(args, string(status))
	}
	args = append(args, id)

	q := r.conn.Rebind(`UPDATE todos SET ` + strings.Join(sets, ", ") + ` WHERE id = ? RETURNING ` + todoColumns)

	var updated model.Todo
	if err := r.conn.QueryRowxContext(ctx, q, args...).StructScan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrTodoNotFound{ID: id}
		}
		if isCheckViolation(err) {
			return model.Todo{}, ErrValidation{Field: "status", Reason: "rejected by the database"}
		}
		return model.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	return updated, nil
}

// Delete removes a todo
func (r *SQLTodoRepository) Delete(ctx context.Context, id int64) error {
	q := r.conn.Rebind(`DELETE FROM todos WHERE id = ?`)

	res, err := r.conn.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo rows affected: %w", err)
	}
	if aff == 0 {
		return ErrTodoNotFound{ID: id}
	}
	return nil
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23514"
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintCheck
	}

	return false
}
