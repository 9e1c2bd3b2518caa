package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/userkeeper/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func sampleUser() *User {
	return &User{
		ID:           "u-1",
		FirstName:    "John",
		LastName:     "Doe",
		Login:        "john@x.com",
		Email:        "john@x.com",
		Salt:         "salt",
		PasswordHash: "hash",
		Meta:         map[string]any{"source": SourcePassword},
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestPostgresCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*login,.*\)\s*VALUES\s*\(\$1,.*\$11\)\s*$`

	u := sampleUser()
	mock.ExpectExec(q).
		WithArgs(u.ID, u.Login, u.FirstName, u.LastName, u.Email, u.Phone,
			u.Salt, u.PasswordHash, u.AccessCode, SourcePassword, u.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestPostgresCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	err := repo.Create(context.Background(), sampleUser())
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}
}

func TestPostgresCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), sampleUser())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgresSave_Upserts(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users.*ON\s+CONFLICT\s*\(login\)\s*DO\s+UPDATE`

	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Save(context.Background(), sampleUser()); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestPostgresSaveAll_CommitsOnce(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users.*ON\s+CONFLICT\s*\(login\)\s*DO\s+UPDATE`

	mock.ExpectBegin()
	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	second := sampleUser()
	second.Login = "jane@x.com"
	if err := repo.SaveAll(context.Background(), []*User{sampleUser(), second}); err != nil {
		t.Fatalf("SaveAll error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestPostgresSaveAll_RollsBackOnError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	err := repo.SaveAll(context.Background(), []*User{sampleUser()})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestPostgresGetByLogin_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*login,.*FROM\s+users\s+WHERE\s+login\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"id", "login", "first_name", "last_name", "email", "phone", "salt", "password_hash", "access_code", "source", "created_at"}).
		AddRow("u-1", "john@x.com", "John", "Doe", "john@x.com", "", "salt", "hash", "", SourceCSV, time.Now())
	mock.ExpectQuery(q).WithArgs("john@x.com").WillReturnRows(rows)

	got, err := repo.GetByLogin(context.Background(), "john@x.com")
	if err != nil {
		t.Fatalf("GetByLogin error: %v", err)
	}
	if got.ID != "u-1" || got.Login != "john@x.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if got.Meta["source"] != SourceCSV {
		t.Fatalf("source not restored into meta: %+v", got.Meta)
	}
}

func TestPostgresGetByLogin_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*login,`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByLogin(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestPostgresDeleteAll(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+users\s*$`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.DeleteAll(context.Background()); err != nil {
		t.Fatalf("DeleteAll error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
