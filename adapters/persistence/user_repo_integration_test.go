package persistence

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/davitran/profile-hub/internal/domain/user"
	"github.com/davitran/profile-hub/pkg/logger"
)

type UserRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	userRepo    user.Repository
}

func (s *UserRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to connect to test database: %s", err)
	}
	s.dbPool = pool

	schema, err := os.ReadFile("../../scripts/schema.sql")
	if err != nil {
		s.T().Fatalf("Failed to read schema: %s", err)
	}
	// pgx's extended protocol takes one statement per Exec.
	for _, stmt := range strings.Split(string(schema), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			s.T().Fatalf("Failed to apply schema statement: %s", err)
		}
	}

	s.userRepo = NewPostgresUserRepo(pool, logger.NewNop())
}

func (s *UserRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		s.pgContainer.Terminate(context.Background())
	}
}

func TestUserRepoIntegration(t *testing.T) {
	if os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration tests. Set INTEGRATION_TESTS=1 to run.")
	}
	suite.Run(t, new(UserRepoIntegrationTestSuite))
}

func newTestUser(email string) *user.User {
	return &user.User{
		ID:           uuid.New(),
		Name:         "Ann",
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Address:      "1 Main St",
	}
}

func (s *UserRepoIntegrationTestSuite) Test_CreateAndFind() {
	ctx := context.Background()
	u := newTestUser("create@x.com")

	err := s.userRepo.Create(ctx, u)
	s.Require().NoError(err)
	s.Require().False(u.CreatedAt.IsZero())

	byEmail, err := s.userRepo.FindByEmail(ctx, "create@x.com")
	s.Require().NoError(err)
	s.Equal(u.ID, byEmail.ID)
	s.Equal("Ann", byEmail.Name)

	byID, err := s.userRepo.FindByID(ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("create@x.com", byID.Email)
}

func (s *UserRepoIntegrationTestSuite) Test_Create_DuplicateEmail() {
	ctx := context.Background()

	s.Require().NoError(s.userRepo.Create(ctx, newTestUser("dup@x.com")))
	err := s.userRepo.Create(ctx, newTestUser("dup@x.com"))
	s.ErrorIs(err, user.ErrEmailTaken)
}

func (s *UserRepoIntegrationTestSuite) Test_Find_Unknown() {
	ctx := context.Background()

	_, err := s.userRepo.FindByEmail(ctx, "missing@x.com")
	s.ErrorIs(err, user.ErrUserNotFound)

	_, err = s.userRepo.FindByID(ctx, uuid.New())
	s.ErrorIs(err, user.ErrUserNotFound)
}

func (s *UserRepoIntegrationTestSuite) Test_PartialUpdate() {
	ctx := context.Background()
	u := newTestUser("update@x.com")
	u.Bio = "original bio"
	s.Require().NoError(s.userRepo.Create(ctx, u))

	bio := ""
	updated, err := s.userRepo.Update(ctx, u.ID, user.UpdateFields{Bio: &bio})
	s.Require().NoError(err)

	// Bio cleared, everything else untouched.
	s.Empty(updated.Bio)
	s.Equal("Ann", updated.Name)
	s.Equal("1 Main St", updated.Address)
	s.True(updated.UpdatedAt.After(u.UpdatedAt) || updated.UpdatedAt.Equal(u.UpdatedAt))

	name := "Annette"
	updated, err = s.userRepo.Update(ctx, u.ID, user.UpdateFields{Name: &name})
	s.Require().NoError(err)
	s.Equal("Annette", updated.Name)
	s.Empty(updated.Bio)
}
