package repositories

import (
	"context"
	"testing"
	"time"

	"escalas/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type MinistryRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     MinistryRepository
	ctx      context.Context
	churchID uuid.UUID
}

func (suite *MinistryRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	suite.Require().NoError(err)
	suite.mock = mock
	suite.repo = NewMinistryRepo(mock)
	suite.ctx = context.Background()
	suite.churchID = uuid.New()
}

func (suite *MinistryRepoTestSuite) TearDownTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func (suite *MinistryRepoTestSuite) TestCreate() {
	ministry := &models.Ministry{
		ID:          uuid.New(),
		ChurchID:    suite.churchID,
		Name:        "Louvor",
		Description: stringPtr("Equipe de música"),
	}

	suite.mock.ExpectExec(`INSERT INTO ministries \(id, church_id, name, description, created_at, updated_at\)`).
		WithArgs(ministry.ID, ministry.ChurchID, ministry.Name, ministry.Description).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.ctx, ministry)
	assert.NoError(suite.T(), err)
}

func (suite *MinistryRepoTestSuite) TestGetByID() {
	ministryID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "church_id", "name", "description", "created_at", "updated_at"}).
		AddRow(ministryID, suite.churchID, "Louvor", stringPtr("Equipe de música"), now, now)

	suite.mock.ExpectQuery(`SELECT id, church_id, name, description, created_at, updated_at\s+FROM ministries\s+WHERE church_id = \$1 AND id = \$2`).
		WithArgs(suite.churchID, ministryID).
		WillReturnRows(rows)

	ministry, err := suite.repo.GetByID(suite.ctx, suite.churchID, ministryID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), ministryID, ministry.ID)
	assert.Equal(suite.T(), "Louvor", ministry.Name)
}

// Lookups are scoped by church, so a ministry from another tenant is
// indistinguishable from a missing one.
func (suite *MinistryRepoTestSuite) TestGetByID_WrongChurch() {
	ministryID := uuid.New()

	suite.mock.ExpectQuery(`SELECT id, church_id, name, description, created_at, updated_at\s+FROM ministries\s+WHERE church_id = \$1 AND id = \$2`).
		WithArgs(suite.churchID, ministryID).
		WillReturnError(pgx.ErrNoRows)

	ministry, err := suite.repo.GetByID(suite.ctx, suite.churchID, ministryID)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), ministry)
}

func (suite *MinistryRepoTestSuite) TestUpdate() {
	ministry := &models.Ministry{
		ID:       uuid.New(),
		ChurchID: suite.churchID,
		Name:     "Mídia",
	}

	suite.mock.ExpectExec(`UPDATE ministries\s+SET name = \$1, description = \$2, updated_at = NOW\(\)\s+WHERE church_id = \$3 AND id = \$4`).
		WithArgs(ministry.Name, ministry.Description, ministry.ChurchID, ministry.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Update(suite.ctx, ministry)
	assert.NoError(suite.T(), err)
}

func (suite *MinistryRepoTestSuite) TestDelete() {
	ministryID := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM ministries WHERE church_id = \$1 AND id = \$2`).
		WithArgs(suite.churchID, ministryID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.ctx, suite.churchID, ministryID)
	assert.NoError(suite.T(), err)
}

func (suite *MinistryRepoTestSuite) TestList() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "church_id", "name", "description", "created_at", "updated_at"}).
		AddRow(uuid.New(), suite.churchID, "Louvor", (*string)(nil), now, now).
		AddRow(uuid.New(), suite.churchID, "Recepção", (*string)(nil), now, now)

	suite.mock.ExpectQuery(`SELECT id, church_id, name, description, created_at, updated_at\s+FROM ministries\s+WHERE church_id = \$1\s+ORDER BY name ASC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs(suite.churchID, 50, 0).
		WillReturnRows(rows)

	ministries, err := suite.repo.List(suite.ctx, suite.churchID, 50, 0)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), ministries, 2)
}

func (suite *MinistryRepoTestSuite) TestCount() {
	rows := pgxmock.NewRows([]string{"count"}).AddRow(3)

	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM ministries WHERE church_id = \$1`).
		WithArgs(suite.churchID).
		WillReturnRows(rows)

	count, err := suite.repo.Count(suite.ctx, suite.churchID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, count)
}

func TestMinistryRepoTestSuite(t *testing.T) {
	suite.Run(t, new(MinistryRepoTestSuite))
}

func stringPtr(s string) *string {
	return &s
}
