package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cattery/internal/logger"
	"cattery/internal/models"
	"cattery/internal/testutil"
)

func init() {
	logger.Init("test")
}

func TestRun(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	require.NoError(t, Run(db, bcrypt.MinCost))

	var admin models.User
	require.NoError(t, db.Where("username = ?", AdminUsername).First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(AdminPassword)))

	var luna, simba, milo models.Cat
	require.NoError(t, db.Where("name = ?", "Luna").First(&luna).Error)
	require.NoError(t, db.Where("name = ?", "Simba").First(&simba).Error)
	require.NoError(t, db.Where("name = ?", "Milo").First(&milo).Error)

	assert.Equal(t, models.CatTypeBreeder, luna.Type)
	require.NotNil(t, luna.SireName)
	assert.Equal(t, "Ch. Silver Moon", *luna.SireName)
	assert.Nil(t, luna.FatherID)

	assert.Equal(t, models.CatTypeKitten, milo.Type)
	require.NotNil(t, milo.FatherID)
	require.NotNil(t, milo.MotherID)
	assert.Equal(t, simba.ID, *milo.FatherID)
	assert.Equal(t, luna.ID, *milo.MotherID)
	assert.Nil(t, milo.SireName)
}

func TestRun_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	require.NoError(t, Run(db, bcrypt.MinCost))
	require.NoError(t, Run(db, bcrypt.MinCost))

	var users, cats int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Cat{}).Count(&cats)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, len(breeders)+len(kittens), cats)
}
