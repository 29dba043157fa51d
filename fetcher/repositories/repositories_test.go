package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNewAccountRepository(t *testing.T) {
	repository, err := NewAccountRepository(&gorm.DB{})
	assert.NoError(t, err)
	assert.NotNil(t, repository)
}

func TestNewAccountRepositoryNilDb(t *testing.T) {
	repository, err := NewAccountRepository(nil)
	assert.Error(t, err)
	assert.Nil(t, repository)
}

func TestNewGameRepository(t *testing.T) {
	repository, err := NewGameRepository(&gorm.DB{})
	assert.NoError(t, err)
	assert.NotNil(t, repository)
}

func TestNewGameRepositoryNilDb(t *testing.T) {
	repository, err := NewGameRepository(nil)
	assert.Error(t, err)
	assert.Nil(t, repository)
}
