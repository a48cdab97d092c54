package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
)

func TestInsertErrorMapsUniqueViolation(t *testing.T) {
	err := insertError(fmt.Errorf("create fasting_records: %w", gorm.ErrDuplicatedKey), apperrors.ErrFastAlreadyActive)
	assert.ErrorIs(t, err, apperrors.ErrFastAlreadyActive)
	assert.False(t, apperrors.IsType(err, apperrors.ErrorTypeDatabase))

	err = insertError(errors.New("connection reset"), apperrors.ErrFastAlreadyActive)
	assert.ErrorIs(t, err, apperrors.ErrDatabaseError)
	assert.NotErrorIs(t, err, apperrors.ErrFastAlreadyActive)
}
