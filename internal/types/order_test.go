package types

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-futures/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestPendingOrderValidate(t *testing.T) {
	valid := PendingOrder{
		ID:           uuid.New().String(),
		Side:         SideBuy,
		Quantity:     1,
		CreatedAtBar: 3,
		CreatedAt:    time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
		Status:       OrderStatusPending,
		Reason:       Reason{Reason: OrderReasonEntryLong},
	}
	assert.NoError(t, valid.Validate())

	badSide := valid
	badSide.Side = Side("HOLD")
	err := badSide.Validate()
	assert.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidOrder))

	badID := valid
	badID.ID = "not-a-uuid"
	assert.Error(t, badID.Validate())

	noReason := valid
	noReason.Reason = Reason{}
	assert.Error(t, noReason.Validate())
}

func TestPositionDirection(t *testing.T) {
	assert.True(t, Position{}.IsFlat())
	assert.True(t, Position{Size: 2}.IsLong())
	assert.True(t, Position{Size: -1}.IsShort())
	assert.Equal(t, PositionTypeShort, Position{Size: -1}.Type())
	assert.Equal(t, PositionTypeLong, Position{Size: 1}.Type())
}
