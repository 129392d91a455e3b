package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirection(t *testing.T) {
	tests := []struct {
		name         string
		payer        int
		creator      int
		participant  int
		wantCreditor int
		wantDebtor   int
		wantOK       bool
	}{
		{"creator paid, participant owes creator", 1, 1, 2, 1, 2, true},
		{"participant paid, creator owes participant", 2, 1, 2, 2, 1, true},
		{"third party paid, participant owes payer", 3, 1, 2, 3, 2, true},
		{"creator paid and participant is creator", 1, 1, 1, 0, 0, false},
		{"third party paid and participant is payer", 3, 1, 3, 3, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creditor, debtor, ok := Direction(tt.payer, tt.creator, tt.participant)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCreditor, creditor)
			assert.Equal(t, tt.wantDebtor, debtor)
		})
	}
}

func TestDirectionNeverProducesSelfDebt(t *testing.T) {
	for payer := 1; payer <= 3; payer++ {
		for creator := 1; creator <= 3; creator++ {
			for participant := 1; participant <= 3; participant++ {
				creditor, debtor, ok := Direction(payer, creator, participant)
				if ok {
					assert.NotEqual(t, creditor, debtor,
						"payer=%d creator=%d participant=%d", payer, creator, participant)
				}
			}
		}
	}
}
