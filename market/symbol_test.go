package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpiryCode(t *testing.T) {
	t.Parallel()

	d := time.Date(2025, 5, 22, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, "220525", ExpiryCode(d))
}

func TestOptionSymbol(t *testing.T) {
	t.Parallel()

	expiry := time.Date(2025, 5, 22, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "C-BTC-100000-220525", OptionSymbol(KindCall, "BTC", 100000, expiry))
	assert.Equal(t, "P-BTC-98000-220525", OptionSymbol(KindPut, "BTC", 98000, expiry))
}

func TestParseOptionSymbol(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sym        string
		wantOk     bool
		wantKind   OptionKind
		wantUnder  string
		wantStrike float64
		wantExpiry string
	}{
		{
			name:       "call",
			sym:        "C-BTC-100000-220525",
			wantOk:     true,
			wantKind:   KindCall,
			wantUnder:  "BTC",
			wantStrike: 100000,
			wantExpiry: "220525",
		},
		{
			name:       "put",
			sym:        "P-BTC-95000-250525",
			wantOk:     true,
			wantKind:   KindPut,
			wantUnder:  "BTC",
			wantStrike: 95000,
			wantExpiry: "250525",
		},
		{
			name:   "futures symbol",
			sym:    "BTCUSDT",
			wantOk: false,
		},
		{
			name:   "bad side",
			sym:    "X-BTC-100000-220525",
			wantOk: false,
		},
		{
			name:   "bad strike",
			sym:    "C-BTC-abc-220525",
			wantOk: false,
		},
		{
			name:   "bad expiry",
			sym:    "C-BTC-100000-999999",
			wantOk: false,
		},
		{
			name:   "short expiry",
			sym:    "C-BTC-100000-2205",
			wantOk: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			kind, under, strike, expiry, ok := ParseOptionSymbol(tt.sym)
			assert.Equal(t, tt.wantOk, ok)
			if !tt.wantOk {
				return
			}
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantUnder, under)
			assert.Equal(t, tt.wantStrike, strike)
			assert.Equal(t, tt.wantExpiry, expiry)
		})
	}
}

func TestTickHelpers(t *testing.T) {
	t.Parallel()

	opt := Tick{
		Time:   time.Date(2025, 5, 19, 13, 5, 0, 0, time.UTC),
		Symbol: "C-BTC-100000-220525",
		Price:  50,
		Kind:   KindCall,
		Strike: 100000,
	}
	fut := Tick{
		Time:   time.Date(2025, 5, 19, 13, 0, 0, 0, time.UTC),
		Symbol: "BTCUSDT",
		Price:  100000,
	}

	assert.True(t, opt.IsOption())
	assert.False(t, fut.IsOption())
	assert.Equal(t, "2025-05-19", fut.Date())
}
