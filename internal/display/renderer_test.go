package display

import (
	"testing"

	"github.com/haivt/luckydraw-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderIdleShowsPlaceholder(t *testing.T) {
	state := Render(&models.DrawSettings{CurrentPrize: "Voucher"})

	assert.Equal(t, models.DrawStateIdle, state.Phase)
	assert.Equal(t, PlaceholderCode, state.Code)
	assert.Equal(t, "Voucher", state.Prize)
	assert.False(t, state.ShowOverlay)
}

func TestRenderSpinningShowsCosmeticFrame(t *testing.T) {
	state := Render(&models.DrawSettings{IsSpinning: true})

	assert.Equal(t, models.DrawStateSpinning, state.Phase)
	require.Len(t, state.Code, 6)
	for _, c := range state.Code {
		assert.True(t, c >= '0' && c <= '9')
	}
	assert.False(t, state.ShowOverlay)
}

func TestRenderResultShowsExactWinningCode(t *testing.T) {
	state := Render(&models.DrawSettings{
		ShowResult:  true,
		WinningCode: "482913",
		WinningName: "Lan",
	})

	assert.Equal(t, models.DrawStateResultShown, state.Phase)
	assert.Equal(t, "482913", state.Code)
	assert.Equal(t, "Lan", state.WinnerName)
	assert.True(t, state.ShowOverlay)
}

func TestRenderResultWithoutWinnerHidesOverlay(t *testing.T) {
	state := Render(&models.DrawSettings{ShowResult: true})
	assert.False(t, state.ShowOverlay)
}

func TestSpinFrameIsSixDigits(t *testing.T) {
	for i := 0; i < 200; i++ {
		frame := SpinFrame()
		require.Len(t, frame, 6)
		for _, c := range frame {
			require.True(t, c >= '0' && c <= '9')
		}
	}
}
