package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BacBoScanner/internal/ports"
)

type fakeRenderer struct {
	main         ports.Rendering
	frames       []ports.Rendering
	shot         []byte
	afterRefresh *ports.Rendering
	refreshes    int
	screenshots  int
}

func (f *fakeRenderer) Render(context.Context) (ports.Rendering, error) {
	if f.refreshes > 0 && f.afterRefresh != nil {
		return *f.afterRefresh, nil
	}
	return f.main, nil
}

func (f *fakeRenderer) Frames(context.Context) ([]ports.Rendering, error) {
	return f.frames, nil
}

func (f *fakeRenderer) Screenshot(context.Context) ([]byte, error) {
	f.screenshots++
	return f.shot, nil
}

func (f *fakeRenderer) Refresh(context.Context) error {
	f.refreshes++
	return nil
}

var _ ports.PageRenderer = (*fakeRenderer)(nil)

func TestExtractReadsStructuredElements(t *testing.T) {
	renderer := &fakeRenderer{main: ports.Rendering{
		Elements: []string{"PLAYER 70%", "TIE 5%", "BANKER 25%"},
		Context:  "main",
	}}
	e := New(renderer, nil, DefaultParams(), discardLogger())

	reading, err := e.Extract(context.Background())
	require.NoError(t, err)
	require.NotNil(t, reading)
	assert.Equal(t, 70.0, reading.PlayerPercent)
	assert.Equal(t, 25.0, reading.BankerPercent)
	assert.Equal(t, 5.0, reading.TiePercent)
	assert.True(t, reading.PlayerWinning)
	assert.False(t, reading.Derived)
	assert.False(t, reading.Timestamp.IsZero())
}

func TestExtractIsRepeatable(t *testing.T) {
	renderer := &fakeRenderer{main: ports.Rendering{
		Elements: []string{"PLAYER 70% TIE 5% BANKER 25%"},
		Context:  "main",
	}}
	e := New(renderer, nil, DefaultParams(), discardLogger())

	first, err := e.Extract(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first)
	second, err := e.Extract(context.Background())
	require.NoError(t, err)
	require.NotNil(t, second)

	first.Timestamp = second.Timestamp
	assert.Equal(t, first, second)
}

func TestExtractNeverFabricatesFromLoneValue(t *testing.T) {
	renderer := &fakeRenderer{main: ports.Rendering{
		Elements: []string{"PLAYER 55%"},
		Context:  "main",
	}}
	e := New(renderer, nil, DefaultParams(), discardLogger())

	reading, err := e.Extract(context.Background())
	require.NoError(t, err)
	assert.Nil(t, reading)
	assert.Equal(t, 1, renderer.refreshes)
}

func TestExtractPrefersScreenshotPipeline(t *testing.T) {
	renderer := &fakeRenderer{
		main: ports.Rendering{
			Elements: []string{"JOGADOR 10%", "BANCA 10%", "EMPATE 10%"},
			Context:  "main",
		},
		shot: []byte{1, 2, 3},
	}
	rec := &fakeRecognizer{available: true, transcript: "PLAYER 70%\nTIE 5%\nBANKER 25%"}
	e := New(renderer, rec, DefaultParams(), discardLogger())

	reading, err := e.Extract(context.Background())
	require.NoError(t, err)
	require.NotNil(t, reading)
	assert.Equal(t, 70.0, reading.PlayerPercent)
	assert.Equal(t, 25.0, reading.BankerPercent)
	assert.Equal(t, 1, renderer.screenshots)
	assert.Equal(t, 1, rec.calls)
}

func TestExtractEstimatesFromScreenshotAlone(t *testing.T) {
	params := DefaultParams()
	params.RefreshRetry = false
	renderer := &fakeRenderer{shot: []byte{1}}
	rec := &fakeRecognizer{available: true, transcript: "PLAYER 55%"}
	e := New(renderer, rec, params, discardLogger())

	reading, err := e.Extract(context.Background())
	require.NoError(t, err)
	require.NotNil(t, reading)
	assert.Equal(t, 55.0, reading.PlayerPercent)
	assert.Equal(t, 27.0, reading.BankerPercent)
	assert.Equal(t, 18.0, reading.TiePercent)
	assert.True(t, reading.PlayerWinning)
}

func TestExtractNoEstimateFromPageEvidence(t *testing.T) {
	// A garbled transcript leaves the screenshot pipeline empty-handed; a
	// lone player value sitting in the page must not reach the estimation
	// tier through it.
	params := DefaultParams()
	params.RefreshRetry = false
	renderer := &fakeRenderer{
		main: ports.Rendering{Elements: []string{"PLAYER 55%"}, Context: "main"},
		shot: []byte{1},
	}
	rec := &fakeRecognizer{available: true, transcript: "garbled noise no numbers"}
	e := New(renderer, rec, params, discardLogger())

	reading, err := e.Extract(context.Background())
	require.NoError(t, err)
	assert.Nil(t, reading)
	assert.Equal(t, 1, rec.calls)
}

func TestExtractFramesCompleteMainEvidence(t *testing.T) {
	params := DefaultParams()
	params.RefreshRetry = false
	renderer := &fakeRenderer{
		main: ports.Rendering{Elements: []string{"PLAYER 70%"}, Context: "main"},
		frames: []ports.Rendering{
			{Elements: []string{"BANKER 22%"}, Context: "iframe-0"},
		},
	}
	e := New(renderer, nil, params, discardLogger())

	reading, err := e.Extract(context.Background())
	require.NoError(t, err)
	require.NotNil(t, reading)
	assert.Equal(t, 70.0, reading.PlayerPercent)
	assert.Equal(t, 22.0, reading.BankerPercent)
	assert.Equal(t, 8.0, reading.TiePercent)
	assert.True(t, reading.Derived)
}

func TestExtractRefreshRecoversBlankPage(t *testing.T) {
	renderer := &fakeRenderer{
		main: ports.Rendering{Context: "main"},
		afterRefresh: &ports.Rendering{
			Elements: []string{"PLAYER 44%", "BANKER 44%", "TIE 12%"},
			Context:  "main",
		},
	}
	e := New(renderer, nil, DefaultParams(), discardLogger())

	reading, err := e.Extract(context.Background())
	require.NoError(t, err)
	require.NotNil(t, reading)
	assert.Equal(t, 1, renderer.refreshes)
	assert.Equal(t, 44.0, reading.PlayerPercent)
}

func TestExtractHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(&fakeRenderer{}, nil, DefaultParams(), discardLogger())
	reading, err := e.Extract(ctx)
	assert.Error(t, err)
	assert.Nil(t, reading)
}

func TestTextUnitsFlattensRendering(t *testing.T) {
	units := textUnits(ports.Rendering{
		Elements: []string{"PLAYER 70%"},
		Text:     "line one\n\nline two",
	})
	assert.Equal(t, []string{"PLAYER 70%", "line one", "line two"}, units)
}
