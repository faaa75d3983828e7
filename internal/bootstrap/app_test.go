package bootstrap

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flxzt/pxtogether/internal/domain"
	"github.com/flxzt/pxtogether/internal/editor"
	"github.com/flxzt/pxtogether/internal/service"
)

func baseConfig() *Config {
	return &Config{
		AppEnv:        "development",
		LogLevel:      "error",
		GridRows:      4,
		GridColumns:   4,
		CellSize:      10,
		StoreBackend:  BackendFile,
		KeyPrefix:     "px:",
		PruneSchedule: "@every 1h",
	}
}

func drawAndSave(t *testing.T, app *App, name string) {
	t.Helper()
	msgs := []service.Message{
		service.SetBrushMsg{Color: domain.PixelColor{R: 1, A: 1}},
		service.PointerMsg{Event: editor.PointerEvent{Kind: editor.PointerDown, Button: editor.ButtonPrimary, Position: editor.Point{X: 15, Y: 25}}},
		service.PointerMsg{Event: editor.PointerEvent{Kind: editor.PointerUp, Button: editor.ButtonPrimary, Position: editor.Point{X: 15, Y: 25}}},
		service.SaveFileMsg{Name: name},
	}
	for _, m := range msgs {
		require.NoError(t, app.Loop.Send(m))
	}
	require.NoError(t, app.Loop.Drain())
}

func TestApp_FileBackendRoundTrip(t *testing.T) {
	cfg := baseConfig()
	cfg.StoreDir = t.TempDir()

	app, err := NewApp(cfg)
	require.NoError(t, err)
	app.Start()
	defer app.Shutdown()

	drawAndSave(t, app, "art.json")

	data, err := app.Store.Open(context.Background(), "art.json")
	require.NoError(t, err)
	grid, err := domain.DecodeGrid(data)
	require.NoError(t, err)
	assert.Equal(t, domain.PixelColor{R: 1, A: 1}, grid.At(1, 2).Color)
}

func TestApp_RedisBackendRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := baseConfig()
	cfg.StoreBackend = BackendRedis
	cfg.RedisAddr = mr.Addr()

	app, err := NewApp(cfg)
	require.NoError(t, err)
	app.Start()
	defer app.Shutdown()

	drawAndSave(t, app, "art.json")

	assert.True(t, mr.Exists("px:grid:art.json"))
	names, err := app.Store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"art.json"}, names)

	require.NoError(t, app.Loop.Send(service.ClearMsg{}))
	require.NoError(t, app.Loop.Send(service.OpenFileMsg{Name: "art.json"}))
	require.NoError(t, app.Loop.Drain())
	var pixel domain.Pixel
	var pixelErr error
	require.NoError(t, app.Loop.Inspect(func() {
		pixel, pixelErr = app.Service.State().Pixel(1, 2)
	}))
	require.NoError(t, pixelErr)
	assert.Equal(t, domain.PixelColor{R: 1, A: 1}, pixel.Color)
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.StoreBackend = "s3"
	_, err := NewApp(cfg)
	assert.Error(t, err)
}
